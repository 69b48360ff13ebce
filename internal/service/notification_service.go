package service

import (
	"context"
	"encoding/json"

	"huellitas/internal/domain"
	"huellitas/internal/models"
	"huellitas/internal/repository"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	// Push via FCM
	s.sendPush(userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	_ = s.fcm.SendToUser(context.Background(), u.FCMToken, notifType, title, body, data)
}

// NotifyMatchProposed tells a pet's owner that another pet wants to match.
func (s *NotificationService) NotifyMatchProposed(ownerID uint, matchID uint, proposerPetName, ownPetName string) error {
	return s.Notify(ownerID, domain.NotifMatchProposed, "New match request",
		proposerPetName+" wants to match with "+ownPetName,
		map[string]interface{}{"match_id": matchID})
}

// NotifyMatchConfirmed tells a pet's owner that a match became mutual.
func (s *NotificationService) NotifyMatchConfirmed(ownerID uint, matchID uint, counterpartPetName string) error {
	return s.Notify(ownerID, domain.NotifMatchConfirmed, "It's a match!",
		"You matched with "+counterpartPetName,
		map[string]interface{}{"match_id": matchID})
}
