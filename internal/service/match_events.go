package service

import (
	"context"
	"log"

	"huellitas/internal/matching"
	"huellitas/internal/repository"
	"huellitas/internal/ws"
)

// MatchEventService is the engine's notification sink. The engine calls it
// exactly once per confirmed match; this fans the event out to both owners
// as a stored notification, an FCM push and a realtime WebSocket event.
type MatchEventService struct {
	pets  *repository.PetRepository
	notif *NotificationService
	hub   *ws.Hub
}

func NewMatchEventService(pets *repository.PetRepository, notif *NotificationService, hub *ws.Hub) *MatchEventService {
	return &MatchEventService{pets: pets, notif: notif, hub: hub}
}

func (s *MatchEventService) MatchConfirmed(ctx context.Context, ev matching.ConfirmedEvent) {
	petA, errA := s.pets.GetByID(ev.ActorA)
	petB, errB := s.pets.GetByID(ev.ActorB)
	if errA != nil || errB != nil {
		log.Printf("[MATCH] confirmed event for match %d: could not load pets: %v %v", ev.MatchID, errA, errB)
		return
	}
	if err := s.notif.NotifyMatchConfirmed(petA.OwnerID, ev.MatchID, petB.Name); err != nil {
		log.Printf("[MATCH] notify owner %d: %v", petA.OwnerID, err)
	}
	if err := s.notif.NotifyMatchConfirmed(petB.OwnerID, ev.MatchID, petA.Name); err != nil {
		log.Printf("[MATCH] notify owner %d: %v", petB.OwnerID, err)
	}
	if s.hub != nil {
		payload := map[string]interface{}{
			"type":        "match_confirmed",
			"match_id":    ev.MatchID,
			"pet_a":       ev.ActorA,
			"pet_b":       ev.ActorB,
			"occurred_at": ev.OccurredAt,
		}
		s.hub.BroadcastToUser(petA.OwnerID, payload)
		s.hub.BroadcastToUser(petB.OwnerID, payload)
	}
}
