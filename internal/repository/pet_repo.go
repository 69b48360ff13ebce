package repository

import (
	"context"
	"errors"

	"huellitas/internal/matching"
	"huellitas/internal/models"

	"gorm.io/gorm"
)

type PetRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) *PetRepository {
	return &PetRepository{db: db}
}

func (r *PetRepository) Create(p *models.Pet) error {
	return r.db.Create(p).Error
}

func (r *PetRepository) GetByID(id uint) (*models.Pet, error) {
	var p models.Pet
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PetRepository) ListByOwnerID(ownerID uint) ([]models.Pet, error) {
	var list []models.Pet
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *PetRepository) GetByIDs(ids []uint) ([]models.Pet, error) {
	if len(ids) == 0 {
		return []models.Pet{}, nil
	}
	var list []models.Pet
	err := r.db.Where("id IN ?", ids).Find(&list).Error
	return list, err
}

// ListMatchable returns a page of pets flagged for the discover feed.
func (r *PetRepository) ListMatchable(limit, offset int) ([]models.Pet, error) {
	var list []models.Pet
	err := r.db.Where("matchable = ?", true).Order("id ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *PetRepository) Update(p *models.Pet) error {
	return r.db.Save(p).Error
}

func (r *PetRepository) Delete(id, ownerID uint) error {
	return r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Pet{}).Error
}

// PetActorSource adapts PetRepository to the match engine's ActorSource.
// DB reachability failures surface as ErrSourceUnavailable so the engine can
// distinguish "no candidates" from "could not determine candidates".
type PetActorSource struct {
	pets *PetRepository
}

func NewPetActorSource(pets *PetRepository) *PetActorSource {
	return &PetActorSource{pets: pets}
}

func (s *PetActorSource) GetActor(ctx context.Context, actorID uint) (*matching.Actor, error) {
	p, err := s.pets.GetByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, matching.ErrNotFound
		}
		return nil, matching.ErrSourceUnavailable
	}
	return &matching.Actor{ID: p.ID, OwnerID: p.OwnerID}, nil
}

func (s *PetActorSource) ListActors(ctx context.Context, limit, offset int) ([]matching.Actor, error) {
	page, err := s.pets.ListMatchable(limit, offset)
	if err != nil {
		return nil, matching.ErrSourceUnavailable
	}
	out := make([]matching.Actor, len(page))
	for i, p := range page {
		out[i] = matching.Actor{ID: p.ID, OwnerID: p.OwnerID}
	}
	return out, nil
}
