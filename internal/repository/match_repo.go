package repository

import (
	"context"
	"errors"
	"time"

	"huellitas/internal/matching"
	"huellitas/internal/models"

	"gorm.io/gorm"
)

// MatchRepository is the gorm-backed implementation of matching.Repository.
// Pair uniqueness is enforced by the unique index on pair_key; respond
// serialization by the conditional update on updated_at.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func toEngineMatch(rec *models.PetMatch) *matching.Match {
	return &matching.Match{
		ID:        rec.ID,
		ActorA:    rec.PetA,
		ActorB:    rec.PetB,
		StatusA:   matching.Status(rec.StatusA),
		StatusB:   matching.Status(rec.StatusB),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func (r *MatchRepository) CreateMatch(ctx context.Context, actorA, actorB uint) (*matching.Match, error) {
	rec := &models.PetMatch{
		PetA:    actorA,
		PetB:    actorB,
		PairKey: models.MatchPairKey(actorA, actorB),
		StatusA: string(matching.StatusAccepted),
		StatusB: string(matching.StatusPending),
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, matching.ErrDuplicatePair
		}
		return nil, err
	}
	return toEngineMatch(rec), nil
}

func (r *MatchRepository) GetMatch(ctx context.Context, matchID uint) (*matching.Match, error) {
	var rec models.PetMatch
	if err := r.db.WithContext(ctx).First(&rec, matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, matching.ErrNotFound
		}
		return nil, err
	}
	return toEngineMatch(&rec), nil
}

func (r *MatchRepository) GetMatchesForActor(ctx context.Context, actorID uint) ([]matching.Match, error) {
	var recs []models.PetMatch
	err := r.db.WithContext(ctx).
		Where("pet_a = ? OR pet_b = ?", actorID, actorID).
		Order("updated_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]matching.Match, len(recs))
	for i := range recs {
		out[i] = *toEngineMatch(&recs[i])
	}
	return out, nil
}

// UpdateMatchStatus applies the status change only if updated_at still
// equals the caller's token. Zero rows affected means either the match is
// gone or another respond committed first; a re-read tells the two apart.
func (r *MatchRepository) UpdateMatchStatus(ctx context.Context, matchID uint, side matching.Side, status matching.Status, expectedUpdatedAt time.Time) (*matching.Match, error) {
	column := "status_a"
	if side == matching.SideB {
		column = "status_b"
	}
	res := r.db.WithContext(ctx).Model(&models.PetMatch{}).
		Where("id = ? AND updated_at = ?", matchID, expectedUpdatedAt).
		Update(column, string(status))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetMatch(ctx, matchID); err != nil {
			return nil, err
		}
		return nil, matching.ErrStaleWrite
	}
	return r.GetMatch(ctx, matchID)
}
