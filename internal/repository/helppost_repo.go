package repository

import (
	"time"

	"huellitas/internal/models"

	"gorm.io/gorm"
)

// HelpPostFilters narrows the help board listing.
type HelpPostFilters struct {
	Type            string // LOST, FOUND, ADOPTION; empty = all
	Species         string
	City            string
	IncludeResolved bool
	Limit           int
	Offset          int
}

type HelpPostRepository struct {
	db *gorm.DB
}

func NewHelpPostRepository(db *gorm.DB) *HelpPostRepository {
	return &HelpPostRepository{db: db}
}

func (r *HelpPostRepository) Create(p *models.HelpPost) error {
	return r.db.Create(p).Error
}

func (r *HelpPostRepository) GetByID(id uint) (*models.HelpPost, error) {
	var p models.HelpPost
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *HelpPostRepository) List(f HelpPostFilters) ([]models.HelpPost, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	query := r.db.Model(&models.HelpPost{})
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Species != "" {
		query = query.Where("species = ?", f.Species)
	}
	if f.City != "" {
		query = query.Where("city = ?", f.City)
	}
	if !f.IncludeResolved {
		query = query.Where("resolved_at IS NULL")
	}
	var list []models.HelpPost
	err := query.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, err
}

func (r *HelpPostRepository) Update(p *models.HelpPost) error {
	return r.db.Save(p).Error
}

// Resolve marks the post as resolved. Only the author may resolve it.
func (r *HelpPostRepository) Resolve(id, userID uint) error {
	return r.db.Model(&models.HelpPost{}).
		Where("id = ? AND user_id = ? AND resolved_at IS NULL", id, userID).
		Update("resolved_at", time.Now()).Error
}

func (r *HelpPostRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.HelpPost{}).Error
}
