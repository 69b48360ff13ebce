package models

import (
	"time"

	"gorm.io/gorm"
)

type Pet struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OwnerID      uint           `gorm:"not null;index" json:"owner_id"`
	Name         string         `gorm:"size:64;not null" json:"name"`
	Species      string         `gorm:"size:20;not null;index" json:"species"` // DOG, CAT, OTHER
	Breed        string         `gorm:"size:64" json:"breed"`
	Sex          string         `gorm:"size:10" json:"sex"` // MALE, FEMALE
	BirthDate    *time.Time     `json:"birth_date"`
	Bio          string         `gorm:"type:text" json:"bio"`
	PhotoURL     string         `gorm:"size:512" json:"photo_url"`
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`
	Matchable    bool           `gorm:"default:true;index" json:"matchable"` // appears in discover feeds
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Pet) TableName() string {
	return "pets"
}

// AgeYears returns the pet's age in whole years (0 when birth date unset).
func (p *Pet) AgeYears(t time.Time) int {
	if p.BirthDate == nil {
		return 0
	}
	age := t.Year() - p.BirthDate.Year()
	if t.YearDay() < p.BirthDate.YearDay() {
		age--
	}
	return age
}
