package models

import (
	"time"

	"gorm.io/gorm"
)

// HelpPost is one entry on the community help board: a lost pet, a found
// pet, or an adoption offer. Posts are resolved, not deleted, when the
// animal is recovered or placed.
type HelpPost struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Type         string         `gorm:"size:20;not null;index" json:"type"` // LOST, FOUND, ADOPTION
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Species      string         `gorm:"size:20;index" json:"species"`
	City         string         `gorm:"size:128;index" json:"city"`
	ContactPhone string         `gorm:"size:32" json:"contact_phone"`
	PhotoURL     string         `gorm:"size:512" json:"photo_url"`
	ResolvedAt   *time.Time     `json:"resolved_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (HelpPost) TableName() string {
	return "help_posts"
}

func (p *HelpPost) IsResolved() bool { return p.ResolvedAt != nil }
