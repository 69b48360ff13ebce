package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PetMatch is one proposed or resolved pairing between two pets. PetA is
// the proposer. The record is never deleted: a rejected match stays on file
// so the pair is never re-offered in discovery.
type PetMatch struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PetA      uint           `gorm:"not null;index" json:"pet_a"`
	PetB      uint           `gorm:"not null;index" json:"pet_b"`
	PairKey   string         `gorm:"size:64;not null;uniqueIndex" json:"-"` // "min:max", one record per unordered pair
	StatusA   string         `gorm:"size:20;not null" json:"status_a"`      // ACCEPTED at creation (proposing is accepting)
	StatusB   string         `gorm:"size:20;not null;index" json:"status_b"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"` // optimistic-concurrency token for respond
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	A Pet `gorm:"foreignKey:PetA" json:"-"`
	B Pet `gorm:"foreignKey:PetB" json:"-"`
}

func (PetMatch) TableName() string {
	return "pet_matches"
}

// MatchPairKey returns the canonical unordered-pair key backing the unique
// index on pet_matches.
func MatchPairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
