package models

import (
	"time"
)

// Item is a plain owned record with no business invariants.
type Item struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"size:255;not null;index" json:"title"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	OwnerID     uint    `gorm:"not null;index" json:"owner_id"`
	Owner       *User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
