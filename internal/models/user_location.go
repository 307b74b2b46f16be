package models

import (
	"time"
)

// UserLocation assigns a user to a location for a date range. An open-ended
// assignment has a nil EndDate. At most one primary assignment per user may
// be active over any date range; creating a new primary closes overlapping
// ones. The (user, location, is_primary) unique constraint is the store-level
// backstop when that check loses a race.
type UserLocation struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	UserID     uint `gorm:"not null;index;uniqueIndex:uq_user_location_primary" json:"user_id"`
	LocationID uint `gorm:"not null;index;uniqueIndex:uq_user_location_primary" json:"location_id"`

	User     *User     `json:"user,omitempty"`
	Location *Location `json:"location,omitempty"`

	IsPrimary  bool    `gorm:"not null;default:true;uniqueIndex:uq_user_location_primary" json:"is_primary"`
	Position   *string `gorm:"size:100" json:"position,omitempty"`
	Department *string `gorm:"size:100" json:"department,omitempty"`

	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`

	Notes *string `gorm:"size:255" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveAt reports whether the assignment is still active at the reference
// date: no end date, or an end date on or after it.
func (ul *UserLocation) ActiveAt(ref time.Time) bool {
	return ul.EndDate == nil || !ul.EndDate.Before(ref)
}
