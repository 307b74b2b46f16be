package dto

import (
	"time"

	"github.com/kyotenhq/kyoten-backend/internal/models"
)

type UserLocationCreate struct {
	UserID     uint       `json:"user_id"`
	LocationID uint       `json:"location_id"`
	IsPrimary  bool       `json:"is_primary"`
	Position   *string    `json:"position,omitempty"`
	Department *string    `json:"department,omitempty"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// UserLocationUpdate carries partial updates; nil fields are left unchanged.
type UserLocationUpdate struct {
	IsPrimary  *bool      `json:"is_primary,omitempty"`
	Position   *string    `json:"position,omitempty"`
	Department *string    `json:"department,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

type LocationUsersQuery struct {
	Page            int
	Size            int
	IncludeInactive bool
	Search          string
	IsPrimary       *bool
}

// Availability is the advisory result of an assignment pre-check. It never
// mutates state.
type Availability struct {
	Available        bool                  `json:"available"`
	Conflicts        []models.UserLocation `json:"conflicts"`
	PrimaryConflicts []models.UserLocation `json:"primary_conflicts"`
}
