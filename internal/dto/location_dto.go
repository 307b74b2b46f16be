package dto

import (
	"time"

	"github.com/kyotenhq/kyoten-backend/internal/models"
)

type LocationCreate struct {
	Name     string              `json:"name"`
	Code     string              `json:"code"`
	Type     models.LocationType `json:"type"`
	ParentID *uint               `json:"parent_id,omitempty"`

	PostalCode *string `json:"postal_code,omitempty"`
	Prefecture *string `json:"prefecture,omitempty"`
	City       *string `json:"city,omitempty"`
	Address1   *string `json:"address1,omitempty"`
	Address2   *string `json:"address2,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Fax        *string `json:"fax,omitempty"`
	Email      *string `json:"email,omitempty"`

	BusinessHours *string `json:"business_hours,omitempty"`
	Description   *string `json:"description,omitempty"`
	ManagerName   *string `json:"manager_name,omitempty"`
	Capacity      *int    `json:"capacity,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`

	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	EstablishedDate *time.Time `json:"established_date,omitempty"`
}

// LocationUpdate carries partial updates; nil fields are left unchanged.
type LocationUpdate struct {
	Name     *string              `json:"name,omitempty"`
	Code     *string              `json:"code,omitempty"`
	Type     *models.LocationType `json:"type,omitempty"`
	ParentID *uint                `json:"parent_id,omitempty"`

	PostalCode *string `json:"postal_code,omitempty"`
	Prefecture *string `json:"prefecture,omitempty"`
	City       *string `json:"city,omitempty"`
	Address1   *string `json:"address1,omitempty"`
	Address2   *string `json:"address2,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Fax        *string `json:"fax,omitempty"`
	Email      *string `json:"email,omitempty"`

	BusinessHours *string `json:"business_hours,omitempty"`
	Description   *string `json:"description,omitempty"`
	ManagerName   *string `json:"manager_name,omitempty"`
	Capacity      *int    `json:"capacity,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`

	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	EstablishedDate *time.Time `json:"established_date,omitempty"`
}

type LocationListQuery struct {
	Page       int
	Size       int
	Type       *models.LocationType
	ParentID   *uint
	IsActive   *bool
	Search     string
	Prefecture string
}
