package models

import (
	"time"
)

// LocationType classifies a location within the organisation.
type LocationType string

const (
	LocationTypeHeadquarters LocationType = "headquarters"
	LocationTypeBranch       LocationType = "branch"
	LocationTypeOffice       LocationType = "office"
	LocationTypeWarehouse    LocationType = "warehouse"
	LocationTypeStore        LocationType = "store"
	LocationTypeOther        LocationType = "other"
)

// IsValidLocationType reports whether t is one of the enumerated types.
func IsValidLocationType(t LocationType) bool {
	switch t {
	case LocationTypeHeadquarters, LocationTypeBranch, LocationTypeOffice,
		LocationTypeWarehouse, LocationTypeStore, LocationTypeOther:
		return true
	}
	return false
}

// Location is a node in the organisational tree. ParentID forms a tree, not
// a DAG: exactly one parent, and the ancestor chain must stay acyclic.
type Location struct {
	ID   uint         `gorm:"primaryKey" json:"id"`
	Name string       `gorm:"size:100;not null;index" json:"name"`
	Code string       `gorm:"size:20;not null;uniqueIndex" json:"code"`
	Type LocationType `gorm:"size:20;not null;index:ix_locations_type_name" json:"type"`

	ParentID *uint      `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Location  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Location `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"children,omitempty"`

	PostalCode *string `gorm:"size:20" json:"postal_code,omitempty"`
	Prefecture *string `gorm:"size:50;index:ix_locations_address" json:"prefecture,omitempty"`
	City       *string `gorm:"size:100;index:ix_locations_address" json:"city,omitempty"`
	Address1   *string `gorm:"size:100" json:"address1,omitempty"`
	Address2   *string `gorm:"size:100" json:"address2,omitempty"`
	Phone      *string `gorm:"size:50" json:"phone,omitempty"`
	Fax        *string `gorm:"size:50" json:"fax,omitempty"`
	Email      *string `gorm:"size:100" json:"email,omitempty"`

	BusinessHours *string `gorm:"size:255" json:"business_hours,omitempty"`
	Description   *string `gorm:"type:text" json:"description,omitempty"`
	ManagerName   *string `gorm:"size:100" json:"manager_name,omitempty"`
	Capacity      *int    `json:"capacity,omitempty"`
	IsActive      bool    `gorm:"not null;default:true" json:"is_active"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	EstablishedDate *time.Time `json:"established_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Assignments at this location are owned by it.
	Users []UserLocation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
