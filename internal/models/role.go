package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role groups permissions under a name. System roles are seeded at startup
// and protected from normal CRUD.
type Role struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Description  *string        `gorm:"type:text" json:"description,omitempty"`
	Permissions  datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"permissions"`
	IsSystemRole bool           `gorm:"not null;default:false" json:"is_system_role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
