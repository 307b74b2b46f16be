package models

import (
	"time"
)

// User is a staff account. Role is a weak reference: deleting a role sets
// RoleID to null, it never cascades to users.
type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Email          string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword string  `gorm:"size:255;not null" json:"-"`
	FirstName      *string `gorm:"size:50" json:"first_name,omitempty"`
	LastName       *string `gorm:"size:50" json:"last_name,omitempty"`
	FullName       *string `gorm:"size:255" json:"full_name,omitempty"`

	IsActive    bool  `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser bool  `gorm:"not null;default:false" json:"is_superuser"`
	RoleID      *uint `gorm:"index" json:"role_id,omitempty"`
	Role        *Role `gorm:"constraint:OnDelete:SET NULL" json:"role,omitempty"`

	EmployeeID *string `gorm:"size:50;uniqueIndex" json:"employee_id,omitempty"`
	Department *string `gorm:"size:100" json:"department,omitempty"`
	Position   *string `gorm:"size:100" json:"position,omitempty"`

	Phone           *string `gorm:"size:50" json:"phone,omitempty"`
	MobilePhone     *string `gorm:"size:50" json:"mobile_phone,omitempty"`
	Address         *string `gorm:"size:255" json:"address,omitempty"`
	ProfileImageURL *string `gorm:"size:255" json:"profile_image_url,omitempty"`

	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	HireDate    *time.Time `json:"hire_date,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Assignments are owned by the user and removed with it.
	Locations []UserLocation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
