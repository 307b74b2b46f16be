package dto

import "time"

type UserCreate struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	FullName  *string `json:"full_name,omitempty"`

	IsActive    *bool `json:"is_active,omitempty"`
	IsSuperuser bool  `json:"is_superuser,omitempty"`
	RoleID      *uint `json:"role_id,omitempty"`

	EmployeeID  *string    `json:"employee_id,omitempty"`
	Department  *string    `json:"department,omitempty"`
	Position    *string    `json:"position,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	MobilePhone *string    `json:"mobile_phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	HireDate    *time.Time `json:"hire_date,omitempty"`
}

// UserUpdate carries partial updates; nil fields are left unchanged.
type UserUpdate struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`

	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	FullName  *string `json:"full_name,omitempty"`

	IsActive    *bool `json:"is_active,omitempty"`
	IsSuperuser *bool `json:"is_superuser,omitempty"`
	RoleID      *uint `json:"role_id,omitempty"`

	EmployeeID  *string    `json:"employee_id,omitempty"`
	Department  *string    `json:"department,omitempty"`
	Position    *string    `json:"position,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	MobilePhone *string    `json:"mobile_phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	HireDate    *time.Time `json:"hire_date,omitempty"`
}

type UserListQuery struct {
	Page     int
	Size     int
	RoleID   *uint
	IsActive *bool
	Search   string
}
