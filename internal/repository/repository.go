// Package repository defines the persistence interfaces consumed by the
// domain services, plus their GORM/Postgres implementations. Services depend
// only on the interfaces; tests substitute in-memory fakes.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kyotenhq/kyoten-backend/internal/models"
)

var (
	// ErrNotFound is returned by Get-style lookups when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// UserFilter narrows user listings.
type UserFilter struct {
	RoleID   *uint
	IsActive *bool
	Search   string
	Offset   int
	Limit    int
}

// LocationFilter narrows location listings.
type LocationFilter struct {
	Type       *models.LocationType
	ParentID   *uint
	IsActive   *bool
	Search     string
	Prefecture string
	Offset     int
	Limit      int
}

// LocationUsersFilter narrows assignment listings for one location.
// ActiveOn nil means include ended assignments too.
type LocationUsersFilter struct {
	LocationID uint
	ActiveOn   *time.Time
	Search     string
	IsPrimary  *bool
	Offset     int
	Limit      int
}

type UserStore interface {
	Get(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
	List(ctx context.Context, f UserFilter) ([]models.User, int64, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type RoleStore interface {
	Get(ctx context.Context, id uint) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context, offset, limit int) ([]models.Role, int64, error)
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uint) error
}

type LocationStore interface {
	Get(ctx context.Context, id uint) (*models.Location, error)
	GetByCode(ctx context.Context, code string) (*models.Location, error)
	List(ctx context.Context, f LocationFilter) ([]models.Location, int64, error)
	CountChildren(ctx context.Context, id uint) (int64, error)
	Create(ctx context.Context, loc *models.Location) error
	Update(ctx context.Context, loc *models.Location) error
	Delete(ctx context.Context, id uint) error
}

type UserLocationStore interface {
	Get(ctx context.Context, id uint) (*models.UserLocation, error)
	// ListByUser returns a user's assignments, primary first, newest start
	// first. ActiveOn nil includes ended assignments.
	ListByUser(ctx context.Context, userID uint, activeOn *time.Time) ([]models.UserLocation, error)
	ListByUserAndLocation(ctx context.Context, userID, locationID uint, activeOn *time.Time) ([]models.UserLocation, error)
	ListByLocation(ctx context.Context, f LocationUsersFilter) ([]models.UserLocation, int64, error)
	// ActivePrimaries returns the user's primary assignments still active on
	// or after the reference date, excluding the given assignment id (0 to
	// exclude none).
	ActivePrimaries(ctx context.Context, userID uint, ref time.Time, excludeID uint) ([]models.UserLocation, error)
	Create(ctx context.Context, ul *models.UserLocation) error
	Update(ctx context.Context, ul *models.UserLocation) error
	Delete(ctx context.Context, id uint) error
}

type ItemStore interface {
	Get(ctx context.Context, id uint) (*models.Item, error)
	List(ctx context.Context, ownerID *uint, offset, limit int) ([]models.Item, int64, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uint) error
}

// DB bundles the stores with a transactional unit of work. InTx runs fn
// against tx-scoped stores; read-then-write operations (primary-assignment
// supersession, cycle checks) must go through it so concurrent requests race
// only at the store's constraints.
type DB interface {
	Users() UserStore
	Roles() RoleStore
	Locations() LocationStore
	UserLocations() UserLocationStore
	Items() ItemStore
	InTx(ctx context.Context, fn func(DB) error) error
}
