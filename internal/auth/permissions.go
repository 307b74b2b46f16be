package auth

import (
	"encoding/json"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/models"
)

// Permission is a `<scope>:<resource>` string from the fixed vocabulary.
type Permission string

const (
	// Users
	PermReadUsers   Permission = "read:users"
	PermWriteUsers  Permission = "write:users"
	PermManageUsers Permission = "manage:users"

	// Roles
	PermReadRoles  Permission = "read:roles"
	PermWriteRoles Permission = "write:roles"

	// Locations
	PermReadLocations   Permission = "read:locations"
	PermWriteLocations  Permission = "write:locations"
	PermManageLocations Permission = "manage:locations"

	// Catalog
	PermReadCatalog   Permission = "read:catalog"
	PermWriteCatalog  Permission = "write:catalog"
	PermManageCatalog Permission = "manage:catalog"

	// Inventory
	PermReadInventory   Permission = "read:inventory"
	PermWriteInventory  Permission = "write:inventory"
	PermManageInventory Permission = "manage:inventory"

	// Schedules
	PermReadSchedules   Permission = "read:schedules"
	PermWriteSchedules  Permission = "write:schedules"
	PermManageSchedules Permission = "manage:schedules"

	// Clients
	PermReadClients   Permission = "read:clients"
	PermWriteClients  Permission = "write:clients"
	PermManageClients Permission = "manage:clients"

	// Self-scoped
	PermReadOwn  Permission = "read:own"
	PermWriteOwn Permission = "write:own"

	// Blanket admin
	PermAdmin Permission = "admin"
)

// allPermissions is the closed vocabulary, in declaration order.
var allPermissions = []Permission{
	PermReadUsers, PermWriteUsers, PermManageUsers,
	PermReadRoles, PermWriteRoles,
	PermReadLocations, PermWriteLocations, PermManageLocations,
	PermReadCatalog, PermWriteCatalog, PermManageCatalog,
	PermReadInventory, PermWriteInventory, PermManageInventory,
	PermReadSchedules, PermWriteSchedules, PermManageSchedules,
	PermReadClients, PermWriteClients, PermManageClients,
	PermReadOwn, PermWriteOwn,
	PermAdmin,
}

var validPermissions = func() map[Permission]struct{} {
	m := make(map[Permission]struct{}, len(allPermissions))
	for _, p := range allPermissions {
		m[p] = struct{}{}
	}
	return m
}()

// AllPermissions returns a copy of the full vocabulary.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// IsValidPermission reports whether p belongs to the vocabulary.
func IsValidPermission(p Permission) bool {
	_, ok := validPermissions[p]
	return ok
}

// SystemRole describes a role seeded at initialization time. The table is
// consulted only for one-time seeding; persisted roles are authoritative at
// request time.
type SystemRole struct {
	Key         string
	Name        string
	Description string
	Permissions []Permission
}

// SystemRoles lists the seeded roles in seeding order.
var SystemRoles = []SystemRole{
	{
		Key:         "superuser",
		Name:        "superuser",
		Description: "System administrator with every permission.",
		Permissions: AllPermissions(),
	},
	{
		Key:         "general_manager",
		Name:        "general_manager",
		Description: "General manager: most permissions, no system settings.",
		Permissions: []Permission{
			PermReadUsers, PermWriteUsers,
			PermReadRoles,
			PermReadLocations, PermWriteLocations, PermManageLocations,
			PermReadCatalog, PermWriteCatalog, PermManageCatalog,
			PermReadInventory, PermWriteInventory, PermManageInventory,
			PermReadSchedules, PermWriteSchedules, PermManageSchedules,
			PermReadClients, PermWriteClients, PermManageClients,
			PermReadOwn, PermWriteOwn,
		},
	},
	{
		Key:         "area_manager",
		Name:        "area_manager",
		Description: "Area manager with management rights over assigned areas.",
		Permissions: []Permission{
			PermReadUsers,
			PermReadLocations, PermWriteLocations,
			PermReadCatalog,
			PermReadInventory, PermWriteInventory,
			PermReadSchedules, PermWriteSchedules, PermManageSchedules,
			PermReadClients, PermWriteClients,
			PermReadOwn, PermWriteOwn,
		},
	},
	{
		Key:         "staff",
		Name:        "staff",
		Description: "General staff with basic operational permissions.",
		Permissions: []Permission{
			PermReadLocations,
			PermReadCatalog,
			PermReadInventory,
			PermReadSchedules, PermWriteSchedules,
			PermReadClients, PermWriteClients,
			PermReadOwn, PermWriteOwn,
		},
	},
}

// defaultPermissions is the fail-safe grant for users without a usable role.
var defaultPermissions = []Permission{PermReadOwn, PermWriteOwn}

// ResolvePermissions returns the effective permission set for a user.
// Superusers get the full vocabulary. A missing role, an empty permission
// set, or an unparseable one all fall back to the self-scoped defaults; this
// is fail-safe behaviour, not an error. Stored permission strings outside
// the vocabulary are dropped silently.
func ResolvePermissions(user *models.User) []Permission {
	if user.IsSuperuser {
		return AllPermissions()
	}

	if user.Role == nil || len(user.Role.Permissions) == 0 {
		return append([]Permission(nil), defaultPermissions...)
	}

	var stored []string
	if err := json.Unmarshal(user.Role.Permissions, &stored); err != nil || len(stored) == 0 {
		return append([]Permission(nil), defaultPermissions...)
	}

	perms := make([]Permission, 0, len(stored))
	for _, s := range stored {
		if p := Permission(s); IsValidPermission(p) {
			perms = append(perms, p)
		}
	}
	return perms
}

// Authorize checks whether the user may perform an operation guarded by the
// required permission. Superusers and holders of the blanket admin
// permission always pass.
func Authorize(user *models.User, required Permission) error {
	if user.IsSuperuser {
		return nil
	}

	for _, p := range ResolvePermissions(user) {
		if p == PermAdmin || p == required {
			return nil
		}
	}
	return apperr.Forbidden("required permission: %s", required)
}
