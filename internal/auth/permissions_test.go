package auth

import (
	"testing"

	"gorm.io/datatypes"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/models"
)

func roleWithPermissions(raw string) *models.Role {
	return &models.Role{Name: "test", Permissions: datatypes.JSON([]byte(raw))}
}

func TestResolvePermissionsSuperuser(t *testing.T) {
	user := &models.User{IsSuperuser: true}

	perms := ResolvePermissions(user)
	if len(perms) != len(allPermissions) {
		t.Errorf("superuser permissions = %d, want the full vocabulary (%d)", len(perms), len(allPermissions))
	}
}

func TestResolvePermissionsFallsBackToDefaults(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
	}{
		{"no role", &models.User{}},
		{"empty permissions", &models.User{Role: roleWithPermissions(`[]`)}},
		{"unparseable permissions", &models.User{Role: roleWithPermissions(`{"not":"a list"}`)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			perms := ResolvePermissions(tc.user)
			if len(perms) != 2 || perms[0] != PermReadOwn || perms[1] != PermWriteOwn {
				t.Errorf("permissions = %v, want self-scoped defaults", perms)
			}
		})
	}
}

func TestResolvePermissionsDropsUnknownStrings(t *testing.T) {
	user := &models.User{Role: roleWithPermissions(`["read:users", "fly:spaceship", "read:locations"]`)}

	perms := ResolvePermissions(user)
	if len(perms) != 2 {
		t.Fatalf("permissions = %v, want the 2 valid entries", perms)
	}
	for _, p := range perms {
		if !IsValidPermission(p) {
			t.Errorf("resolved invalid permission %q", p)
		}
	}
}

func TestAuthorize(t *testing.T) {
	holder := &models.User{Role: roleWithPermissions(`["read:locations"]`)}

	if err := Authorize(holder, PermReadLocations); err != nil {
		t.Errorf("holder denied: %v", err)
	}
	if err := Authorize(holder, PermWriteLocations); !apperr.IsForbidden(err) {
		t.Errorf("non-holder error = %v, want forbidden", err)
	}
}

func TestAuthorizeSuperuserAlwaysPasses(t *testing.T) {
	super := &models.User{IsSuperuser: true}

	for _, p := range AllPermissions() {
		if err := Authorize(super, p); err != nil {
			t.Errorf("superuser denied %q: %v", p, err)
		}
	}
}

func TestAuthorizeAdminPermissionGrantsAll(t *testing.T) {
	admin := &models.User{Role: roleWithPermissions(`["admin"]`)}

	if err := Authorize(admin, PermManageUsers); err != nil {
		t.Errorf("admin holder denied: %v", err)
	}
}

func TestSystemRolePermissionsAreValid(t *testing.T) {
	for _, role := range SystemRoles {
		for _, p := range role.Permissions {
			if !IsValidPermission(p) {
				t.Errorf("role %q carries unknown permission %q", role.Name, p)
			}
		}
	}
}
