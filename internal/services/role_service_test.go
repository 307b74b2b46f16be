package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/auth"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
)

func TestRoleCreateAndGet(t *testing.T) {
	svc := NewRoleService(newMemDB())
	ctx := context.Background()

	role, err := svc.Create(ctx, dto.RoleCreate{
		Name:        "shift_lead",
		Permissions: []string{"read:users", "read:locations"},
	})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}

	var perms []string
	if err := json.Unmarshal(role.Permissions, &perms); err != nil {
		t.Fatalf("unmarshal permissions: %v", err)
	}
	if len(perms) != 2 {
		t.Errorf("permissions = %v, want 2 entries", perms)
	}
}

func TestRoleCreateRejectsUnknownPermission(t *testing.T) {
	svc := NewRoleService(newMemDB())

	_, err := svc.Create(context.Background(), dto.RoleCreate{
		Name:        "broken",
		Permissions: []string{"read:users", "launch:missiles"},
	})
	if !apperr.IsBadRequest(err) {
		t.Errorf("unknown permission error = %v, want bad request", err)
	}
}

func TestRoleCreateDuplicateName(t *testing.T) {
	svc := NewRoleService(newMemDB())
	ctx := context.Background()

	if _, err := svc.Create(ctx, dto.RoleCreate{Name: "ops"}); err != nil {
		t.Fatalf("create role: %v", err)
	}
	if _, err := svc.Create(ctx, dto.RoleCreate{Name: "ops"}); !apperr.IsConflict(err) {
		t.Errorf("duplicate role error = %v, want conflict", err)
	}
}

func TestSystemRolesAreProtected(t *testing.T) {
	db := newMemDB()
	svc := NewRoleService(db)
	ctx := context.Background()

	if err := svc.SeedSystemRoles(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	role, err := db.Roles().GetByName(ctx, "staff")
	if err != nil {
		t.Fatalf("lookup staff role: %v", err)
	}

	name := "renamed"
	if _, err := svc.Update(ctx, role.ID, dto.RoleUpdate{Name: &name}); !apperr.IsBadRequest(err) {
		t.Errorf("system role update error = %v, want bad request", err)
	}
	if err := svc.Delete(ctx, role.ID); !apperr.IsBadRequest(err) {
		t.Errorf("system role delete error = %v, want bad request", err)
	}
}

func TestSeedSystemRolesIsIdempotent(t *testing.T) {
	db := newMemDB()
	svc := NewRoleService(db)
	ctx := context.Background()

	if err := svc.SeedSystemRoles(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := svc.SeedSystemRoles(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	roles, _, err := db.Roles().List(ctx, 0, 100)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if len(roles) != len(auth.SystemRoles) {
		t.Errorf("roles after double seed = %d, want %d", len(roles), len(auth.SystemRoles))
	}
	for _, r := range roles {
		if !r.IsSystemRole {
			t.Errorf("seeded role %q not flagged as system role", r.Name)
		}
	}
}

func TestCustomRoleUpdateAndDelete(t *testing.T) {
	svc := NewRoleService(newMemDB())
	ctx := context.Background()

	role, err := svc.Create(ctx, dto.RoleCreate{Name: "temp", Permissions: []string{"read:own"}})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}

	updated, err := svc.Update(ctx, role.ID, dto.RoleUpdate{Permissions: []string{"read:own", "write:own"}})
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	var perms []string
	if err := json.Unmarshal(updated.Permissions, &perms); err != nil {
		t.Fatalf("unmarshal permissions: %v", err)
	}
	if len(perms) != 2 {
		t.Errorf("permissions after update = %v, want 2 entries", perms)
	}

	if err := svc.Delete(ctx, role.ID); err != nil {
		t.Fatalf("delete role: %v", err)
	}
	if _, err := svc.Get(ctx, role.ID); !apperr.IsNotFound(err) {
		t.Errorf("get after delete error = %v, want not found", err)
	}
}
