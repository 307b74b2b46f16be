package services

import (
	"context"
	"testing"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
)

func TestUserCreateNormalizesEmailAndComposesName(t *testing.T) {
	svc := NewUserService(newMemDB(), plainHasher{})
	first, last := "Hanako", "Sato"

	user, err := svc.Create(context.Background(), dto.UserCreate{
		Email:     "Hanako.Sato@Example.com",
		Password:  "pw",
		FirstName: &first,
		LastName:  &last,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "hanako.sato@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.FullName == nil || *user.FullName != "Hanako Sato" {
		t.Errorf("full name = %v, want composed from first and last", user.FullName)
	}
	if user.HashedPassword == "pw" {
		t.Error("password stored in the clear")
	}
	if !user.IsActive {
		t.Error("new user not active by default")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	svc := NewUserService(newMemDB(), plainHasher{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, dto.UserCreate{Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := svc.Create(ctx, dto.UserCreate{Email: "A@Example.com", Password: "pw"})
	if !apperr.IsConflict(err) {
		t.Errorf("duplicate email error = %v, want conflict", err)
	}
}

func TestUserCreateDuplicateEmployeeID(t *testing.T) {
	svc := NewUserService(newMemDB(), plainHasher{})
	ctx := context.Background()

	empID := "EMP-001"
	if _, err := svc.Create(ctx, dto.UserCreate{Email: "a@example.com", Password: "pw", EmployeeID: &empID}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := svc.Create(ctx, dto.UserCreate{Email: "b@example.com", Password: "pw", EmployeeID: &empID})
	if !apperr.IsConflict(err) {
		t.Errorf("duplicate employee id error = %v, want conflict", err)
	}
}

func TestUserCreateRejectsMissingRole(t *testing.T) {
	svc := NewUserService(newMemDB(), plainHasher{})

	missing := uint(5)
	_, err := svc.Create(context.Background(), dto.UserCreate{
		Email:    "a@example.com",
		Password: "pw",
		RoleID:   &missing,
	})
	if !apperr.IsBadRequest(err) {
		t.Errorf("missing role error = %v, want bad request", err)
	}
}

func TestUserUpdateRehashesPassword(t *testing.T) {
	svc := NewUserService(newMemDB(), plainHasher{})
	ctx := context.Background()

	user, err := svc.Create(ctx, dto.UserCreate{Email: "a@example.com", Password: "old"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	newPw := "new"
	updated, err := svc.Update(ctx, user.ID, dto.UserUpdate{Password: &newPw})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.HashedPassword != "hashed:new" {
		t.Errorf("password hash = %q, want the new hash", updated.HashedPassword)
	}
}

func TestUserDelete(t *testing.T) {
	svc := NewUserService(newMemDB(), plainHasher{})
	ctx := context.Background()

	user, err := svc.Create(ctx, dto.UserCreate{Email: "a@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := svc.Get(ctx, user.ID); !apperr.IsNotFound(err) {
		t.Errorf("get after delete error = %v, want not found", err)
	}
	if err := svc.Delete(ctx, user.ID); !apperr.IsNotFound(err) {
		t.Errorf("double delete error = %v, want not found", err)
	}
}
