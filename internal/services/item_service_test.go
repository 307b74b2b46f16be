package services

import (
	"context"
	"testing"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/models"
)

func itemFixture(t *testing.T) (*ItemService, *models.User, *models.User) {
	t.Helper()
	db := newMemDB()

	owner := &models.User{Email: "owner@example.com", HashedPassword: "x", IsActive: true}
	other := &models.User{Email: "other@example.com", HashedPassword: "x", IsActive: true}
	for _, u := range []*models.User{owner, other} {
		if err := db.Users().Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	return NewItemService(db), owner, other
}

func TestItemOwnershipIsEnforced(t *testing.T) {
	svc, owner, other := itemFixture(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, owner, dto.ItemCreate{Title: "laptop"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.OwnerID != owner.ID {
		t.Errorf("owner id = %d, want %d", item.OwnerID, owner.ID)
	}

	if _, err := svc.Get(ctx, other, item.ID); !apperr.IsForbidden(err) {
		t.Errorf("foreign get error = %v, want forbidden", err)
	}
	if err := svc.Delete(ctx, other, item.ID); !apperr.IsForbidden(err) {
		t.Errorf("foreign delete error = %v, want forbidden", err)
	}
	if _, err := svc.Get(ctx, owner, item.ID); err != nil {
		t.Errorf("owner get: %v", err)
	}
}

func TestItemSuperuserSeesAll(t *testing.T) {
	svc, owner, other := itemFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, owner, dto.ItemCreate{Title: "one"}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := svc.Create(ctx, other, dto.ItemCreate{Title: "two"}); err != nil {
		t.Fatalf("create item: %v", err)
	}

	super := &models.User{ID: 99, IsSuperuser: true}
	page, err := svc.List(ctx, super, 1, 20)
	if err != nil {
		t.Fatalf("superuser list: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("superuser sees %d items, want 2", page.Total)
	}

	mine, err := svc.List(ctx, owner, 1, 20)
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if mine.Total != 1 {
		t.Errorf("owner sees %d items, want 1", mine.Total)
	}
}
