package services

import (
	"context"
	"testing"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/models"
)

func newLocationFixture(t *testing.T) (*LocationService, *memDB) {
	t.Helper()
	db := newMemDB()
	return NewLocationService(db), db
}

func mustCreateLocation(t *testing.T, svc *LocationService, name, code string, parentID *uint) *models.Location {
	t.Helper()
	loc, err := svc.Create(context.Background(), dto.LocationCreate{
		Name:     name,
		Code:     code,
		Type:     models.LocationTypeBranch,
		ParentID: parentID,
	})
	if err != nil {
		t.Fatalf("create location %s: %v", code, err)
	}
	return loc
}

func TestLocationCreateUppercasesCode(t *testing.T) {
	svc, _ := newLocationFixture(t)

	loc := mustCreateLocation(t, svc, "Shibuya Branch", "shibuya-01", nil)
	if loc.Code != "SHIBUYA-01" {
		t.Errorf("code = %q, want SHIBUYA-01", loc.Code)
	}

	got, err := svc.GetByCode(context.Background(), "shibuya-01")
	if err != nil {
		t.Fatalf("lookup by lowercase code: %v", err)
	}
	if got.ID != loc.ID {
		t.Errorf("lookup returned location %d, want %d", got.ID, loc.ID)
	}
}

func TestLocationCreateDuplicateCode(t *testing.T) {
	svc, _ := newLocationFixture(t)

	mustCreateLocation(t, svc, "First", "HQ-01", nil)
	_, err := svc.Create(context.Background(), dto.LocationCreate{
		Name: "Second",
		Code: "hq-01",
		Type: models.LocationTypeOffice,
	})
	if !apperr.IsConflict(err) {
		t.Errorf("duplicate code error = %v, want conflict", err)
	}
}

func TestLocationCreateRejectsUnknownType(t *testing.T) {
	svc, _ := newLocationFixture(t)

	_, err := svc.Create(context.Background(), dto.LocationCreate{
		Name: "X",
		Code: "X-01",
		Type: "castle",
	})
	if !apperr.IsBadRequest(err) {
		t.Errorf("unknown type error = %v, want bad request", err)
	}
}

func TestLocationCreateRejectsMissingParent(t *testing.T) {
	svc, _ := newLocationFixture(t)

	missing := uint(99)
	_, err := svc.Create(context.Background(), dto.LocationCreate{
		Name:     "Orphan",
		Code:     "ORPHAN-01",
		Type:     models.LocationTypeBranch,
		ParentID: &missing,
	})
	if !apperr.IsBadRequest(err) {
		t.Errorf("missing parent error = %v, want bad request", err)
	}
}

func TestLocationUpdateRejectsSelfParent(t *testing.T) {
	svc, _ := newLocationFixture(t)

	loc := mustCreateLocation(t, svc, "HQ", "HQ-01", nil)
	_, err := svc.Update(context.Background(), loc.ID, dto.LocationUpdate{ParentID: &loc.ID})
	if !apperr.IsBadRequest(err) {
		t.Errorf("self-parent error = %v, want bad request", err)
	}
}

func TestLocationUpdateRejectsCycle(t *testing.T) {
	svc, _ := newLocationFixture(t)

	// a <- b <- c, then try to re-parent a under c.
	a := mustCreateLocation(t, svc, "A", "A-01", nil)
	b := mustCreateLocation(t, svc, "B", "B-01", &a.ID)
	c := mustCreateLocation(t, svc, "C", "C-01", &b.ID)

	_, err := svc.Update(context.Background(), a.ID, dto.LocationUpdate{ParentID: &c.ID})
	if !apperr.IsBadRequest(err) {
		t.Errorf("cycle error = %v, want bad request", err)
	}

	// The tree is untouched after the rejection.
	got, err := svc.Get(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("get after rejected update: %v", err)
	}
	if got.ParentID != nil {
		t.Errorf("a.ParentID = %v, want nil", *got.ParentID)
	}
}

func TestLocationUpdateAllowsReparentWithinTree(t *testing.T) {
	svc, _ := newLocationFixture(t)

	a := mustCreateLocation(t, svc, "A", "A-01", nil)
	b := mustCreateLocation(t, svc, "B", "B-01", &a.ID)
	c := mustCreateLocation(t, svc, "C", "C-01", &b.ID)

	// Moving c directly under a shortens the chain, no cycle.
	got, err := svc.Update(context.Background(), c.ID, dto.LocationUpdate{ParentID: &a.ID})
	if err != nil {
		t.Fatalf("reparent: %v", err)
	}
	if got.ParentID == nil || *got.ParentID != a.ID {
		t.Errorf("c.ParentID = %v, want %d", got.ParentID, a.ID)
	}
}

func TestLocationDeleteWithChildren(t *testing.T) {
	svc, _ := newLocationFixture(t)

	parent := mustCreateLocation(t, svc, "Parent", "P-01", nil)
	child := mustCreateLocation(t, svc, "Child", "C-01", &parent.ID)

	if _, err := svc.Delete(context.Background(), parent.ID); !apperr.IsBadRequest(err) {
		t.Errorf("delete with children error = %v, want bad request", err)
	}

	// Leaf first, then the parent goes through.
	if _, err := svc.Delete(context.Background(), child.ID); err != nil {
		t.Fatalf("delete child: %v", err)
	}
	if _, err := svc.Delete(context.Background(), parent.ID); err != nil {
		t.Fatalf("delete parent after child removed: %v", err)
	}
}

func TestLocationDeleteNotFound(t *testing.T) {
	svc, _ := newLocationFixture(t)

	if _, err := svc.Delete(context.Background(), 42); !apperr.IsNotFound(err) {
		t.Errorf("delete missing error = %v, want not found", err)
	}
}
