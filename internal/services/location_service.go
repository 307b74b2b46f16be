package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/models"
	"github.com/kyotenhq/kyoten-backend/internal/repository"
)

// LocationService maintains the location tree and its structural invariants:
// the parent chain stays acyclic and a location with children cannot be
// deleted. The store cannot express either rule declaratively, so both are
// checked before every write, inside the write's transaction.
type LocationService struct {
	db repository.DB
}

func NewLocationService(db repository.DB) *LocationService {
	return &LocationService{db: db}
}

func (s *LocationService) Get(ctx context.Context, id uint) (*models.Location, error) {
	loc, err := s.db.Locations().Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("location %d does not exist", id)
	}
	return loc, err
}

// GetByCode looks a location up by code, normalized to uppercase.
func (s *LocationService) GetByCode(ctx context.Context, code string) (*models.Location, error) {
	normalized := strings.ToUpper(code)
	loc, err := s.db.Locations().GetByCode(ctx, normalized)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("location code '%s' does not exist", normalized)
	}
	return loc, err
}

func (s *LocationService) List(ctx context.Context, q dto.LocationListQuery) (dto.Page[models.Location], error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = 20
	}

	locations, total, err := s.db.Locations().List(ctx, repository.LocationFilter{
		Type:       q.Type,
		ParentID:   q.ParentID,
		IsActive:   q.IsActive,
		Search:     q.Search,
		Prefecture: q.Prefecture,
		Offset:     (q.Page - 1) * q.Size,
		Limit:      q.Size,
	})
	if err != nil {
		return dto.Page[models.Location]{}, err
	}
	return dto.NewPage(locations, total, q.Page, q.Size), nil
}

func (s *LocationService) Create(ctx context.Context, in dto.LocationCreate) (*models.Location, error) {
	if !models.IsValidLocationType(in.Type) {
		return nil, apperr.BadRequest("unknown location type '%s'", in.Type)
	}

	loc := &models.Location{
		Name:            in.Name,
		Code:            strings.ToUpper(in.Code),
		Type:            in.Type,
		ParentID:        in.ParentID,
		PostalCode:      in.PostalCode,
		Prefecture:      in.Prefecture,
		City:            in.City,
		Address1:        in.Address1,
		Address2:        in.Address2,
		Phone:           in.Phone,
		Fax:             in.Fax,
		Email:           in.Email,
		BusinessHours:   in.BusinessHours,
		Description:     in.Description,
		ManagerName:     in.ManagerName,
		Capacity:        in.Capacity,
		IsActive:        true,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		EstablishedDate: in.EstablishedDate,
	}
	if in.IsActive != nil {
		loc.IsActive = *in.IsActive
	}

	err := s.db.InTx(ctx, func(tx repository.DB) error {
		if in.ParentID != nil {
			if _, err := tx.Locations().Get(ctx, *in.ParentID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperr.BadRequest("parent location %d does not exist", *in.ParentID)
				}
				return err
			}
			// A fresh node cannot close a cycle, but the chain is checked
			// anyway so a corrupt parent chain is caught at the boundary.
			if err := checkCircularReference(ctx, tx, *in.ParentID, 0); err != nil {
				return err
			}
		}

		if err := tx.Locations().Create(ctx, loc); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("location code '%s' is already in use", loc.Code)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *LocationService) Update(ctx context.Context, id uint, in dto.LocationUpdate) (*models.Location, error) {
	var updated *models.Location
	err := s.db.InTx(ctx, func(tx repository.DB) error {
		loc, err := tx.Locations().Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("location %d does not exist", id)
			}
			return err
		}

		if in.Type != nil {
			if !models.IsValidLocationType(*in.Type) {
				return apperr.BadRequest("unknown location type '%s'", *in.Type)
			}
			loc.Type = *in.Type
		}

		// Re-parenting re-runs the full ancestor walk with this node
		// excluded: if its own id shows up in the new parent's chain the
		// move would close a cycle.
		if in.ParentID != nil && (loc.ParentID == nil || *in.ParentID != *loc.ParentID) {
			if _, err := tx.Locations().Get(ctx, *in.ParentID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperr.BadRequest("parent location %d does not exist", *in.ParentID)
				}
				return err
			}
			if err := checkCircularReference(ctx, tx, *in.ParentID, loc.ID); err != nil {
				return err
			}
			loc.ParentID = in.ParentID
		}

		if in.Name != nil {
			loc.Name = *in.Name
		}
		if in.Code != nil {
			loc.Code = strings.ToUpper(*in.Code)
		}
		if in.PostalCode != nil {
			loc.PostalCode = in.PostalCode
		}
		if in.Prefecture != nil {
			loc.Prefecture = in.Prefecture
		}
		if in.City != nil {
			loc.City = in.City
		}
		if in.Address1 != nil {
			loc.Address1 = in.Address1
		}
		if in.Address2 != nil {
			loc.Address2 = in.Address2
		}
		if in.Phone != nil {
			loc.Phone = in.Phone
		}
		if in.Fax != nil {
			loc.Fax = in.Fax
		}
		if in.Email != nil {
			loc.Email = in.Email
		}
		if in.BusinessHours != nil {
			loc.BusinessHours = in.BusinessHours
		}
		if in.Description != nil {
			loc.Description = in.Description
		}
		if in.ManagerName != nil {
			loc.ManagerName = in.ManagerName
		}
		if in.Capacity != nil {
			loc.Capacity = in.Capacity
		}
		if in.IsActive != nil {
			loc.IsActive = *in.IsActive
		}
		if in.Latitude != nil {
			loc.Latitude = in.Latitude
		}
		if in.Longitude != nil {
			loc.Longitude = in.Longitude
		}
		if in.EstablishedDate != nil {
			loc.EstablishedDate = in.EstablishedDate
		}

		// Drop stale preloaded associations before saving so GORM does not
		// try to upsert them.
		loc.Parent = nil
		loc.Children = nil

		if err := tx.Locations().Update(ctx, loc); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("location code '%s' is already in use", loc.Code)
			}
			return err
		}

		updated, err = tx.Locations().Get(ctx, loc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a location. A location that still has children is rejected;
// its assignments are removed by the owning cascade.
func (s *LocationService) Delete(ctx context.Context, id uint) (*models.Location, error) {
	var deleted *models.Location
	err := s.db.InTx(ctx, func(tx repository.DB) error {
		loc, err := tx.Locations().Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("location %d does not exist", id)
			}
			return err
		}

		children, err := tx.Locations().CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return apperr.BadRequest("location has child locations; move or delete them first")
		}

		if err := tx.Locations().Delete(ctx, id); err != nil {
			return err
		}
		deleted = loc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// checkCircularReference ascends from the candidate parent toward the root,
// rejecting the chain if excludeID appears in it. excludeID 0 means a fresh
// node. O(depth) per check; organisational trees are shallow.
func checkCircularReference(ctx context.Context, db repository.DB, parentID, excludeID uint) error {
	if excludeID != 0 && parentID == excludeID {
		return apperr.BadRequest("a location cannot be its own parent")
	}

	current := parentID
	for {
		node, err := db.Locations().Get(ctx, current)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		if excludeID != 0 && *node.ParentID == excludeID {
			return apperr.BadRequest("circular reference is not allowed")
		}
		current = *node.ParentID
	}
}
