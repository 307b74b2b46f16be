package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/auth"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/models"
	"github.com/kyotenhq/kyoten-backend/internal/repository"
)

// RoleService manages roles and their permission sets. The built-in system
// roles are immutable through this service; they can only change via a new
// deployment that reseeds them.
type RoleService struct {
	db repository.DB
}

func NewRoleService(db repository.DB) *RoleService {
	return &RoleService{db: db}
}

func (s *RoleService) Get(ctx context.Context, id uint) (*models.Role, error) {
	role, err := s.db.Roles().Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("role %d does not exist", id)
	}
	return role, err
}

func (s *RoleService) List(ctx context.Context, page, size int) (dto.Page[models.Role], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	roles, total, err := s.db.Roles().List(ctx, (page-1)*size, size)
	if err != nil {
		return dto.Page[models.Role]{}, err
	}
	return dto.NewPage(roles, total, page, size), nil
}

func (s *RoleService) Create(ctx context.Context, in dto.RoleCreate) (*models.Role, error) {
	perms, err := marshalPermissions(in.Permissions)
	if err != nil {
		return nil, err
	}

	role := &models.Role{
		Name:        in.Name,
		Description: in.Description,
		Permissions: perms,
	}
	if err := s.db.Roles().Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("role '%s' already exists", in.Name)
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id uint, in dto.RoleUpdate) (*models.Role, error) {
	var updated *models.Role
	err := s.db.InTx(ctx, func(tx repository.DB) error {
		role, err := tx.Roles().Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("role %d does not exist", id)
			}
			return err
		}
		if role.IsSystemRole {
			return apperr.BadRequest("system role '%s' cannot be modified", role.Name)
		}

		if in.Name != nil {
			role.Name = *in.Name
		}
		if in.Description != nil {
			role.Description = in.Description
		}
		if in.Permissions != nil {
			perms, err := marshalPermissions(in.Permissions)
			if err != nil {
				return err
			}
			role.Permissions = perms
		}

		if err := tx.Roles().Update(ctx, role); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("role '%s' already exists", role.Name)
			}
			return err
		}
		updated = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RoleService) Delete(ctx context.Context, id uint) error {
	return s.db.InTx(ctx, func(tx repository.DB) error {
		role, err := tx.Roles().Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("role %d does not exist", id)
			}
			return err
		}
		if role.IsSystemRole {
			return apperr.BadRequest("system role '%s' cannot be deleted", role.Name)
		}
		// Users keep working after their role disappears; the foreign key
		// nulls their role_id and they fall back to default permissions.
		return tx.Roles().Delete(ctx, id)
	})
}

// SeedSystemRoles creates any built-in role that does not exist yet.
// Existing roles are left untouched, including locally edited permission
// sets.
func (s *RoleService) SeedSystemRoles(ctx context.Context) error {
	for _, sys := range auth.SystemRoles {
		_, err := s.db.Roles().GetByName(ctx, sys.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		perms := make([]string, len(sys.Permissions))
		for i, p := range sys.Permissions {
			perms[i] = string(p)
		}
		raw, err := json.Marshal(perms)
		if err != nil {
			return err
		}

		desc := sys.Description
		role := &models.Role{
			Name:         sys.Name,
			Description:  &desc,
			Permissions:  datatypes.JSON(raw),
			IsSystemRole: true,
		}
		if err := s.db.Roles().Create(ctx, role); err != nil {
			// A concurrent replica may have seeded it first.
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return err
		}
		slog.InfoContext(ctx, "seeded system role", "role", sys.Name)
	}
	return nil
}

func marshalPermissions(perms []string) (datatypes.JSON, error) {
	for _, p := range perms {
		if !auth.IsValidPermission(auth.Permission(p)) {
			return nil, apperr.BadRequest("unknown permission '%s'", p)
		}
	}
	if perms == nil {
		perms = []string{}
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
