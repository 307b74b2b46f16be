package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/auth"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/models"
	"github.com/kyotenhq/kyoten-backend/internal/repository"
)

type UserService struct {
	db     repository.DB
	hasher auth.PasswordHasher
}

func NewUserService(db repository.DB, hasher auth.PasswordHasher) *UserService {
	return &UserService{db: db, hasher: hasher}
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.db.Users().Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("user %d does not exist", id)
	}
	return user, err
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.db.Users().GetByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("user with email '%s' does not exist", email)
	}
	return user, err
}

func (s *UserService) GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	user, err := s.db.Users().GetByEmployeeID(ctx, employeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("user with employee id '%s' does not exist", employeeID)
	}
	return user, err
}

func (s *UserService) List(ctx context.Context, q dto.UserListQuery) (dto.Page[models.User], error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = 20
	}

	users, total, err := s.db.Users().List(ctx, repository.UserFilter{
		RoleID:   q.RoleID,
		IsActive: q.IsActive,
		Search:   q.Search,
		Offset:   (q.Page - 1) * q.Size,
		Limit:    q.Size,
	})
	if err != nil {
		return dto.Page[models.User]{}, err
	}
	return dto.NewPage(users, total, q.Page, q.Size), nil
}

func (s *UserService) Create(ctx context.Context, in dto.UserCreate) (*models.User, error) {
	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          strings.ToLower(in.Email),
		HashedPassword: hashed,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		FullName:       in.FullName,
		IsActive:       true,
		IsSuperuser:    in.IsSuperuser,
		RoleID:         in.RoleID,
		EmployeeID:     in.EmployeeID,
		Department:     in.Department,
		Position:       in.Position,
		Phone:          in.Phone,
		MobilePhone:    in.MobilePhone,
		Address:        in.Address,
		DateOfBirth:    in.DateOfBirth,
		HireDate:       in.HireDate,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if user.FullName == nil {
		user.FullName = composeFullName(in.FirstName, in.LastName)
	}

	err = s.db.InTx(ctx, func(tx repository.DB) error {
		if _, err := tx.Users().GetByEmail(ctx, user.Email); err == nil {
			return apperr.Conflict("email '%s' is already registered", user.Email)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if user.EmployeeID != nil {
			if _, err := tx.Users().GetByEmployeeID(ctx, *user.EmployeeID); err == nil {
				return apperr.Conflict("employee id '%s' is already registered", *user.EmployeeID)
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		if user.RoleID != nil {
			if _, err := tx.Roles().Get(ctx, *user.RoleID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperr.BadRequest("role %d does not exist", *user.RoleID)
				}
				return err
			}
		}

		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("email '%s' is already registered", user.Email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, user.ID)
}

func (s *UserService) Update(ctx context.Context, id uint, in dto.UserUpdate) (*models.User, error) {
	err := s.db.InTx(ctx, func(tx repository.DB) error {
		user, err := tx.Users().Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("user %d does not exist", id)
			}
			return err
		}

		if in.Email != nil {
			user.Email = strings.ToLower(*in.Email)
		}
		if in.Password != nil {
			hashed, err := s.hasher.Hash(*in.Password)
			if err != nil {
				return err
			}
			user.HashedPassword = hashed
		}
		if in.RoleID != nil {
			if _, err := tx.Roles().Get(ctx, *in.RoleID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperr.BadRequest("role %d does not exist", *in.RoleID)
				}
				return err
			}
			user.RoleID = in.RoleID
		}

		if in.FirstName != nil {
			user.FirstName = in.FirstName
		}
		if in.LastName != nil {
			user.LastName = in.LastName
		}
		if in.FullName != nil {
			user.FullName = in.FullName
		}
		if in.IsActive != nil {
			user.IsActive = *in.IsActive
		}
		if in.IsSuperuser != nil {
			user.IsSuperuser = *in.IsSuperuser
		}
		if in.EmployeeID != nil {
			user.EmployeeID = in.EmployeeID
		}
		if in.Department != nil {
			user.Department = in.Department
		}
		if in.Position != nil {
			user.Position = in.Position
		}
		if in.Phone != nil {
			user.Phone = in.Phone
		}
		if in.MobilePhone != nil {
			user.MobilePhone = in.MobilePhone
		}
		if in.Address != nil {
			user.Address = in.Address
		}
		if in.DateOfBirth != nil {
			user.DateOfBirth = in.DateOfBirth
		}
		if in.HireDate != nil {
			user.HireDate = in.HireDate
		}

		user.Role = nil
		user.Locations = nil

		if err := tx.Users().Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("email '%s' is already registered", user.Email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a user; their assignments and items go with them.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.db.Users().Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("user %d does not exist", id)
	}
	return err
}

func composeFullName(first, last *string) *string {
	parts := make([]string, 0, 2)
	if first != nil && *first != "" {
		parts = append(parts, *first)
	}
	if last != nil && *last != "" {
		parts = append(parts, *last)
	}
	if len(parts) == 0 {
		return nil
	}
	full := strings.Join(parts, " ")
	return &full
}
