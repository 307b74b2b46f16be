package services

import (
	"context"
	"errors"
	"time"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/auth"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/models"
	"github.com/kyotenhq/kyoten-backend/internal/repository"
)

// UserLocationService manages user-to-location assignments. Its central rule
// is primary exclusivity: a user holds at most one active primary assignment
// at any point in time. Promoting a new primary supersedes the old ones by
// closing them the day before the new assignment starts, so the history of
// who was primarily where stays queryable.
type UserLocationService struct {
	db    repository.DB
	clock auth.Clock
}

func NewUserLocationService(db repository.DB, clock auth.Clock) *UserLocationService {
	return &UserLocationService{db: db, clock: clock}
}

func (s *UserLocationService) Get(ctx context.Context, id uint) (*models.UserLocation, error) {
	ul, err := s.db.UserLocations().Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("assignment %d does not exist", id)
	}
	return ul, err
}

func (s *UserLocationService) Create(ctx context.Context, in dto.UserLocationCreate) (*models.UserLocation, error) {
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return nil, apperr.BadRequest("end date must not be before start date")
	}

	ul := &models.UserLocation{
		UserID:     in.UserID,
		LocationID: in.LocationID,
		IsPrimary:  in.IsPrimary,
		Position:   in.Position,
		Department: in.Department,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Notes:      in.Notes,
	}

	err := s.db.InTx(ctx, func(tx repository.DB) error {
		if _, err := tx.Users().Get(ctx, in.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.BadRequest("user %d does not exist", in.UserID)
			}
			return err
		}
		if _, err := tx.Locations().Get(ctx, in.LocationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.BadRequest("location %d does not exist", in.LocationID)
			}
			return err
		}

		if in.IsPrimary {
			if err := s.supersedePrimaries(ctx, tx, in.UserID, in.StartDate, 0); err != nil {
				return err
			}
		}

		if err := tx.UserLocations().Create(ctx, ul); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("an identical assignment already exists for this user and location")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, ul.ID)
}

func (s *UserLocationService) Update(ctx context.Context, id uint, in dto.UserLocationUpdate) (*models.UserLocation, error) {
	err := s.db.InTx(ctx, func(tx repository.DB) error {
		ul, err := tx.UserLocations().Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("assignment %d does not exist", id)
			}
			return err
		}

		if in.StartDate != nil {
			ul.StartDate = *in.StartDate
		}
		if in.EndDate != nil {
			ul.EndDate = in.EndDate
		}
		if ul.EndDate != nil && ul.EndDate.Before(ul.StartDate) {
			return apperr.BadRequest("end date must not be before start date")
		}

		// Promoting an existing assignment to primary supersedes the
		// user's other active primaries, same as creating a new one.
		if in.IsPrimary != nil && *in.IsPrimary && !ul.IsPrimary {
			if err := s.supersedePrimaries(ctx, tx, ul.UserID, ul.StartDate, ul.ID); err != nil {
				return err
			}
		}
		if in.IsPrimary != nil {
			ul.IsPrimary = *in.IsPrimary
		}

		if in.Position != nil {
			ul.Position = in.Position
		}
		if in.Department != nil {
			ul.Department = in.Department
		}
		if in.Notes != nil {
			ul.Notes = in.Notes
		}

		ul.User = nil
		ul.Location = nil

		if err := tx.UserLocations().Update(ctx, ul); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("an identical assignment already exists for this user and location")
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

func (s *UserLocationService) Delete(ctx context.Context, id uint) error {
	err := s.db.UserLocations().Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("assignment %d does not exist", id)
	}
	return err
}

// ListByUser returns a user's assignments, most relevant first. With
// includeInactive false only assignments active today are returned.
func (s *UserLocationService) ListByUser(ctx context.Context, userID uint, includeInactive bool) ([]models.UserLocation, error) {
	if _, err := s.db.Users().Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user %d does not exist", userID)
		}
		return nil, err
	}

	var activeOn *time.Time
	if !includeInactive {
		today := s.clock.Now()
		activeOn = &today
	}
	return s.db.UserLocations().ListByUser(ctx, userID, activeOn)
}

// ListLocationUsers returns a page of assignments for one location.
func (s *UserLocationService) ListLocationUsers(ctx context.Context, locationID uint, q dto.LocationUsersQuery) (dto.Page[models.UserLocation], error) {
	if _, err := s.db.Locations().Get(ctx, locationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.Page[models.UserLocation]{}, apperr.NotFound("location %d does not exist", locationID)
		}
		return dto.Page[models.UserLocation]{}, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = 20
	}

	var activeOn *time.Time
	if !q.IncludeInactive {
		today := s.clock.Now()
		activeOn = &today
	}

	assignments, total, err := s.db.UserLocations().ListByLocation(ctx, repository.LocationUsersFilter{
		LocationID: locationID,
		ActiveOn:   activeOn,
		Search:     q.Search,
		IsPrimary:  q.IsPrimary,
		Offset:     (q.Page - 1) * q.Size,
		Limit:      q.Size,
	})
	if err != nil {
		return dto.Page[models.UserLocation]{}, err
	}
	return dto.NewPage(assignments, total, q.Page, q.Size), nil
}

// CheckAvailability reports whether a user can be assigned to a location on
// startDate. Conflicts are existing assignments of the same user to the same
// location active on that date; primary conflicts are active primaries at
// other locations that a primary assignment would supersede.
func (s *UserLocationService) CheckAvailability(ctx context.Context, userID, locationID uint, startDate time.Time, isPrimary bool) (*dto.Availability, error) {
	if _, err := s.db.Users().Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user %d does not exist", userID)
		}
		return nil, err
	}
	if _, err := s.db.Locations().Get(ctx, locationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("location %d does not exist", locationID)
		}
		return nil, err
	}

	existing, err := s.db.UserLocations().ListByUserAndLocation(ctx, userID, locationID, nil)
	if err != nil {
		return nil, err
	}
	conflicts := make([]models.UserLocation, 0, len(existing))
	for _, ul := range existing {
		if ul.ActiveAt(startDate) {
			conflicts = append(conflicts, ul)
		}
	}

	primaryConflicts := []models.UserLocation{}
	if isPrimary {
		primaries, err := s.db.UserLocations().ActivePrimaries(ctx, userID, startDate, 0)
		if err != nil {
			return nil, err
		}
		for _, ul := range primaries {
			if ul.LocationID != locationID {
				primaryConflicts = append(primaryConflicts, ul)
			}
		}
	}

	return &dto.Availability{
		Available:        len(conflicts) == 0,
		Conflicts:        conflicts,
		PrimaryConflicts: primaryConflicts,
	}, nil
}

// supersedePrimaries closes every active primary assignment of the user,
// except excludeID, the day before start. Assignments already ended before
// start are untouched.
func (s *UserLocationService) supersedePrimaries(ctx context.Context, tx repository.DB, userID uint, start time.Time, excludeID uint) error {
	primaries, err := tx.UserLocations().ActivePrimaries(ctx, userID, start, excludeID)
	if err != nil {
		return err
	}
	for i := range primaries {
		end := start.AddDate(0, 0, -1)
		primaries[i].EndDate = &end
		primaries[i].User = nil
		primaries[i].Location = nil
		if err := tx.UserLocations().Update(ctx, &primaries[i]); err != nil {
			return err
		}
	}
	return nil
}
