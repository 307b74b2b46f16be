package repository

import (
	"context"
	"time"

	"github.com/kyotenhq/kyoten-backend/internal/models"
	"gorm.io/gorm"
)

type userLocationStore struct {
	db *gorm.DB
}

// activeOn keeps assignments with no end date or one on/after the reference.
func activeOn(query *gorm.DB, ref time.Time) *gorm.DB {
	return query.Where("end_date IS NULL OR end_date >= ?", ref)
}

func (s *userLocationStore) Get(ctx context.Context, id uint) (*models.UserLocation, error) {
	var ul models.UserLocation
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Location").
		First(&ul, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ul, nil
}

func (s *userLocationStore) ListByUser(ctx context.Context, userID uint, ref *time.Time) ([]models.UserLocation, error) {
	query := s.db.WithContext(ctx).
		Preload("Location").
		Where("user_id = ?", userID)
	if ref != nil {
		query = activeOn(query, *ref)
	}

	var assignments []models.UserLocation
	err := query.Order("is_primary DESC, start_date DESC").Find(&assignments).Error
	if err != nil {
		return nil, translate(err)
	}
	return assignments, nil
}

func (s *userLocationStore) ListByUserAndLocation(ctx context.Context, userID, locationID uint, ref *time.Time) ([]models.UserLocation, error) {
	query := s.db.WithContext(ctx).
		Preload("User").Preload("Location").
		Where("user_id = ? AND location_id = ?", userID, locationID)
	if ref != nil {
		query = activeOn(query, *ref)
	}

	var assignments []models.UserLocation
	if err := query.Find(&assignments).Error; err != nil {
		return nil, translate(err)
	}
	return assignments, nil
}

func (s *userLocationStore) ListByLocation(ctx context.Context, f LocationUsersFilter) ([]models.UserLocation, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.UserLocation{}).
		Joins("JOIN users ON users.id = user_locations.user_id").
		Where("user_locations.location_id = ?", f.LocationID)

	if f.ActiveOn != nil {
		query = activeOn(query, *f.ActiveOn)
	}
	if f.IsPrimary != nil {
		query = query.Where("user_locations.is_primary = ?", *f.IsPrimary)
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		query = query.Where(
			"users.email ILIKE ? OR users.full_name ILIKE ? OR users.first_name ILIKE ? OR users.last_name ILIKE ? OR users.employee_id ILIKE ?",
			term, term, term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var assignments []models.UserLocation
	err := query.Preload("User").Preload("Location").
		Order("user_locations.is_primary DESC, users.full_name").
		Offset(f.Offset).Limit(f.Limit).
		Find(&assignments).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return assignments, total, nil
}

func (s *userLocationStore) ActivePrimaries(ctx context.Context, userID uint, ref time.Time, excludeID uint) ([]models.UserLocation, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ? AND is_primary = ?", userID, true)
	query = activeOn(query, ref)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var primaries []models.UserLocation
	if err := query.Find(&primaries).Error; err != nil {
		return nil, translate(err)
	}
	return primaries, nil
}

func (s *userLocationStore) Create(ctx context.Context, ul *models.UserLocation) error {
	return translate(s.db.WithContext(ctx).Create(ul).Error)
}

func (s *userLocationStore) Update(ctx context.Context, ul *models.UserLocation) error {
	return translate(s.db.WithContext(ctx).Save(ul).Error)
}

func (s *userLocationStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.UserLocation{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
