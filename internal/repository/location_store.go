package repository

import (
	"context"

	"github.com/kyotenhq/kyoten-backend/internal/models"
	"gorm.io/gorm"
)

type locationStore struct {
	db *gorm.DB
}

func (s *locationStore) Get(ctx context.Context, id uint) (*models.Location, error) {
	var loc models.Location
	err := s.db.WithContext(ctx).
		Preload("Parent").Preload("Children").
		First(&loc, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &loc, nil
}

func (s *locationStore) GetByCode(ctx context.Context, code string) (*models.Location, error) {
	var loc models.Location
	err := s.db.WithContext(ctx).
		Preload("Parent").Preload("Children").
		First(&loc, "code = ?", code).Error
	if err != nil {
		return nil, translate(err)
	}
	return &loc, nil
}

func (s *locationStore) List(ctx context.Context, f LocationFilter) ([]models.Location, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Location{})

	if f.Type != nil {
		query = query.Where("type = ?", *f.Type)
	}
	if f.ParentID != nil {
		query = query.Where("parent_id = ?", *f.ParentID)
	}
	if f.IsActive != nil {
		query = query.Where("is_active = ?", *f.IsActive)
	}
	if f.Prefecture != "" {
		query = query.Where("prefecture = ?", f.Prefecture)
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		query = query.Where(
			"name ILIKE ? OR code ILIKE ? OR city ILIKE ? OR address1 ILIKE ?",
			term, term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var locations []models.Location
	err := query.Preload("Parent").
		Order("type, name").
		Offset(f.Offset).Limit(f.Limit).
		Find(&locations).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return locations, total, nil
}

func (s *locationStore) CountChildren(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Location{}).
		Where("parent_id = ?", id).Count(&count).Error
	return count, translate(err)
}

func (s *locationStore) Create(ctx context.Context, loc *models.Location) error {
	return translate(s.db.WithContext(ctx).Create(loc).Error)
}

func (s *locationStore) Update(ctx context.Context, loc *models.Location) error {
	return translate(s.db.WithContext(ctx).Save(loc).Error)
}

func (s *locationStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Location{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
