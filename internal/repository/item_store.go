package repository

import (
	"context"

	"github.com/kyotenhq/kyoten-backend/internal/models"
	"gorm.io/gorm"
)

type itemStore struct {
	db *gorm.DB
}

func (s *itemStore) Get(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *itemStore) List(ctx context.Context, ownerID *uint, offset, limit int) ([]models.Item, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Item{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var items []models.Item
	err := query.Order("id").Offset(offset).Limit(limit).Find(&items).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return items, total, nil
}

func (s *itemStore) Create(ctx context.Context, item *models.Item) error {
	return translate(s.db.WithContext(ctx).Create(item).Error)
}

func (s *itemStore) Update(ctx context.Context, item *models.Item) error {
	return translate(s.db.WithContext(ctx).Save(item).Error)
}

func (s *itemStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
