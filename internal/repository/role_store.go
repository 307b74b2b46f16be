package repository

import (
	"context"

	"github.com/kyotenhq/kyoten-backend/internal/models"
	"gorm.io/gorm"
)

type roleStore struct {
	db *gorm.DB
}

func (s *roleStore) Get(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (s *roleStore) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (s *roleStore) List(ctx context.Context, offset, limit int) ([]models.Role, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Role{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var roles []models.Role
	err := query.Order("name").Offset(offset).Limit(limit).Find(&roles).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return roles, total, nil
}

func (s *roleStore) Create(ctx context.Context, role *models.Role) error {
	return translate(s.db.WithContext(ctx).Create(role).Error)
}

func (s *roleStore) Update(ctx context.Context, role *models.Role) error {
	return translate(s.db.WithContext(ctx).Save(role).Error)
}

// Delete removes the role; the SET NULL foreign key clears role_id on
// referencing users.
func (s *roleStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Role{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
