package services

import (
	"context"
	"errors"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/models"
	"github.com/kyotenhq/kyoten-backend/internal/repository"
)

// ItemService manages user-owned items. Non-superusers only see and touch
// their own items; the caller passes the acting user so ownership is
// enforced here rather than in each handler.
type ItemService struct {
	db repository.DB
}

func NewItemService(db repository.DB) *ItemService {
	return &ItemService{db: db}
}

func (s *ItemService) Get(ctx context.Context, actor *models.User, id uint) (*models.Item, error) {
	item, err := s.db.Items().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("item %d does not exist", id)
		}
		return nil, err
	}
	if !actor.IsSuperuser && item.OwnerID != actor.ID {
		return nil, apperr.Forbidden("not enough permissions")
	}
	return item, nil
}

func (s *ItemService) List(ctx context.Context, actor *models.User, page, size int) (dto.Page[models.Item], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	var ownerID *uint
	if !actor.IsSuperuser {
		ownerID = &actor.ID
	}
	items, total, err := s.db.Items().List(ctx, ownerID, (page-1)*size, size)
	if err != nil {
		return dto.Page[models.Item]{}, err
	}
	return dto.NewPage(items, total, page, size), nil
}

func (s *ItemService) Create(ctx context.Context, actor *models.User, in dto.ItemCreate) (*models.Item, error) {
	item := &models.Item{
		Title:       in.Title,
		Description: in.Description,
		OwnerID:     actor.ID,
	}
	if err := s.db.Items().Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Update(ctx context.Context, actor *models.User, id uint, in dto.ItemUpdate) (*models.Item, error) {
	item, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		item.Title = *in.Title
	}
	if in.Description != nil {
		item.Description = in.Description
	}
	item.Owner = nil

	if err := s.db.Items().Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.db.Items().Delete(ctx, id)
}
