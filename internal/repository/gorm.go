package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type gormDB struct {
	db *gorm.DB
}

// NewGormDB wraps a *gorm.DB in the DB interface. The connection must be
// opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewGormDB(db *gorm.DB) DB {
	return &gormDB{db: db}
}

func (g *gormDB) Users() UserStore                 { return &userStore{db: g.db} }
func (g *gormDB) Roles() RoleStore                 { return &roleStore{db: g.db} }
func (g *gormDB) Locations() LocationStore         { return &locationStore{db: g.db} }
func (g *gormDB) UserLocations() UserLocationStore { return &userLocationStore{db: g.db} }
func (g *gormDB) Items() ItemStore                 { return &itemStore{db: g.db} }

func (g *gormDB) InTx(ctx context.Context, fn func(DB) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormDB{db: tx})
	})
}

// translate maps store-level errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
