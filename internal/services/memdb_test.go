package services

import (
	"context"
	"time"

	"github.com/kyotenhq/kyoten-backend/internal/models"
	"github.com/kyotenhq/kyoten-backend/internal/repository"
)

// memDB is an in-memory repository.DB for exercising the services without a
// database. Matching behaviour, not performance: unique constraints return
// ErrDuplicate the way the Postgres stores do.
type memDB struct {
	users       map[uint]*models.User
	roles       map[uint]*models.Role
	locations   map[uint]*models.Location
	assignments map[uint]*models.UserLocation
	items       map[uint]*models.Item
	lastID      uint
}

func newMemDB() *memDB {
	return &memDB{
		users:       make(map[uint]*models.User),
		roles:       make(map[uint]*models.Role),
		locations:   make(map[uint]*models.Location),
		assignments: make(map[uint]*models.UserLocation),
		items:       make(map[uint]*models.Item),
	}
}

func (m *memDB) nextID() uint {
	m.lastID++
	return m.lastID
}

func (m *memDB) Users() repository.UserStore                 { return &memUsers{m} }
func (m *memDB) Roles() repository.RoleStore                 { return &memRoles{m} }
func (m *memDB) Locations() repository.LocationStore         { return &memLocations{m} }
func (m *memDB) UserLocations() repository.UserLocationStore { return &memAssignments{m} }
func (m *memDB) Items() repository.ItemStore                 { return &memItems{m} }

// InTx runs fn against the same state. The services under test never rely on
// rollback, only on the read-your-writes scoping.
func (m *memDB) InTx(_ context.Context, fn func(repository.DB) error) error {
	return fn(m)
}

type memUsers struct{ db *memDB }

func (s *memUsers) Get(_ context.Context, id uint) (*models.User, error) {
	u, ok := s.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByEmail matches exactly, like the SQL store does. Callers are expected
// to normalize casing before the lookup.
func (s *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUsers) GetByEmployeeID(_ context.Context, employeeID string) (*models.User, error) {
	for _, u := range s.db.users {
		if u.EmployeeID != nil && *u.EmployeeID == employeeID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUsers) List(_ context.Context, f repository.UserFilter) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range s.db.users {
		if f.RoleID != nil && (u.RoleID == nil || *u.RoleID != *f.RoleID) {
			continue
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (s *memUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range s.db.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = s.db.nextID()
	cp := *user
	s.db.users[user.ID] = &cp
	return nil
}

func (s *memUsers) Update(_ context.Context, user *models.User) error {
	if _, ok := s.db.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *user
	s.db.users[user.ID] = &cp
	return nil
}

func (s *memUsers) Delete(_ context.Context, id uint) error {
	if _, ok := s.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.users, id)
	return nil
}

type memRoles struct{ db *memDB }

func (s *memRoles) Get(_ context.Context, id uint) (*models.Role, error) {
	r, ok := s.db.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memRoles) GetByName(_ context.Context, name string) (*models.Role, error) {
	for _, r := range s.db.roles {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memRoles) List(_ context.Context, _, _ int) ([]models.Role, int64, error) {
	var out []models.Role
	for _, r := range s.db.roles {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (s *memRoles) Create(_ context.Context, role *models.Role) error {
	for _, r := range s.db.roles {
		if r.Name == role.Name {
			return repository.ErrDuplicate
		}
	}
	role.ID = s.db.nextID()
	cp := *role
	s.db.roles[role.ID] = &cp
	return nil
}

func (s *memRoles) Update(_ context.Context, role *models.Role) error {
	if _, ok := s.db.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *role
	s.db.roles[role.ID] = &cp
	return nil
}

func (s *memRoles) Delete(_ context.Context, id uint) error {
	if _, ok := s.db.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.roles, id)
	return nil
}

type memLocations struct{ db *memDB }

func (s *memLocations) Get(_ context.Context, id uint) (*models.Location, error) {
	l, ok := s.db.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *memLocations) GetByCode(_ context.Context, code string) (*models.Location, error) {
	for _, l := range s.db.locations {
		if l.Code == code {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memLocations) List(_ context.Context, f repository.LocationFilter) ([]models.Location, int64, error) {
	var out []models.Location
	for _, l := range s.db.locations {
		if f.Type != nil && l.Type != *f.Type {
			continue
		}
		if f.ParentID != nil && (l.ParentID == nil || *l.ParentID != *f.ParentID) {
			continue
		}
		if f.IsActive != nil && l.IsActive != *f.IsActive {
			continue
		}
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (s *memLocations) CountChildren(_ context.Context, id uint) (int64, error) {
	var n int64
	for _, l := range s.db.locations {
		if l.ParentID != nil && *l.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (s *memLocations) Create(_ context.Context, loc *models.Location) error {
	for _, l := range s.db.locations {
		if l.Code == loc.Code {
			return repository.ErrDuplicate
		}
	}
	loc.ID = s.db.nextID()
	cp := *loc
	s.db.locations[loc.ID] = &cp
	return nil
}

func (s *memLocations) Update(_ context.Context, loc *models.Location) error {
	if _, ok := s.db.locations[loc.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, l := range s.db.locations {
		if l.ID != loc.ID && l.Code == loc.Code {
			return repository.ErrDuplicate
		}
	}
	cp := *loc
	s.db.locations[loc.ID] = &cp
	return nil
}

func (s *memLocations) Delete(_ context.Context, id uint) error {
	if _, ok := s.db.locations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.locations, id)
	for aid, a := range s.db.assignments {
		if a.LocationID == id {
			delete(s.db.assignments, aid)
		}
	}
	return nil
}

type memAssignments struct{ db *memDB }

func (s *memAssignments) Get(_ context.Context, id uint) (*models.UserLocation, error) {
	a, ok := s.db.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memAssignments) ListByUser(_ context.Context, userID uint, activeOn *time.Time) ([]models.UserLocation, error) {
	var out []models.UserLocation
	for _, a := range s.db.assignments {
		if a.UserID != userID {
			continue
		}
		if activeOn != nil && !a.ActiveAt(*activeOn) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (s *memAssignments) ListByUserAndLocation(_ context.Context, userID, locationID uint, activeOn *time.Time) ([]models.UserLocation, error) {
	var out []models.UserLocation
	for _, a := range s.db.assignments {
		if a.UserID != userID || a.LocationID != locationID {
			continue
		}
		if activeOn != nil && !a.ActiveAt(*activeOn) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (s *memAssignments) ListByLocation(_ context.Context, f repository.LocationUsersFilter) ([]models.UserLocation, int64, error) {
	var out []models.UserLocation
	for _, a := range s.db.assignments {
		if a.LocationID != f.LocationID {
			continue
		}
		if f.ActiveOn != nil && !a.ActiveAt(*f.ActiveOn) {
			continue
		}
		if f.IsPrimary != nil && a.IsPrimary != *f.IsPrimary {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (s *memAssignments) ActivePrimaries(_ context.Context, userID uint, ref time.Time, excludeID uint) ([]models.UserLocation, error) {
	var out []models.UserLocation
	for _, a := range s.db.assignments {
		if a.UserID != userID || !a.IsPrimary || a.ID == excludeID {
			continue
		}
		if !a.ActiveAt(ref) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (s *memAssignments) Create(_ context.Context, ul *models.UserLocation) error {
	for _, a := range s.db.assignments {
		if a.UserID == ul.UserID && a.LocationID == ul.LocationID && a.IsPrimary == ul.IsPrimary {
			return repository.ErrDuplicate
		}
	}
	ul.ID = s.db.nextID()
	cp := *ul
	s.db.assignments[ul.ID] = &cp
	return nil
}

func (s *memAssignments) Update(_ context.Context, ul *models.UserLocation) error {
	if _, ok := s.db.assignments[ul.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *ul
	s.db.assignments[ul.ID] = &cp
	return nil
}

func (s *memAssignments) Delete(_ context.Context, id uint) error {
	if _, ok := s.db.assignments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.assignments, id)
	return nil
}

type memItems struct{ db *memDB }

func (s *memItems) Get(_ context.Context, id uint) (*models.Item, error) {
	it, ok := s.db.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *memItems) List(_ context.Context, ownerID *uint, _, _ int) ([]models.Item, int64, error) {
	var out []models.Item
	for _, it := range s.db.items {
		if ownerID != nil && it.OwnerID != *ownerID {
			continue
		}
		out = append(out, *it)
	}
	return out, int64(len(out)), nil
}

func (s *memItems) Create(_ context.Context, item *models.Item) error {
	item.ID = s.db.nextID()
	cp := *item
	s.db.items[item.ID] = &cp
	return nil
}

func (s *memItems) Update(_ context.Context, item *models.Item) error {
	if _, ok := s.db.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *item
	s.db.items[item.ID] = &cp
	return nil
}

func (s *memItems) Delete(_ context.Context, id uint) error {
	if _, ok := s.db.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.items, id)
	return nil
}
