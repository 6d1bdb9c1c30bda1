package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Kariqs/mealplan-api/models"
	"gorm.io/gorm"
)

// memoryDB backs the in-memory stores used by STORAGE_DRIVER=memory and the tests.
type memoryDB struct {
	mu            sync.Mutex
	nextID        uint
	now           func() time.Time
	users         map[uint]models.User
	admins        map[uint]models.Admin
	meals         map[uint]models.Meal
	weeks         map[uint]models.Week
	weekMeals     map[uint][]uint
	orders        map[uint]models.Order
	items         map[uint][]models.OrderItem
	neighborhoods map[uint]models.Neighborhood
	waitlist      map[uint]models.WaitlistEntry
}

// NewMemoryStores returns stores sharing one in-memory database.
func NewMemoryStores() Stores {
	db := &memoryDB{
		now:           time.Now,
		users:         make(map[uint]models.User),
		admins:        make(map[uint]models.Admin),
		meals:         make(map[uint]models.Meal),
		weeks:         make(map[uint]models.Week),
		weekMeals:     make(map[uint][]uint),
		orders:        make(map[uint]models.Order),
		items:         make(map[uint][]models.OrderItem),
		neighborhoods: make(map[uint]models.Neighborhood),
		waitlist:      make(map[uint]models.WaitlistEntry),
	}
	return Stores{
		Users:         &MemoryUserStore{db},
		Admins:        &MemoryAdminStore{db},
		Meals:         &MemoryMealStore{db},
		Weeks:         &MemoryWeekStore{db},
		Orders:        &MemoryOrderStore{db},
		Neighborhoods: &MemoryNeighborhoodStore{db},
		Waitlist:      &MemoryWaitlistStore{db},
	}
}

// stamp assigns an id on first save and refreshes timestamps. Callers hold the lock.
func (db *memoryDB) stamp(m *gorm.Model) {
	now := db.now()
	if m.ID == 0 {
		db.nextID++
		m.ID = db.nextID
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

func sortByCreated[T any](list []T, created func(T) time.Time, id func(T) uint, dir string) {
	sort.Slice(list, func(i, j int) bool {
		ci, cj := created(list[i]), created(list[j])
		if ci.Equal(cj) {
			ci, cj = time.Unix(int64(id(list[i])), 0), time.Unix(int64(id(list[j])), 0)
		}
		if dir == "asc" {
			return ci.Before(cj)
		}
		return ci.After(cj)
	})
}

func window[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

type MemoryUserStore struct{ db *memoryDB }

func (s *MemoryUserStore) withNeighborhood(u models.User) models.User {
	if u.NeighborhoodID != nil {
		if n, ok := s.db.neighborhoods[*u.NeighborhoodID]; ok {
			u.Neighborhood = &n
		}
	}
	return u
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	s.db.stamp(&user.Model)
	stored := *user
	stored.Neighborhood = nil
	s.db.users[user.ID] = stored
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id uint) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.withNeighborhood(u), nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			return s.withNeighborhood(u), nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[user.ID]; !ok {
		return ErrNotFound
	}
	s.db.stamp(&user.Model)
	stored := *user
	stored.Neighborhood = nil
	s.db.users[user.ID] = stored
	return nil
}

func (s *MemoryUserStore) SetResetToken(_ context.Context, email, token string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, u := range s.db.users {
		if u.Email == email {
			u.PasswordResetToken = token
			s.db.users[id] = u
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryUserStore) ResetPassword(_ context.Context, token, hashedPassword string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if token == "" {
		return ErrNotFound
	}
	for id, u := range s.db.users {
		if u.PasswordResetToken == token {
			u.Password = hashedPassword
			u.PasswordResetToken = ""
			s.db.users[id] = u
			return nil
		}
	}
	return ErrNotFound
}

type MemoryAdminStore struct{ db *memoryDB }

func (s *MemoryAdminStore) Create(_ context.Context, admin *models.Admin) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, a := range s.db.admins {
		if a.Email == admin.Email {
			return ErrDuplicate
		}
	}
	s.db.stamp(&admin.Model)
	s.db.admins[admin.ID] = *admin
	return nil
}

func (s *MemoryAdminStore) FindByID(_ context.Context, id uint) (models.Admin, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.admins[id]
	if !ok {
		return models.Admin{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryAdminStore) FindByEmail(_ context.Context, email string) (models.Admin, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, a := range s.db.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return models.Admin{}, ErrNotFound
}

func (s *MemoryAdminStore) Count(_ context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(s.db.admins)), nil
}

type MemoryNeighborhoodStore struct{ db *memoryDB }

func (s *MemoryNeighborhoodStore) List(_ context.Context) ([]models.Neighborhood, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	list := make([]models.Neighborhood, 0, len(s.db.neighborhoods))
	for _, n := range s.db.neighborhoods {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (s *MemoryNeighborhoodStore) FindByID(_ context.Context, id uint) (models.Neighborhood, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	n, ok := s.db.neighborhoods[id]
	if !ok {
		return models.Neighborhood{}, ErrNotFound
	}
	return n, nil
}

func (s *MemoryNeighborhoodStore) Create(_ context.Context, n *models.Neighborhood) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.neighborhoods {
		if existing.Name == n.Name {
			return ErrDuplicate
		}
	}
	s.db.stamp(&n.Model)
	s.db.neighborhoods[n.ID] = *n
	return nil
}

func (s *MemoryNeighborhoodStore) Update(_ context.Context, n *models.Neighborhood) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.neighborhoods[n.ID]; !ok {
		return ErrNotFound
	}
	s.db.stamp(&n.Model)
	s.db.neighborhoods[n.ID] = *n
	return nil
}

func (s *MemoryNeighborhoodStore) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.neighborhoods[id]; !ok {
		return ErrNotFound
	}
	delete(s.db.neighborhoods, id)
	return nil
}

type MemoryWaitlistStore struct{ db *memoryDB }

func (s *MemoryWaitlistStore) Create(_ context.Context, entry *models.WaitlistEntry) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.stamp(&entry.Model)
	s.db.waitlist[entry.ID] = *entry
	return nil
}

func (s *MemoryWaitlistStore) List(_ context.Context, offset, limit int, dir string) ([]models.WaitlistEntry, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	list := make([]models.WaitlistEntry, 0, len(s.db.waitlist))
	for _, e := range s.db.waitlist {
		list = append(list, e)
	}
	sortByCreated(list,
		func(e models.WaitlistEntry) time.Time { return e.CreatedAt },
		func(e models.WaitlistEntry) uint { return e.ID }, dir)
	return window(list, offset, limit), int64(len(list)), nil
}

func (s *MemoryWaitlistStore) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.waitlist[id]; !ok {
		return ErrNotFound
	}
	delete(s.db.waitlist, id)
	return nil
}
