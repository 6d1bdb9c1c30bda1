package repositories

import (
	"context"
	"errors"

	"github.com/Kariqs/mealplan-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewGormStores wires every store to the same database handle.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Users:         &GormUserStore{db: db},
		Admins:        &GormAdminStore{db: db},
		Meals:         &GormMealStore{db: db},
		Weeks:         &GormWeekStore{db: db},
		Orders:        &GormOrderStore{db: db},
		Neighborhoods: &GormNeighborhoodStore{db: db},
		Waitlist:      &GormWaitlistStore{db: db},
	}
}

// translate maps gorm errors onto the package errors.
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

type GormUserStore struct {
	db *gorm.DB
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

func (s *GormUserStore) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Neighborhood").First(&user, id).Error
	return user, translate(err)
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Neighborhood").Where("email = ?", email).First(&user).Error
	return user, translate(err)
}

func (s *GormUserStore) Update(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

func (s *GormUserStore) SetResetToken(ctx context.Context, email, token string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("password_reset_token", token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormUserStore) ResetPassword(ctx context.Context, token, hashedPassword string) error {
	if token == "" {
		return ErrNotFound
	}
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("password_reset_token = ?", token).
		Updates(map[string]any{
			"password":             hashedPassword,
			"password_reset_token": "",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormAdminStore struct {
	db *gorm.DB
}

func (s *GormAdminStore) Create(ctx context.Context, admin *models.Admin) error {
	return translate(s.db.WithContext(ctx).Create(admin).Error)
}

func (s *GormAdminStore) FindByID(ctx context.Context, id uint) (models.Admin, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).First(&admin, id).Error
	return admin, translate(err)
}

func (s *GormAdminStore) FindByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	return admin, translate(err)
}

func (s *GormAdminStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error
	return count, err
}

type GormNeighborhoodStore struct {
	db *gorm.DB
}

func (s *GormNeighborhoodStore) List(ctx context.Context) ([]models.Neighborhood, error) {
	var list []models.Neighborhood
	err := s.db.WithContext(ctx).Order("name asc").Find(&list).Error
	return list, err
}

func (s *GormNeighborhoodStore) FindByID(ctx context.Context, id uint) (models.Neighborhood, error) {
	var n models.Neighborhood
	err := s.db.WithContext(ctx).First(&n, id).Error
	return n, translate(err)
}

func (s *GormNeighborhoodStore) Create(ctx context.Context, n *models.Neighborhood) error {
	return translate(s.db.WithContext(ctx).Create(n).Error)
}

func (s *GormNeighborhoodStore) Update(ctx context.Context, n *models.Neighborhood) error {
	return translate(s.db.WithContext(ctx).Save(n).Error)
}

func (s *GormNeighborhoodStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Neighborhood{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormWaitlistStore struct {
	db *gorm.DB
}

func (s *GormWaitlistStore) Create(ctx context.Context, entry *models.WaitlistEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormWaitlistStore) List(ctx context.Context, offset, limit int, sort string) ([]models.WaitlistEntry, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.WaitlistEntry
	err := s.db.WithContext(ctx).
		Order("created_at " + sortDirection(sort)).
		Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, count, err
}

func (s *GormWaitlistStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.WaitlistEntry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func sortDirection(sort string) string {
	if sort == "asc" {
		return "asc"
	}
	return "desc"
}
