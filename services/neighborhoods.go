package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Kariqs/mealplan-api/cache"
	"github.com/Kariqs/mealplan-api/models"
	"github.com/Kariqs/mealplan-api/repositories"
)

type NeighborhoodService struct {
	store repositories.NeighborhoodStore
	cache *cache.Cache
}

func NewNeighborhoodService(store repositories.NeighborhoodStore, c *cache.Cache) *NeighborhoodService {
	return &NeighborhoodService{store: store, cache: c}
}

func (s *NeighborhoodService) List(ctx context.Context) ([]models.Neighborhood, error) {
	return cache.Remember(ctx, s.cache, cache.NeighborhoodsKey, func(ctx context.Context) ([]models.Neighborhood, error) {
		list, err := s.store.List(ctx)
		if list == nil {
			list = []models.Neighborhood{}
		}
		return list, err
	})
}

func (s *NeighborhoodService) Create(ctx context.Context, n models.Neighborhood) (models.Neighborhood, error) {
	n.ID = 0
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		return models.Neighborhood{}, invalidf("name is required")
	}
	if err := s.store.Create(ctx, &n); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Neighborhood{}, ErrConflict
		}
		return models.Neighborhood{}, err
	}
	s.cache.NeighborhoodsChanged(ctx)
	return n, nil
}

func (s *NeighborhoodService) Update(ctx context.Context, id uint, data models.Neighborhood) (models.Neighborhood, error) {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Neighborhood{}, storeErr(err)
	}
	if name := strings.TrimSpace(data.Name); name != "" {
		n.Name = name
	}
	n.IsServiced = data.IsServiced
	if err := s.store.Update(ctx, &n); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Neighborhood{}, ErrConflict
		}
		return models.Neighborhood{}, storeErr(err)
	}
	s.cache.NeighborhoodsChanged(ctx)
	return n, nil
}

func (s *NeighborhoodService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.cache.NeighborhoodsChanged(ctx)
	return nil
}
