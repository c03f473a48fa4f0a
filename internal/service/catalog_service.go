package service

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/pkg/apperrors"
)

const (
	cacheKeyCategories = "catalog:categories"
	cacheKeyPriorities = "catalog:priorities"
	cacheKeyStatuses   = "catalog:statuses"
)

// CatalogService serves the reference data: categories, priorities and
// statuses. Lists are cached in redis for a short TTL since they change
// rarely and every ticket and triage call reads them.
type CatalogService struct {
	categories repository.CategoryRepository
	priorities repository.PriorityRepository
	statuses   repository.StatusRepository
	cache      *cache.CatalogCache
}

func NewCatalogService(
	categories repository.CategoryRepository,
	priorities repository.PriorityRepository,
	statuses repository.StatusRepository,
	catalogCache *cache.CatalogCache,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		priorities: priorities,
		statuses:   statuses,
		cache:      catalogCache,
	}
}

// ListCategories returns active categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cached []domain.Category
	if s.cache.Get(ctx, cacheKeyCategories, &cached) {
		return cached, nil
	}
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Set(ctx, cacheKeyCategories, categories)
	return categories, nil
}

// ListPriorities returns active priorities ordered by level.
func (s *CatalogService) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	var cached []domain.Priority
	if s.cache.Get(ctx, cacheKeyPriorities, &cached) {
		return cached, nil
	}
	priorities, err := s.priorities.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Set(ctx, cacheKeyPriorities, priorities)
	return priorities, nil
}

// ListStatuses returns active ticket statuses.
func (s *CatalogService) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	var cached []domain.Status
	if s.cache.Get(ctx, cacheKeyStatuses, &cached) {
		return cached, nil
	}
	statuses, err := s.statuses.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Set(ctx, cacheKeyStatuses, statuses)
	return statuses, nil
}
