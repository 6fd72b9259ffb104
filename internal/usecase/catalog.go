package usecase

import (
	"context"
	"sync"
	"time"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/domain/repository"
	"resident-request-service/pkg/logger"
)

// CatalogService caches the field-service vendor's service type catalog.
// The catalog changes rarely; a stale cache is preferred over failing the
// operations that consult it.
type CatalogService struct {
	fieldService repository.FieldServiceRepository
	ttl          time.Duration
	logger       logger.Logger

	mu        sync.Mutex
	types     []entity.ServiceType
	fetchedAt time.Time
}

// NewCatalogService creates a new catalog cache
func NewCatalogService(fieldService repository.FieldServiceRepository, ttl time.Duration, logger logger.Logger) *CatalogService {
	return &CatalogService{
		fieldService: fieldService,
		ttl:          ttl,
		logger:       logger,
	}
}

// All returns the full catalog, refreshing the cache when stale. A failed
// refresh serves the stale cache when one exists.
func (s *CatalogService) All(ctx context.Context) ([]entity.ServiceType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.types != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.types, nil
	}

	types, err := s.fieldService.FetchServiceCatalog(ctx)
	if err != nil {
		if s.types != nil {
			s.logger.Warn("Catalog refresh failed, serving stale cache", "error", err)
			return s.types, nil
		}
		return nil, err
	}

	s.types = types
	s.fetchedAt = time.Now()
	return s.types, nil
}

// Public returns the resident-facing catalog with internal entries
// filtered out
func (s *CatalogService) Public(ctx context.Context) ([]entity.ServiceType, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]entity.ServiceType, 0, len(all))
	for _, t := range all {
		if !t.IsInternal {
			public = append(public, t)
		}
	}
	return public, nil
}

// PairsFor maps selected catalog ids to {id, name} pairs. An id with no
// catalog match keeps an empty name rather than failing the submission,
// and a completely unavailable catalog degrades to empty names.
func (s *CatalogService) PairsFor(ctx context.Context, ids []int) []entity.ServiceTypePair {
	byID := make(map[int]string)
	if all, err := s.All(ctx); err != nil {
		s.logger.Warn("Catalog unavailable, forwarding ids without names", "error", err)
	} else {
		for _, t := range all {
			byID[t.ID] = t.Name
		}
	}

	pairs := make([]entity.ServiceTypePair, 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, entity.ServiceTypePair{ID: id, Name: byID[id]})
	}
	return pairs
}

// Warm prefetches the catalog at startup
func (s *CatalogService) Warm(ctx context.Context) {
	if _, err := s.All(ctx); err != nil {
		s.logger.Warn("Catalog warm-up failed", "error", err)
	}
}
