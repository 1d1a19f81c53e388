package service

import (
	"context"
	"log"
	"time"

	"github.com/ramadanhub/backend/internal/repository"
	"github.com/ramadanhub/backend/pkg/llm"
)

// ModelLister is the slice of the LLM client the catalog needs.
type ModelLister interface {
	ListModels(ctx context.Context) ([]llm.Model, error)
}

// CatalogService caches the LLM aggregator's model catalog in the global
// system cache so feature pages don't hit the aggregator on every render.
type CatalogService struct {
	cacheRepo *repository.CacheRepository
	lister    ModelLister
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(cacheRepo *repository.CacheRepository, lister ModelLister) *CatalogService {
	return &CatalogService{
		cacheRepo: cacheRepo,
		lister:    lister,
	}
}

// GetModels retrieves the model catalog from the cache, syncing if empty or stale.
func (s *CatalogService) GetModels(ctx context.Context) (interface{}, error) {
	entry, err := s.cacheRepo.Get(ctx, "llm_models")
	if err != nil {
		log.Printf("[ERROR] Failed to fetch system_cache: %v", err)
	}

	// Cache hit (valid for 24 hours)
	if entry != nil && time.Since(entry.UpdatedAt) < 24*time.Hour {
		return entry.Data, nil
	}

	log.Printf("[INFO] Models cache miss/expired. Syncing model catalog...")
	return s.SyncModels(ctx)
}

// SyncModels fetches the catalog from the aggregator and saves it.
func (s *CatalogService) SyncModels(ctx context.Context) (interface{}, error) {
	models, err := s.lister.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Set(ctx, "llm_models", models); err != nil {
		log.Printf("[ERROR] Failed to save models to system cache: %v", err)
	}
	return models, nil
}
