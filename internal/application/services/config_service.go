package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

// ConfigService serves the single search configuration record with an
// in-memory copy so the hot search path never waits on storage.
type ConfigService struct {
	repo repositories.SearchConfigRepository

	mu      sync.RWMutex
	current *entities.SearchConfig
}

// NewConfigService loads the stored configuration, falling back to
// defaults when none exists or the store is unavailable.
func NewConfigService(ctx context.Context, repo repositories.SearchConfigRepository) *ConfigService {
	s := &ConfigService{repo: repo}

	cfg, err := repo.Get(ctx)
	if err != nil || cfg == nil {
		if err != nil {
			log.Warn().Err(err).Msg("search config unavailable, using defaults")
		}
		cfg = entities.DefaultSearchConfig()
	}
	s.current = cfg
	return s
}

// Get returns a copy of the active configuration. Callers may mutate
// the copy freely.
func (s *ConfigService) Get() *entities.SearchConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := *s.current
	return &cfg
}

// Update validates and persists a full replacement configuration.
// Last writer wins.
func (s *ConfigService) Update(ctx context.Context, cfg *entities.SearchConfig) error {
	if err := validateSearchConfig(cfg); err != nil {
		return err
	}
	if err := s.repo.Replace(ctx, cfg); err != nil {
		return apperrors.NewConfigurationError("failed to persist search config", err)
	}

	s.mu.Lock()
	copied := *cfg
	s.current = &copied
	s.mu.Unlock()
	return nil
}

func validateSearchConfig(cfg *entities.SearchConfig) error {
	switch {
	case cfg == nil:
		return apperrors.NewValidationError("config body is required")
	case cfg.MinQueryLength < 1:
		return apperrors.NewValidationError("minQueryLength must be at least 1")
	case cfg.MaxQueryLength < cfg.MinQueryLength:
		return apperrors.NewValidationError("maxQueryLength must be at least minQueryLength")
	case cfg.TimeoutMs <= 0:
		return apperrors.NewValidationError("timeoutMs must be positive")
	case cfg.MaxResults <= 0:
		return apperrors.NewValidationError("maxResults must be positive")
	case cfg.PopularityWeight < 0 || cfg.RecencyWeight < 0:
		return apperrors.NewValidationError("ranking weights must not be negative")
	}
	return nil
}
