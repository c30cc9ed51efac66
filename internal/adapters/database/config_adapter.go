package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

const configTable = "search_config"

// configRecordID pins the single configuration row.
const configRecordID = "default"

// ConfigAdapter persists the single search configuration record.
type ConfigAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewConfigAdapter creates a new config adapter.
func NewConfigAdapter(client *postgres.Client) repositories.SearchConfigRepository {
	return &ConfigAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get loads the stored configuration. Returns (nil, nil) when no row
// exists yet.
func (a *ConfigAdapter) Get(ctx context.Context) (*entities.SearchConfig, error) {
	query, args, err := a.db.Select(
		"id", "backend_enabled", "fuzzy_enabled", "autocomplete_enabled",
		"analytics_enabled", "semantic_enabled", "highlight_enabled",
		"boost_recent_results", "boost_popular_results",
		"recency_weight", "popularity_weight", "cache_ttl_seconds",
		"max_results", "timeout_ms", "min_query_length", "max_query_length",
		"updated_at",
	).From(configTable).
		Where(goqu.Ex{"id": configRecordID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewConfigurationError("failed to build config query", err)
	}

	cfg := &entities.SearchConfig{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.BackendEnabled,
		&cfg.FuzzyEnabled,
		&cfg.AutocompleteEnabled,
		&cfg.AnalyticsEnabled,
		&cfg.SemanticEnabled,
		&cfg.HighlightEnabled,
		&cfg.BoostRecentResults,
		&cfg.BoostPopularResults,
		&cfg.RecencyWeight,
		&cfg.PopularityWeight,
		&cfg.CacheTTLSeconds,
		&cfg.MaxResults,
		&cfg.TimeoutMs,
		&cfg.MinQueryLength,
		&cfg.MaxQueryLength,
		&cfg.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewConfigurationError("failed to load search config", err)
	}
	return cfg, nil
}

// Replace upserts the single row with the full record. Last writer
// wins.
func (a *ConfigAdapter) Replace(ctx context.Context, cfg *entities.SearchConfig) error {
	cfg.ID = configRecordID
	cfg.UpdatedAt = time.Now()

	record := goqu.Record{
		"id":                    cfg.ID,
		"backend_enabled":       cfg.BackendEnabled,
		"fuzzy_enabled":         cfg.FuzzyEnabled,
		"autocomplete_enabled":  cfg.AutocompleteEnabled,
		"analytics_enabled":     cfg.AnalyticsEnabled,
		"semantic_enabled":      cfg.SemanticEnabled,
		"highlight_enabled":     cfg.HighlightEnabled,
		"boost_recent_results":  cfg.BoostRecentResults,
		"boost_popular_results": cfg.BoostPopularResults,
		"recency_weight":        cfg.RecencyWeight,
		"popularity_weight":     cfg.PopularityWeight,
		"cache_ttl_seconds":     cfg.CacheTTLSeconds,
		"max_results":           cfg.MaxResults,
		"timeout_ms":            cfg.TimeoutMs,
		"min_query_length":      cfg.MinQueryLength,
		"max_query_length":      cfg.MaxQueryLength,
		"updated_at":            cfg.UpdatedAt,
	}

	update := goqu.Record{}
	for column, value := range record {
		if column == "id" {
			continue
		}
		update[column] = value
	}

	query, args, err := a.db.Insert(configTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("id", update)).
		ToSQL()
	if err != nil {
		return apperrors.NewConfigurationError("failed to build config upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewConfigurationError("failed to store search config", err)
	}
	return nil
}
