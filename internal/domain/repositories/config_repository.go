package repositories

import (
	"context"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// SearchConfigRepository stores the single search configuration
// record. Replace overwrites the whole record, last-writer-wins.
type SearchConfigRepository interface {
	Get(ctx context.Context) (*entities.SearchConfig, error)
	Replace(ctx context.Context, cfg *entities.SearchConfig) error
}
