package repositories

import (
	"context"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// SearchBackend is the abstraction boundary between this system and
// whatever full-text/aggregation engine executes structured queries.
// Any engine implementing Execute is a valid backend; adapters must
// return an error rather than let an engine-level fault propagate.
type SearchBackend interface {
	// Execute runs a structured query and returns hits, total,
	// elapsed time and aggregation buckets.
	Execute(ctx context.Context, query *entities.StructuredQuery) (*entities.BackendResult, error)

	// Suggest returns up to limit completions for a prefix, in
	// backend-preferred order.
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)

	// Index upserts one document into the named index type.
	Index(ctx context.Context, indexType, id string, doc map[string]interface{}) error

	// EnsureSchema creates the backing indices/collections if absent.
	EnsureSchema(ctx context.Context) error
}
