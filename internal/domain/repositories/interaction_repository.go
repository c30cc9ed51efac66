package repositories

import (
	"context"
	"time"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// InteractionRepository persists the append-only interaction log and
// serves windowed reads over it. Events are never updated or deleted.
type InteractionRepository interface {
	LogEvent(ctx context.Context, event *entities.InteractionEvent) error

	// ListSince returns all events at or after the given instant,
	// ordered by creation time ascending.
	ListSince(ctx context.Context, since time.Time) ([]*entities.InteractionEvent, error)

	// CountClicksByResult returns per-result click counts recorded for
	// the exact query text since the given instant.
	CountClicksByResult(ctx context.Context, query string, since time.Time) (map[string]int, error)
}
