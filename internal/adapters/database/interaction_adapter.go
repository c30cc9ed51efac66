package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

const interactionsTable = "search_interactions"

// InteractionAdapter persists interaction events in Postgres. The
// table is append-only; rows are never updated or deleted.
type InteractionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewInteractionAdapter creates a new interaction adapter.
func NewInteractionAdapter(client *postgres.Client) repositories.InteractionRepository {
	return &InteractionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// LogEvent appends one event.
func (a *InteractionAdapter) LogEvent(ctx context.Context, event *entities.InteractionEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":               event.ID,
		"query":            event.Query,
		"search_type":      event.SearchType,
		"result_id":        sql.NullString{String: event.ResultID, Valid: event.ResultID != ""},
		"action":           event.Action,
		"user_id":          sql.NullString{String: event.UserID, Valid: event.UserID != ""},
		"session_id":       sql.NullString{String: event.SessionID, Valid: event.SessionID != ""},
		"response_time_ms": event.ResponseTimeMs,
		"result_count":     event.ResultCount,
		"created_at":       event.CreatedAt,
	}

	query, args, err := a.db.Insert(interactionsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewTrackingError("failed to log interaction event", err)
	}
	return nil
}

// ListSince returns all events at or after since, oldest first.
func (a *InteractionAdapter) ListSince(ctx context.Context, since time.Time) ([]*entities.InteractionEvent, error) {
	query, args, err := a.db.Select(
		"id", "query", "search_type", "result_id", "action",
		"user_id", "session_id", "response_time_ms", "result_count", "created_at",
	).From(interactionsTable).
		Where(goqu.C("created_at").Gte(since)).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list interaction events", err)
	}
	defer rows.Close()

	var events []*entities.InteractionEvent
	for rows.Next() {
		e := &entities.InteractionEvent{}
		var resultID, userID, sessionID sql.NullString

		if err := rows.Scan(
			&e.ID,
			&e.Query,
			&e.SearchType,
			&resultID,
			&e.Action,
			&userID,
			&sessionID,
			&e.ResponseTimeMs,
			&e.ResultCount,
			&e.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan interaction event", err)
		}

		e.ResultID = resultID.String
		e.UserID = userID.String
		e.SessionID = sessionID.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read interaction events", err)
	}
	return events, nil
}

// CountClicksByResult counts click events per result id for one query
// text since the given time.
func (a *InteractionAdapter) CountClicksByResult(ctx context.Context, queryText string, since time.Time) (map[string]int, error) {
	query, args, err := a.db.Select(
		"result_id",
		goqu.COUNT("*").As("clicks"),
	).From(interactionsTable).
		Where(
			goqu.C("action").Eq(entities.ActionClick),
			goqu.C("query").Eq(queryText),
			goqu.C("created_at").Gte(since),
			goqu.C("result_id").IsNotNull(),
		).
		GroupBy("result_id").
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count clicks", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var resultID string
		var clicks int
		if err := rows.Scan(&resultID, &clicks); err != nil {
			return nil, apperrors.NewInternalError("failed to scan click count", err)
		}
		counts[resultID] = clicks
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read click counts", err)
	}
	return counts, nil
}
