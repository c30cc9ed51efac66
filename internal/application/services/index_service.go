package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

// indexTypes are the document kinds fed into the search backend.
var indexTypes = []string{"property", "tenant", "document"}

// IndexService streams back-office records into the search backend.
type IndexService struct {
	source  repositories.DocumentSource
	backend repositories.SearchBackend
}

// NewIndexService creates a new index service.
func NewIndexService(source repositories.DocumentSource, backend repositories.SearchBackend) *IndexService {
	return &IndexService{source: source, backend: backend}
}

// ReindexAll rebuilds every index type and returns the number of
// documents indexed. Individual document failures are logged and
// skipped so one bad record does not abort the run.
func (s *IndexService) ReindexAll(ctx context.Context) (int, error) {
	total := 0
	for _, indexType := range indexTypes {
		count, err := s.Reindex(ctx, indexType)
		if err != nil {
			return total, err
		}
		total += count
	}
	return total, nil
}

// Reindex rebuilds one index type.
func (s *IndexService) Reindex(ctx context.Context, indexType string) (int, error) {
	if err := s.backend.EnsureSchema(ctx); err != nil {
		return 0, apperrors.NewBackendUnavailableError("failed to prepare index schema", err)
	}

	docs, err := s.source.ListDocuments(ctx, indexType)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to list documents for "+indexType, err)
	}

	indexed := 0
	for _, doc := range docs {
		if err := s.backend.Index(ctx, doc.IndexType, doc.ID, doc.Payload); err != nil {
			log.Warn().Err(err).Str("index_type", doc.IndexType).Str("id", doc.ID).
				Msg("failed to index document")
			continue
		}
		indexed++
	}
	log.Info().Str("index_type", indexType).Int("indexed", indexed).Int("fetched", len(docs)).
		Msg("reindex complete")
	return indexed, nil
}
