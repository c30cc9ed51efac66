package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
)

// scoreEpsilon is the full width of the "near-equal" relevance band
// for the recency tie-break at a recency weight of 1.0. The configured
// RecencyWeight scales it, so a higher weight lets recency override
// larger relevance gaps.
const scoreEpsilon = 0.02

// popularityWindow is the trailing window of clicks considered when
// boosting popular results.
const popularityWindow = 30 * 24 * time.Hour

// RankingService post-processes backend output: configured popularity
// and recency boosts plus 1:1 facet bucket conversion.
type RankingService struct {
	interactions repositories.InteractionRepository
}

// NewRankingService creates a new ranking service.
func NewRankingService(interactions repositories.InteractionRepository) *RankingService {
	return &RankingService{interactions: interactions}
}

// Rank orders hits by effective score. When popularity boosting is on,
// a hit's effective score is backendScore + popularityWeight*log1p(clicks),
// so repeated clicks monotonically but sub-linearly raise its rank.
// When recency boosting is on, newer documents win among near-equal
// scores.
func (s *RankingService) Rank(ctx context.Context, queryText string, hits []entities.SearchHit, cfg *entities.SearchConfig) []entities.SearchHit {
	if len(hits) == 0 {
		return hits
	}

	effective := make([]float64, len(hits))
	for i, hit := range hits {
		effective[i] = hit.Score
	}

	if cfg.BoostPopularResults && queryText != "" {
		clicks, err := s.interactions.CountClicksByResult(ctx, queryText, time.Now().Add(-popularityWindow))
		if err != nil {
			// Ranking degrades to backend order; never fails the response.
			log.Warn().Err(err).Msg("popularity boost skipped: click counts unavailable")
		} else {
			for i, hit := range hits {
				if n := clicks[hit.ID]; n > 0 {
					effective[i] += cfg.PopularityWeight * math.Log1p(float64(n))
				}
			}
		}
	}

	ranked := make([]entities.SearchHit, len(hits))
	copy(ranked, hits)
	order := make([]int, len(hits))
	for i := range order {
		order[i] = i
	}

	tieBand := cfg.RecencyWeight * scoreEpsilon
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := effective[order[a]], effective[order[b]]
		if cfg.BoostRecentResults && math.Abs(sa-sb) < tieBand {
			return documentTime(ranked[order[a]]).After(documentTime(ranked[order[b]]))
		}
		return sa > sb
	})

	out := make([]entities.SearchHit, len(hits))
	for i, idx := range order {
		out[i] = ranked[idx]
		out[i].Score = effective[idx]
	}
	return out
}

// ProcessFacets converts raw aggregation buckets 1:1 into facet
// results, preserving key and count. Fields are emitted in sorted
// order, buckets by descending count then value.
func (s *RankingService) ProcessFacets(aggregations map[string][]entities.FacetBucket) []entities.FacetBucket {
	if len(aggregations) == 0 {
		return nil
	}

	fields := make([]string, 0, len(aggregations))
	for field := range aggregations {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out []entities.FacetBucket
	for _, field := range fields {
		buckets := append([]entities.FacetBucket(nil), aggregations[field]...)
		sort.SliceStable(buckets, func(i, j int) bool {
			if buckets[i].Count != buckets[j].Count {
				return buckets[i].Count > buckets[j].Count
			}
			return buckets[i].Value < buckets[j].Value
		})
		for _, b := range buckets {
			b.Field = field
			out = append(out, b)
		}
	}
	return out
}

// documentTime extracts a document's recency timestamp from its
// source payload, accepting RFC3339 strings or unix seconds.
func documentTime(hit entities.SearchHit) time.Time {
	for _, field := range []string{"updated_at", "created_at"} {
		switch v := hit.Source[field].(type) {
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t
			}
		case float64:
			return time.Unix(int64(v), 0)
		case int64:
			return time.Unix(v, 0)
		}
	}
	return time.Time{}
}
