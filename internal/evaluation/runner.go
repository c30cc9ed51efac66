package evaluation

import (
	"context"
	"time"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// SearchResultProvider is the slice of the search service the runner
// needs. Natural-language search is used because the golden set labels
// intents, and only that path runs query understanding.
type SearchResultProvider interface {
	NaturalLanguage(ctx context.Context, q *entities.SearchQuery) (*entities.SearchResponse, error)
}

// Runner runs evaluation across a set of golden queries.
type Runner struct {
	searchService SearchResultProvider
}

func NewRunner(svc SearchResultProvider) *Runner {
	return &Runner{searchService: svc}
}

func (r *Runner) Run(ctx context.Context, queries []GoldenQuery) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalQueries: len(queries),
		ByIntent:     make(map[entities.Intent]*IntentSummary),
	}

	intentMatches := 0
	for _, gq := range queries {
		start := time.Now()
		response, err := r.searchService.NaturalLanguage(ctx, &entities.SearchQuery{
			Text:     gq.Query,
			Page:     1,
			PageSize: 10,
		})
		duration := time.Since(start)

		if err != nil {
			continue
		}

		retrieved := make([]string, len(response.Hits))
		for i, hit := range response.Hits {
			retrieved[i] = hit.ID
		}

		result := EvalResult{
			QueryID:      gq.ID,
			Query:        gq.Query,
			Intent:       gq.Intent,
			RecallAt10:   RecallAtK(gq.ExpectedIDs, retrieved, 10),
			MRRAt10:      MRRAtK(gq.ExpectedIDs, retrieved, 10),
			ResultCount:  response.Total,
			RetrievedIDs: retrieved,
			Latency:      duration,
		}
		if response.Analysis != nil && response.Analysis.Intent == gq.Intent {
			result.IntentMatched = true
			intentMatches++
		}

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary, intentMatches)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.AvgRecallAt10 += res.RecallAt10
	s.AvgMRRAt10 += res.MRRAt10
	s.AvgLatency += res.Latency
	if res.ResultCount > 0 {
		s.QueriesWithHits++
	}

	if _, ok := s.ByIntent[res.Intent]; !ok {
		s.ByIntent[res.Intent] = &IntentSummary{}
	}
	is := s.ByIntent[res.Intent]
	is.Count++
	is.AvgRecallAt10 += res.RecallAt10
	is.AvgMRRAt10 += res.MRRAt10
}

func (r *Runner) finalizeSummary(s *EvalSummary, intentMatches int) {
	if s.TotalQueries > 0 {
		n := float64(s.TotalQueries)
		s.AvgRecallAt10 /= n
		s.AvgMRRAt10 /= n
		s.AvgLatency /= time.Duration(s.TotalQueries)
		s.IntentAccuracy = float64(intentMatches) / n
	}

	for _, is := range s.ByIntent {
		if is.Count > 0 {
			n := float64(is.Count)
			is.AvgRecallAt10 /= n
			is.AvgMRRAt10 /= n
		}
	}
}
