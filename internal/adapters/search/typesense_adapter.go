package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	tsclient "github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/typesense"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

// TypesenseAdapter executes structured queries against a single
// Typesense collection holding every index type, discriminated by the
// "type" field.
type TypesenseAdapter struct {
	client     *tsclient.Client
	collection string
}

var _ repositories.SearchBackend = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter. indexPrefix
// namespaces the collection.
func NewTypesenseAdapter(client *tsclient.Client, indexPrefix string) *TypesenseAdapter {
	return &TypesenseAdapter{
		client:     client,
		collection: indexPrefix + "_search",
	}
}

// EnsureSchema creates the collection if absent.
func (a *TypesenseAdapter) EnsureSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(a.collection).Retrieve(ctx)
	if err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: a.collection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "type", Type: "string", Facet: pointer.True()},
			{Name: "title", Type: "string"},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "content", Type: "string", Optional: pointer.True()},
			{Name: "tags", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "semantic_content", Type: "string", Optional: pointer.True()},
			{Name: "name", Type: "string", Optional: pointer.True()},
			{Name: "email", Type: "string", Optional: pointer.True()},
			{Name: "status", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "priority", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "city", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "property_type", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "bedrooms", Type: "int32", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "bathrooms", Type: "int32", Optional: pointer.True()},
			{Name: "rent_amount", Type: "float", Optional: pointer.True()},
			{Name: "amount", Type: "float", Optional: pointer.True()},
			{Name: "created_at", Type: "int64", Optional: pointer.True()},
			{Name: "updated_at", Type: "int64"},
			{Name: ".*", Type: "auto"},
		},
		DefaultSortingField: pointer.String("updated_at"),
	}

	if _, err := a.client.Client().Collections().Create(ctx, schema); err != nil {
		return apperrors.NewBackendUnavailableError("failed to create typesense collection", err)
	}
	return nil
}

// Index upserts one document.
func (a *TypesenseAdapter) Index(ctx context.Context, indexType, id string, doc map[string]interface{}) error {
	document := make(map[string]interface{}, len(doc)+2)
	for k, v := range doc {
		document[k] = v
	}
	document["id"] = id
	document["type"] = indexType
	if _, ok := document["title"]; !ok {
		if name, ok := document["name"].(string); ok {
			document["title"] = name
		}
	}

	if _, err := a.client.Client().Collection(a.collection).Documents().Upsert(ctx, document); err != nil {
		return apperrors.NewBackendUnavailableError("failed to index document", err)
	}
	return nil
}

// Execute translates the structured query to a Typesense search.
func (a *TypesenseAdapter) Execute(ctx context.Context, query *entities.StructuredQuery) (*entities.BackendResult, error) {
	params := a.searchParams(query)

	result, err := a.client.Client().Collection(a.collection).Documents().Search(ctx, params)
	if err != nil {
		return nil, apperrors.NewBackendUnavailableError("typesense search failed", err)
	}
	return a.toBackendResult(result), nil
}

// Suggest runs a prefix search over titles and returns the distinct
// matched titles.
func (a *TypesenseAdapter) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String(prefix),
		QueryBy: pointer.String("title"),
		Prefix:  pointer.String("true"),
		PerPage: pointer.Int(limit * 2),
	}

	result, err := a.client.Client().Collection(a.collection).Documents().Search(ctx, params)
	if err != nil {
		return nil, apperrors.NewBackendUnavailableError("typesense suggest failed", err)
	}
	if result.Hits == nil {
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	suggestions := make([]string, 0, limit)
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		title, _ := (*hit.Document)["title"].(string)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, title)
		if len(suggestions) >= limit {
			break
		}
	}
	return suggestions, nil
}

func (a *TypesenseAdapter) searchParams(query *entities.StructuredQuery) *api.SearchCollectionParams {
	params := &api.SearchCollectionParams{
		Q:       pointer.String("*"),
		QueryBy: pointer.String("title"),
		Page:    pointer.Int(query.Page),
		PerPage: pointer.Int(query.PageSize),
	}

	if fields, weights, fuzzy, text := flattenMatch(query.Match); len(fields) > 0 {
		params.Q = pointer.String(text)
		params.QueryBy = pointer.String(strings.Join(fields, ","))
		params.QueryByWeights = pointer.String(strings.Join(weights, ","))
		if fuzzy {
			params.NumTypos = pointer.String("2")
		} else {
			params.NumTypos = pointer.String("0")
		}
	}

	if filter := buildFilterBy(query); filter != "" {
		params.FilterBy = pointer.String(filter)
	}
	if len(query.Facets) > 0 {
		params.FacetBy = pointer.String(strings.Join(query.Facets, ","))
		params.MaxFacetValues = pointer.Int(25)
	}
	if len(query.Sort) > 0 {
		clauses := make([]string, 0, len(query.Sort))
		for _, s := range query.Sort {
			clauses = append(clauses, fmt.Sprintf("%s:%s", s.Field, s.Order))
		}
		params.SortBy = pointer.String(strings.Join(clauses, ","))
	}
	if query.Highlight {
		params.HighlightFullFields = pointer.String("title,description,content")
	}
	return params
}

// flattenMatch unions the match clauses into one weighted field list.
// Typesense takes a single query string, so all clauses share the text
// of the first one.
func flattenMatch(clauses []entities.MatchClause) (fields, weights []string, fuzzy bool, text string) {
	seen := make(map[string]struct{})
	for _, clause := range clauses {
		if text == "" {
			text = clause.Query
		}
		if clause.Fuzzy {
			fuzzy = true
		}
		for _, f := range clause.Fields {
			if _, dup := seen[f.Field]; dup {
				continue
			}
			seen[f.Field] = struct{}{}
			weight := int(f.Boost)
			if weight < 1 {
				weight = 1
			}
			fields = append(fields, f.Field)
			weights = append(weights, fmt.Sprintf("%d", weight))
		}
	}
	return fields, weights, fuzzy, text
}

func buildFilterBy(query *entities.StructuredQuery) string {
	var parts []string
	if len(query.IndexTypes) > 0 {
		parts = append(parts, fmt.Sprintf("type:[%s]", strings.Join(query.IndexTypes, ",")))
	}
	for _, term := range query.Terms {
		parts = append(parts, fmt.Sprintf("%s:=`%s`", term.Field, term.Value))
	}
	for _, r := range query.Ranges {
		if r.GTE != nil {
			parts = append(parts, fmt.Sprintf("%s:>=%v", r.Field, *r.GTE))
		}
		if r.LTE != nil {
			parts = append(parts, fmt.Sprintf("%s:<=%v", r.Field, *r.LTE))
		}
	}
	if dr := query.DateRange; dr != nil && dr.Field != "" {
		if dr.From != nil {
			parts = append(parts, fmt.Sprintf("%s:>=%d", dr.Field, dr.From.Unix()))
		}
		if dr.To != nil {
			parts = append(parts, fmt.Sprintf("%s:<=%d", dr.Field, dr.To.Unix()))
		}
	}
	return strings.Join(parts, " && ")
}

func (a *TypesenseAdapter) toBackendResult(result *api.SearchResult) *entities.BackendResult {
	out := &entities.BackendResult{Hits: []entities.SearchHit{}}
	if result.Found != nil {
		out.Total = *result.Found
	}
	if result.SearchTimeMs != nil {
		out.TookMs = int64(*result.SearchTimeMs)
	}

	if result.Hits != nil {
		total := len(*result.Hits)
		for i, hit := range *result.Hits {
			if hit.Document == nil {
				continue
			}
			doc := *hit.Document
			id, _ := doc["id"].(string)
			docType, _ := doc["type"].(string)

			// Typesense text-match scores are opaque 64-bit packings,
			// so relevance is kept as descending rank order.
			searchHit := entities.SearchHit{
				ID:     id,
				Type:   docType,
				Score:  float64(total - i),
				Source: doc,
			}
			if hit.Highlights != nil {
				searchHit.Highlights = toHighlights(*hit.Highlights)
			}
			out.Hits = append(out.Hits, searchHit)
		}
	}

	if result.FacetCounts != nil {
		out.Aggregations = make(map[string][]entities.FacetBucket)
		for _, facet := range *result.FacetCounts {
			if facet.FieldName == nil || facet.Counts == nil {
				continue
			}
			field := *facet.FieldName
			for _, bucket := range *facet.Counts {
				if bucket.Value == nil || bucket.Count == nil {
					continue
				}
				out.Aggregations[field] = append(out.Aggregations[field], entities.FacetBucket{
					Field: field,
					Value: *bucket.Value,
					Count: *bucket.Count,
				})
			}
		}
	}
	return out
}

func toHighlights(highlights []api.SearchHighlight) map[string][]string {
	out := make(map[string][]string, len(highlights))
	for _, h := range highlights {
		if h.Field == nil {
			continue
		}
		switch {
		case h.Snippets != nil && len(*h.Snippets) > 0:
			out[*h.Field] = *h.Snippets
		case h.Snippet != nil:
			out[*h.Field] = []string{*h.Snippet}
		}
	}
	return out
}
