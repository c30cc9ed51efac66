package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	esclient "github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/elasticsearch"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

// ElasticAdapter executes structured queries against a single
// Elasticsearch index holding every document type, discriminated by
// the "type" keyword field.
type ElasticAdapter struct {
	client *esclient.Client
	index  string
}

var _ repositories.SearchBackend = (*ElasticAdapter)(nil)

// NewElasticAdapter creates a new Elasticsearch adapter. indexPrefix
// namespaces the index.
func NewElasticAdapter(client *esclient.Client, indexPrefix string) *ElasticAdapter {
	return &ElasticAdapter{
		client: client,
		index:  indexPrefix + "_search",
	}
}

// EnsureSchema creates the index with its mapping if absent.
func (a *ElasticAdapter) EnsureSchema(ctx context.Context) error {
	es := a.client.ES()

	res, err := es.Indices.Exists([]string{a.index}, es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return apperrors.NewBackendUnavailableError("failed to check index existence", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"type": map[string]interface{}{"type": "keyword"},
				"title": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{"type": "keyword"},
						"suggest": map[string]interface{}{
							"type":     "completion",
							"analyzer": "simple",
						},
					},
				},
				"description":      map[string]interface{}{"type": "text", "analyzer": "standard"},
				"content":          map[string]interface{}{"type": "text", "analyzer": "standard"},
				"semantic_content": map[string]interface{}{"type": "text", "analyzer": "standard"},
				"name":             map[string]interface{}{"type": "text", "analyzer": "standard"},
				"email":            map[string]interface{}{"type": "keyword"},
				"tags":             map[string]interface{}{"type": "keyword"},
				"status":           map[string]interface{}{"type": "keyword"},
				"priority":         map[string]interface{}{"type": "keyword"},
				"city":             map[string]interface{}{"type": "keyword"},
				"property_type":    map[string]interface{}{"type": "keyword"},
				"bedrooms":         map[string]interface{}{"type": "integer"},
				"bathrooms":        map[string]interface{}{"type": "integer"},
				"rent_amount":      map[string]interface{}{"type": "float"},
				"amount":           map[string]interface{}{"type": "float"},
				"created_at":       map[string]interface{}{"type": "date", "format": "epoch_second"},
				"updated_at":       map[string]interface{}{"type": "date", "format": "epoch_second"},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal index mapping", err)
	}

	res, err = es.Indices.Create(a.index,
		es.Indices.Create.WithBody(bytes.NewReader(body)),
		es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return apperrors.NewBackendUnavailableError("failed to create index", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewBackendUnavailableError(fmt.Sprintf("index creation returned %s", res.Status()), nil)
	}
	return nil
}

// Index upserts one document.
func (a *ElasticAdapter) Index(ctx context.Context, indexType, id string, doc map[string]interface{}) error {
	es := a.client.ES()

	document := make(map[string]interface{}, len(doc)+1)
	for k, v := range doc {
		document[k] = v
	}
	document["type"] = indexType

	body, err := json.Marshal(document)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal document", err)
	}

	res, err := es.Index(a.index,
		bytes.NewReader(body),
		es.Index.WithDocumentID(id),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return apperrors.NewBackendUnavailableError("failed to index document", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewBackendUnavailableError(fmt.Sprintf("indexing returned %s", res.Status()), nil)
	}
	return nil
}

// Execute translates the structured query to an Elasticsearch search
// body.
func (a *ElasticAdapter) Execute(ctx context.Context, query *entities.StructuredQuery) (*entities.BackendResult, error) {
	es := a.client.ES()

	body, err := json.Marshal(a.searchBody(query))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal search body", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(a.index),
		es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, apperrors.NewBackendUnavailableError("elasticsearch search failed", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apperrors.NewBackendUnavailableError(fmt.Sprintf("search returned %s", res.Status()), nil)
	}

	var searchResp struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID        string                 `json:"_id"`
				Score     float64                `json:"_score"`
				Source    map[string]interface{} `json:"_source"`
				Highlight map[string][]string    `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
		Aggregations map[string]struct {
			Buckets []struct {
				Key      interface{} `json:"key"`
				DocCount int         `json:"doc_count"`
			} `json:"buckets"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, apperrors.NewBackendUnavailableError("failed to decode search response", err)
	}

	result := &entities.BackendResult{
		Hits:   make([]entities.SearchHit, 0, len(searchResp.Hits.Hits)),
		Total:  searchResp.Hits.Total.Value,
		TookMs: searchResp.Took,
	}
	for _, hit := range searchResp.Hits.Hits {
		docType, _ := hit.Source["type"].(string)
		result.Hits = append(result.Hits, entities.SearchHit{
			ID:         hit.ID,
			Type:       docType,
			Score:      hit.Score,
			Source:     hit.Source,
			Highlights: hit.Highlight,
		})
	}

	if len(searchResp.Aggregations) > 0 {
		result.Aggregations = make(map[string][]entities.FacetBucket, len(searchResp.Aggregations))
		for field, agg := range searchResp.Aggregations {
			for _, bucket := range agg.Buckets {
				result.Aggregations[field] = append(result.Aggregations[field], entities.FacetBucket{
					Field: field,
					Value: fmt.Sprintf("%v", bucket.Key),
					Count: bucket.DocCount,
				})
			}
		}
	}
	return result, nil
}

// Suggest runs the completion suggester over titles.
func (a *ElasticAdapter) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	es := a.client.ES()

	body, err := json.Marshal(map[string]interface{}{
		"suggest": map[string]interface{}{
			"title_suggest": map[string]interface{}{
				"prefix": prefix,
				"completion": map[string]interface{}{
					"field":           "title.suggest",
					"size":            limit,
					"skip_duplicates": true,
				},
			},
		},
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal suggest body", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(a.index),
		es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, apperrors.NewBackendUnavailableError("elasticsearch suggest failed", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apperrors.NewBackendUnavailableError(fmt.Sprintf("suggest returned %s", res.Status()), nil)
	}

	var suggestResp struct {
		Suggest struct {
			TitleSuggest []struct {
				Options []struct {
					Text string `json:"text"`
				} `json:"options"`
			} `json:"title_suggest"`
		} `json:"suggest"`
	}
	if err := json.NewDecoder(res.Body).Decode(&suggestResp); err != nil {
		return nil, apperrors.NewBackendUnavailableError("failed to decode suggest response", err)
	}

	suggestions := make([]string, 0, limit)
	if len(suggestResp.Suggest.TitleSuggest) > 0 {
		for _, option := range suggestResp.Suggest.TitleSuggest[0].Options {
			suggestions = append(suggestions, option.Text)
		}
	}
	return suggestions, nil
}

func (a *ElasticAdapter) searchBody(query *entities.StructuredQuery) map[string]interface{} {
	must := make([]map[string]interface{}, 0)
	filter := make([]map[string]interface{}, 0)

	for _, clause := range query.Match {
		should := make([]map[string]interface{}, 0, len(clause.Fields))
		for _, f := range clause.Fields {
			match := map[string]interface{}{
				"query": clause.Query,
				"boost": f.Boost,
			}
			if clause.Fuzzy {
				match["fuzziness"] = "AUTO"
			}
			should = append(should, map[string]interface{}{
				"match": map[string]interface{}{f.Field: match},
			})
		}
		must = append(must, map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		})
	}
	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if len(query.IndexTypes) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"type": query.IndexTypes},
		})
	}
	for _, term := range query.Terms {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{term.Field: term.Value},
		})
	}
	for _, r := range query.Ranges {
		bounds := map[string]interface{}{}
		if r.GTE != nil {
			bounds["gte"] = *r.GTE
		}
		if r.LTE != nil {
			bounds["lte"] = *r.LTE
		}
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{r.Field: bounds},
		})
	}
	if dr := query.DateRange; dr != nil && dr.Field != "" {
		bounds := map[string]interface{}{}
		if dr.From != nil {
			bounds["gte"] = dr.From.Unix()
		}
		if dr.To != nil {
			bounds["lte"] = dr.To.Unix()
		}
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{dr.Field: bounds},
		})
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"from": (page - 1) * query.PageSize,
		"size": query.PageSize,
	}

	if len(query.Sort) > 0 {
		sorts := make([]map[string]interface{}, 0, len(query.Sort))
		for _, s := range query.Sort {
			sorts = append(sorts, map[string]interface{}{
				s.Field: map[string]interface{}{"order": string(s.Order)},
			})
		}
		body["sort"] = sorts
	}

	if len(query.Facets) > 0 {
		aggs := make(map[string]interface{}, len(query.Facets))
		for _, facet := range query.Facets {
			aggs[facet] = map[string]interface{}{
				"terms": map[string]interface{}{"field": facet, "size": 25},
			}
		}
		body["aggs"] = aggs
	}

	if query.Highlight {
		body["highlight"] = map[string]interface{}{
			"fields": map[string]interface{}{
				"title":       map[string]interface{}{},
				"description": map[string]interface{}{},
				"content":     map[string]interface{}{},
			},
		}
	}
	return body
}
