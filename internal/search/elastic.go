package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/models"
)

var ErrSearch = errors.New("search error")

// Searcher returns one page of products matching query. A category other
// than "" or "all" restricts the hits, and the total counts only those hits.
type Searcher interface {
	Search(ctx context.Context, query, category string, from, size int) (int64, []models.Product, error)
}

// categoryField is the keyword sub-field dynamic mapping creates for category.
const categoryField = "category.keyword"

type ElasticConfig struct {
	URL       string
	User      string
	Password  string
	Index     string
	Transport http.RoundTripper
}

type ElasticSearcher struct {
	es    *elasticsearch.Client
	index string
}

// NewElastic connects and checks the cluster answers before returning.
func NewElastic(ctx context.Context, cfg ElasticConfig) (*ElasticSearcher, error) {
	l := logging.FromContext(ctx).With("component", "elasticsearch")
	l.Debug("es_connect", "url", cfg.URL, "user", cfg.User)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create client: %w", ErrSearch, err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		l.Warn("es_connect_failed", "error", err)
		return nil, fmt.Errorf("%w: info: %w", ErrSearch, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		l.Warn("es_connect_failed", "status", res.StatusCode, "reason", string(body))
		return nil, fmt.Errorf("%w: info: %s", ErrSearch, res.Status())
	}

	index := cfg.Index
	if index == "" {
		index = "product"
	}
	return &ElasticSearcher{es: client, index: index}, nil
}

func (s *ElasticSearcher) Search(ctx context.Context, query, category string, from, size int) (int64, []models.Product, error) {
	boolQuery := map[string]any{
		"must": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	if category != "" && category != AllCategories {
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{categoryField: category}},
		}
	}
	body := map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"from":  from,
		"size":  size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("%w: encode: %w", ErrSearch, err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("%w: %s", ErrSearch, res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("%w: decode: %w", ErrSearch, err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}
