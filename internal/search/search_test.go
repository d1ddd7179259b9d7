package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_storefront/internal/models"
)

var catalog = []models.Product{
	{ID: 1, Name: "Pizza Margherita", Description: "Classic Italian pizza with tomato, mozzarella and basil", Category: "Pizza"},
	{ID: 2, Name: "Hamburguesa Clásica", Description: "Beef burger with lettuce, tomato, cheese and special sauce", Category: "Burgers"},
	{ID: 3, Name: "Sushi Roll", Description: "Fresh salmon and avocado roll", Category: "Sushi"},
	{ID: 4, Name: "Pizza Diavola", Description: "Spicy salami", Category: "Pizza"},
}

func ids(ps []models.Product) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{name: "empty matches all", filter: Filter{}, want: []int{1, 2, 3, 4}},
		{name: "term in name any case", filter: Filter{Term: "PIZZA"}, want: []int{1, 4}},
		{name: "term in description", filter: Filter{Term: "tomato"}, want: []int{1, 2}},
		{name: "category all", filter: Filter{Term: "roll", Category: "all"}, want: []int{3}},
		{name: "category exact", filter: Filter{Category: "Pizza"}, want: []int{1, 4}},
		{name: "category is case sensitive", filter: Filter{Category: "pizza"}, want: []int{}},
		{name: "term and category", filter: Filter{Term: "spicy", Category: "Pizza"}, want: []int{4}},
		{name: "no match", filter: Filter{Term: "tacos"}, want: []int{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids(tt.filter.Apply(catalog)))
		})
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"all", "Pizza", "Burgers", "Sushi"}, Categories(catalog))
	assert.Equal(t, []string{"all"}, Categories(nil))
}

func fakeES(t *testing.T, status int, hits []models.Product, queries chan<- map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if !strings.HasSuffix(r.URL.Path, "/_search") {
			_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
			return
		}
		if queries != nil {
			body := map[string]any{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			queries <- body
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"error":"boom"}`)
			return
		}
		type hit struct {
			Source models.Product `json:"_source"`
		}
		resp := map[string]any{}
		hh := make([]hit, 0, len(hits))
		for _, p := range hits {
			hh = append(hh, hit{Source: p})
		}
		resp["hits"] = map[string]any{"total": map[string]any{"value": len(hits)}, "hits": hh}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestElasticSearcher(t *testing.T) {
	t.Parallel()

	hits := []models.Product{{ID: 9, Name: "Sushi Roll", Price: decimal.RequireFromString("15.99"), Category: "Sushi"}}
	queries := make(chan map[string]any, 1)
	srv := fakeES(t, http.StatusOK, hits, queries)

	s, err := NewElastic(context.Background(), ElasticConfig{URL: srv.URL})
	require.NoError(t, err)

	total, got, err := s.Search(context.Background(), "sushi", AllCategories, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Sushi Roll", got[0].Name)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("15.99")))

	q := <-queries
	boolQuery := q["query"].(map[string]any)["bool"].(map[string]any)
	assert.Contains(t, boolQuery, "must")
	assert.NotContains(t, boolQuery, "filter")
	assert.EqualValues(t, 0, q["from"])
	assert.EqualValues(t, 20, q["size"])
}

func TestElasticSearcher_CategoryFilter(t *testing.T) {
	t.Parallel()

	queries := make(chan map[string]any, 1)
	srv := fakeES(t, http.StatusOK, nil, queries)

	s, err := NewElastic(context.Background(), ElasticConfig{URL: srv.URL})
	require.NoError(t, err)

	_, _, err = s.Search(context.Background(), "pizza", "Pizza", 20, 10)
	require.NoError(t, err)

	q := <-queries
	boolQuery := q["query"].(map[string]any)["bool"].(map[string]any)
	filters, ok := boolQuery["filter"].([]any)
	require.True(t, ok)
	require.Len(t, filters, 1)
	term := filters[0].(map[string]any)["term"].(map[string]any)
	assert.Equal(t, "Pizza", term["category.keyword"])
	assert.EqualValues(t, 20, q["from"])
}

func TestElasticSearcher_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := fakeES(t, http.StatusInternalServerError, nil, nil)
	s, err := NewElastic(context.Background(), ElasticConfig{URL: srv.URL})
	require.NoError(t, err)

	_, _, err = s.Search(context.Background(), "sushi", "", 0, 20)
	assert.ErrorIs(t, err, ErrSearch)
}
