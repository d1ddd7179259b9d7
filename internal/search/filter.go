// Package search narrows the product listing, locally or through Elasticsearch.
package search

import (
	"strings"

	"github.com/Skotchmaster/food_storefront/internal/models"
)

const AllCategories = "all"

type Filter struct {
	Term     string
	Category string
}

// Match reports whether p passes the filter. The term is matched
// case-insensitively against name or description.
func (f Filter) Match(p models.Product) bool {
	term := strings.ToLower(f.Term)
	matchesTerm := strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
	matchesCategory := f.Category == "" || f.Category == AllCategories || p.Category == f.Category
	return matchesTerm && matchesCategory
}

func (f Filter) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns "all" followed by each distinct category in first-seen order.
func Categories(products []models.Product) []string {
	seen := map[string]bool{}
	out := []string{AllCategories}
	for _, p := range products {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}
