package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skotchmaster/food_storefront/internal/cart"
	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/search"
	"github.com/Skotchmaster/food_storefront/internal/util"
)

// Listing is one page of the filtered product list.
type Listing struct {
	Items      []models.Product
	Page       int
	Size       int
	Total      int
	TotalPages int
	Categories []string
	Remote     bool
}

type ProductsPage struct {
	busy

	api      ProductAPI
	basket   *cart.Basket
	searcher search.Searcher
	pageSize int

	mu       sync.Mutex
	products []models.Product
	listed   []models.Product
	filter   search.Filter
}

// NewProductsPage builds the listing page. searcher may be nil, in which case
// all filtering happens over the fetched products.
func NewProductsPage(api ProductAPI, basket *cart.Basket, searcher search.Searcher, pageSize int) *ProductsPage {
	return &ProductsPage{
		api:      api,
		basket:   basket,
		searcher: searcher,
		pageSize: pageSize,
		filter:   search.Filter{Category: search.AllCategories},
	}
}

// Load fetches the catalogue. On failure the previous listing is kept.
func (p *ProductsPage) Load(ctx context.Context) (Outcome, error) {
	l := logging.FromContext(ctx).With("page", "products")

	done, err := p.start()
	if err != nil {
		return Outcome{}, err
	}
	defer done()

	products, err := p.api.ListProducts(ctx)
	if err != nil {
		l.Warn("get_products_error", "error", err)
		return Outcome{Notice: notice(NoticeError, msgLoadFailed)}, fmt.Errorf("list products: %w", err)
	}

	p.mu.Lock()
	p.products = products
	p.mu.Unlock()

	l.Debug("get_products_success", "count", len(products))
	return Outcome{}, nil
}

func (p *ProductsPage) SetSearch(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter.Term = term
}

func (p *ProductsPage) SetCategory(category string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if category == "" {
		category = search.AllCategories
	}
	p.filter.Category = category
}

func (p *ProductsPage) Filter() search.Filter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

func (p *ProductsPage) Categories() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return search.Categories(p.products)
}

// Visible returns every fetched product that passes the current filter.
func (p *ProductsPage) Visible() []models.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter.Apply(p.products)
}

// List returns one page of results. With a searcher and a search term the
// query goes to the search backend; if that fails the local filter is used.
func (p *ProductsPage) List(ctx context.Context, page int) Listing {
	l := logging.FromContext(ctx).With("page", "products")

	p.mu.Lock()
	f := p.filter
	products := p.products
	p.mu.Unlock()

	from, limit := util.Calculate(page, p.pageSize)
	out := Listing{
		Page:       max(page, 1),
		Size:       limit,
		Categories: search.Categories(products),
	}

	if p.searcher != nil && f.Term != "" {
		total, items, err := p.searcher.Search(ctx, f.Term, f.Category, from, limit)
		if err == nil {
			out.Items = items
			out.Total = int(total)
			out.TotalPages = util.TotalPages(out.Total, limit)
			out.Remote = true
			p.remember(items)
			return out
		}
		l.Warn("search_error", "reason", "falling back to local filter", "error", err)
	}

	matched := f.Apply(products)
	start, end := util.Window(len(matched), from, limit)
	out.Items = matched[start:end]
	out.Total = len(matched)
	out.TotalPages = util.TotalPages(out.Total, limit)
	p.remember(out.Items)
	return out
}

func (p *ProductsPage) remember(items []models.Product) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listed = items
}

// AddToCart puts one unit of a product in the basket. The id may come from
// the last listed page, search hits included, or from the fetched catalogue.
func (p *ProductsPage) AddToCart(ctx context.Context, id int) (Outcome, error) {
	p.mu.Lock()
	found, ok := findProduct(p.listed, id)
	if !ok {
		found, ok = findProduct(p.products, id)
	}
	p.mu.Unlock()

	if !ok {
		return Outcome{}, fmt.Errorf("%w: %d", ErrUnknownProduct, id)
	}
	p.basket.Add(found)
	logging.FromContext(ctx).Debug("add_to_cart", "page", "products", "product_id", id)
	return Outcome{Notice: notice(NoticeSuccess, fmt.Sprintf("Added %s to cart", found.Name))}, nil
}

func findProduct(products []models.Product, id int) (models.Product, bool) {
	for _, pr := range products {
		if pr.ID == id {
			return pr, true
		}
	}
	return models.Product{}, false
}
