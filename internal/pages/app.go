package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skotchmaster/food_storefront/internal/cart"
	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/search"
	"github.com/Skotchmaster/food_storefront/internal/session"
)

const maxRedirects = 4

// App owns every page and the current route.
type App struct {
	Login         *LoginPage
	Register      *RegisterPage
	Products      *ProductsPage
	CreateProduct *CreateProductPage
	Cart          *CartPage

	Basket     *cart.Basket
	Session    session.Repository
	SampleCart bool

	mu      sync.Mutex
	current Route
}

type Deps struct {
	Auth       AuthAPI
	Products   ProductAPI
	Orders     OrderSubmitter
	Session    session.Repository
	Searcher   search.Searcher
	PageSize   int
	SampleCart bool
}

func NewApp(d Deps) *App {
	basket := &cart.Basket{}
	return &App{
		Login:         NewLoginPage(d.Auth, d.Session),
		Register:      NewRegisterPage(d.Auth, d.Session),
		Products:      NewProductsPage(d.Products, basket, d.Searcher, d.PageSize),
		CreateProduct: NewCreateProductPage(d.Products, d.Session),
		Cart:          NewCartPage(d.Orders, d.Session),
		Basket:        basket,
		Session:       d.Session,
		SampleCart:    d.SampleCart,
	}
}

func (a *App) Current() Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Navigate mounts the target page, following redirects issued on mount.
// The outcome of the page finally shown is returned with its route.
func (a *App) Navigate(ctx context.Context, to Route) (Route, Outcome, error) {
	l := logging.FromContext(ctx).With("component", "app")

	var out Outcome
	for i := 0; i < maxRedirects; i++ {
		if !to.Valid() {
			return a.Current(), Outcome{}, fmt.Errorf("unknown route %q", to)
		}

		a.mu.Lock()
		from := a.current
		a.mu.Unlock()
		if from == RouteCart && to != RouteCart {
			a.Cart.Leave()
		}

		var err error
		out, err = a.mount(ctx, to, from)
		if err != nil {
			return a.Current(), out, err
		}

		a.mu.Lock()
		a.current = to
		a.mu.Unlock()

		if out.Redirect == "" || out.Redirect == to {
			return to, out, nil
		}
		l.Debug("redirect", "from", to, "to", out.Redirect)
		to = out.Redirect
		out.Redirect = ""
	}
	return a.Current(), out, fmt.Errorf("too many redirects ending at %s", to)
}

// Follow applies an outcome returned by a submit.
func (a *App) Follow(ctx context.Context, out Outcome) (Route, Outcome, error) {
	if out.Redirect == "" {
		return a.Current(), out, nil
	}
	route, next, err := a.Navigate(ctx, out.Redirect)
	if next.Notice == nil {
		next.Notice = out.Notice
	}
	return route, next, err
}

func (a *App) mount(ctx context.Context, to, from Route) (Outcome, error) {
	switch to {
	case RouteLogin:
		return a.Login.Mount(ctx)
	case RouteCreateProduct:
		return a.CreateProduct.Mount(ctx)
	case RouteProducts:
		return a.Products.Load(ctx)
	case RouteCart:
		if from != RouteCart {
			a.Cart.Seed(a.cartSeed())
		}
	}
	return Outcome{}, nil
}

func (a *App) cartSeed() []models.CartEntry {
	if a.SampleCart {
		return cart.SampleEntries()
	}
	return a.Basket.Snapshot()
}

// Logout clears the stored session and returns to the login page.
func (a *App) Logout(ctx context.Context) (Route, Outcome, error) {
	if err := a.Session.Clear(ctx); err != nil {
		return a.Current(), Outcome{}, fmt.Errorf("clear session: %w", err)
	}
	logging.FromContext(ctx).Info("logout_success")
	return a.Navigate(ctx, RouteLogin)
}
