// Package pages holds one controller per storefront screen. A controller owns
// its form state, runs validation on submit and talks to the API through the
// small interfaces declared here.
package pages

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/transport"
)

var (
	ErrValidation     = errors.New("validation")
	ErrBusy           = errors.New("submit already in progress")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrUnknownProduct = errors.New("unknown product")
	ErrNoUser         = errors.New("response has no user")
)

type Route string

const (
	RouteLogin         Route = "/login"
	RouteRegister      Route = "/register"
	RouteProducts      Route = "/products"
	RouteCreateProduct Route = "/products/create"
	RouteCart          Route = "/cart"
)

func (r Route) Valid() bool {
	switch r {
	case RouteLogin, RouteRegister, RouteProducts, RouteCreateProduct, RouteCart:
		return true
	}
	return false
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a message for the user, the equivalent of a browser alert.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Outcome tells the caller what to show next. A zero Outcome means stay on
// the current page with nothing to announce.
type Outcome struct {
	Redirect Route
	Notice   *Notice
}

func redirect(to Route) Outcome { return Outcome{Redirect: to} }

func notice(kind NoticeKind, msg string) *Notice { return &Notice{Kind: kind, Message: msg} }

const (
	msgLoginFailed    = "Login failed. Please check your credentials and try again."
	msgRegisterFailed = "There was an error during registration. Please try again."
	msgRegistered     = "Registration complete. You can now log in."
	msgLoadFailed     = "Could not load products. Please try again."
	msgProductCreated = "Product created successfully"
	msgProductFailed  = "There was an error creating the product. Please try again."
	msgOrderCreated   = "Order created successfully!"
	msgOrderFailed    = "There was an error creating the order. Please try again."
)

type AuthAPI interface {
	Login(ctx context.Context, in transport.LoginRequest) (*transport.LoginResponse, error)
	Register(ctx context.Context, in transport.RegisterRequest) (*transport.RegisterResult, error)
}

type ProductAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, token string, in transport.CreateProductRequest) (*models.Product, error)
}

// busy is the disabled-submit-button flag shared by every controller.
type busy struct {
	loading atomic.Bool
}

func (b *busy) Loading() bool { return b.loading.Load() }

// start marks the page as loading. The returned func must be deferred.
func (b *busy) start() (done func(), err error) {
	if !b.loading.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { b.loading.Store(false) }, nil
}
