package pages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(f *fixture) *App {
	return NewApp(Deps{
		Auth:     f.client,
		Products: f.client,
		Orders:   HTTPOrderSubmitter{API: f.client},
		Session:  f.session,
		PageSize: 20,
	})
}

func TestApp_ProtectedPageRedirectsToLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	app := newTestApp(f)

	route, _, err := app.Navigate(context.Background(), RouteCreateProduct)
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, route)
	assert.Equal(t, RouteLogin, app.Current())
	assert.Zero(t, f.srv.CallCount())
}

func TestApp_LoginWithSessionLandsOnProducts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.srv.AddProducts(sampleProducts()...)
	f.signIn(t)
	app := newTestApp(f)

	route, _, err := app.Navigate(context.Background(), RouteLogin)
	require.NoError(t, err)
	assert.Equal(t, RouteProducts, route)
	assert.Len(t, app.Products.Visible(), 3)

	calls := f.srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/products", calls[0].Path)
}

func TestApp_CartSeedsFromBasketAndDiscardsOnLeave(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.srv.AddProducts(sampleProducts()...)
	app := newTestApp(f)
	ctx := context.Background()

	_, _, err := app.Navigate(ctx, RouteProducts)
	require.NoError(t, err)
	_, err = app.Products.AddToCart(ctx, 3)
	require.NoError(t, err)

	_, _, err = app.Navigate(ctx, RouteCart)
	require.NoError(t, err)
	require.Len(t, app.Cart.Entries(), 1)

	app.Cart.Increment(3)
	_, _, err = app.Navigate(ctx, RouteCart)
	require.NoError(t, err)
	assert.Equal(t, 2, app.Cart.Entries()[0].Quantity)

	_, _, err = app.Navigate(ctx, RouteProducts)
	require.NoError(t, err)
	assert.Empty(t, app.Cart.Entries())

	_, _, err = app.Navigate(ctx, RouteCart)
	require.NoError(t, err)
	assert.Equal(t, 1, app.Cart.Entries()[0].Quantity)
}

func TestApp_SampleCart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	app := newTestApp(f)
	app.SampleCart = true

	_, _, err := app.Navigate(context.Background(), RouteCart)
	require.NoError(t, err)
	assert.Len(t, app.Cart.Entries(), 2)
}

func TestApp_LogoutAndFollow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.signIn(t)
	app := newTestApp(f)
	ctx := context.Background()

	route, _, err := app.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, route)

	s, err := f.session.Get(ctx)
	require.NoError(t, err)
	assert.False(t, s.Present())

	route, out, err := app.Follow(ctx, Outcome{Redirect: RouteRegister, Notice: notice(NoticeInfo, "hi")})
	require.NoError(t, err)
	assert.Equal(t, RouteRegister, route)
	require.NotNil(t, out.Notice)
	assert.Equal(t, "hi", out.Notice.Message)

	_, _, err = app.Navigate(ctx, Route("/nowhere"))
	assert.Error(t, err)
}
