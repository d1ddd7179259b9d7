package pages

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_storefront/internal/apiclient"
	"github.com/Skotchmaster/food_storefront/internal/apitest"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/session"
)

type fixture struct {
	srv     *apitest.Server
	client  *apiclient.Client
	session *session.KVRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.New(t)
	return &fixture{
		srv:     srv,
		client:  apiclient.NewClient(srv.URL, 2*time.Second),
		session: session.NewRepository(session.NewMemoryStore()),
	}
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, f.session.Set(context.Background(), models.Session{
		AccessToken: f.srv.Token("1", time.Hour),
		User:        json.RawMessage(`{"id":1,"name":"Ana"}`),
	}))
}

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Pizza Margherita", Description: "Classic Italian pizza with tomato", Price: decimal.RequireFromString("12.99"), Category: "Pizza"},
		{ID: 2, Name: "Hamburguesa Clásica", Description: "Beef burger with cheese", Price: decimal.RequireFromString("9.99"), Category: "Burgers"},
		{ID: 3, Name: "Sushi Roll", Description: "Fresh salmon and avocado roll", Price: decimal.RequireFromString("15.99"), Category: "Sushi"},
	}
}
