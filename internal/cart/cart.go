package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/transport"
)

var (
	TaxRate     = decimal.RequireFromString("0.12")
	DeliveryFee = decimal.RequireFromString("2.99")
)

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Delivery decimal.Decimal
	Total    decimal.Decimal
}

func LineTotal(e models.CartEntry) decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

func Subtotal(entries []models.CartEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(LineTotal(e))
	}
	return sum
}

// Compute keeps full precision; only Format rounds.
func Compute(entries []models.CartEntry) Totals {
	sub := Subtotal(entries)
	tax := sub.Mul(TaxRate)
	return Totals{
		Subtotal: sub,
		Tax:      tax,
		Delivery: DeliveryFee,
		Total:    sub.Add(tax).Add(DeliveryFee),
	}
}

// Format renders an amount with exactly two decimals, rounding half away from zero.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func Increment(entries []models.CartEntry, id int) []models.CartEntry {
	return adjust(entries, id, 1)
}

// Decrement never removes the entry; quantity floors at 1.
func Decrement(entries []models.CartEntry, id int) []models.CartEntry {
	return adjust(entries, id, -1)
}

func Remove(entries []models.CartEntry, id int) []models.CartEntry {
	out := make([]models.CartEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// Add appends the product with quantity 1, or bumps the quantity of an
// existing entry with the same id.
func Add(entries []models.CartEntry, p models.Product) []models.CartEntry {
	for _, e := range entries {
		if e.ID == p.ID {
			return Increment(entries, p.ID)
		}
	}
	out := make([]models.CartEntry, len(entries), len(entries)+1)
	copy(out, entries)
	return append(out, models.CartEntry{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
		ImageRef:  p.Image,
	})
}

func adjust(entries []models.CartEntry, id, change int) []models.CartEntry {
	out := make([]models.CartEntry, len(entries))
	for i, e := range entries {
		if e.ID == id {
			e.Quantity = max(1, e.Quantity+change)
		}
		out[i] = e
	}
	return out
}

// OrderRequest builds the wire payload for a draft, priced with Compute.
func OrderRequest(d models.OrderDraft) transport.CreateOrderRequest {
	items := make([]transport.CreateOrderItem, 0, len(d.Entries))
	for _, e := range d.Entries {
		items = append(items, transport.CreateOrderItem{
			ProductID: e.ID,
			Quantity:  e.Quantity,
			Price:     json.Number(e.UnitPrice.String()),
		})
	}
	return transport.CreateOrderRequest{
		Items:       items,
		TotalPrice:  json.Number(Compute(d.Entries).Total.String()),
		Description: d.SpecialInstructions,
		Address:     d.DeliveryAddress,
		Phone:       d.Phone,
	}
}

// SampleEntries is the fixed cart shown when no basket is available.
func SampleEntries() []models.CartEntry {
	return []models.CartEntry{
		{
			ID:        1,
			Name:      "Pizza Margherita",
			UnitPrice: decimal.RequireFromString("12.99"),
			Quantity:  2,
			ImageRef:  "https://images.unsplash.com/photo-1574071318508-1cdbab80d002?w=400",
		},
		{
			ID:        2,
			Name:      "Hamburguesa Clásica",
			UnitPrice: decimal.RequireFromString("9.99"),
			Quantity:  1,
			ImageRef:  "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400",
		},
	}
}
