package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skotchmaster/food_storefront/internal/cart"
	"github.com/Skotchmaster/food_storefront/internal/form"
	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/session"
	"github.com/Skotchmaster/food_storefront/internal/validation"
)

// CartPage holds the entries shown on the cart screen and the order form.
// Entries live only while the page is mounted.
type CartPage struct {
	busy

	submitter OrderSubmitter
	session   session.Repository

	mu      sync.Mutex
	entries []models.CartEntry
	form    *form.State[models.OrderField]
}

func NewCartPage(submitter OrderSubmitter, sess session.Repository) *CartPage {
	type f = form.Field[models.OrderField]
	return &CartPage{
		submitter: submitter,
		session:   sess,
		form: form.New(
			f{Name: models.OrderInstructions, Label: "Special instructions", Kind: form.KindText, HelperText: "Optional"},
			f{Name: models.OrderAddress, Label: "Delivery address", Kind: form.KindText},
			f{Name: models.OrderPhone, Label: "Phone", Kind: form.KindText},
		),
	}
}

// Seed replaces the entries, typically when the page is mounted.
func (p *CartPage) Seed(entries []models.CartEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append([]models.CartEntry(nil), entries...)
}

// Leave discards the entries and the order form.
func (p *CartPage) Leave() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = nil
	p.form.Reset()
}

func (p *CartPage) Entries() []models.CartEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.CartEntry(nil), p.entries...)
}

func (p *CartPage) Totals() cart.Totals {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cart.Compute(p.entries)
}

func (p *CartPage) Increment(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = cart.Increment(p.entries, id)
}

func (p *CartPage) Decrement(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = cart.Decrement(p.entries, id)
}

func (p *CartPage) Remove(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = cart.Remove(p.entries, id)
}

func (p *CartPage) Set(field models.OrderField, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Set(field, value)
}

func (p *CartPage) Views() []form.View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.Views()
}

func (p *CartPage) Errors() form.Errors[models.OrderField] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.Errors()
}

// Submit sends the order. The cart keeps its entries afterwards so the same
// order can be placed again.
func (p *CartPage) Submit(ctx context.Context) (Outcome, error) {
	l := logging.FromContext(ctx).With("page", "cart")

	done, err := p.start()
	if err != nil {
		return Outcome{}, err
	}
	defer done()

	p.mu.Lock()
	entries := append([]models.CartEntry(nil), p.entries...)
	details := models.OrderDetails{
		SpecialInstructions: p.form.Value(models.OrderInstructions),
		DeliveryAddress:     p.form.Value(models.OrderAddress),
		Phone:               p.form.Value(models.OrderPhone),
	}
	errs := validation.ValidateOrder(details)
	p.form.SetErrors(errs)
	p.mu.Unlock()

	if len(entries) == 0 {
		return Outcome{}, ErrEmptyCart
	}
	if !errs.Valid() {
		return Outcome{}, fmt.Errorf("%w: %d field(s)", ErrValidation, len(errs))
	}

	req := cart.OrderRequest(models.OrderDraft{
		Entries:             entries,
		SpecialInstructions: details.SpecialInstructions,
		DeliveryAddress:     details.DeliveryAddress,
		Phone:               details.Phone,
	})

	var token string
	if s, err := p.session.Get(ctx); err == nil {
		token = s.AccessToken
	} else {
		l.Warn("create_order_warning", "reason", "cannot read session", "error", err)
	}

	if err := p.submitter.SubmitOrder(ctx, token, req); err != nil {
		l.Warn("create_order_error", "reason", "submit failed", "error", err)
		return Outcome{Notice: notice(NoticeError, msgOrderFailed)}, fmt.Errorf("submit order: %w", err)
	}

	l.Info("create_order_success", "items", len(req.Items), "total", string(req.TotalPrice))
	return Outcome{Notice: notice(NoticeSuccess, msgOrderCreated)}, nil
}
