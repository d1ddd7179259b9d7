package pages

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Skotchmaster/food_storefront/internal/cart"
	"github.com/Skotchmaster/food_storefront/internal/form"
	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/session"
	"github.com/Skotchmaster/food_storefront/internal/transport"
	"github.com/Skotchmaster/food_storefront/internal/validation"
)

// Preview is what the product card will look like once created.
type Preview struct {
	Name        string
	Category    string
	Description string
	Price       string
	Image       string
}

type CreateProductPage struct {
	busy

	api     ProductAPI
	session session.Repository

	mu   sync.Mutex
	form *form.State[models.ProductField]
	file *models.Attachment
}

func NewCreateProductPage(api ProductAPI, sess session.Repository) *CreateProductPage {
	type f = form.Field[models.ProductField]
	return &CreateProductPage{
		api:     api,
		session: sess,
		form: form.New(
			f{Name: models.ProductName, Label: "Name", Kind: form.KindText, Placeholder: "Pizza Margherita"},
			f{Name: models.ProductDescription, Label: "Description", Kind: form.KindText, HelperText: "At least 10 characters"},
			f{Name: models.ProductPrice, Label: "Price", Kind: form.KindNumber, Placeholder: "0.00"},
			f{Name: models.ProductImage, Label: "Image URL", Kind: form.KindText, HelperText: "Optional"},
			f{Name: models.ProductCategory, Label: "Category", Kind: form.KindText, Placeholder: "Pizza"},
		),
	}
}

// Mount redirects to login unless both token and user are stored.
func (p *CreateProductPage) Mount(ctx context.Context) (Outcome, error) {
	s, err := p.session.Get(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("read session: %w", err)
	}
	if !s.Present() {
		return redirect(RouteLogin), nil
	}
	return Outcome{}, nil
}

func (p *CreateProductPage) Set(field models.ProductField, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Set(field, value)
}

// Attach sets or, with nil, removes the uploaded image file.
func (p *CreateProductPage) Attach(file *models.Attachment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.file = file
}

func (p *CreateProductPage) Views() []form.View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.Views()
}

func (p *CreateProductPage) Errors() form.Errors[models.ProductField] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.Errors()
}

func (p *CreateProductPage) Preview() Preview {
	p.mu.Lock()
	defer p.mu.Unlock()

	price := "0.00"
	if d, err := validation.ParsePrice(p.form.Value(models.ProductPrice)); err == nil {
		price = cart.Format(d)
	}
	image := strings.TrimSpace(p.form.Value(models.ProductImage))
	if p.file != nil {
		image = p.file.Filename
	}
	if image == "" {
		image = "no image"
	}
	return Preview{
		Name:        p.form.Value(models.ProductName),
		Category:    p.form.Value(models.ProductCategory),
		Description: p.form.Value(models.ProductDescription),
		Price:       price,
		Image:       image,
	}
}

// Submit validates and uploads the product. A validation failure never
// reaches the network; a request failure keeps the form as typed.
func (p *CreateProductPage) Submit(ctx context.Context) (Outcome, *models.Product, error) {
	l := logging.FromContext(ctx).With("page", "create_product")

	done, err := p.start()
	if err != nil {
		return Outcome{}, nil, err
	}
	defer done()

	p.mu.Lock()
	draft := models.ProductDraft{
		Name:        p.form.Value(models.ProductName),
		Description: p.form.Value(models.ProductDescription),
		PriceText:   p.form.Value(models.ProductPrice),
		ImageURL:    p.form.Value(models.ProductImage),
		Category:    p.form.Value(models.ProductCategory),
		File:        p.file,
	}
	errs := validation.ValidateProduct(draft)
	p.form.SetErrors(errs)
	p.mu.Unlock()

	if !errs.Valid() {
		return Outcome{}, nil, fmt.Errorf("%w: %d field(s)", ErrValidation, len(errs))
	}

	s, err := p.session.Get(ctx)
	if err != nil {
		return Outcome{Notice: notice(NoticeError, msgProductFailed)}, nil, fmt.Errorf("read session: %w", err)
	}
	if s.AccessToken == "" {
		return redirect(RouteLogin), nil, nil
	}

	price, err := validation.ParsePrice(draft.PriceText)
	if err != nil {
		return Outcome{}, nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	req := transport.CreateProductRequest{
		Name:        strings.TrimSpace(draft.Name),
		Description: strings.TrimSpace(draft.Description),
		Price:       price.String(),
		Category:    strings.TrimSpace(draft.Category),
		Image:       strings.TrimSpace(draft.ImageURL),
	}
	if draft.File != nil {
		req.File = &transport.FilePart{Filename: draft.File.Filename, Data: draft.File.Data}
	}

	created, err := p.api.CreateProduct(ctx, s.AccessToken, req)
	if err != nil {
		l.Warn("create_product_error", "reason", "request failed", "error", err)
		return Outcome{Notice: notice(NoticeError, msgProductFailed)}, nil, fmt.Errorf("create product: %w", err)
	}

	p.mu.Lock()
	p.form.Reset()
	p.file = nil
	p.mu.Unlock()

	l.Info("create_product_success")
	return Outcome{Notice: notice(NoticeSuccess, msgProductCreated)}, created, nil
}
