package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_storefront/internal/models"
)

func validProduct() models.ProductDraft {
	return models.ProductDraft{
		Name:        "Pasta Carbonara",
		Description: "Creamy pasta with bacon, egg and parmesan cheese",
		PriceText:   "11.99",
		ImageURL:    "https://images.unsplash.com/photo-1612874742237-6526221588e3?w=400",
		Category:    "Pasta",
	}
}

func TestValidateProduct_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidateProduct(validProduct()).Valid())
}

func TestValidateProduct_Price(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price   string
		wantErr string
	}{
		{price: "11.99"},
		{price: " 3 "},
		{price: "0", wantErr: "Price must be greater than 0"},
		{price: "-1", wantErr: "Price must be greater than 0"},
		{price: "abc", wantErr: "Enter a valid price"},
		{price: "1e999999999", wantErr: "Enter a valid price"},
		{price: "", wantErr: "Price is required"},
		{price: "   ", wantErr: "Price is required"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.price, func(t *testing.T) {
			t.Parallel()

			d := validProduct()
			d.PriceText = tt.price
			errs := ValidateProduct(d)
			assert.Equal(t, tt.wantErr, errs.Get(models.ProductPrice))
			if tt.wantErr == "" {
				assert.True(t, errs.Valid())
			}
		})
	}
}

func TestValidateProduct_FieldRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(d *models.ProductDraft)
		field   models.ProductField
		wantErr string
	}{
		{name: "empty name", mutate: func(d *models.ProductDraft) { d.Name = "  " }, field: models.ProductName, wantErr: "Name is required"},
		{name: "short name", mutate: func(d *models.ProductDraft) { d.Name = " P " }, field: models.ProductName, wantErr: "Name must be at least 2 characters"},
		{name: "short description", mutate: func(d *models.ProductDraft) { d.Description = "ok" }, field: models.ProductDescription, wantErr: "Description must be at least 10 characters"},
		{name: "empty description", mutate: func(d *models.ProductDraft) { d.Description = "" }, field: models.ProductDescription, wantErr: "Description is required"},
		{name: "bad url", mutate: func(d *models.ProductDraft) { d.ImageURL = "not a url" }, field: models.ProductImage, wantErr: "Enter a valid URL"},
		{name: "relative url", mutate: func(d *models.ProductDraft) { d.ImageURL = "/img/a.png" }, field: models.ProductImage, wantErr: "Enter a valid URL"},
		{name: "empty url is fine", mutate: func(d *models.ProductDraft) { d.ImageURL = "  " }, field: models.ProductImage},
		{name: "short category", mutate: func(d *models.ProductDraft) { d.Category = "P" }, field: models.ProductCategory, wantErr: "Category must be at least 2 characters"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := validProduct()
			tt.mutate(&d)
			errs := ValidateProduct(d)
			assert.Equal(t, tt.wantErr, errs.Get(tt.field))
			if tt.wantErr != "" {
				assert.Len(t, errs, 1)
			}
		})
	}
}

func TestValidateRegister(t *testing.T) {
	t.Parallel()

	errs := ValidateRegister(models.RegisterDraft{Email: "juan@", Password: "12345"})
	assert.Equal(t, "Enter a valid email", errs.Get(models.RegisterEmail))
	assert.Equal(t, "Password must be at least 6 characters", errs.Get(models.RegisterPassword))
	assert.Equal(t, "First name is required", errs.Get(models.RegisterFirstName))
	assert.Equal(t, "Last name is required", errs.Get(models.RegisterLastName))
	assert.Equal(t, "Birth date is required", errs.Get(models.RegisterBirthDate))

	ok := ValidateRegister(models.RegisterDraft{
		FirstName: "Juan", LastName: "Pérez", Email: "juan@mail.com", Password: "123456", BirthDate: "1990-05-01",
	})
	assert.True(t, ok.Valid())
}

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	errs := ValidateLogin(models.LoginDraft{})
	assert.Equal(t, "Email is required", errs.Get(models.LoginEmail))
	assert.Equal(t, "Password is required", errs.Get(models.LoginPassword))

	assert.True(t, ValidateLogin(models.LoginDraft{Email: "a@b.co", Password: "x"}).Valid())
}

func TestValidateOrder(t *testing.T) {
	t.Parallel()

	errs := ValidateOrder(models.OrderDetails{SpecialInstructions: "no onions", DeliveryAddress: " "})
	assert.Len(t, errs, 2)
	assert.True(t, ValidateOrder(models.OrderDetails{DeliveryAddress: "Calle 1", Phone: "555"}).Valid())
}

func TestValidation_Idempotent(t *testing.T) {
	t.Parallel()

	drafts := []models.ProductDraft{
		validProduct(),
		{Name: "x", Description: "ok", PriceText: "abc", ImageURL: "nope", Category: ""},
		{},
	}
	for _, d := range drafts {
		assert.Equal(t, ValidateProduct(d), ValidateProduct(d))
	}

	r := models.RegisterDraft{Email: "bad"}
	assert.Equal(t, ValidateRegister(r), ValidateRegister(r))
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	p, err := ParsePrice(" 11.99 ")
	require.NoError(t, err)
	assert.Equal(t, "11.99", p.String())

	p, err = ParsePrice(".5")
	require.NoError(t, err)
	assert.Equal(t, "0.5", p.String())

	for _, bad := range []string{"eleven", "1e999999999", "1E3", "0x10", "1,5", "12.5.1", "1234567890123456"} {
		_, err = ParsePrice(bad)
		require.ErrorIs(t, err, ErrInvalidPrice, bad)
	}
}
