package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}

// CartEntry is one line of the cart. Quantity never drops below 1.
type CartEntry struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"image"`
}

type OrderDraft struct {
	Entries             []CartEntry
	SpecialInstructions string
	DeliveryAddress     string
	Phone               string
}

type Attachment struct {
	Filename string
	Data     []byte
}

// ProductDraft keeps the price as typed so the field shows exactly what the
// user entered; it is parsed only on submit.
type ProductDraft struct {
	Name        string
	Description string
	PriceText   string
	ImageURL    string
	Category    string
	File        *Attachment
}

type LoginDraft struct {
	Email    string
	Password string
}

type RegisterDraft struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	BirthDate string
}

type OrderDetails struct {
	SpecialInstructions string
	DeliveryAddress     string
	Phone               string
}

// Session is the locally persisted credential pair. User is kept opaque.
type Session struct {
	AccessToken string
	User        json.RawMessage
}

// Present reports whether both keys hold a value. A user stored as JSON
// null counts as missing.
func (s Session) Present() bool {
	if s.AccessToken == "" {
		return false
	}
	user := bytes.TrimSpace(s.User)
	return len(user) > 0 && !bytes.Equal(user, []byte("null"))
}

type LoginField string

const (
	LoginEmail    LoginField = "email"
	LoginPassword LoginField = "password"
)

type RegisterField string

const (
	RegisterFirstName RegisterField = "firstname"
	RegisterLastName  RegisterField = "lastname"
	RegisterEmail     RegisterField = "email"
	RegisterPassword  RegisterField = "password"
	RegisterBirthDate RegisterField = "birthdate"
)

type ProductField string

const (
	ProductName        ProductField = "name"
	ProductDescription ProductField = "description"
	ProductPrice       ProductField = "price"
	ProductImage       ProductField = "image"
	ProductCategory    ProductField = "category"
)

type OrderField string

const (
	OrderInstructions OrderField = "description"
	OrderAddress      OrderField = "address"
	OrderPhone        OrderField = "phone"
)
