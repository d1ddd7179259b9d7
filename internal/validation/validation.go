// Package validation maps form drafts to per-field errors. Every function is
// pure and is meant to run once per submit, not on every keystroke.
package validation

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_storefront/internal/form"
	"github.com/Skotchmaster/food_storefront/internal/models"
)

var ErrInvalidPrice = errors.New("invalid price")

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Plain decimal notation with bounded digits; exponent forms are rejected.
var pricePattern = regexp.MustCompile(`^[+-]?(\d{1,15}(\.\d{1,15})?|\.\d{1,15})$`)

// Rule returns an error message, or "" when the value passes.
type Rule func(v string) string

// First runs rules in order and returns the first failure.
func First(v string, rules ...Rule) string {
	for _, r := range rules {
		if msg := r(v); msg != "" {
			return msg
		}
	}
	return ""
}

func Required(msg string) Rule {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	}
}

// Present fails only on the empty string; whitespace counts as a value.
func Present(msg string) Rule {
	return func(v string) string {
		if v == "" {
			return msg
		}
		return ""
	}
}

func MinTrimmed(n int, msg string) Rule {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) < n {
			return msg
		}
		return ""
	}
}

func MinLength(n int, msg string) Rule {
	return func(v string) string {
		if utf8.RuneCountInString(v) < n {
			return msg
		}
		return ""
	}
}

func Email(msg string) Rule {
	return func(v string) string {
		if !emailPattern.MatchString(v) {
			return msg
		}
		return ""
	}
}

// OptionalURL accepts "" (after trimming) or an absolute URL with scheme and host.
func OptionalURL(msg string) Rule {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		u, err := url.Parse(v)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return msg
		}
		return ""
	}
}

func Positive(invalidMsg, nonPositiveMsg string) Rule {
	return func(v string) string {
		p, err := ParsePrice(v)
		if err != nil {
			return invalidMsg
		}
		if !p.IsPositive() {
			return nonPositiveMsg
		}
		return ""
	}
}

// ParsePrice parses the raw price text as typed in the form.
func ParsePrice(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if !pricePattern.MatchString(text) {
		return decimal.Zero, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}

func ValidateLogin(d models.LoginDraft) form.Errors[models.LoginField] {
	errs := form.Errors[models.LoginField]{}
	set(errs, models.LoginEmail, First(d.Email,
		Present("Email is required"),
		Email("Enter a valid email"),
	))
	set(errs, models.LoginPassword, First(d.Password,
		Present("Password is required"),
	))
	return errs
}

func ValidateRegister(d models.RegisterDraft) form.Errors[models.RegisterField] {
	errs := form.Errors[models.RegisterField]{}
	set(errs, models.RegisterEmail, First(d.Email,
		Present("Email is required"),
		Email("Enter a valid email"),
	))
	set(errs, models.RegisterPassword, First(d.Password,
		Present("Password is required"),
		MinLength(MinPasswordLength, "Password must be at least 6 characters"),
	))
	set(errs, models.RegisterFirstName, First(d.FirstName, Present("First name is required")))
	set(errs, models.RegisterLastName, First(d.LastName, Present("Last name is required")))
	set(errs, models.RegisterBirthDate, First(d.BirthDate, Present("Birth date is required")))
	return errs
}

func ValidateProduct(d models.ProductDraft) form.Errors[models.ProductField] {
	errs := form.Errors[models.ProductField]{}
	set(errs, models.ProductName, First(d.Name,
		Required("Name is required"),
		MinTrimmed(2, "Name must be at least 2 characters"),
	))
	set(errs, models.ProductDescription, First(d.Description,
		Required("Description is required"),
		MinTrimmed(10, "Description must be at least 10 characters"),
	))
	set(errs, models.ProductPrice, First(d.PriceText,
		Required("Price is required"),
		Positive("Enter a valid price", "Price must be greater than 0"),
	))
	set(errs, models.ProductImage, First(d.ImageURL, OptionalURL("Enter a valid URL")))
	set(errs, models.ProductCategory, First(d.Category,
		Required("Category is required"),
		MinTrimmed(2, "Category must be at least 2 characters"),
	))
	return errs
}

func ValidateOrder(d models.OrderDetails) form.Errors[models.OrderField] {
	errs := form.Errors[models.OrderField]{}
	set(errs, models.OrderAddress, First(d.DeliveryAddress, Required("Delivery address is required")))
	set(errs, models.OrderPhone, First(d.Phone, Required("Phone is required")))
	return errs
}

func set[F ~string](errs form.Errors[F], f F, msg string) {
	if msg != "" {
		errs[f] = msg
	}
}
