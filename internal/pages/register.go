package pages

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/food_storefront/internal/form"
	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/session"
	"github.com/Skotchmaster/food_storefront/internal/transport"
	"github.com/Skotchmaster/food_storefront/internal/validation"
)

const (
	dateInputLayout = "2006-01-02"
	birthDateLayout = "2006-01-02T15:04:05.000Z"
)

// FormatBirthDate turns a date input into an ISO timestamp at UTC midnight.
func FormatBirthDate(date string) (string, error) {
	t, err := time.ParseInLocation(dateInputLayout, strings.TrimSpace(date), time.UTC)
	if err != nil {
		return "", fmt.Errorf("birth date: %w", err)
	}
	return t.Format(birthDateLayout), nil
}

type RegisterPage struct {
	busy

	api     AuthAPI
	session session.Repository

	mu   sync.Mutex
	form *form.State[models.RegisterField]
}

func NewRegisterPage(api AuthAPI, sess session.Repository) *RegisterPage {
	type f = form.Field[models.RegisterField]
	return &RegisterPage{
		api:     api,
		session: sess,
		form: form.New(
			f{Name: models.RegisterFirstName, Label: "First name", Kind: form.KindText},
			f{Name: models.RegisterLastName, Label: "Last name", Kind: form.KindText},
			f{Name: models.RegisterEmail, Label: "Email", Kind: form.KindEmail, Placeholder: "you@example.com"},
			f{Name: models.RegisterPassword, Label: "Password", Kind: form.KindPassword, HelperText: "At least 6 characters"},
			f{Name: models.RegisterBirthDate, Label: "Birth date", Kind: form.KindDate, Placeholder: "YYYY-MM-DD"},
		),
	}
}

func (p *RegisterPage) Set(field models.RegisterField, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Set(field, value)
}

func (p *RegisterPage) Views() []form.View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.Views()
}

func (p *RegisterPage) Errors() form.Errors[models.RegisterField] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.Errors()
}

// Submit registers the user. When the backend answers with a token the
// session is stored and the user lands on products; otherwise on login.
func (p *RegisterPage) Submit(ctx context.Context) (Outcome, error) {
	l := logging.FromContext(ctx).With("page", "register")

	done, err := p.start()
	if err != nil {
		return Outcome{}, err
	}
	defer done()

	p.mu.Lock()
	draft := models.RegisterDraft{
		FirstName: p.form.Value(models.RegisterFirstName),
		LastName:  p.form.Value(models.RegisterLastName),
		Email:     p.form.Value(models.RegisterEmail),
		Password:  p.form.Value(models.RegisterPassword),
		BirthDate: p.form.Value(models.RegisterBirthDate),
	}
	errs := validation.ValidateRegister(draft)
	p.form.SetErrors(errs)
	p.mu.Unlock()

	if !errs.Valid() {
		return Outcome{}, fmt.Errorf("%w: %d field(s)", ErrValidation, len(errs))
	}

	birthDate, err := FormatBirthDate(draft.BirthDate)
	if err != nil {
		l.Warn("register_error", "reason", "bad birth date", "error", err)
		return Outcome{Notice: notice(NoticeError, msgRegisterFailed)}, err
	}

	res, err := p.api.Register(ctx, transport.RegisterRequest{
		Name:      draft.FirstName,
		Email:     draft.Email,
		Password:  draft.Password,
		BirthDate: birthDate,
	})
	if err != nil {
		l.Warn("register_error", "reason", "request failed", "error", err)
		return Outcome{Notice: notice(NoticeError, msgRegisterFailed)}, fmt.Errorf("register: %w", err)
	}

	p.mu.Lock()
	p.form.Reset()
	p.mu.Unlock()

	if sess := (models.Session{AccessToken: res.AccessToken, User: res.User}); sess.Present() {
		if err := p.session.Set(ctx, sess); err != nil {
			l.Error("register_error", "reason", "cannot store session", "error", err)
			return Outcome{Redirect: RouteLogin, Notice: notice(NoticeInfo, msgRegistered)}, nil
		}
		l.Info("register_success", "session", true)
		return redirect(RouteProducts), nil
	}

	l.Info("register_success", "session", false)
	return Outcome{Redirect: RouteLogin, Notice: notice(NoticeSuccess, msgRegistered)}, nil
}
