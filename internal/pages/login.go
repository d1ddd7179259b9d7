package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skotchmaster/food_storefront/internal/form"
	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/session"
	"github.com/Skotchmaster/food_storefront/internal/transport"
	"github.com/Skotchmaster/food_storefront/internal/validation"
)

type LoginPage struct {
	busy

	api     AuthAPI
	session session.Repository

	mu   sync.Mutex
	form *form.State[models.LoginField]
}

func NewLoginPage(api AuthAPI, sess session.Repository) *LoginPage {
	return &LoginPage{
		api:     api,
		session: sess,
		form: form.New(
			form.Field[models.LoginField]{Name: models.LoginEmail, Label: "Email", Kind: form.KindEmail, Placeholder: "you@example.com"},
			form.Field[models.LoginField]{Name: models.LoginPassword, Label: "Password", Kind: form.KindPassword},
		),
	}
}

// Mount sends an already authenticated user straight to the products page.
// It only reads the session store.
func (p *LoginPage) Mount(ctx context.Context) (Outcome, error) {
	s, err := p.session.Get(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("read session: %w", err)
	}
	if s.Present() {
		return redirect(RouteProducts), nil
	}
	return Outcome{}, nil
}

func (p *LoginPage) Set(field models.LoginField, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Set(field, value)
}

func (p *LoginPage) Views() []form.View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.Views()
}

func (p *LoginPage) Errors() form.Errors[models.LoginField] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.Errors()
}

func (p *LoginPage) Submit(ctx context.Context) (Outcome, error) {
	l := logging.FromContext(ctx).With("page", "login")

	done, err := p.start()
	if err != nil {
		return Outcome{}, err
	}
	defer done()

	p.mu.Lock()
	draft := models.LoginDraft{
		Email:    p.form.Value(models.LoginEmail),
		Password: p.form.Value(models.LoginPassword),
	}
	errs := validation.ValidateLogin(draft)
	p.form.SetErrors(errs)
	p.mu.Unlock()

	if !errs.Valid() {
		return Outcome{}, fmt.Errorf("%w: %d field(s)", ErrValidation, len(errs))
	}

	res, err := p.api.Login(ctx, transport.LoginRequest{Email: draft.Email, Password: draft.Password})
	if err != nil {
		l.Warn("login_error", "reason", "request failed", "error", err)
		return Outcome{Notice: notice(NoticeError, msgLoginFailed)}, fmt.Errorf("login: %w", err)
	}

	sess := models.Session{AccessToken: res.AccessToken, User: res.User}
	if !sess.Present() {
		l.Warn("login_error", "reason", "response has no user")
		return Outcome{Notice: notice(NoticeError, msgLoginFailed)}, fmt.Errorf("login: %w", ErrNoUser)
	}
	if err := p.session.Set(ctx, sess); err != nil {
		l.Error("login_error", "reason", "cannot store session", "error", err)
		return Outcome{Notice: notice(NoticeError, msgLoginFailed)}, fmt.Errorf("store session: %w", err)
	}

	p.mu.Lock()
	p.form.Reset()
	p.mu.Unlock()

	l.Info("login_success")
	return redirect(RouteProducts), nil
}
