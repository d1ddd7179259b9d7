package pages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_storefront/internal/models"
)

func fillRegister(p *RegisterPage) {
	p.Set(models.RegisterFirstName, "Ana")
	p.Set(models.RegisterLastName, "García")
	p.Set(models.RegisterEmail, "ana@example.com")
	p.Set(models.RegisterPassword, "secret1")
	p.Set(models.RegisterBirthDate, "1990-05-04")
}

func TestFormatBirthDate(t *testing.T) {
	t.Parallel()

	got, err := FormatBirthDate("1990-05-04")
	require.NoError(t, err)
	assert.Equal(t, "1990-05-04T00:00:00.000Z", got)

	_, err = FormatBirthDate("04/05/1990")
	assert.Error(t, err)
}

func TestRegister_WithoutTokenGoesToLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	p := NewRegisterPage(f.client, f.session)
	fillRegister(p)

	out, err := p.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, out.Redirect)
	require.NotNil(t, out.Notice)
	assert.Equal(t, NoticeSuccess, out.Notice.Kind)

	s, err := f.session.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, s.Present())

	// the new account can log in
	login := NewLoginPage(f.client, f.session)
	login.Set(models.LoginEmail, "ana@example.com")
	login.Set(models.LoginPassword, "secret1")
	_, err = login.Submit(context.Background())
	require.NoError(t, err)
}

func TestRegister_WithTokenStoresSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.srv.RegisterIssuesToken = true

	p := NewRegisterPage(f.client, f.session)
	fillRegister(p)

	out, err := p.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteProducts, out.Redirect)

	s, err := f.session.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Present())
	assert.Contains(t, string(s.User), `"name":"Ana"`)
	assert.Contains(t, string(s.User), `"birthDate":"1990-05-04T00:00:00.000Z"`)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	p := NewRegisterPage(f.client, f.session)
	p.Set(models.RegisterEmail, "ana@example")
	p.Set(models.RegisterPassword, "12345")

	_, err := p.Submit(context.Background())
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.srv.CallCount())

	errs := p.Errors()
	for _, field := range []models.RegisterField{
		models.RegisterFirstName, models.RegisterLastName, models.RegisterEmail,
		models.RegisterPassword, models.RegisterBirthDate,
	} {
		assert.NotEmpty(t, errs.Get(field), field)
	}
}

func TestRegister_BadDateIsGenericFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	p := NewRegisterPage(f.client, f.session)
	fillRegister(p)
	p.Set(models.RegisterBirthDate, "yesterday")

	out, err := p.Submit(context.Background())
	require.Error(t, err)
	require.NotNil(t, out.Notice)
	assert.Equal(t, NoticeError, out.Notice.Kind)
	assert.Zero(t, f.srv.CallCount())
	assert.Equal(t, "yesterday", p.Views()[4].Value)
	assert.False(t, p.Loading())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.srv.AddUser("Ana", "ana@example.com", "secret1")

	p := NewRegisterPage(f.client, f.session)
	fillRegister(p)

	out, err := p.Submit(context.Background())
	require.Error(t, err)
	require.NotNil(t, out.Notice)
	assert.Equal(t, "Ana", p.Views()[0].Value)
}
