// Package apitest is an in-process stand-in for the storefront REST API.
package apitest

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/transport"
)

type user struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	BirthDate    string `json:"birthDate"`
	passwordHash string
}

// StoredOrder is an order as the backend received it.
type StoredOrder struct {
	Request       transport.CreateOrderRequest
	Authorization string
}

// StoredUpload is the multipart body of a product creation.
type StoredUpload struct {
	Fields   map[string]string
	Filename string
	FileData []byte
}

type Server struct {
	URL string

	// RegisterIssuesToken makes POST /users answer like a login.
	RegisterIssuesToken bool

	secret []byte
	ts     *httptest.Server

	mu       sync.Mutex
	calls    []Call
	users    map[string]*user
	products []models.Product
	orders   []StoredOrder
	uploads  []StoredUpload
	failures map[string]int
	blocked  map[string]*gate
}

type gate struct {
	ch   chan struct{}
	once sync.Once
}

func (g *gate) open() { g.once.Do(func() { close(g.ch) }) }

// New starts the fake backend; it is shut down with t.Cleanup.
func New(t interface {
	Helper()
	Cleanup(func())
}) *Server {
	t.Helper()
	s := NewServer(logging.NewWithWriter(io.Discard, "error"))
	t.Cleanup(s.Close)
	return s
}

func NewServer(logger *slog.Logger) *Server {
	s := &Server{
		secret:   []byte("apitest-secret"),
		users:    map[string]*user{},
		failures: map[string]int{},
		blocked:  map[string]*gate{},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.requestLogger(logger))
	e.Use(s.failureInjector)

	e.POST("/auth/login", s.login)
	e.POST("/users", s.register)
	e.GET("/products", s.listProducts)
	e.POST("/products", s.createProduct, s.requireAuth)
	e.POST("/orders", s.createOrder)

	s.ts = httptest.NewServer(e)
	s.URL = s.ts.URL
	return s
}

func (s *Server) Close() {
	s.mu.Lock()
	for _, g := range s.blocked {
		g.open()
	}
	s.mu.Unlock()
	s.ts.Close()
}

// AddUser registers credentials that POST /auth/login accepts.
func (s *Server) AddUser(name, email, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(email)] = &user{
		ID:           len(s.users) + 1,
		Name:         name,
		Email:        email,
		passwordHash: string(hash),
	}
}

func (s *Server) AddProducts(ps ...models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range ps {
		if p.ID == 0 {
			p.ID = len(s.products) + 1
		}
		s.products = append(s.products, p)
	}
}

// Fail makes every request to "METHOD /path" answer with code.
func (s *Server) Fail(method, path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = code
}

// Block holds requests to "METHOD /path" until the returned func is called
// or the request context ends.
func (s *Server) Block(method, path string) (release func()) {
	g := &gate{ch: make(chan struct{})}
	s.mu.Lock()
	s.blocked[method+" "+path] = g
	s.mu.Unlock()
	return g.open
}

// Token signs an access token the way the login endpoint does.
func (s *Server) Token(subject string, ttl time.Duration) string {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *Server) Orders() []StoredOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredOrder, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Server) Uploads() []StoredUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredUpload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

func (s *Server) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Server) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *Server) failureInjector(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Method + " " + c.Request().URL.Path

		s.mu.Lock()
		code := s.failures[key]
		g := s.blocked[key]
		s.mu.Unlock()

		if g != nil {
			select {
			case <-g.ch:
			case <-c.Request().Context().Done():
				return c.Request().Context().Err()
			}
		}
		if code != 0 {
			return echo.NewHTTPError(code, fmt.Sprintf("forced %d", code))
		}
		return next(c)
	}
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context())

		raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if !ok || raw == "" {
			l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}
		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		return next(c)
	}
}

func (s *Server) login(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	s.mu.Lock()
	u := s.users[strings.ToLower(req.Email)]
	s.mu.Unlock()

	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(req.Password)) != nil {
		l.Warn("login_failed", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": s.Token(fmt.Sprint(u.ID), time.Hour),
		"user":         u,
	})
}

func (s *Server) register(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if _, err := time.Parse("2006-01-02T15:04:05.000Z", req.BirthDate); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid birthDate")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash password")
	}

	s.mu.Lock()
	key := strings.ToLower(req.Email)
	if _, exists := s.users[key]; exists {
		s.mu.Unlock()
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	}
	u := &user{
		ID:           len(s.users) + 1,
		Name:         req.Name,
		Email:        req.Email,
		BirthDate:    req.BirthDate,
		passwordHash: string(hash),
	}
	s.users[key] = u
	s.mu.Unlock()

	if s.RegisterIssuesToken {
		return c.JSON(http.StatusCreated, echo.Map{
			"access_token": s.Token(fmt.Sprint(u.ID), time.Hour),
			"user":         u,
		})
	}
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) listProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Products())
}

func (s *Server) createProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "create_product")

	form, err := c.MultipartForm()
	if err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	up := StoredUpload{Fields: map[string]string{}}
	for k, v := range form.Value {
		if len(v) > 0 {
			up.Fields[k] = v[0]
		}
	}
	if files := form.File["file"]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot read file")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot read file")
		}
		up.Filename = files[0].Filename
		up.FileData = data
	}

	price, err := decimal.NewFromString(up.Fields["price"])
	if err != nil || !price.IsPositive() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	s.mu.Lock()
	p := models.Product{
		ID:          len(s.products) + 1,
		Name:        up.Fields["name"],
		Description: up.Fields["description"],
		Price:       price,
		Image:       up.Fields["image"],
		Category:    up.Fields["category"],
	}
	if up.Filename != "" {
		p.Image = "/uploads/" + up.Filename
	}
	s.products = append(s.products, p)
	s.uploads = append(s.uploads, up)
	s.mu.Unlock()

	l.Info("product_created", "id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) createOrder(c echo.Context) error {
	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no items")
	}

	s.mu.Lock()
	s.orders = append(s.orders, StoredOrder{
		Request:       req,
		Authorization: c.Request().Header.Get(echo.HeaderAuthorization),
	})
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, echo.Map{"status": "created"})
}
