// Package apiclient talks to the storefront REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/transport"
)

const maxErrorBody = 512

var (
	ErrUnexpectedStatus  = errors.New("unexpected status")
	ErrMalformedResponse = errors.New("malformed response")
)

type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed with status: %d", e.Op, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return NewWithHTTPClient(baseURL, &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

func (c *Client) Login(ctx context.Context, in transport.LoginRequest) (*transport.LoginResponse, error) {
	body, err := c.doJSON(ctx, "login", http.MethodPost, "/auth/login", "", in)
	if err != nil {
		return nil, err
	}

	var out transport.LoginResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access_token", ErrMalformedResponse)
	}
	return &out, nil
}

// Register returns the raw confirmation plus any token/user pair it carries.
func (c *Client) Register(ctx context.Context, in transport.RegisterRequest) (*transport.RegisterResult, error) {
	body, err := c.doJSON(ctx, "register", http.MethodPost, "/users", "", in)
	if err != nil {
		return nil, err
	}

	res := &transport.RegisterResult{}
	if json.Valid(body) {
		res.Raw = json.RawMessage(body)
		var withToken transport.LoginResponse
		if json.Unmarshal(body, &withToken) == nil && withToken.AccessToken != "" {
			res.AccessToken = withToken.AccessToken
			res.User = withToken.User
		}
	} else if len(bytes.TrimSpace(body)) > 0 {
		quoted, _ := json.Marshal(string(body))
		res.Raw = quoted
	}
	return res, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	body, err := c.doJSON(ctx, "list_products", http.MethodGet, "/products", "", nil)
	if err != nil {
		return nil, err
	}

	var out []models.Product
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// CreateProduct posts the product as multipart form data. The created product
// is returned when the response body decodes as one, nil otherwise.
func (c *Client) CreateProduct(ctx context.Context, token string, in transport.CreateProductRequest) (*models.Product, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", in.Name},
		{"description", in.Description},
		{"price", in.Price},
		{"category", in.Category},
	}
	if in.File == nil && in.Image != "" {
		fields = append(fields, [2]string{"image", in.Image})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if in.File != nil {
		part, err := mw.CreateFormFile("file", in.File.Filename)
		if err != nil {
			return nil, fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(in.File.Data); err != nil {
			return nil, fmt.Errorf("write file part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	body, err := c.do(ctx, "create_product", http.MethodPost, "/products", token, mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	var p models.Product
	if err := json.Unmarshal(body, &p); err != nil || p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

// CreateOrder only reports success or failure; the response body is ignored.
func (c *Client) CreateOrder(ctx context.Context, token string, in transport.CreateOrderRequest) error {
	_, err := c.doJSON(ctx, "create_order", http.MethodPost, "/orders", token, in)
	return err
}

func (c *Client) doJSON(ctx context.Context, op, method, path, token string, in any) ([]byte, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, token, contentType, body)
}

func (c *Client) do(ctx context.Context, op, method, path, token, contentType string, body io.Reader) ([]byte, error) {
	requestID := uuid.NewString()
	l := logging.FromContext(ctx).With("op", op, "request_id", requestID)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("api_request_error", "error", err)
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	l.Debug("api_request", "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(raw)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		l.Warn("api_request_failed", "status", resp.StatusCode)
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: snippet}
	}
	return raw, nil
}
