package transport

import (
	"encoding/json"
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user"`
}

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BirthDate string `json:"birthDate"`
}

// RegisterResult is whatever the backend confirmed. Token and User are only
// set when the payload is an object carrying them.
type RegisterResult struct {
	AccessToken string
	User        json.RawMessage
	Raw         json.RawMessage
}

type CreateOrderItem struct {
	ProductID int         `json:"productId"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

type CreateOrderRequest struct {
	Items       []CreateOrderItem `json:"items"`
	TotalPrice  json.Number       `json:"totalPrice"`
	Description string            `json:"description"`
	Address     string            `json:"address"`
	Phone       string            `json:"phone"`
}

type OrderEvent struct {
	Type        string             `json:"type"`
	RequestID   string             `json:"request_id"`
	Order       CreateOrderRequest `json:"order"`
	SubmittedAt time.Time          `json:"submitted_at"`
}

// CreateProductRequest is sent as multipart form data. Image is only sent
// when no file is attached.
type CreateProductRequest struct {
	Name        string
	Description string
	Price       string
	Category    string
	Image       string
	File        *FilePart
}

type FilePart struct {
	Filename string
	Data     []byte
}
