package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CheckoutPayload is the wire form of a finished sale. Lines carry the cart's
// snapshots exactly; nothing is re-derived from the live catalog.
type CheckoutPayload struct {
	Customer      string        `json:"customer,omitempty"`
	Subtotal      float64       `json:"subtotal"`
	Discount      float64       `json:"discount"`
	Total         float64       `json:"total"`
	PaymentMethod string        `json:"paymentMethod"`
	Lines         []PayloadLine `json:"lines"`
}

type PayloadLine struct {
	ProductID uint    `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// BuildPayload serializes the cart. Unit prices include topping snapshots so
// the server-side line subtotal (quantity x unit price) matches what the
// cashier saw.
func BuildPayload(cart *Cart, customer, method string) CheckoutPayload {
	lines := cart.Lines()
	payload := CheckoutPayload{
		Customer:      customer,
		Subtotal:      cart.Subtotal(),
		Discount:      EffectiveDiscount(cart.ManualDiscount, cart.Subtotal()),
		Total:         cart.Total(),
		PaymentMethod: method,
		Lines:         make([]PayloadLine, 0, len(lines)),
	}
	for _, l := range lines {
		unit := l.UnitPrice
		for _, t := range l.Toppings {
			unit += t.Price
		}
		payload.Lines = append(payload.Lines, PayloadLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: unit,
		})
	}
	return payload
}

type CategoryGroup struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// Client talks to the gelato-pos API on behalf of the register.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SetToken(token string) { c.token = token }

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string { return e.Message }

func (c *Client) do(ctx context.Context, method, path string, body, out any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The server wraps errors as {"error": "..."}; surface that message
		// verbatim when present.
		var wire struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		msg := fmt.Sprintf("request failed with status %d", resp.StatusCode)
		if json.Unmarshal(data, &wire) == nil {
			if wire.Error != "" {
				msg = wire.Error
			} else if wire.Message != "" {
				msg = wire.Message
			}
		}
		return &apiError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"username": username, "password": password}, &out, nil)
	if err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// Products returns the active catalog flattened out of its category groups.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var groups []CategoryGroup
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &groups, nil); err != nil {
		return nil, err
	}
	var products []Product
	for _, g := range groups {
		products = append(products, g.Products...)
	}
	return products, nil
}

func (c *Client) Toppings(ctx context.Context) ([]Topping, error) {
	var toppings []Topping
	if err := c.do(ctx, http.MethodGet, "/api/toppings", nil, &toppings, nil); err != nil {
		return nil, err
	}
	return toppings, nil
}

func (c *Client) PaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	var methods []PaymentMethod
	if err := c.do(ctx, http.MethodGet, "/api/payment-methods", nil, &methods, nil); err != nil {
		return nil, err
	}
	return methods, nil
}

type CheckoutResponse struct {
	InvoiceID uint   `json:"invoiceId"`
	Message   string `json:"message"`
	Replayed  bool   `json:"replayed"`
}

// Checkout validates locally first: an empty cart, a zero total, a missing
// method or short tender never reaches the network. On success the caller
// clears the cart; on failure the cart is untouched so the cashier can retry.
func (c *Client) Checkout(ctx context.Context, cart *Cart, customer, method string, tendered float64) (*CheckoutResponse, error) {
	if cart.Len() == 0 {
		return nil, ErrEmptyCart
	}
	// A discount can swallow the whole subtotal; a sale that charges nothing
	// is not submittable.
	if cart.Total() <= 0 {
		return nil, ErrZeroTotal
	}
	if method == "" {
		return nil, ErrNoPaymentMethod
	}
	if tendered < cart.Total() {
		return nil, ErrInsufficientTender
	}

	payload := BuildPayload(cart, customer, method)

	var out CheckoutResponse
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	if err := c.do(ctx, http.MethodPost, "/api/invoices", payload, &out, headers); err != nil {
		return nil, err
	}
	return &out, nil
}
