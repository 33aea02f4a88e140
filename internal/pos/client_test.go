package pos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart(t *testing.T) *Cart {
	t.Helper()
	cart := NewCart()
	require.NoError(t, cart.Add(CartLine{
		ProductID: 1,
		Name:      "Cono",
		UnitPrice: 6000,
		Toppings:  []Topping{{ID: 10, Name: "Chips", Price: 1500}},
		Quantity:  2,
	}, 10))
	return cart
}

func TestBuildPayloadRoundTrip(t *testing.T) {
	cart := newTestCart(t)
	cart.ManualDiscount = 2000

	payload := BuildPayload(cart, "Ana", "Efectivo")

	assert.Equal(t, 15000.0, payload.Subtotal)
	assert.Equal(t, 2000.0, payload.Discount)
	assert.Equal(t, 13000.0, payload.Total)
	assert.Equal(t, "Efectivo", payload.PaymentMethod)

	require.Len(t, payload.Lines, 1)
	// productId, quantity and the snapshot price reproduced exactly
	assert.Equal(t, uint(1), payload.Lines[0].ProductID)
	assert.Equal(t, 2, payload.Lines[0].Quantity)
	assert.Equal(t, 7500.0, payload.Lines[0].UnitPrice, "unit price includes the topping snapshot")
}

func TestBuildPayloadClampsStaleDiscount(t *testing.T) {
	cart := newTestCart(t)
	cart.ManualDiscount = 99999

	payload := BuildPayload(cart, "", "Efectivo")
	assert.Equal(t, 15000.0, payload.Discount)
	assert.Equal(t, 0.0, payload.Total)
}

func TestCheckoutEmptyCartNeverReachesNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")

	_, err := client.Checkout(context.Background(), NewCart(), "", "Efectivo", 10000)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, calls, "empty cart must be rejected locally")
}

func TestCheckoutZeroTotalNeverReachesNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")

	cart := newTestCart(t)
	cart.ManualDiscount = 99999 // swallows the subtotal, total clamps to 0
	require.False(t, cart.CanCheckout(0, "Efectivo"))

	_, err := client.Checkout(context.Background(), cart, "", "Efectivo", 0)
	assert.ErrorIs(t, err, ErrZeroTotal)
	assert.Equal(t, 0, calls, "a fully discounted cart must be rejected locally")
}

func TestCheckoutLocalValidation(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")

	cart := newTestCart(t)
	_, err := client.Checkout(context.Background(), cart, "", "", 20000)
	assert.ErrorIs(t, err, ErrNoPaymentMethod)

	_, err = client.Checkout(context.Background(), cart, "", "Efectivo", 14999)
	assert.ErrorIs(t, err, ErrInsufficientTender)

	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, cart.Len(), "cart stays intact after local rejection")
}

func TestCheckoutSubmitsPayloadAndIdempotencyKey(t *testing.T) {
	var got CheckoutPayload
	var idemKey string
	var authHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/invoices", r.URL.Path)
		idemKey = r.Header.Get("Idempotency-Key")
		authHeader = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"invoiceId": 42, "message": "Invoice registered."})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token")
	cart := newTestCart(t)

	resp, err := client.Checkout(context.Background(), cart, "Ana", "Efectivo", 15000)
	require.NoError(t, err)

	assert.Equal(t, uint(42), resp.InvoiceID)
	assert.NotEmpty(t, idemKey)
	assert.Equal(t, "Bearer secret-token", authHeader)
	assert.Equal(t, 15000.0, got.Subtotal)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, uint(1), got.Lines[0].ProductID)
}

func TestCheckoutSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "The invoice could not be registered."})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	cart := newTestCart(t)

	_, err := client.Checkout(context.Background(), cart, "", "Efectivo", 20000)
	require.Error(t, err)
	assert.Equal(t, "The invoice could not be registered.", err.Error())
	assert.Equal(t, 1, cart.Len(), "cart kept for retry after a server failure")
}
