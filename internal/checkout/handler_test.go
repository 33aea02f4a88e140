package checkout

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"gelato-pos/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unexpected server error"})
		},
	})
	// stands in for the JWT middleware: a verified cashier identity
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxEmployeeIDKey, uint(7))
		c.Locals(auth.CtxUsernameKey, "ana")
		return c.Next()
	})
	app.Post("/api/invoices", CheckoutHandler(svc))
	return app
}

func postInvoice(t *testing.T, app *fiber.App, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/invoices", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestCheckoutHandlerCreatesInvoice(t *testing.T) {
	store := newFakeStore(cash())
	app := newTestApp(newTestService(store, false))

	status, out := postInvoice(t, app, validRequest(), nil)

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 1.0, out["invoiceId"])

	require.Len(t, store.invoices, 1)
	assert.Equal(t, uint(7), store.invoices[0].EmployeeID)
}

func TestCheckoutHandlerRejectsEmptyLineList(t *testing.T) {
	store := newFakeStore(cash())
	app := newTestApp(newTestService(store, false))

	req := validRequest()
	req.Lines = nil
	status, out := postInvoice(t, app, req, nil)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No products in the sale.", out["error"])
	assert.Empty(t, store.invoices)
}

func TestCheckoutHandlerRejectsMissingTotals(t *testing.T) {
	store := newFakeStore(cash())
	app := newTestApp(newTestService(store, false))

	req := validRequest()
	req.Subtotal = nil
	status, out := postInvoice(t, app, req, nil)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Totals are missing from the sale.", out["error"])
}

func TestCheckoutHandlerRejectsMissingMethod(t *testing.T) {
	store := newFakeStore(cash())
	app := newTestApp(newTestService(store, false))

	req := validRequest()
	req.PaymentMethod = ""
	status, out := postInvoice(t, app, req, nil)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "A payment method must be selected.", out["error"])
}

func TestCheckoutHandlerMapsPersistenceFailure(t *testing.T) {
	store := newFakeStore(cash())
	store.failLines = assert.AnError
	app := newTestApp(newTestService(store, false))

	status, out := postInvoice(t, app, validRequest(), nil)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "The invoice could not be registered.", out["error"])
}

func TestCheckoutHandlerReplaysOnIdempotencyKey(t *testing.T) {
	store := newFakeStore(cash())
	app := newTestApp(newTestService(store, false))

	headers := map[string]string{IdempotencyHeader: "reg-1-key"}

	status, first := postInvoice(t, app, validRequest(), headers)
	require.Equal(t, fiber.StatusCreated, status)

	status, second := postInvoice(t, app, validRequest(), headers)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, first["invoiceId"], second["invoiceId"])
	assert.Equal(t, true, second["replayed"])
	assert.Len(t, store.invoices, 1)
}
