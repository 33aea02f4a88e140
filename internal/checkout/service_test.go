package checkout

import (
	"errors"
	"fmt"
	"testing"

	"gelato-pos/internal/audit"
	"gelato-pos/internal/metrics"
	"gelato-pos/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decrementCall struct {
	ProductID uint
	Quantity  int
}

// fakeStore exercises the service against the collaborator contract without
// a database.
type fakeStore struct {
	invoices   []models.Invoice
	lines      []models.InvoiceLine
	payments   []models.Payment
	audits     []audit.RecordOptions
	decrements []decrementCall
	methods    []models.PaymentMethod
	byKey      map[string]models.Invoice

	failInvoice      error
	failLines        error
	failDecrementFor uint
	failFindByKey    error
	missFirstLookup  bool
}

func newFakeStore(methods ...models.PaymentMethod) *fakeStore {
	return &fakeStore{methods: methods, byKey: map[string]models.Invoice{}}
}

func (f *fakeStore) FindInvoiceByKey(key string) (*models.Invoice, error) {
	if f.failFindByKey != nil {
		return nil, f.failFindByKey
	}
	// simulates a concurrent submit committing between our lookup and insert
	if f.missFirstLookup {
		f.missFirstLookup = false
		return nil, ErrNotFound
	}
	if inv, ok := f.byKey[key]; ok {
		return &inv, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateInvoice(inv *models.Invoice) error {
	if f.failInvoice != nil {
		return f.failInvoice
	}
	inv.ID = uint(len(f.invoices) + 1)
	f.invoices = append(f.invoices, *inv)
	if inv.IdempotencyKey != nil {
		f.byKey[*inv.IdempotencyKey] = *inv
	}
	return nil
}

func (f *fakeStore) CreateInvoiceLines(lines []models.InvoiceLine) error {
	if f.failLines != nil {
		return f.failLines
	}
	f.lines = append(f.lines, lines...)
	return nil
}

func (f *fakeStore) DecrementStock(productID uint, quantity int) error {
	if f.failDecrementFor == productID {
		return fmt.Errorf("product %d: decrement refused", productID)
	}
	f.decrements = append(f.decrements, decrementCall{ProductID: productID, Quantity: quantity})
	return nil
}

func (f *fakeStore) FindActiveMethodByName(name string) (*models.PaymentMethod, error) {
	for _, m := range f.methods {
		if m.Name == name && m.Active {
			found := m
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) ListActiveMethods() ([]models.PaymentMethod, error) {
	var actives []models.PaymentMethod
	for _, m := range f.methods {
		if m.Active {
			actives = append(actives, m)
		}
	}
	return actives, nil
}

func (f *fakeStore) CreatePayment(p *models.Payment) error {
	p.ID = uint(len(f.payments) + 1)
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakeStore) WriteAudit(opts audit.RecordOptions) error {
	f.audits = append(f.audits, opts)
	return nil
}

func f64(v float64) *float64 { return &v }

func validRequest() *Request {
	return &Request{
		Customer:      "Ana",
		Subtotal:      f64(15000),
		Discount:      2000,
		Total:         f64(13000),
		PaymentMethod: "Efectivo",
		Lines: []Line{
			{ProductID: 1, Quantity: 2, UnitPrice: 7500},
		},
	}
}

func cash() models.PaymentMethod {
	return models.PaymentMethod{ID: 1, Name: "Efectivo", Active: true}
}

func transfer() models.PaymentMethod {
	return models.PaymentMethod{ID: 2, Name: "Transferencia", Active: true}
}

func newTestService(store Store, strict bool) *Service {
	return NewService(store, metrics.NewUnregistered(), strict)
}

func TestCheckoutValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty line list", func(r *Request) { r.Lines = nil }},
		{"missing subtotal", func(r *Request) { r.Subtotal = nil }},
		{"missing total", func(r *Request) { r.Total = nil }},
		{"missing payment method", func(r *Request) { r.PaymentMethod = "" }},
		{"zero quantity line", func(r *Request) { r.Lines[0].Quantity = 0 }},
		{"missing product id", func(r *Request) { r.Lines[0].ProductID = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(cash())
			svc := newTestService(store, false)

			req := validRequest()
			tt.mutate(req)

			_, err := svc.Checkout(7, "ana", "", req)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Empty(t, store.invoices, "nothing may be written on a rejected payload")
		})
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	store := newFakeStore(cash(), transfer())
	svc := newTestService(store, false)

	res, err := svc.Checkout(7, "ana", "", validRequest())
	require.NoError(t, err)
	assert.False(t, res.Replayed)

	require.Len(t, store.invoices, 1)
	inv := store.invoices[0]
	assert.Equal(t, uint(7), inv.EmployeeID, "employee comes from the token, never the payload")
	assert.Equal(t, 15000.0, inv.GrossTotal)
	assert.Equal(t, 2000.0, inv.DiscountTotal)
	assert.Equal(t, 13000.0, inv.NetTotal)
	assert.Equal(t, "Ana", inv.CustomerNote)

	require.Len(t, store.lines, 1)
	assert.Equal(t, inv.ID, store.lines[0].InvoiceID)
	assert.Equal(t, 15000.0, store.lines[0].LineSubtotal)

	require.Len(t, store.decrements, 1)
	assert.Equal(t, decrementCall{ProductID: 1, Quantity: 2}, store.decrements[0])

	require.Len(t, store.payments, 1)
	assert.Equal(t, cash().ID, store.payments[0].MethodID)
	assert.Equal(t, 13000.0, store.payments[0].AmountPaid)

	require.Len(t, store.audits, 1)
	assert.Equal(t, "invoice", store.audits[0].EntityType)
}

func TestCheckoutPaymentMethodFallback(t *testing.T) {
	// submitted name not among active methods: first active wins
	store := newFakeStore(cash(), transfer())
	svc := newTestService(store, false)

	req := validRequest()
	req.PaymentMethod = "Cheque"

	res, err := svc.Checkout(7, "ana", "", req)
	require.NoError(t, err, "fallback still succeeds")
	assert.NotZero(t, res.InvoiceID)

	require.Len(t, store.payments, 1)
	assert.Equal(t, cash().ID, store.payments[0].MethodID)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.PaymentFallbacks))
}

func TestCheckoutNoActiveMethodsSkipsPayment(t *testing.T) {
	inactive := models.PaymentMethod{ID: 3, Name: "Efectivo", Active: false}
	store := newFakeStore(inactive)
	svc := newTestService(store, false)

	res, err := svc.Checkout(7, "ana", "", validRequest())
	require.NoError(t, err, "the invoice still stands, unpaid on record")
	assert.NotZero(t, res.InvoiceID)

	assert.Empty(t, store.payments)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.PaymentsSkipped))
}

func TestCheckoutStockDecrementFailureIsNonFatal(t *testing.T) {
	store := newFakeStore(cash())
	store.failDecrementFor = 2
	svc := newTestService(store, false)

	req := validRequest()
	req.Lines = append(req.Lines, Line{ProductID: 2, Quantity: 1, UnitPrice: 5000})
	req.Subtotal = f64(20000)
	req.Total = f64(18000)

	res, err := svc.Checkout(7, "ana", "", req)
	require.NoError(t, err, "a failed decrement must not block the sale")
	assert.NotZero(t, res.InvoiceID)

	// the other line still decremented, the miss was counted
	require.Len(t, store.decrements, 1)
	assert.Equal(t, uint(1), store.decrements[0].ProductID)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.StockDecrementMiss))
	require.Len(t, store.payments, 1)
}

func TestCheckoutStrictStockMakesDecrementFatal(t *testing.T) {
	store := newFakeStore(cash())
	store.failDecrementFor = 1
	svc := newTestService(store, true)

	_, err := svc.Checkout(7, "ana", "", validRequest())
	require.Error(t, err)
	assert.Len(t, store.invoices, 1, "the invoice row had already been written")
	assert.Empty(t, store.payments, "strict mode stops before payment")
}

func TestCheckoutLineFailureLeavesInvoice(t *testing.T) {
	store := newFakeStore(cash())
	store.failLines = errors.New("insert refused")
	svc := newTestService(store, false)

	_, err := svc.Checkout(7, "ana", "", validRequest())
	require.Error(t, err)
	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr), "a persistence failure is not a validation error")

	// documented non-atomicity: the invoice row stays behind
	assert.Len(t, store.invoices, 1)
	assert.Empty(t, store.lines)
	assert.Empty(t, store.decrements, "no side effects after the fatal step")
}

func TestCheckoutIdempotentReplay(t *testing.T) {
	store := newFakeStore(cash())
	svc := newTestService(store, false)

	first, err := svc.Checkout(7, "ana", "key-123", validRequest())
	require.NoError(t, err)
	require.False(t, first.Replayed)

	second, err := svc.Checkout(7, "ana", "key-123", validRequest())
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.InvoiceID, second.InvoiceID)
	assert.Len(t, store.invoices, 1, "no duplicate invoice on replay")
}

func TestCheckoutLookupErrorStillCreates(t *testing.T) {
	store := newFakeStore(cash())
	store.failFindByKey = errors.New("connection reset")
	svc := newTestService(store, false)

	res, err := svc.Checkout(7, "ana", "key-5", validRequest())
	require.NoError(t, err, "a failed lookup must not block the sale")
	assert.False(t, res.Replayed)
	assert.Len(t, store.invoices, 1)
}

func TestCheckoutDuplicateKeyRaceReplays(t *testing.T) {
	store := newFakeStore(cash())
	store.byKey["key-9"] = models.Invoice{ID: 41}
	store.missFirstLookup = true
	store.failInvoice = ErrDuplicateKey
	svc := newTestService(store, false)

	res, err := svc.Checkout(7, "ana", "key-9", validRequest())
	require.NoError(t, err, "losing the insert race is a replay, not a failure")
	assert.True(t, res.Replayed)
	assert.Equal(t, uint(41), res.InvoiceID)
	assert.Empty(t, store.invoices, "no second invoice row")
}

func TestCheckoutCountsPriceMismatch(t *testing.T) {
	store := newFakeStore(cash())
	svc := newTestService(store, false)

	req := validRequest()
	req.Subtotal = f64(99999) // disagrees with the line sum

	_, err := svc.Checkout(7, "ana", "", req)
	require.NoError(t, err, "drift is observed, never rejected")
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.PriceMismatches))
	assert.Equal(t, 99999.0, store.invoices[0].GrossTotal, "submitted totals persisted verbatim")
}
