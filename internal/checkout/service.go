package checkout

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gelato-pos/internal/audit"
	"gelato-pos/internal/logging"
	"gelato-pos/internal/metrics"
	"gelato-pos/internal/models"
)

// Request is the checkout payload as the register submits it. Totals and unit
// prices are the client's snapshots and are persisted verbatim; the server
// recomputes them only to report drift, never to reject.
type Request struct {
	Customer      string   `json:"customer"`
	Subtotal      *float64 `json:"subtotal"`
	Discount      float64  `json:"discount"`
	Total         *float64 `json:"total"`
	PaymentMethod string   `json:"paymentMethod"`
	Lines         []Line   `json:"lines"`
}

type Line struct {
	ProductID uint    `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type Result struct {
	InvoiceID uint
	Replayed  bool
}

// ValidationError marks a malformed payload: rejected before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Service struct {
	store   Store
	metrics *metrics.CheckoutMetrics

	// strictStock turns the best-effort stock decrement into a fatal step.
	strictStock bool
}

func NewService(store Store, m *metrics.CheckoutMetrics, strictStock bool) *Service {
	return &Service{store: store, metrics: m, strictStock: strictStock}
}

// Checkout runs the invoice persistence sequence.
//
// Failure tiers, preserved from the original register behavior:
//   - payload validation and invoice/line creation are fatal
//   - already-created rows are NOT rolled back when a later line fails
//   - stock decrement and payment recording are best-effort: logged and
//     counted, the sale still succeeds (unless strictStock is on for stock)
func (s *Service) Checkout(employeeID uint, employeeName, idempotencyKey string, req *Request) (*Result, error) {
	if err := validate(req); err != nil {
		s.metrics.Checkouts.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// Duplicate submission with the same key returns the original invoice
	if idempotencyKey != "" {
		prev, err := s.store.FindInvoiceByKey(idempotencyKey)
		if err == nil {
			s.metrics.Checkouts.WithLabelValues("replayed").Inc()
			return &Result{InvoiceID: prev.ID, Replayed: true}, nil
		}
		if !errors.Is(err, ErrNotFound) {
			// Proceed anyway: the unique index on the key still backstops
			// the insert below.
			logging.Log(logging.Fields{
				Component: "checkout",
				Event:     "idempotency_lookup_failed",
				Error:     err.Error(),
			})
		}
	}

	s.observePriceDrift(req)

	// 1. Invoice row. Employee identity comes from the verified token, the
	// totals come from the payload as-is.
	inv := models.Invoice{
		IssuedAt:      time.Now(),
		EmployeeID:    employeeID,
		GrossTotal:    *req.Subtotal,
		DiscountTotal: req.Discount,
		NetTotal:      *req.Total,
		CustomerNote:  req.Customer,
	}
	if idempotencyKey != "" {
		key := idempotencyKey
		inv.IdempotencyKey = &key
	}
	if err := s.store.CreateInvoice(&inv); err != nil {
		// A concurrent submit with the same key can commit between the lookup
		// above and this insert; its unique-index violation is a replay, not
		// a failure.
		if idempotencyKey != "" && errors.Is(err, ErrDuplicateKey) {
			if prev, findErr := s.store.FindInvoiceByKey(idempotencyKey); findErr == nil {
				s.metrics.Checkouts.WithLabelValues("replayed").Inc()
				return &Result{InvoiceID: prev.ID, Replayed: true}, nil
			}
		}
		s.metrics.Checkouts.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("invoice could not be created: %w", err)
	}

	// 2. Lines. A failure here fails the request but leaves the invoice in
	// place; that partial state is the documented contract, not an accident.
	lines := make([]models.InvoiceLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, models.InvoiceLine{
			InvoiceID:    inv.ID,
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			LineSubtotal: float64(l.Quantity) * l.UnitPrice,
		})
	}
	if err := s.store.CreateInvoiceLines(lines); err != nil {
		s.metrics.Checkouts.WithLabelValues("failed").Inc()
		logging.Log(logging.Fields{
			Component: "checkout",
			Event:     "invoice_lines_failed",
			InvoiceID: inv.ID,
			Error:     err.Error(),
			Message:   "invoice row persisted without its lines",
		})
		return nil, fmt.Errorf("invoice lines could not be created: %w", err)
	}

	// 3. Stock decrement per line, best-effort by default
	for _, l := range req.Lines {
		if err := s.store.DecrementStock(l.ProductID, l.Quantity); err != nil {
			s.metrics.StockDecrementMiss.Inc()
			logging.Log(logging.Fields{
				Component: "checkout",
				Event:     "stock_decrement_failed",
				InvoiceID: inv.ID,
				ProductID: l.ProductID,
				Error:     err.Error(),
			})
			if s.strictStock {
				s.metrics.Checkouts.WithLabelValues("failed").Inc()
				return nil, fmt.Errorf("stock decrement failed for product %d: %w", l.ProductID, err)
			}
		}
	}

	// 4. Payment: exact method name, else first active, else no payment row
	s.recordPayment(&inv, req.PaymentMethod)

	// 5. Audit trail, non-blocking
	if err := s.store.WriteAudit(audit.RecordOptions{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		EntityType:   "invoice",
		EntityID:     inv.ID,
		Action:       models.AuditActionCreate,
		Description:  fmt.Sprintf("Sale registered, net total %.0f", inv.NetTotal),
		After:        inv,
	}); err != nil {
		logging.Log(logging.Fields{
			Component: "checkout",
			Event:     "audit_write_failed",
			InvoiceID: inv.ID,
			Error:     err.Error(),
		})
	}

	s.metrics.Checkouts.WithLabelValues("success").Inc()
	return &Result{InvoiceID: inv.ID}, nil
}

func validate(req *Request) error {
	if len(req.Lines) == 0 {
		return &ValidationError{Message: "No products in the sale."}
	}
	if req.Subtotal == nil || req.Total == nil {
		return &ValidationError{Message: "Totals are missing from the sale."}
	}
	if req.PaymentMethod == "" {
		return &ValidationError{Message: "A payment method must be selected."}
	}
	for _, l := range req.Lines {
		if l.ProductID == 0 || l.Quantity < 1 {
			return &ValidationError{Message: "Each line needs a product and a quantity of at least 1."}
		}
	}
	return nil
}

// observePriceDrift recompares the submitted subtotal against the line sum.
// Drift is surfaced (counter + event) but accepted, matching the original
// trust boundary.
func (s *Service) observePriceDrift(req *Request) {
	var sum float64
	for _, l := range req.Lines {
		sum += float64(l.Quantity) * l.UnitPrice
	}
	if math.Abs(sum-*req.Subtotal) > 0.01 {
		s.metrics.PriceMismatches.Inc()
		logging.Log(logging.Fields{
			Component: "checkout",
			Event:     "price_mismatch",
			Message:   fmt.Sprintf("submitted subtotal %.2f, recomputed %.2f", *req.Subtotal, sum),
		})
	}
}

func (s *Service) recordPayment(inv *models.Invoice, methodName string) {
	method, err := s.store.FindActiveMethodByName(methodName)
	if err != nil {
		actives, listErr := s.store.ListActiveMethods()
		if listErr != nil || len(actives) == 0 {
			s.metrics.PaymentsSkipped.Inc()
			logging.Log(logging.Fields{
				Component: "checkout",
				Event:     "payment_skipped",
				InvoiceID: inv.ID,
				Method:    methodName,
				Message:   "no active payment methods, invoice stands unpaid on record",
			})
			return
		}
		method = &actives[0]
		s.metrics.PaymentFallbacks.Inc()
		logging.Log(logging.Fields{
			Component: "checkout",
			Event:     "payment_method_fallback",
			InvoiceID: inv.ID,
			Method:    methodName,
			Message:   fmt.Sprintf("falling back to %q", method.Name),
		})
	}

	payment := models.Payment{
		InvoiceID:  inv.ID,
		MethodID:   method.ID,
		AmountPaid: inv.NetTotal,
	}
	if err := s.store.CreatePayment(&payment); err != nil {
		logging.Log(logging.Fields{
			Component: "checkout",
			Event:     "payment_write_failed",
			InvoiceID: inv.ID,
			Method:    method.Name,
			Error:     err.Error(),
		})
	}
}
