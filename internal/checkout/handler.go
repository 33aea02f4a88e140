package checkout

import (
	"errors"
	"strings"

	"gelato-pos/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// IdempotencyHeader carries the client-generated key that makes a retried
// submit return the original invoice instead of a duplicate.
const IdempotencyHeader = "Idempotency-Key"

// POST /api/invoices
func CheckoutHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body Request
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		empID, ok := c.Locals(auth.CtxEmployeeIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Employee identity missing")
		}
		empName, _ := c.Locals(auth.CtxUsernameKey).(string)

		key := strings.TrimSpace(c.Get(IdempotencyHeader))

		res, err := svc.Checkout(empID, empName, key, &body)
		if err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				return fiber.NewError(fiber.StatusBadRequest, vErr.Message)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "The invoice could not be registered.")
		}

		if res.Replayed {
			return c.JSON(fiber.Map{
				"message":   "Invoice already registered.",
				"invoiceId": res.InvoiceID,
				"replayed":  true,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":   "Invoice registered.",
			"invoiceId": res.InvoiceID,
		})
	}
}
