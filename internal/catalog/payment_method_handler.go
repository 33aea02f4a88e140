package catalog

import (
	"gelato-pos/internal/database"
	"gelato-pos/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PaymentMethodResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GET /api/payment-methods - active methods the register may offer
func ListPaymentMethodsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var methods []models.PaymentMethod
		err := database.DB.
			Where("active = ?", true).
			Order("id asc").
			Find(&methods).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Payment methods could not be listed")
		}

		res := make([]PaymentMethodResponse, 0, len(methods))
		for _, m := range methods {
			res = append(res, PaymentMethodResponse{ID: m.ID, Name: m.Name, Description: m.Description})
		}
		return c.JSON(res)
	}
}
