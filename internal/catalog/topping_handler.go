package catalog

import (
	"gelato-pos/internal/database"
	"gelato-pos/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ToppingResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// GET /api/toppings - active toppings ordered by name
func ListToppingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var toppings []models.Topping
		err := database.DB.
			Where("active = ?", true).
			Order("name asc").
			Find(&toppings).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Toppings could not be listed")
		}

		res := make([]ToppingResponse, 0, len(toppings))
		for _, t := range toppings {
			res = append(res, ToppingResponse{ID: t.ID, Name: t.Name, Price: t.ExtraPrice})
		}
		return c.JSON(res)
	}
}
