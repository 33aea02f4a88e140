package catalog

import (
	"gelato-pos/internal/database"
	"gelato-pos/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SizeResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// GET /api/sizes - active serving sizes in display order
func ListSizesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sizes []models.Size
		err := database.DB.
			Where("active = ?", true).
			Order("display_order asc").
			Find(&sizes).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sizes could not be listed")
		}

		res := make([]SizeResponse, 0, len(sizes))
		for _, s := range sizes {
			res = append(res, SizeResponse{ID: s.ID, Name: s.Name, Price: s.Price})
		}
		return c.JSON(res)
	}
}
