package catalog

import (
	"gelato-pos/internal/database"
	"gelato-pos/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Image          string  `json:"img"`
	AllowsToppings bool    `json:"allowsToppings"`
	Stock          int     `json:"stock"`
	CategoryID     uint    `json:"category_id"`
}

type CategoryGroupResponse struct {
	ID       uint              `json:"id"`
	Name     string            `json:"name"`
	Products []ProductResponse `json:"products"`
}

// GET /api/products
// Active products with their stock, grouped by category for the register.
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		err := database.DB.
			Preload("Category").
			Preload("Inventory").
			Where("active = ?", true).
			Order("category_id asc, name asc").
			Find(&products).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Products could not be listed")
		}

		groups := make(map[uint]*CategoryGroupResponse)
		order := make([]uint, 0)

		for _, p := range products {
			catID := uint(0)
			catName := "Uncategorized"
			if p.Category != nil {
				catID = p.Category.ID
				catName = p.Category.Name
			}

			g, ok := groups[catID]
			if !ok {
				g = &CategoryGroupResponse{ID: catID, Name: catName}
				groups[catID] = g
				order = append(order, catID)
			}

			stock := 0
			if p.Inventory != nil {
				stock = p.Inventory.StockActual
			}

			g.Products = append(g.Products, ProductResponse{
				ID:             p.ID,
				Name:           p.Name,
				Price:          p.UnitPrice,
				Image:          p.Image,
				AllowsToppings: p.AllowsToppings,
				Stock:          stock,
				CategoryID:     catID,
			})
		}

		res := make([]CategoryGroupResponse, 0, len(order))
		for _, id := range order {
			res = append(res, *groups[id])
		}
		return c.JSON(res)
	}
}
