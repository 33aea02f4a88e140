package inventory

import (
	"fmt"
	"log"

	"gelato-pos/internal/audit"
	"gelato-pos/internal/auth"
	"gelato-pos/internal/database"
	"gelato-pos/internal/models"

	"github.com/gofiber/fiber/v2"
)

type InventoryItemResponse struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"img"`
	StockActual int     `json:"stock_actual"`
	StockMinimo int     `json:"stock_minimo"`
	Status      string  `json:"status"` // agotado | bajo | normal
}

type UpdateInventoryRequest struct {
	StockActual *int `json:"stock_actual"`
	StockMinimo *int `json:"stock_minimo"`
}

func stockStatus(actual, minimo int) string {
	switch {
	case actual <= 0:
		return "agotado"
	case actual <= minimo:
		return "bajo"
	default:
		return "normal"
	}
}

func loadItems() ([]InventoryItemResponse, error) {
	var products []models.Product
	err := database.DB.
		Preload("Category").
		Preload("Inventory").
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	items := make([]InventoryItemResponse, 0, len(products))
	for _, p := range products {
		actual, minimo := 0, 0
		if p.Inventory != nil {
			actual = p.Inventory.StockActual
			minimo = p.Inventory.StockMinimo
		}
		catName := "Uncategorized"
		if p.Category != nil {
			catName = p.Category.Name
		}
		items = append(items, InventoryItemResponse{
			ProductID:   p.ID,
			ProductName: p.Name,
			Category:    catName,
			Price:       p.UnitPrice,
			Image:       p.Image,
			StockActual: actual,
			StockMinimo: minimo,
			Status:      stockStatus(actual, minimo),
		})
	}
	return items, nil
}

// GET /api/inventory
func ListInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := loadItems()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Inventory could not be listed")
		}
		return c.JSON(items)
	}
}

// GET /api/inventory/alerts - rows at or below their minimum
func InventoryAlertsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := loadItems()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Inventory could not be listed")
		}

		alerts := make([]InventoryItemResponse, 0)
		for _, it := range items {
			if it.StockActual <= it.StockMinimo {
				alerts = append(alerts, it)
			}
		}
		return c.JSON(alerts)
	}
}

// PUT /api/inventory/:id (admin) - set stock levels for a product
func UpdateInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := c.ParamsInt("id")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var body UpdateInventoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.StockActual == nil {
			return fiber.NewError(fiber.StatusBadRequest, "stock_actual is required")
		}
		if *body.StockActual < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock_actual cannot be negative")
		}

		var product models.Product
		if err := database.DB.First(&product, productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var inv models.Inventory
		err = database.DB.Where("product_id = ?", productID).First(&inv).Error
		isNew := err != nil

		before := inv
		inv.ProductID = uint(productID)
		inv.StockActual = *body.StockActual
		if body.StockMinimo != nil {
			inv.StockMinimo = *body.StockMinimo
		}

		if isNew {
			err = database.DB.Create(&inv).Error
		} else {
			err = database.DB.Save(&inv).Error
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Inventory could not be updated")
		}

		// Audit is best-effort, never blocks the update
		empID, _ := c.Locals(auth.CtxEmployeeIDKey).(uint)
		empName, _ := c.Locals(auth.CtxUsernameKey).(string)
		if auditErr := audit.Record(audit.RecordOptions{
			EmployeeID:   empID,
			EmployeeName: empName,
			EntityType:   "inventory",
			EntityID:     uint(productID),
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Stock updated: %s -> %d", product.Name, inv.StockActual),
			Before:       before,
			After:        inv,
		}); auditErr != nil {
			log.Printf("audit write failed: %v", auditErr)
		}

		return c.JSON(fiber.Map{
			"message":      "Inventory updated",
			"product_id":   inv.ProductID,
			"stock_actual": inv.StockActual,
			"stock_minimo": inv.StockMinimo,
		})
	}
}
