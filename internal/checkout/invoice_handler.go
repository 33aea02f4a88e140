package checkout

import (
	"strings"
	"time"

	"gelato-pos/internal/database"
	"gelato-pos/internal/models"

	"github.com/gofiber/fiber/v2"
)

type InvoiceResponse struct {
	ID            uint      `json:"id"`
	IssuedAt      time.Time `json:"issued_at"`
	EmployeeName  string    `json:"employee_name"`
	GrossTotal    float64   `json:"gross_total"`
	DiscountTotal float64   `json:"discount_total"`
	NetTotal      float64   `json:"net_total"`
	CustomerNote  string    `json:"customer_note"`
}

type InvoiceLineResponse struct {
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	LineSubtotal float64 `json:"line_subtotal"`
}

func employeeFullName(e *models.Employee) string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Name + " " + e.LastName)
}

// GET /api/invoices?from=2026-01-01&to=2026-01-31&employee_id=2
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Invoice{}).Preload("Employee")

		if from := c.Query("from"); from != "" {
			if t, err := time.Parse("2006-01-02", from); err == nil {
				dbq = dbq.Where("issued_at >= ?", t)
			}
		}
		if to := c.Query("to"); to != "" {
			if t, err := time.Parse("2006-01-02", to); err == nil {
				dbq = dbq.Where("issued_at < ?", t.AddDate(0, 0, 1))
			}
		}
		if empID := c.QueryInt("employee_id"); empID > 0 {
			dbq = dbq.Where("employee_id = ?", empID)
		}

		var invoices []models.Invoice
		if err := dbq.Order("issued_at desc").Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Invoices could not be listed")
		}

		res := make([]InvoiceResponse, 0, len(invoices))
		for _, inv := range invoices {
			res = append(res, InvoiceResponse{
				ID:            inv.ID,
				IssuedAt:      inv.IssuedAt,
				EmployeeName:  employeeFullName(inv.Employee),
				GrossTotal:    inv.GrossTotal,
				DiscountTotal: inv.DiscountTotal,
				NetTotal:      inv.NetTotal,
				CustomerNote:  inv.CustomerNote,
			})
		}
		return c.JSON(res)
	}
}

// GET /api/invoices/:id/detail
func InvoiceDetailHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid invoice id")
		}

		var inv models.Invoice
		if err := database.DB.Preload("Employee").First(&inv, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
		}

		var lines []models.InvoiceLine
		if err := database.DB.Preload("Product").Where("invoice_id = ?", id).Find(&lines).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Invoice lines could not be read")
		}

		lineRes := make([]InvoiceLineResponse, 0, len(lines))
		for _, l := range lines {
			name := ""
			if l.Product != nil {
				name = l.Product.Name
			}
			lineRes = append(lineRes, InvoiceLineResponse{
				ProductID:    l.ProductID,
				ProductName:  name,
				Quantity:     l.Quantity,
				UnitPrice:    l.UnitPrice,
				LineSubtotal: l.LineSubtotal,
			})
		}

		return c.JSON(fiber.Map{
			"invoice": InvoiceResponse{
				ID:            inv.ID,
				IssuedAt:      inv.IssuedAt,
				EmployeeName:  employeeFullName(inv.Employee),
				GrossTotal:    inv.GrossTotal,
				DiscountTotal: inv.DiscountTotal,
				NetTotal:      inv.NetTotal,
				CustomerNote:  inv.CustomerNote,
			},
			"lines": lineRes,
		})
	}
}
