package main

import (
	"log"
	"net/http"
	"strings"

	"gelato-pos/internal/auth"
	"gelato-pos/internal/catalog"
	"gelato-pos/internal/checkout"
	"gelato-pos/internal/config"
	"gelato-pos/internal/database"
	"gelato-pos/internal/inventory"
	"gelato-pos/internal/metrics"
	"gelato-pos/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	checkoutMetrics := metrics.NewCheckoutMetrics()
	checkoutSvc := checkout.NewService(checkout.NewStore(database.DB), checkoutMetrics, cfg.StrictStock)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + checkout.IdempotencyHeader,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Get("/auth/check-initial", auth.CheckInitialHandler())
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Catalog for the register
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/toppings", catalog.ListToppingsHandler())
	protected.Get("/sizes", catalog.ListSizesHandler())
	protected.Get("/payment-methods", catalog.ListPaymentMethodsHandler())

	// Checkout and invoice history
	protected.Post("/invoices", checkout.CheckoutHandler(checkoutSvc))
	protected.Get("/invoices", checkout.ListInvoicesHandler())
	protected.Get("/invoices/:id/detail", checkout.InvoiceDetailHandler())

	// Inventory
	protected.Get("/inventory", inventory.ListInventoryHandler())
	protected.Get("/inventory/alerts", inventory.InventoryAlertsHandler())

	adminOnly := protected.Group("")
	adminOnly.Use(auth.RequireRole(models.RoleAdmin))
	adminOnly.Put("/inventory/:id", inventory.UpdateInventoryHandler())

	var g errgroup.Group

	g.Go(func() error {
		log.Println("API listening on port", cfg.HTTPPort)
		return app.Listen(":" + cfg.HTTPPort)
	})

	g.Go(func() error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		log.Println("Metrics listening on", cfg.MetricsAddr)
		return http.ListenAndServe(cfg.MetricsAddr, mux)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
