package database

import (
	"log"

	"gelato-pos/internal/config"
	"gelato-pos/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Employee{},
		&models.Category{},
		&models.Product{},
		&models.Topping{},
		&models.Size{},
		&models.Inventory{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.PaymentMethod{},
		&models.Payment{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	seedPaymentMethods()

	log.Println("Database connected, migrations applied.")
}

// seedPaymentMethods inserts the default methods once so a fresh install can
// take a sale immediately. Existing rows are never touched.
func seedPaymentMethods() {
	var count int64
	DB.Model(&models.PaymentMethod{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []models.PaymentMethod{
		{Name: "Efectivo", Description: "Pago en caja", Active: true},
		{Name: "Transferencia", Description: "Nequi/Daviplata", Active: true},
	}
	if err := DB.Create(&defaults).Error; err != nil {
		log.Printf("payment method seed failed: %v", err)
	}
}
