package models

import "time"

type Invoice struct {
	ID             uint      `gorm:"primaryKey"`
	IssuedAt       time.Time `gorm:"index;not null"`
	EmployeeID     uint      `gorm:"index;not null"`
	Employee       *Employee
	GrossTotal     float64 `gorm:"not null"`
	DiscountTotal  float64 `gorm:"not null;default:0"`
	NetTotal       float64 `gorm:"not null"`
	CustomerNote   string  `gorm:"size:255"`
	IdempotencyKey *string `gorm:"size:64;uniqueIndex"`
	CreatedAt      time.Time
}

type InvoiceLine struct {
	ID           uint `gorm:"primaryKey"`
	InvoiceID    uint `gorm:"index;not null"`
	ProductID    uint `gorm:"index;not null"`
	Product      *Product
	Quantity     int     `gorm:"not null"`
	UnitPrice    float64 `gorm:"not null"` // snapshot as submitted, not the live price
	LineSubtotal float64 `gorm:"not null"`
	CreatedAt    time.Time
}
