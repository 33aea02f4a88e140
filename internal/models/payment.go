package models

import "time"

type PaymentMethod struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"`
	Description string `gorm:"size:255"`
	Active      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Payment struct {
	ID         uint `gorm:"primaryKey"`
	InvoiceID  uint `gorm:"index;not null"`
	MethodID   uint `gorm:"index;not null"`
	Method     *PaymentMethod
	AmountPaid float64 `gorm:"not null"`
	CreatedAt  time.Time
}
