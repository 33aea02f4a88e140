package models

import "time"

// Inventory: one row per product. StockActual is only ever changed through
// the inventory service so the floor check cannot be bypassed.
type Inventory struct {
	ID          uint `gorm:"primaryKey"`
	ProductID   uint `gorm:"uniqueIndex;not null"`
	StockActual int  `gorm:"not null;default:0"`
	StockMinimo int  `gorm:"not null;default:0"`
	UpdatedAt   time.Time
	CreatedAt   time.Time
}
