package models

import "time"

// Size: serving sizes shown on the register (read-only catalog data).
type Size struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"size:50;not null;unique"`
	Price        float64 `gorm:"not null"`
	DisplayOrder int     `gorm:"not null;default:0"`
	Active       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
