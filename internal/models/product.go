package models

import "time"

type Product struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"size:100;not null;unique"`
	UnitPrice      float64 `gorm:"not null"`
	Image          string  `gorm:"size:500"`
	AllowsToppings bool    `gorm:"not null;default:false"`
	Active         bool    `gorm:"not null;default:true"`
	CategoryID     *uint   `gorm:"index"`
	Category       *Category
	Inventory      *Inventory
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
