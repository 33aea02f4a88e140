package models

import "time"

type Topping struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"size:100;not null;unique"`
	ExtraPrice float64 `gorm:"not null;default:0"`
	Active     bool    `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
