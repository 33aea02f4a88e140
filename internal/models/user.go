package models

import "time"

type EmployeeRole string

const (
	RoleAdmin   EmployeeRole = "admin"
	RoleCashier EmployeeRole = "cashier"
)

type Employee struct {
	ID           uint         `gorm:"primaryKey"`
	Name         string       `gorm:"size:100;not null"`
	LastName     string       `gorm:"size:100"`
	Username     string       `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string       `gorm:"size:255;not null"`
	Role         EmployeeRole `gorm:"size:20;not null"`
	Active       bool         `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
