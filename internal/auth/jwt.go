package auth

import (
	"time"

	"gelato-pos/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	EmployeeID uint                `json:"employee_id"`
	Username   string              `json:"username"`
	Role       models.EmployeeRole `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, emp *models.Employee) (string, error) {
	claims := &JWTCustomClaims{
		EmployeeID: emp.ID,
		Username:   emp.Username,
		Role:       emp.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(8 * time.Hour)), // one shift
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
