package auth

import (
	"strings"

	"gelato-pos/internal/config"
	"gelato-pos/internal/database"
	"gelato-pos/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GET /api/auth/check-initial
// Tells the login screen whether the first admin still has to be created.
func CheckInitialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var count int64
		database.DB.Model(&models.Employee{}).
			Where("role = ? AND active = ?", models.RoleAdmin, true).
			Count(&count)
		return c.JSON(fiber.Map{"needsAdmin": count == 0})
	}
}

// POST /api/auth/register-admin
// Only works while no active admin exists.
func RegisterAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		if body.Name == "" || body.LastName == "" || body.Username == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, last name, username and password are required")
		}

		var count int64
		database.DB.Model(&models.Employee{}).
			Where("role = ? AND active = ?", models.RoleAdmin, true).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "An administrator already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password could not be hashed")
		}

		emp := models.Employee{
			Name:         body.Name,
			LastName:     body.LastName,
			Username:     body.Username,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			Active:       true,
		}

		if err := database.DB.Create(&emp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Administrator could not be created")
		}

		token, err := GenerateToken(cfg.JWTSecret, &emp)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be generated")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"token": token,
			"role":  emp.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		var emp models.Employee
		if err := database.DB.Where("username = ?", body.Username).First(&emp).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
		}

		if !emp.Active {
			return fiber.NewError(fiber.StatusForbidden, "Employee is inactive")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &emp)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be generated")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"employee": fiber.Map{
				"id":        emp.ID,
				"name":      emp.Name,
				"last_name": emp.LastName,
				"username":  emp.Username,
				"role":      emp.Role,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		empIDVal := c.Locals(CtxEmployeeIDKey)

		if empID, ok := empIDVal.(uint); ok {
			var emp models.Employee
			if err := database.DB.First(&emp, empID).Error; err == nil {
				return c.JSON(fiber.Map{
					"employee_id": emp.ID,
					"name":        emp.Name,
					"last_name":   emp.LastName,
					"username":    emp.Username,
					"role":        emp.Role,
				})
			}
		}

		// Token is valid but the row is gone, answer from the claims
		return c.JSON(fiber.Map{
			"employee_id": empIDVal,
			"username":    c.Locals(CtxUsernameKey),
			"role":        c.Locals(CtxRoleKey),
		})
	}
}
