package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrInsufficientStock: the guarded decrement found less stock than the sale
// consumed. The row is left untouched, stock never goes negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// Decrement takes quantity units off a product's stock in a single guarded
// UPDATE. Two concurrent checkouts can never drive the value below zero: the
// floor check and the write are the same statement.
func Decrement(db *gorm.DB, productID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	res := db.Exec(`
		UPDATE inventories
		SET stock_actual = stock_actual - ?, updated_at = NOW()
		WHERE product_id = ? AND stock_actual >= ?`,
		quantity, productID, quantity)

	if res.Error != nil {
		return fmt.Errorf("stock decrement failed for product %d: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrInsufficientStock)
	}
	return nil
}
