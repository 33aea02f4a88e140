// Package pos holds the register-side half of the sale workflow: the
// selection flow for building one cart line, the cart itself, the pricing
// rules and the HTTP client that submits a finished sale. All state here is
// transient and single-threaded; nothing survives a restart.
package pos

import "errors"

type Product struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Image          string  `json:"img"`
	AllowsToppings bool    `json:"allowsToppings"`
	Stock          int     `json:"stock"`
	CategoryID     uint    `json:"category_id"`
}

type Topping struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type PaymentMethod struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CartLine is one committed entry. UnitPrice and Toppings are snapshots taken
// at selection time; they are never re-read from the live catalog.
type CartLine struct {
	ProductID uint
	Name      string
	UnitPrice float64
	Toppings  []Topping
	Quantity  int
}

var (
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrInsufficientStock  = errors.New("not enough stock")
	ErrNoProductChosen    = errors.New("no product chosen")
	ErrToppingsNotAllowed = errors.New("product does not allow toppings")
	ErrNotReady           = errors.New("selection is not ready to commit")
	ErrQuantityTooLow     = errors.New("quantity must be at least 1")
	ErrNoSuchLine         = errors.New("no such cart line")
	ErrEmptyCart          = errors.New("no products in the sale")
	ErrZeroTotal          = errors.New("total must be greater than zero")
	ErrNoPaymentMethod    = errors.New("no payment method selected")
	ErrInsufficientTender = errors.New("tendered amount is below the total")
)
