package pos

// Cart is the in-progress, unpersisted order. Line order is insertion order.
// ManualDiscount is stored raw; the clamp happens in the pricing funcs so a
// stale value can never push the total negative.
type Cart struct {
	lines          []CartLine
	ManualDiscount float64
}

func NewCart() *Cart {
	return &Cart{}
}

// Add appends a committed line. Stock is checked here, at add-time, and only
// here: checkout does not re-validate it.
func (c *Cart) Add(line CartLine, stock int) error {
	if line.Quantity < 1 {
		return ErrQuantityTooLow
	}
	if line.Quantity > stock {
		return ErrInsufficientStock
	}
	c.lines = append(c.lines, line)
	return nil
}

// SetQuantity edits a line in place. Same add-time stock rule.
func (c *Cart) SetQuantity(index, quantity, stock int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrNoSuchLine
	}
	if quantity < 1 {
		return ErrQuantityTooLow
	}
	if quantity > stock {
		return ErrInsufficientStock
	}
	c.lines[index].Quantity = quantity
	return nil
}

func (c *Cart) Remove(index int) {
	if index < 0 || index >= len(c.lines) {
		return
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
}

func (c *Cart) Clear() {
	c.lines = nil
	c.ManualDiscount = 0
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Subtotal() float64 {
	return Subtotal(c.lines)
}

func (c *Cart) Total() float64 {
	return Total(c.Subtotal(), c.ManualDiscount)
}

func (c *Cart) Change(tendered float64) float64 {
	return Change(tendered, c.Total())
}

func (c *Cart) CanCheckout(tendered float64, method string) bool {
	return CanCheckout(len(c.lines), c.Total(), tendered, method)
}
