package pos

// Pure pricing rules, recomputed on every state change. Nothing here is
// cached: carts are small and the arithmetic is linear.

// LineSubtotal is (unit price snapshot + topping prices) x quantity.
func LineSubtotal(unitPrice float64, toppings []Topping, quantity int) float64 {
	price := unitPrice
	for _, t := range toppings {
		price += t.Price
	}
	return price * float64(quantity)
}

func Subtotal(lines []CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += LineSubtotal(l.UnitPrice, l.Toppings, l.Quantity)
	}
	return sum
}

// EffectiveDiscount clamps at computation time, not input time: the subtotal
// can shrink after a line is removed while a stale discount value remains.
func EffectiveDiscount(manualDiscount, subtotal float64) float64 {
	if manualDiscount < 0 {
		return 0
	}
	if manualDiscount > subtotal {
		return subtotal
	}
	return manualDiscount
}

func Total(subtotal, manualDiscount float64) float64 {
	total := subtotal - EffectiveDiscount(manualDiscount, subtotal)
	if total < 0 {
		return 0
	}
	return total
}

func Change(tendered, total float64) float64 {
	change := tendered - total
	if change < 0 {
		return 0
	}
	return change
}

// CanCheckout: non-empty cart, a positive total, enough tendered, a method.
func CanCheckout(lineCount int, total, tendered float64, method string) bool {
	return lineCount > 0 && total > 0 && tendered >= total && method != ""
}
