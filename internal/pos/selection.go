package pos

// SelectionState drives the flow of specifying one cart line.
type SelectionState int

const (
	// Idle: no product chosen.
	Idle SelectionState = iota
	// ProductChosen: product picked, toppings may still be toggled.
	ProductChosen
	// ReadyToCommit: the line can be committed. Reached immediately when the
	// product forbids toppings, or when the cashier explicitly proceeds.
	ReadyToCommit
)

// Selection is the in-progress line before it is committed to the cart.
// Single-threaded UI state; every transition is synchronous.
type Selection struct {
	state    SelectionState
	product  *Product
	toppings []Topping
}

func NewSelection() *Selection {
	return &Selection{state: Idle}
}

func (s *Selection) State() SelectionState { return s.state }

func (s *Selection) Product() *Product { return s.product }

func (s *Selection) Toppings() []Topping {
	out := make([]Topping, len(s.toppings))
	copy(out, s.toppings)
	return out
}

// SelectProduct starts a new line. Out-of-stock products are rejected and the
// selection stays where it was. Choosing a product always resets toppings.
func (s *Selection) SelectProduct(p Product) error {
	if p.Stock <= 0 {
		return ErrOutOfStock
	}
	prod := p
	s.product = &prod
	s.toppings = nil
	if p.AllowsToppings {
		s.state = ProductChosen
	} else {
		s.state = ReadyToCommit
	}
	return nil
}

// ToggleTopping adds or removes a topping. Set semantics: at most one
// instance of each topping per line.
func (s *Selection) ToggleTopping(t Topping) error {
	if s.state == Idle || s.product == nil {
		return ErrNoProductChosen
	}
	if !s.product.AllowsToppings {
		return ErrToppingsNotAllowed
	}

	for i, existing := range s.toppings {
		if existing.ID == t.ID {
			s.toppings = append(s.toppings[:i], s.toppings[i+1:]...)
			return nil
		}
	}
	s.toppings = append(s.toppings, t)
	return nil
}

// Proceed is the cashier's explicit "done with toppings" step.
func (s *Selection) Proceed() error {
	if s.state != ProductChosen {
		return ErrNoProductChosen
	}
	s.state = ReadyToCommit
	return nil
}

// Commit freezes the selection into a CartLine with quantity 1 and returns
// the machine to Idle. The price and topping list are snapshots: later
// catalog changes do not touch the line.
func (s *Selection) Commit() (CartLine, error) {
	if s.state != ReadyToCommit || s.product == nil {
		return CartLine{}, ErrNotReady
	}

	toppings := make([]Topping, len(s.toppings))
	copy(toppings, s.toppings)

	line := CartLine{
		ProductID: s.product.ID,
		Name:      s.product.Name,
		UnitPrice: s.product.Price,
		Toppings:  toppings,
		Quantity:  1,
	}

	s.reset()
	return line, nil
}

// Cancel discards the in-progress selection from any state.
func (s *Selection) Cancel() {
	s.reset()
}

func (s *Selection) reset() {
	s.state = Idle
	s.product = nil
	s.toppings = nil
}
