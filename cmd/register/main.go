package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gelato-pos/internal/pos"

	tea "github.com/charmbracelet/bubbletea"
)

// Cashier register terminal. Drives the selection/cart/pricing flow locally
// and submits the finished sale to the API.

type checkoutResult struct {
	resp *pos.CheckoutResponse
	err  error
}

type model struct {
	client   *pos.Client
	products []pos.Product
	toppings []pos.Topping
	methods  []pos.PaymentMethod

	selection *pos.Selection
	cart      *pos.Cart

	productCursor int
	toppingCursor int
	methodIndex   int

	customer string
	tendered float64

	status string
	busy   bool
}

func initialModel(client *pos.Client, products []pos.Product, toppings []pos.Topping, methods []pos.PaymentMethod) model {
	return model{
		client:    client,
		products:  products,
		toppings:  toppings,
		methods:   methods,
		selection: pos.NewSelection(),
		cart:      pos.NewCart(),
		status:    "Ready",
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) method() string {
	if len(m.methods) == 0 {
		return ""
	}
	return m.methods[m.methodIndex].Name
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up":
			if m.productCursor > 0 {
				m.productCursor--
			}
		case "down":
			if m.productCursor < len(m.products)-1 {
				m.productCursor++
			}

		case "left":
			if m.toppingCursor > 0 {
				m.toppingCursor--
			}
		case "right":
			if m.toppingCursor < len(m.toppings)-1 {
				m.toppingCursor++
			}

		case "enter":
			m = m.advanceSelection()

		case " ":
			if len(m.toppings) > 0 {
				if err := m.selection.ToggleTopping(m.toppings[m.toppingCursor]); err != nil {
					m.status = err.Error()
				}
			}

		case "esc":
			m.selection.Cancel()
			m.status = "Selection cancelled"

		case "x":
			if m.cart.Len() > 0 {
				m.cart.Remove(m.cart.Len() - 1)
				m.status = "Last line removed"
			}

		case "+":
			m = m.adjustLastQuantity(1)
		case "-":
			m = m.adjustLastQuantity(-1)

		case "d":
			m.cart.ManualDiscount += 500
		case "D":
			if m.cart.ManualDiscount >= 500 {
				m.cart.ManualDiscount -= 500
			} else {
				m.cart.ManualDiscount = 0
			}

		case "t":
			m.tendered += 1000
		case "T":
			if m.tendered >= 1000 {
				m.tendered -= 1000
			} else {
				m.tendered = 0
			}

		case "m":
			if len(m.methods) > 0 {
				m.methodIndex = (m.methodIndex + 1) % len(m.methods)
			}

		case "v":
			m.cart.Clear()
			m.tendered = 0
			m.status = "Cart emptied"

		case "c":
			// The busy flag keeps a held-down key from double submitting
			if m.busy {
				return m, nil
			}
			if !m.cart.CanCheckout(m.tendered, m.method()) {
				m.status = "Charge not available: check cart, total, tendered and method"
				return m, nil
			}
			m.busy = true
			m.status = "Submitting..."
			return m, m.submitCmd()
		}

	case checkoutResult:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.cart.Clear()
		m.selection.Cancel()
		m.customer = ""
		m.tendered = 0
		m.status = fmt.Sprintf("Invoice #%d registered", msg.resp.InvoiceID)
	}

	return m, nil
}

// advanceSelection is the enter key: pick the product under the cursor, or
// finish the topping step and commit the line to the cart.
func (m model) advanceSelection() model {
	switch m.selection.State() {
	case pos.Idle:
		if len(m.products) == 0 {
			return m
		}
		p := m.products[m.productCursor]
		if err := m.selection.SelectProduct(p); err != nil {
			m.status = "Out of stock: " + p.Name
			return m
		}
		if m.selection.State() == pos.ReadyToCommit {
			m.status = p.Name + " selected, enter to add"
		} else {
			m.status = p.Name + " selected, toggle toppings with space, enter when done"
		}

	case pos.ProductChosen:
		if err := m.selection.Proceed(); err != nil {
			m.status = err.Error()
			return m
		}
		m = m.commitLine()

	case pos.ReadyToCommit:
		m = m.commitLine()
	}
	return m
}

func (m model) commitLine() model {
	prod := m.selection.Product()
	line, err := m.selection.Commit()
	if err != nil {
		m.status = err.Error()
		return m
	}
	if err := m.cart.Add(line, prod.Stock); err != nil {
		m.status = err.Error()
		return m
	}
	m.status = line.Name + " added"
	return m
}

func (m model) adjustLastQuantity(delta int) model {
	if m.cart.Len() == 0 {
		return m
	}
	idx := m.cart.Len() - 1
	line := m.cart.Lines()[idx]

	// A decrement can never exceed stock, so it goes through even when the
	// product has dropped out of the loaded catalog.
	stock := line.Quantity
	if delta > 0 {
		stock = 0
		for _, p := range m.products {
			if p.ID == line.ProductID {
				stock = p.Stock
				break
			}
		}
	}

	if err := m.cart.SetQuantity(idx, line.Quantity+delta, stock); err != nil {
		m.status = err.Error()
	}
	return m
}

func (m model) submitCmd() tea.Cmd {
	cart := m.cart
	customer := m.customer
	method := m.method()
	tendered := m.tendered
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		resp, err := client.Checkout(ctx, cart, customer, method, tendered)
		return checkoutResult{resp: resp, err: err}
	}
}

func (m model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "gelato-pos register")
	fmt.Fprintln(b, "")

	fmt.Fprintln(b, "Products:")
	for i, p := range m.products {
		marker := " "
		if i == m.productCursor {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-24s $%-8.0f stock %d\n", marker, p.Name, p.Price, p.Stock)
	}

	if m.selection.State() != pos.Idle {
		fmt.Fprintln(b, "")
		fmt.Fprintf(b, "Building: %s", m.selection.Product().Name)
		if len(m.selection.Toppings()) > 0 {
			names := make([]string, 0)
			for _, t := range m.selection.Toppings() {
				names = append(names, t.Name)
			}
			fmt.Fprintf(b, " + %s", strings.Join(names, ", "))
		}
		fmt.Fprintln(b, "")
		if m.selection.Product().AllowsToppings {
			fmt.Fprintln(b, "Toppings (left/right + space):")
			for i, t := range m.toppings {
				marker := " "
				if i == m.toppingCursor {
					marker = "*"
				}
				fmt.Fprintf(b, " %s %s ($%.0f)\n", marker, t.Name, t.Price)
			}
		}
	}

	fmt.Fprintln(b, "")
	fmt.Fprintln(b, "Cart:")
	if m.cart.Len() == 0 {
		fmt.Fprintln(b, "  (empty)")
	}
	for _, l := range m.cart.Lines() {
		fmt.Fprintf(b, "  %dx %-22s $%.0f\n", l.Quantity, l.Name, pos.LineSubtotal(l.UnitPrice, l.Toppings, l.Quantity))
	}

	subtotal := m.cart.Subtotal()
	total := m.cart.Total()
	fmt.Fprintln(b, "")
	fmt.Fprintf(b, "Subtotal $%.0f  Discount $%.0f  Total $%.0f\n",
		subtotal, pos.EffectiveDiscount(m.cart.ManualDiscount, subtotal), total)
	fmt.Fprintf(b, "Tendered $%.0f  Change $%.0f  Method: %s\n",
		m.tendered, m.cart.Change(m.tendered), m.method())

	canCharge := m.cart.CanCheckout(m.tendered, m.method())
	fmt.Fprintf(b, "Charge enabled: %v\n", canCharge)
	fmt.Fprintf(b, "Status: %s\n", m.status)
	fmt.Fprintln(b, "\nKeys: up/down product, enter select/add, space topping, esc cancel,")
	fmt.Fprintln(b, "      +/- qty, x remove, v empty, d/D discount, t/T tendered, m method, c charge, q quit")
	return b.String()
}

func main() {
	baseURL := flag.String("api", getenv("GELATO_API_URL", "http://localhost:8080"), "API base URL")
	username := flag.String("user", os.Getenv("GELATO_USERNAME"), "cashier username")
	password := flag.String("pass", os.Getenv("GELATO_PASSWORD"), "cashier password")
	flag.Parse()

	client := pos.NewClient(*baseURL, os.Getenv("GELATO_TOKEN"))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if os.Getenv("GELATO_TOKEN") == "" {
		if *username == "" || *password == "" {
			fmt.Println("set GELATO_TOKEN or pass -user/-pass to log in")
			os.Exit(1)
		}
		if _, err := client.Login(ctx, *username, *password); err != nil {
			fmt.Println("login failed:", err)
			os.Exit(1)
		}
	}

	products, err := client.Products(ctx)
	if err != nil {
		fmt.Println("could not load products:", err)
		os.Exit(1)
	}
	toppings, err := client.Toppings(ctx)
	if err != nil {
		fmt.Println("could not load toppings:", err)
		os.Exit(1)
	}
	methods, err := client.PaymentMethods(ctx)
	if err != nil {
		fmt.Println("could not load payment methods:", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(client, products, toppings, methods))
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
