package models

import "github.com/shopspring/decimal"

type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a browsing-session cart. It is never persisted; lines keep the
// order in which products were first added.
type Cart struct {
	order []string
	lines map[string]*CartLine
}

func NewCart() *Cart {
	return &Cart{lines: map[string]*CartLine{}}
}

// Add merges quantity into an existing line for the same product.
func (c *Cart) Add(product Product, quantity int) {
	if quantity <= 0 {
		return
	}
	if line, ok := c.lines[product.ID]; ok {
		line.Quantity += quantity
		line.Product = product
		return
	}
	c.order = append(c.order, product.ID)
	c.lines[product.ID] = &CartLine{Product: product, Quantity: quantity}
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(productID string, quantity int) {
	line, ok := c.lines[productID]
	if !ok {
		return
	}
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	line.Quantity = quantity
}

func (c *Cart) Remove(productID string) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, *c.lines[id])
	}
	return lines
}

func (c *Cart) Len() int { return len(c.order) }

func (c *Cart) IsEmpty() bool { return len(c.order) == 0 }

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, id := range c.order {
		total = total.Add(c.lines[id].Subtotal())
	}
	return total
}

func (c *Cart) Clear() {
	c.order = nil
	c.lines = map[string]*CartLine{}
}
