// Package cart implements the session-scoped cart aggregate that accumulates
// selected products before checkout. A cart lives only for the duration of a
// checkout attempt and is never persisted server-side.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NoSize is the size component of a line key for sizeless products.
const NoSize = ""

// LineKey identifies a cart line: the same product in two different sizes is
// two distinct lines, while re-adding the same product+size merges quantities.
type LineKey struct {
	ProductID uuid.UUID
	Size      string
}

// SizeOrder is a per-size quantity inside a line.
type SizeOrder struct {
	Size     string
	Quantity int
}

// Line is one cart entry. Name and Price are snapshots captured when the
// product was added; checkout does not re-read them from the catalog.
type Line struct {
	ProductID  uuid.UUID
	Name       string
	Image      string
	Price      decimal.Decimal
	Size       string
	Quantity   int
	SizeOrders []SizeOrder
}

// Key returns the structural identity of the line.
func (l *Line) Key() LineKey { return LineKey{ProductID: l.ProductID, Size: l.Size} }

// Cart accumulates lines keyed by (product, size), preserving insertion order.
// Not safe for concurrent use; each checkout session owns its cart.
type Cart struct {
	index map[LineKey]int
	lines []Line
}

func New() *Cart {
	return &Cart{index: make(map[LineKey]int)}
}

// AddLine merges quantity into an existing (product, size) line or appends a
// new one. A selected size also seeds the line's size breakdown.
func (c *Cart) AddLine(productID uuid.UUID, name, image string, price decimal.Decimal, size string, quantity int) {
	key := LineKey{ProductID: productID, Size: size}
	if i, ok := c.index[key]; ok {
		c.lines[i].Quantity += quantity
		if size != NoSize {
			c.lines[i].SizeOrders = mergeSizeOrder(c.lines[i].SizeOrders, size, quantity)
		}
		return
	}

	line := Line{
		ProductID: productID,
		Name:      name,
		Image:     image,
		Price:     price,
		Size:      size,
		Quantity:  quantity,
	}
	if size != NoSize {
		line.SizeOrders = []SizeOrder{{Size: size, Quantity: quantity}}
	}
	c.index[key] = len(c.lines)
	c.lines = append(c.lines, line)
}

// UpdateLineSizes replaces the per-size breakdown of the first line holding
// productID and recomputes its quantity as the sum of the new breakdown.
// Returns false when no line references the product.
func (c *Cart) UpdateLineSizes(productID uuid.UUID, orders []SizeOrder) bool {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		total := 0
		for _, o := range orders {
			total += o.Quantity
		}
		c.lines[i].SizeOrders = append([]SizeOrder(nil), orders...)
		c.lines[i].Quantity = total
		return true
	}
	return false
}

// RemoveLine deletes the line with the given key; no effect if absent.
func (c *Cart) RemoveLine(key LineKey) {
	i, ok := c.index[key]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, key)
	// Reindex the tail that shifted left
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].Key()] = j
	}
}

// Clear empties the cart. Called after a successful checkout.
func (c *Cart) Clear() {
	c.index = make(map[LineKey]int)
	c.lines = nil
}

// Lines returns the cart lines in insertion order. The slice is shared;
// callers must not mutate it.
func (c *Cart) Lines() []Line { return c.lines }

// Len returns the number of lines.
func (c *Cart) Len() int { return len(c.lines) }

// Subtotal is sum(price × quantity) over all lines, rounded to 2 decimals.
// This is the suggested total at catalog prices.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.lines {
		total = total.Add(c.lines[i].Price.Mul(decimal.NewFromInt(int64(c.lines[i].Quantity))))
	}
	return total.Round(2)
}

func mergeSizeOrder(orders []SizeOrder, size string, quantity int) []SizeOrder {
	for i := range orders {
		if orders[i].Size == size {
			orders[i].Quantity += quantity
			return orders
		}
	}
	return append(orders, SizeOrder{Size: size, Quantity: quantity})
}
