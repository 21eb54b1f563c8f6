// Package cart holds a customer's in-progress selection before checkout.
// A Cart lives in memory only; nothing is persisted until the order
// submission flow snapshots its lines.
package cart

import (
	"github.com/google/uuid"
	"github.com/ruokapaikka/api/internal/database"
	"github.com/shopspring/decimal"
)

// Line is one (menu item, quantity, optional note) tuple. The menu item
// is the full record as fetched when the line was added; totals use its
// price, so the line tracks the referenced item, not a frozen price.
type Line struct {
	MenuItem       database.MenuItem
	Quantity       int32
	SpecialRequest string
}

// Cart is an ordered collection of lines, at most one per menu item.
// It is not safe for concurrent use; a cart belongs to exactly one
// browsing session and all mutations go through its methods.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges into an existing line for the same menu item, otherwise
// appends. Quantity <= 0 is treated as 1. An existing line's special
// request is overwritten only when a new one is supplied.
func (c *Cart) AddItem(item database.MenuItem, quantity int32, specialRequest string) {
	if quantity <= 0 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].MenuItem.ID == item.ID {
			c.lines[i].Quantity += quantity
			if specialRequest != "" {
				c.lines[i].SpecialRequest = specialRequest
			}
			return
		}
	}
	c.lines = append(c.lines, Line{MenuItem: item, Quantity: quantity, SpecialRequest: specialRequest})
}

// RemoveItem deletes the line for the given menu item; no-op if absent.
func (c *Cart) RemoveItem(menuItemID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].MenuItem.ID == menuItemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line's quantity absolutely. Quantity <= 0
// removes the line; it can never persist at zero or negative.
func (c *Cart) UpdateQuantity(menuItemID uuid.UUID, quantity int32) {
	if quantity <= 0 {
		c.RemoveItem(menuItemID)
		return
	}
	for i := range c.lines {
		if c.lines[i].MenuItem.ID == menuItemID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties all lines.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalItems is the sum of all line quantities.
func (c *Cart) TotalItems() int32 {
	var n int32
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// TotalAmount is the sum of unit price times quantity over all lines.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		price := database.NumericDecimal(l.MenuItem.Price)
		total = total.Add(price.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return total
}
