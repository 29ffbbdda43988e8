package domain

import "errors"

// ErrStockExceeded is returned when an add would push a line's quantity past
// the stock figure observed when the product was last listed. The request is
// rejected outright, never clamped.
var ErrStockExceeded = errors.New("requested quantity exceeds available stock")

type Money struct {
	Currency string
	Amount   int64
}

// Line is one product selection in a buyer's cart. UnitPrice is the price
// observed when the product was first added; it is what the order will charge
// even if the catalog price changes before checkout.
type Line struct {
	ProductID        string
	Name             string
	UnitPrice        Money
	Quantity         int32
	MaxObservedStock int32
}

// Cart is the buyer's in-progress selection. It is owned by a single session,
// lives only in memory and carries no synchronization of its own; callers that
// share a cart across goroutines are responsible for serializing access.
type Cart struct {
	lines map[string]*Line
	order []string
}

func NewCart() *Cart {
	return &Cart{
		lines: make(map[string]*Line),
	}
}

// Add puts one unit of the product into the cart. A product already present
// has its quantity incremented by one and its observed-stock figure refreshed;
// the increment fails with ErrStockExceeded when it would pass availableStock.
// This is a courtesy check against the last listing the buyer saw, not the
// authoritative one: checkout re-validates against live inventory.
func (c *Cart) Add(productID, name string, unitPrice Money, availableStock int32) error {
	if ln, ok := c.lines[productID]; ok {
		if ln.Quantity+1 > availableStock {
			return ErrStockExceeded
		}
		ln.Quantity++
		ln.MaxObservedStock = availableStock
		return nil
	}

	if availableStock < 1 {
		return ErrStockExceeded
	}

	c.lines[productID] = &Line{
		ProductID:        productID,
		Name:             name,
		UnitPrice:        unitPrice,
		Quantity:         1,
		MaxObservedStock: availableStock,
	}
	c.order = append(c.order, productID)
	return nil
}

// Remove deletes the product's line. Removing an absent product is a no-op.
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

func (c *Cart) TotalAmount() Money {
	var total Money
	for _, id := range c.order {
		ln := c.lines[id]
		total.Amount += ln.UnitPrice.Amount * int64(ln.Quantity)
		if total.Currency == "" {
			total.Currency = ln.UnitPrice.Currency
		}
	}
	return total
}

// Snapshot copies the current lines in insertion order. The copy is what gets
// handed to checkout, so mid-flight cart mutations cannot leak into a running
// transaction.
func (c *Cart) Snapshot() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

func (c *Cart) Clear() {
	c.lines = make(map[string]*Line)
	c.order = nil
}

func (c *Cart) Len() int {
	return len(c.order)
}
