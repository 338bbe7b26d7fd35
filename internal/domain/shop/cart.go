package shop

import (
	"github.com/shopspring/decimal"

	"github.com/shoestore/storefront/internal/domain/shared"
)

// CartItem is one line of the cart: a product and how many units the user
// intends to buy. Quantity is always >= 1; a line reduced to zero is removed,
// never stored.
type CartItem struct {
	Shoe     Shoe `json:"shoe"`
	Quantity int  `json:"quantity"`
}

// Amount returns quantity * unit price for this line.
func (i CartItem) Amount() decimal.Decimal {
	return i.Shoe.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the user's pending purchase selection. Items are keyed uniquely by
// shoe id; Total is always the exact recomputation from items and is never
// mutated independently.
type Cart struct {
	items []CartItem
	total decimal.Decimal
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{total: decimal.Zero}
}

// Add merges quantity into the line for the given shoe, appending a new line
// if the product is not yet in the cart. It does not enforce a stock ceiling;
// that pre-check belongs to the caller, and the server is the final arbiter
// at order-creation time.
func (c *Cart) Add(shoe Shoe, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for idx := range c.items {
		if c.items[idx].Shoe.ID == shoe.ID {
			c.items[idx].Quantity += quantity
			c.recalculateTotal()
			return nil
		}
	}
	c.items = append(c.items, CartItem{Shoe: shoe, Quantity: quantity})
	c.recalculateTotal()
	return nil
}

// Remove filters the line for the given shoe out of the cart. Removing a
// product that is not present is a no-op.
func (c *Cart) Remove(shoeID int64) {
	for idx := range c.items {
		if c.items[idx].Shoe.ID == shoeID {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			c.recalculateTotal()
			return
		}
	}
}

// UpdateQuantity replaces the quantity of the line for the given shoe.
// A quantity of zero or less is equivalent to Remove.
func (c *Cart) UpdateQuantity(shoeID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(shoeID)
		return
	}
	for idx := range c.items {
		if c.items[idx].Shoe.ID == shoeID {
			c.items[idx].Quantity = quantity
			c.recalculateTotal()
			return
		}
	}
}

// Clear resets the cart to empty.
func (c *Cart) Clear() {
	c.items = nil
	c.total = decimal.Zero
}

// Replace substitutes the cart contents wholesale with the given lines,
// dropping any line with a non-positive quantity. Used when the server's
// authoritative item list comes back from a fetch or sync.
func (c *Cart) Replace(items []CartItem) {
	c.items = make([]CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			c.items = append(c.items, item)
		}
	}
	c.recalculateTotal()
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total returns the sum of quantity * unit price over all lines.
func (c *Cart) Total() decimal.Decimal {
	return c.total
}

// ItemCount returns the sum of all line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// LineCount returns the number of distinct products in the cart.
func (c *Cart) LineCount() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// QuantityOf returns the in-cart quantity for the given shoe, zero if absent.
func (c *Cart) QuantityOf(shoeID int64) int {
	for _, item := range c.items {
		if item.Shoe.ID == shoeID {
			return item.Quantity
		}
	}
	return 0
}

func (c *Cart) recalculateTotal() {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Amount())
	}
	c.total = total
}
