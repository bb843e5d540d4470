package cart

import "time"

// Line is one (product, quantity) pair in a cart. Quantity is always >= 1.
type Line struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Cart is the single mutable cart a customer owns. Version is the
// optimistic-concurrency stamp: every persisted write checks it and bumps
// it, so a stale writer gets a conflict instead of silently overwriting.
//
// Total is recomputed from live product prices on every mutation and cached
// here; reads return the cached value as-is.
type Cart struct {
	ID         int       `json:"cartId"`
	CustomerID int       `json:"customerId"`
	Total      float64   `json:"totalAmount"`
	Version    int64     `json:"version"`
	Lines      []Line    `json:"lines"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TotalQuantity sums units across all lines.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

func (c Cart) lineIndex(productID int) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
