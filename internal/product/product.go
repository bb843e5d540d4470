package product

import "time"

// Product represents a catalog entry. Rating is a derived value owned by the
// review component: the arithmetic mean over approved reviews, 0 when there
// are none.
type Product struct {
	ID          int       `json:"productId"`
	Name        string    `json:"productName"`
	Description string    `json:"productDesc"`
	Price       float64   `json:"productPrice"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
