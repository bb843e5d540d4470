package review

import "time"

// Review starts unapproved and is approved at most once; there is no way
// back to unapproved. Only approved reviews feed the product rating.
type Review struct {
	ID         int       `json:"reviewId"`
	ProductID  int       `json:"productId"`
	CustomerID int       `json:"customerId"`
	Rating     int       `json:"rating"`
	Body       string    `json:"body"`
	Approved   bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}
