package payment

import (
	"strings"
	"time"

	"github.com/shopcore/shop-backend/internal/order"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
	StatusRefunded  Status = "Refunded"
	StatusCanceled  Status = "Canceled"
)

func ParseStatus(raw string) (Status, bool) {
	for _, s := range []Status{StatusPending, StatusCompleted, StatusFailed, StatusRefunded, StatusCanceled} {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Payment tracks settlement for exactly one order. Method is copied from
// the order at creation and never changes.
type Payment struct {
	ID          int                 `json:"paymentId"`
	OrderID     int                 `json:"orderId"`
	CustomerID  int                 `json:"customerId"`
	Status      Status              `json:"status"`
	Method      order.PaymentMethod `json:"method"`
	PaymentDate time.Time           `json:"paymentDate"`
}
