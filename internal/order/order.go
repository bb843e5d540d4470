package order

import (
	"strings"
	"time"
)

// Status is the order lifecycle state. Transitions are validated, which is
// stricter than a free-form status field: an order cannot go backwards.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCanceled   Status = "Canceled"
	StatusReturned   Status = "Returned"
)

var statuses = []Status{
	StatusPending, StatusProcessing, StatusShipped,
	StatusDelivered, StatusCanceled, StatusReturned,
}

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCanceled},
	StatusProcessing: {StatusShipped, StatusCanceled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusReturned},
}

func ParseStatus(raw string) (Status, bool) {
	for _, s := range statuses {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ShippingMethod string

const (
	ShippingMail          ShippingMethod = "Mail"
	ShippingCourier       ShippingMethod = "Courier"
	ShippingInStorePickup ShippingMethod = "InStorePickup"
)

func ParseShippingMethod(raw string) (ShippingMethod, bool) {
	for _, m := range []ShippingMethod{ShippingMail, ShippingCourier, ShippingInStorePickup} {
		if strings.EqualFold(raw, string(m)) {
			return m, true
		}
	}
	return "", false
}

type PaymentMethod string

const (
	PaymentCardOnline     PaymentMethod = "CardOnline"
	PaymentCashOnDelivery PaymentMethod = "CashOnDelivery"
)

func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	for _, m := range []PaymentMethod{PaymentCardOnline, PaymentCashOnDelivery} {
		if strings.EqualFold(raw, string(m)) {
			return m, true
		}
	}
	return "", false
}

// Line is a (product, quantity) pair copied verbatim from the cart when the
// order is created. Never re-derived afterwards.
type Line struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Order is an immutable snapshot of a cart at checkout. Only Status changes
// after creation. TotalQuantity is the summed units across lines.
type Order struct {
	ID             int            `json:"orderId"`
	CustomerID     int            `json:"customerId"`
	Status         Status         `json:"status"`
	TotalQuantity  int            `json:"totalQuantity"`
	TotalAmount    float64        `json:"totalAmount"`
	ShippingMethod ShippingMethod `json:"shippingMethod"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	Lines          []Line         `json:"lines"`
	CreatedAt      time.Time      `json:"createdAt"`
}
