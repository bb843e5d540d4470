package order

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopcore/shop-backend/internal/cart"
	"github.com/shopcore/shop-backend/internal/customer"
	"github.com/shopcore/shop-backend/internal/product"
)

// CartSource reads the customer's current cart.
type CartSource interface {
	GetOrCreate(ctx context.Context, customerID int) (cart.Cart, error)
}

// CustomerDirectory resolves customer names for list filtering.
type CustomerDirectory interface {
	GetByID(ctx context.Context, id int) (customer.Customer, error)
}

// Catalog resolves product names for list filtering.
type Catalog interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
}

type SortField string

const (
	SortByOrderDate     SortField = "OrderDate"
	SortByTotalAmount   SortField = "TotalAmount"
	SortByTotalQuantity SortField = "TotalQuantity"
)

// ListQuery drives List. Page is 1-indexed.
type ListQuery struct {
	Filter    string
	SortBy    SortField
	Ascending bool
	Page      int
	PageSize  int
}

type Service struct {
	repo      Repository
	carts     CartSource
	customers CustomerDirectory
	catalog   Catalog
	now       func() time.Time
}

func NewService(repo Repository, carts CartSource, customers CustomerDirectory, catalog Catalog) *Service {
	return &Service{repo: repo, carts: carts, customers: customers, catalog: catalog, now: time.Now}
}

// Create snapshots the customer's cart into an immutable order. The cart is
// NOT cleared here; the caller clears it as a follow-up step.
func (s *Service) Create(ctx context.Context, customerID int, shipping, payMethod string) (Order, error) {
	shippingMethod, ok := ParseShippingMethod(shipping)
	if !ok {
		return Order{}, ErrInvalidArgument
	}
	paymentMethod, ok := ParsePaymentMethod(payMethod)
	if !ok {
		return Order{}, ErrInvalidArgument
	}

	c, err := s.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return Order{}, err
	}
	if len(c.Lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	lines := make([]Line, 0, len(c.Lines))
	totalQuantity := 0
	for _, l := range c.Lines {
		lines = append(lines, Line{ProductID: l.ProductID, Quantity: l.Quantity})
		totalQuantity += l.Quantity
	}

	return s.repo.Create(ctx, Order{
		CustomerID:     customerID,
		Status:         StatusPending,
		TotalQuantity:  totalQuantity,
		TotalAmount:    c.Total,
		ShippingMethod: shippingMethod,
		PaymentMethod:  paymentMethod,
		Lines:          lines,
		CreatedAt:      s.now().UTC(),
	})
}

func (s *Service) GetByID(ctx context.Context, id int) (Order, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus moves the order along the state machine. Unknown statuses are
// rejected as invalid input, disallowed moves as a conflict.
func (s *Service) UpdateStatus(ctx context.Context, id int, rawStatus string) (Order, error) {
	next, ok := ParseStatus(rawStatus)
	if !ok {
		return Order{}, ErrInvalidArgument
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !o.Status.CanTransitionTo(next) {
		return Order{}, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return Order{}, err
	}
	o.Status = next
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// List filters, sorts and paginates orders. Filter text matches customer
// name and product names case-insensitively, and status by exact
// (case-insensitive) name.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Order, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.SortBy == "" {
		q.SortBy = SortByOrderDate
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := all
	if q.Filter != "" {
		filtered = make([]Order, 0, len(all))
		for _, o := range all {
			if s.matches(ctx, o, q.Filter) {
				filtered = append(filtered, o)
			}
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case SortByTotalAmount:
			less = filtered[i].TotalAmount < filtered[j].TotalAmount
		case SortByTotalQuantity:
			less = filtered[i].TotalQuantity < filtered[j].TotalQuantity
		default:
			less = filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		}
		if q.Ascending {
			return less
		}
		return !less
	})

	start := (q.Page - 1) * q.PageSize
	if start >= len(filtered) {
		return []Order{}, nil
	}
	end := start + q.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

func (s *Service) matches(ctx context.Context, o Order, filter string) bool {
	if strings.EqualFold(filter, string(o.Status)) {
		return true
	}

	needle := strings.ToLower(filter)
	if cust, err := s.customers.GetByID(ctx, o.CustomerID); err == nil {
		if strings.Contains(strings.ToLower(cust.FullName()), needle) {
			return true
		}
	}
	for _, l := range o.Lines {
		if p, err := s.catalog.GetByID(ctx, l.ProductID); err == nil {
			if strings.Contains(strings.ToLower(p.Name), needle) {
				return true
			}
		}
	}
	return false
}
