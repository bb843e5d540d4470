package cart

import (
	"context"
	"errors"

	"github.com/shopcore/shop-backend/internal/product"
)

// Catalog is the slice of the product service the cart needs: live prices
// and existence checks.
type Catalog interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
}

// Service owns every cart invariant: positive quantities, upsert semantics,
// and the total being the sum of quantity x live price after each mutation.
// Stale-stamp writes surface as ErrConflict; callers re-fetch and retry.
type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// GetOrCreate returns the stored cart, or an empty unpersisted cart when
// none exists yet. The ephemeral cart becomes real on the first mutation.
func (s *Service) GetOrCreate(ctx context.Context, customerID int) (Cart, error) {
	c, err := s.repo.FindByCustomer(ctx, customerID)
	if errors.Is(err, ErrNotFound) {
		return Cart{CustomerID: customerID, Lines: []Line{}}, nil
	}
	return c, err
}

// CreateFor persists an empty cart for a new customer. Safe to call when
// the cart already exists.
func (s *Service) CreateFor(ctx context.Context, customerID int) error {
	_, err := s.repo.Create(ctx, customerID)
	return err
}

// AddOrUpdateItem upserts a line: an existing line's quantity is replaced,
// never incremented.
func (s *Service) AddOrUpdateItem(ctx context.Context, customerID, productID, quantity int) (Cart, error) {
	if quantity <= 0 {
		return Cart{}, ErrInvalidQuantity
	}
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return Cart{}, ErrProductNotFound
		}
		return Cart{}, err
	}

	c, err := s.repo.FindByCustomer(ctx, customerID)
	if errors.Is(err, ErrNotFound) {
		c, err = s.repo.Create(ctx, customerID)
	}
	if err != nil {
		return Cart{}, err
	}

	if i := c.lineIndex(productID); i >= 0 {
		c.Lines[i].Quantity = quantity
	} else {
		c.Lines = append(c.Lines, Line{ProductID: productID, Quantity: quantity})
	}

	return s.saveWithTotal(ctx, c)
}

// UpdateItemQuantity replaces the quantity of an existing line.
func (s *Service) UpdateItemQuantity(ctx context.Context, customerID, productID, quantity int) (Cart, error) {
	if quantity <= 0 {
		return Cart{}, ErrInvalidQuantity
	}

	c, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return Cart{}, err
	}

	i := c.lineIndex(productID)
	if i < 0 {
		return Cart{}, ErrLineNotFound
	}
	c.Lines[i].Quantity = quantity

	return s.saveWithTotal(ctx, c)
}

// RemoveItem drops a line. Removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, customerID, productID int) (Cart, error) {
	c, err := s.repo.FindByCustomer(ctx, customerID)
	if errors.Is(err, ErrNotFound) {
		return Cart{CustomerID: customerID, Lines: []Line{}}, nil
	}
	if err != nil {
		return Cart{}, err
	}

	i := c.lineIndex(productID)
	if i < 0 {
		return c, nil
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)

	return s.saveWithTotal(ctx, c)
}

// Clear removes all lines and resets the total. The cart itself survives:
// it is cleared when an order is placed, never deleted.
func (s *Service) Clear(ctx context.Context, customerID int) error {
	c, err := s.repo.FindByCustomer(ctx, customerID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	c.Lines = []Line{}
	c.Total = 0
	_, err = s.repo.Save(ctx, c)
	return err
}

func (s *Service) saveWithTotal(ctx context.Context, c Cart) (Cart, error) {
	total, err := s.computeTotal(ctx, c.Lines)
	if err != nil {
		return Cart{}, err
	}
	c.Total = total
	return s.repo.Save(ctx, c)
}

func (s *Service) computeTotal(ctx context.Context, lines []Line) (float64, error) {
	var total float64
	for _, l := range lines {
		p, err := s.catalog.GetByID(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return 0, ErrProductNotFound
			}
			return 0, err
		}
		total += float64(l.Quantity) * p.Price
	}
	return total, nil
}
