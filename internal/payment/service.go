package payment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/shopcore/shop-backend/internal/order"
)

// OrderSource reads orders; the payment workflow never mutates them.
type OrderSource interface {
	GetByID(ctx context.Context, id int) (order.Order, error)
}

type Service struct {
	repo    Repository
	orders  OrderSource
	gateway Gateway
	logger  *zap.Logger
}

func NewService(repo Repository, orders OrderSource, gateway Gateway, logger *zap.Logger) *Service {
	return &Service{repo: repo, orders: orders, gateway: gateway, logger: logger}
}

// Initialize creates the single payment record for an order, in Pending
// status with the order's payment method.
func (s *Service) Initialize(ctx context.Context, orderID int) (Payment, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return Payment{}, ErrOrderNotFound
		}
		return Payment{}, err
	}

	if _, err := s.repo.FindByOrder(ctx, orderID); err == nil {
		return Payment{}, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return Payment{}, err
	}

	return s.repo.Create(ctx, Payment{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     StatusPending,
		Method:     o.PaymentMethod,
	})
}

func (s *Service) GetByID(ctx context.Context, id int) (Payment, error) {
	return s.repo.GetByID(ctx, id)
}

// ProcessOnline submits the order amount to the gateway and records the
// outcome. Re-processing a completed payment is a no-op that returns the
// current state; the gateway is never invoked twice for a settled payment.
func (s *Service) ProcessOnline(ctx context.Context, paymentID int) (Payment, error) {
	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return Payment{}, err
	}
	if p.Status == StatusCompleted {
		return p, nil
	}

	o, err := s.orders.GetByID(ctx, p.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return Payment{}, ErrOrderNotFound
		}
		return Payment{}, err
	}

	approved, err := s.gateway.ProcessPayment(ctx, o.TotalAmount)
	if err != nil {
		return Payment{}, err
	}

	status := StatusFailed
	if approved {
		status = StatusCompleted
	}
	if err := s.repo.UpdateStatus(ctx, p.ID, status); err != nil {
		return Payment{}, err
	}
	p.Status = status

	s.logger.Info("payment processed",
		zap.Int("paymentId", p.ID),
		zap.Int("orderId", p.OrderID),
		zap.Float64("amount", o.TotalAmount),
		zap.String("status", string(status)))
	return p, nil
}

// UpdateStatus is the administrative override: any defined status can be
// set directly.
func (s *Service) UpdateStatus(ctx context.Context, id int, rawStatus string) (Payment, error) {
	status, ok := ParseStatus(rawStatus)
	if !ok {
		return Payment{}, ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return Payment{}, err
	}
	return s.repo.GetByID(ctx, id)
}
