package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photomarket/internal/domain"
	"photomarket/internal/repository"
)

var (
	ErrNotFound   = errors.New("order not found")
	ErrForbidden  = errors.New("order belongs to another user")
	ErrValidation = errors.New("validation error")
	ErrNotPayable = errors.New("order is not in a payable state")
)

type Store interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	MarkPaid(ctx context.Context, orderID int64, at time.Time) error
	ListByClient(ctx context.Context, clientID int64, limit, offset int) ([]domain.Order, error)
}

type Service struct {
	orders Store
}

func NewService(orders Store) *Service {
	return &Service{orders: orders}
}

func (s *Service) Create(ctx context.Context, clientID, photographeID int64, totalAmount float64) (*domain.Order, error) {
	if photographeID <= 0 {
		return nil, fmt.Errorf("%w: photographer id is required", ErrValidation)
	}
	if totalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive", ErrValidation)
	}

	o := &domain.Order{
		ClientID:      clientID,
		PhotographeID: photographeID,
		TotalAmount:   totalAmount,
		Status:        domain.OrderPending,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

// MarkPaid records a successful payment callback. Pending is the only
// payable state; confirming twice is a no-op surfaced as ErrNotPayable.
func (s *Service) MarkPaid(ctx context.Context, orderID, clientID int64) (*domain.Order, error) {
	o, err := s.get(ctx, orderID, clientID)
	if err != nil {
		return nil, err
	}

	if err := s.orders.MarkPaid(ctx, o.ID, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: status is %s", ErrNotPayable, o.Status)
		}
		return nil, err
	}
	return s.orders.GetByID(ctx, o.ID)
}

func (s *Service) Get(ctx context.Context, orderID, clientID int64) (*domain.Order, error) {
	return s.get(ctx, orderID, clientID)
}

func (s *Service) ListOwn(ctx context.Context, clientID int64, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.ListByClient(ctx, clientID, limit, offset)
}

func (s *Service) get(ctx context.Context, orderID, clientID int64) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.ClientID != clientID {
		return nil, ErrForbidden
	}
	return o, nil
}
