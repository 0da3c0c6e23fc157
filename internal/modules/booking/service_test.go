package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"photomarket/internal/domain"
	"photomarket/internal/repository"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingStore) ResolveOwned(ctx context.Context, bookingID, userID int64) (*domain.Booking, string, error) {
	args := m.Called(ctx, bookingID, userID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.Booking), args.String(1), args.Error(2)
}

func (m *MockBookingStore) ListByClient(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockListingStore struct {
	mock.Mock
}

func (m *MockListingStore) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func TestCreate_DerivesAmountsFromListing(t *testing.T) {
	bookings := new(MockBookingStore)
	listings := new(MockListingStore)
	svc := NewService(bookings, listings)

	listings.On("GetByID", mock.Anything, int64(3)).Return(&domain.Listing{
		ID: 3, PhotographeID: 200, Price: 400, DepositPercent: 25, Active: true,
	}, nil)
	bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.TotalAmount == 400 &&
			b.DepositAmount == 100 &&
			b.PhotographeID == 200 &&
			b.Status == domain.BookingPending &&
			b.PaymentStatus == domain.PaymentUnpaid
	})).Return(nil)

	b, err := svc.Create(context.Background(), 101, 3, time.Now().Add(72*time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, int64(101), b.ClientID)
	bookings.AssertExpectations(t)
}

func TestCreate_RejectsInactiveListing(t *testing.T) {
	bookings := new(MockBookingStore)
	listings := new(MockListingStore)
	svc := NewService(bookings, listings)

	listings.On("GetByID", mock.Anything, int64(3)).Return(&domain.Listing{ID: 3, Active: false}, nil)

	_, err := svc.Create(context.Background(), 101, 3, time.Now().Add(72*time.Hour))

	assert.ErrorIs(t, err, ErrValidation)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RejectsPastServiceDate(t *testing.T) {
	svc := NewService(new(MockBookingStore), new(MockListingStore))

	_, err := svc.Create(context.Background(), 101, 3, time.Now().Add(-time.Hour))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGet_MapsOwnershipErrors(t *testing.T) {
	bookings := new(MockBookingStore)
	svc := NewService(bookings, new(MockListingStore))

	bookings.On("ResolveOwned", mock.Anything, int64(1), int64(101)).Return(nil, "", repository.ErrNotFound)
	bookings.On("ResolveOwned", mock.Anything, int64(2), int64(101)).Return(nil, "", repository.ErrNotOwner)

	_, err := svc.Get(context.Background(), 1, 101)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), 2, 101)
	assert.ErrorIs(t, err, ErrForbidden)
}
