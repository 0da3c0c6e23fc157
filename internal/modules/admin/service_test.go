package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"photomarket/internal/domain"
	"photomarket/internal/repository"
)

type MockRefundStore struct {
	mock.Mock
}

func (m *MockRefundStore) GetByID(ctx context.Context, id int64) (*domain.Refund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func (m *MockRefundStore) ListByStatus(ctx context.Context, status domain.RefundStatus, limit, offset int) ([]domain.Refund, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Refund), args.Error(1)
}

func (m *MockRefundStore) MarkOverridden(ctx context.Context, id, adminID int64, note, processorRefundID string, amount float64, processedAt time.Time) error {
	args := m.Called(ctx, id, adminID, note, processorRefundID, amount, processedAt)
	return args.Error(0)
}

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) UpdatePaymentStatus(ctx context.Context, bookingID int64, status domain.PaymentStatus) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) CreateRefund(ctx context.Context, paymentRef string, amountCents int64, metadata map[string]string) (string, error) {
	args := m.Called(ctx, paymentRef, amountCents, metadata)
	return args.String(0), args.Error(1)
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Queue(ctx context.Context, userID int64, ntype domain.NotificationType, title, message string, data map[string]any, actionURL string) error {
	args := m.Called(ctx, userID, ntype, title, message, data, actionURL)
	return args.Error(0)
}

func newTestService() (*Service, *MockRefundStore, *MockBookingStore, *MockProcessor, *MockQueue) {
	refunds := new(MockRefundStore)
	bookings := new(MockBookingStore)
	processor := new(MockProcessor)
	queue := new(MockQueue)
	queue.On("Queue", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	svc := NewService(refunds, bookings, processor, queue, nil)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc, refunds, bookings, processor, queue
}

func strictRefund() *domain.Refund {
	return &domain.Refund{
		ID:             5,
		BookingID:      30,
		OriginalAmount: 420,
		Percentage:     0,
		Status:         domain.RefundAdminReview,
		Policy:         "Strict",
		Reason:         "hospitalisation imprévue, certificat joint",
	}
}

func TestForceMajeure_Success(t *testing.T) {
	svc, refunds, bookings, processor, _ := newTestService()

	refunds.On("GetByID", mock.Anything, int64(5)).Return(strictRefund(), nil).Once()
	bookings.On("GetByID", mock.Anything, int64(30)).Return(&domain.Booking{
		ID: 30, ClientID: 101, PaymentRef: "ch_42", TotalAmount: 420,
	}, nil)
	processor.On("CreateRefund", mock.Anything, "ch_42", int64(42000), mock.Anything).Return("re_9", nil)
	refunds.On("MarkOverridden", mock.Anything, int64(5), int64(900), "medical certificate on file", "re_9", 420.0, svc.now()).Return(nil)
	bookings.On("UpdatePaymentStatus", mock.Anything, int64(30), domain.PaymentRefunded).Return(&domain.Booking{ID: 30}, nil)

	final := strictRefund()
	final.Status = domain.RefundProcessed
	final.Percentage = 100
	final.RefundedAmount = 420
	refunds.On("GetByID", mock.Anything, int64(5)).Return(final, nil).Once()

	got, err := svc.ForceMajeureRefund(context.Background(), 5, 900, "medical certificate on file")

	assert.NoError(t, err)
	assert.Equal(t, domain.RefundProcessed, got.Status)
	assert.Equal(t, 100, got.Percentage)
	refunds.AssertExpectations(t)
}

func TestForceMajeure_EmptyNoteGetsDefaultStamp(t *testing.T) {
	svc, refunds, bookings, processor, _ := newTestService()

	refunds.On("GetByID", mock.Anything, int64(5)).Return(strictRefund(), nil)
	bookings.On("GetByID", mock.Anything, int64(30)).Return(&domain.Booking{
		ID: 30, ClientID: 101, PaymentRef: "ch_42", TotalAmount: 420,
	}, nil)
	processor.On("CreateRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("re_9", nil)
	refunds.On("MarkOverridden", mock.Anything, int64(5), int64(900), "force majeure", "re_9", 420.0, svc.now()).Return(nil)
	bookings.On("UpdatePaymentStatus", mock.Anything, int64(30), domain.PaymentRefunded).Return(&domain.Booking{ID: 30}, nil)

	_, err := svc.ForceMajeureRefund(context.Background(), 5, 900, "   ")

	assert.NoError(t, err)
	refunds.AssertExpectations(t)
}

func TestForceMajeure_RejectsNonStrictPolicy(t *testing.T) {
	svc, refunds, _, processor, _ := newTestService()

	r := strictRefund()
	r.Policy = "Flexible"
	refunds.On("GetByID", mock.Anything, int64(5)).Return(r, nil)

	_, err := svc.ForceMajeureRefund(context.Background(), 5, 900, "")

	assert.ErrorIs(t, err, ErrNotStrictPolicy)
	processor.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestForceMajeure_RejectsAlreadyProcessed(t *testing.T) {
	svc, refunds, _, processor, _ := newTestService()

	r := strictRefund()
	r.Status = domain.RefundProcessed
	refunds.On("GetByID", mock.Anything, int64(5)).Return(r, nil)

	_, err := svc.ForceMajeureRefund(context.Background(), 5, 900, "")

	assert.ErrorIs(t, err, ErrRefundProcessed)
	processor.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestForceMajeure_ConcurrentDecisionLoses(t *testing.T) {
	svc, refunds, bookings, processor, _ := newTestService()

	refunds.On("GetByID", mock.Anything, int64(5)).Return(strictRefund(), nil)
	bookings.On("GetByID", mock.Anything, int64(30)).Return(&domain.Booking{
		ID: 30, ClientID: 101, PaymentRef: "ch_42",
	}, nil)
	processor.On("CreateRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("re_9", nil)
	// Row already left reviewable state between the read and the write.
	refunds.On("MarkOverridden", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(repository.ErrNotFound)

	_, err := svc.ForceMajeureRefund(context.Background(), 5, 900, "")
	assert.ErrorIs(t, err, ErrRefundProcessed)
}

func TestForceMajeure_UnknownRefund(t *testing.T) {
	svc, refunds, _, _, _ := newTestService()

	refunds.On("GetByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

	_, err := svc.ForceMajeureRefund(context.Background(), 99, 900, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForceMajeure_ProcessorFailureSurfaces(t *testing.T) {
	svc, refunds, bookings, processor, _ := newTestService()

	refunds.On("GetByID", mock.Anything, int64(5)).Return(strictRefund(), nil)
	bookings.On("GetByID", mock.Anything, int64(30)).Return(&domain.Booking{
		ID: 30, ClientID: 101, PaymentRef: "ch_42",
	}, nil)
	processor.On("CreateRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

	_, err := svc.ForceMajeureRefund(context.Background(), 5, 900, "")

	assert.ErrorIs(t, err, ErrUpstream)
	refunds.AssertNotCalled(t, "MarkOverridden", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
