package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photomarket/internal/domain"
	"photomarket/internal/repository"
)

var (
	ErrNotFound   = errors.New("booking not found")
	ErrForbidden  = errors.New("booking belongs to another user")
	ErrValidation = errors.New("validation error")
)

type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	ResolveOwned(ctx context.Context, bookingID, userID int64) (*domain.Booking, string, error)
	ListByClient(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
}

type ListingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type Service struct {
	bookings BookingStore
	listings ListingStore
}

func NewService(bookings BookingStore, listings ListingStore) *Service {
	return &Service{bookings: bookings, listings: listings}
}

// Create books a listing for a client. Total and deposit amounts are
// derived from the listing at booking time so later listing edits do not
// reprice existing bookings.
func (s *Service) Create(ctx context.Context, clientID, listingID int64, serviceDate time.Time) (*domain.Booking, error) {
	if serviceDate.Before(time.Now()) {
		return nil, fmt.Errorf("%w: service date is in the past", ErrValidation)
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: listing %d does not exist", ErrValidation, listingID)
	}
	if err != nil {
		return nil, fmt.Errorf("load listing: %w", err)
	}
	if !listing.Active {
		return nil, fmt.Errorf("%w: listing is not active", ErrValidation)
	}

	b := &domain.Booking{
		ListingID:     listing.ID,
		ClientID:      clientID,
		PhotographeID: listing.PhotographeID,
		ServiceDate:   serviceDate,
		TotalAmount:   listing.Price,
		DepositAmount: listing.DepositFor(listing.Price),
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentUnpaid,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}

// Get returns the booking if the caller owns it.
func (s *Service) Get(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	b, _, err := s.bookings.ResolveOwned(ctx, bookingID, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return nil, ErrForbidden
	case err != nil:
		return nil, err
	}
	return b, nil
}

func (s *Service) ListOwn(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.ListByClient(ctx, userID, limit, offset)
}
