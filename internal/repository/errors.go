package repository

import "errors"

var (
	// ErrNotFound: no row with the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrNotOwner: row exists but belongs to another user. Kept distinct
	// from ErrNotFound so handlers can signal 403 vs 404.
	ErrNotOwner = errors.New("record owned by another user")
	// ErrDuplicateRefund: a refund row already exists for the booking.
	ErrDuplicateRefund = errors.New("refund already exists for booking")
	// ErrAlreadyCancelled: the optimistic status predicate matched no row,
	// a concurrent request cancelled the booking first.
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)
