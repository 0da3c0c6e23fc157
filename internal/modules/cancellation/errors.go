package cancellation

import "errors"

var (
	ErrNotFound       = errors.New("booking not found")
	ErrForbidden      = errors.New("booking owned by another user")
	ErrValidation     = errors.New("validation error")
	ErrNotCancellable = errors.New("booking can no longer be cancelled")
	ErrUpstream       = errors.New("payment processor call failed")
)
