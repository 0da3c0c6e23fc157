package settlement

import "errors"

var (
	ErrNotFound        = errors.New("booking not found")
	ErrValidation      = errors.New("validation error")
	ErrNotTransferable = errors.New("booking payment state does not allow this transfer")
	ErrUpstream        = errors.New("payment processor call failed")
)
