package admin

import "errors"

var (
	ErrNotFound        = errors.New("refund not found")
	ErrNotStrictPolicy = errors.New("refund is not under the Strict policy")
	ErrRefundProcessed = errors.New("refund has already been processed")
	ErrUpstream        = errors.New("payment processor call failed")
)
