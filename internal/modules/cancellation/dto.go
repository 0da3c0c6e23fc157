package cancellation

import (
	"photomarket/internal/domain"
	"photomarket/internal/modules/policy"
)

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// Result pairs the (possibly pre-existing) refund with the policy outcome
// that produced it.
type Result struct {
	Refund  *domain.Refund `json:"refund"`
	Outcome policy.Result  `json:"outcome"`

	// AlreadyCancelled is set on the idempotent path: the booking was
	// cancelled before this request and the existing refund is returned.
	AlreadyCancelled bool `json:"already_cancelled,omitempty"`
}
