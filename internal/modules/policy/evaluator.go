// Package policy maps a listing's cancellation policy and the time left
// before the service date to a refund decision. Evaluation is pure:
// ineligibility is a normal outcome, never an error.
package policy

import "unicode/utf8"

type Kind string

const (
	Flexible Kind = "Flexible"
	Modere   Kind = "Modéré"
	Strict   Kind = "Strict"
)

// StrictMinReasonLen is the minimum stated-reason length (in runes) for a
// Strict cancellation to be flagged for admin review.
const StrictMinReasonLen = 20

type Result struct {
	Eligible   bool `json:"eligible"`
	Percentage int  `json:"percentage"`

	// RequiresReview marks the Strict outcome: eligible with 0% pending a
	// force-majeure decision, not an automatic refund and not a denial.
	RequiresReview bool `json:"requires_review"`
}

// Evaluate applies the refund table for the given policy. Unknown policies
// fall back to the Flexible 24-hour rule.
func Evaluate(kind Kind, hoursUntil, daysUntil float64, reason string) Result {
	switch kind {
	case Modere:
		if daysUntil >= 7 {
			return Result{Eligible: true, Percentage: 100}
		}
		if daysUntil >= 1 {
			return Result{Eligible: true, Percentage: 50}
		}
		return Result{}
	case Strict:
		if utf8.RuneCountInString(reason) >= StrictMinReasonLen {
			return Result{Eligible: true, Percentage: 0, RequiresReview: true}
		}
		return Result{}
	case Flexible:
		fallthrough
	default:
		if hoursUntil >= 24 {
			return Result{Eligible: true, Percentage: 100}
		}
		return Result{}
	}
}
