package domain

import "time"

type Listing struct {
	ID                 int64     `json:"id"`
	PhotographeID      int64     `json:"photographe_id" validate:"required"`
	Title              string    `json:"title" validate:"required"`
	Description        string    `json:"description,omitempty"`
	Price              float64   `json:"price" validate:"required,gte=0"`
	DepositPercent     int       `json:"deposit_percent"`
	CancellationPolicy string    `json:"cancellation_policy"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DepositFor derives the upfront portion of a booking total from the
// listing's deposit percentage. Falls back to 30% when unset.
func (l *Listing) DepositFor(total float64) float64 {
	pct := l.DepositPercent
	if pct <= 0 || pct > 100 {
		pct = 30
	}
	return total * float64(pct) / 100
}
