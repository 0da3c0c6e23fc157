package domain

import "time"

type TransferKind string

const (
	TransferDeposit TransferKind = "deposit"
	TransferBalance TransferKind = "balance"
)

// Transfer is an append-only ledger entry for money moved to a
// photographer's payment account. The transfer group equals the booking id
// and is the de-duplication key: a (group, kind) pair is transferred at
// most once.
type Transfer struct {
	ID                  string       `json:"id"`
	BookingID           int64        `json:"booking_id"`
	Kind                TransferKind `json:"kind"`
	Amount              float64      `json:"amount"`
	AmountCents         int64        `json:"amount_cents"`
	DestinationAccount  string       `json:"destination_account"`
	TransferGroup       string       `json:"transfer_group"`
	ProcessorTransferID string       `json:"processor_transfer_id,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
}
