package domain

import "time"

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "OPEN"
	ShiftClosed ShiftStatus = "CLOSED"
)

// Shift is an operational cash-register period. Billing operations are only
// valid while one is open; this core consumes it as a gate and does not keep
// the cash ledger.
type Shift struct {
	ID            uint        `json:"id"`
	Status        ShiftStatus `json:"status"`
	OpenedByID    uint        `json:"opened_by_id"`
	ClosedByID    *uint       `json:"closed_by_id,omitempty"`
	InitialAmount int         `json:"initial_amount"`
	OpenedAt      time.Time   `json:"opened_at"`
	ClosedAt      *time.Time  `json:"closed_at,omitempty"`
}
