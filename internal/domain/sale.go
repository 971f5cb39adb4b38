package domain

import "time"

type SaleType string

const (
	SaleTableSession SaleType = "TABLE_SESSION"
	SaleConsumption  SaleType = "CONSUMPTION"
	SaleDebtPayment  SaleType = "DEBT_PAYMENT"
)

// Sale is an immutable financial record created at the moment money is
// recognized: mid-session account charges, settlement lines, debt payments.
type Sale struct {
	ID        uint          `json:"id"`
	SessionID *uint         `json:"session_id,omitempty"`
	MemberID  *uint         `json:"member_id,omitempty"`
	ShiftID   *uint         `json:"shift_id,omitempty"`
	Total     int           `json:"total"`
	Method    PaymentMethod `json:"method"`
	Type      SaleType      `json:"type"`
	Items     []OrderItem   `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
}
