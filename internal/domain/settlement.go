package domain

import "errors"

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentAccount  PaymentMethod = "ACCOUNT"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentAccount:
		return true
	}

	return false
}

// PaymentTolerance absorbs rounding differences between the proposed payment
// sum and the computed total. It is not a discount.
const PaymentTolerance = 50

// Payment is one line of a proposed settlement. ACCOUNT payments defer cash
// collection by incrementing the member's tracked debt.
type Payment struct {
	Amount   int           `json:"amount"`
	Method   PaymentMethod `json:"method"`
	MemberID *uint         `json:"member_id,omitempty"`
}

var (
	ErrPaymentMismatch      = errors.New("payment total does not match the amount due")
	ErrMissingAccountHolder = errors.New("on-account payment requires a member")
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
)

// ValidatePayments checks a proposed settlement against the computed total.
func ValidatePayments(payments []Payment, total int) error {
	sum := 0
	for _, p := range payments {
		if p.Amount <= 0 {
			return ErrInvalidPaymentAmount
		}
		if !p.Method.Valid() {
			return ErrInvalidPaymentMethod
		}
		if p.Method == PaymentAccount && p.MemberID == nil {
			return ErrMissingAccountHolder
		}
		sum += p.Amount
	}

	diff := sum - total
	if diff < 0 {
		diff = -diff
	}
	if diff > PaymentTolerance {
		return ErrPaymentMismatch
	}

	return nil
}

// DefaultPayments is the legacy fallback when the caller proposes no split:
// a single cash payment covering the full total.
func DefaultPayments(total int) []Payment {
	return []Payment{{Amount: total, Method: PaymentCash}}
}
