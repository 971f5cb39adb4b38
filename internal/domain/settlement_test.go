package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePaymentsExactMatch(t *testing.T) {
	err := ValidatePayments([]Payment{{Amount: 8000, Method: PaymentCash}}, 8000)
	assert.NoError(t, err)
}

func TestValidatePaymentsSplitAcrossMethods(t *testing.T) {
	memberID := uint(7)
	payments := []Payment{
		{Amount: 3000, Method: PaymentCash},
		{Amount: 5000, Method: PaymentAccount, MemberID: &memberID},
	}

	assert.NoError(t, ValidatePayments(payments, 8000))
}

func TestValidatePaymentsWithinTolerance(t *testing.T) {
	assert.NoError(t, ValidatePayments([]Payment{{Amount: 7950, Method: PaymentCash}}, 8000))
	assert.NoError(t, ValidatePayments([]Payment{{Amount: 8050, Method: PaymentCard}}, 8000))
}

func TestValidatePaymentsBeyondTolerance(t *testing.T) {
	err := ValidatePayments([]Payment{{Amount: 7900, Method: PaymentCash}}, 8000)
	assert.ErrorIs(t, err, ErrPaymentMismatch)

	err = ValidatePayments([]Payment{{Amount: 8051, Method: PaymentCash}}, 8000)
	assert.ErrorIs(t, err, ErrPaymentMismatch)
}

func TestValidatePaymentsAccountRequiresMember(t *testing.T) {
	err := ValidatePayments([]Payment{{Amount: 8000, Method: PaymentAccount}}, 8000)
	assert.ErrorIs(t, err, ErrMissingAccountHolder)
}

func TestValidatePaymentsRejectsNonPositiveAmount(t *testing.T) {
	err := ValidatePayments([]Payment{{Amount: 0, Method: PaymentCash}}, 0)
	assert.ErrorIs(t, err, ErrInvalidPaymentAmount)

	err = ValidatePayments([]Payment{{Amount: -100, Method: PaymentCash}}, 0)
	assert.ErrorIs(t, err, ErrInvalidPaymentAmount)
}

func TestValidatePaymentsRejectsUnknownMethod(t *testing.T) {
	err := ValidatePayments([]Payment{{Amount: 8000, Method: "CHECK"}}, 8000)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestDefaultPayments(t *testing.T) {
	payments := DefaultPayments(11800)
	assert.Equal(t, []Payment{{Amount: 11800, Method: PaymentCash}}, payments)
	assert.NoError(t, ValidatePayments(payments, 11800))
}
