package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type PayDebtRequest struct {
	Amount int    `json:"amount"`
	Method string `json:"method"`
}

func (req *PayDebtRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(1)),
		validation.Field(&req.Method, validation.Required, validation.In("CASH", "CARD", "TRANSFER")),
	)
}
