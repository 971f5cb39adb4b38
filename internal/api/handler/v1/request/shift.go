package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type OpenShiftRequest struct {
	InitialAmount int `json:"initial_amount"`
}

func (req *OpenShiftRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.InitialAmount, validation.Min(0)),
	)
}
