package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateTableRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	PriceMember int    `json:"price_member"`
	PriceClient int    `json:"price_client"`
}

func (req *CreateTableRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Type, validation.Required, validation.In("POOL", "CAROM", "POOL_CHILENO", "SNOOKER", "CARDS")),
		validation.Field(&req.PriceMember, validation.Required, validation.Min(1)),
		validation.Field(&req.PriceClient, validation.Required, validation.Min(1)),
	)
}

type UpdateTableRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	PriceMember int    `json:"price_member"`
	PriceClient int    `json:"price_client"`
	Status      string `json:"status,omitempty"`
}

func (req *UpdateTableRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Type, validation.Required, validation.In("POOL", "CAROM", "POOL_CHILENO", "SNOOKER", "CARDS")),
		validation.Field(&req.PriceMember, validation.Required, validation.Min(1)),
		validation.Field(&req.PriceClient, validation.Required, validation.Min(1)),
		validation.Field(&req.Status, validation.In("AVAILABLE", "RESERVED", "CLEANING")),
	)
}
