package request

import (
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errPlayerIdentity = errors.New("each player needs a member_id or a guest_name")

type SessionPlayerInput struct {
	MemberID  *uint  `json:"member_id,omitempty"`
	GuestName string `json:"guest_name,omitempty"`
}

type OpenSessionRequest struct {
	Players  []SessionPlayerInput `json:"players"`
	Training bool                 `json:"training"`
}

func (req *OpenSessionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Players, validation.Required, validation.Each(validation.By(validatePlayerInput))),
	)
}

type JoinSessionRequest struct {
	SessionPlayerInput
}

func (req *JoinSessionRequest) Validate() error {
	return validatePlayerInput(req.SessionPlayerInput)
}

func validatePlayerInput(value interface{}) error {
	input, ok := value.(SessionPlayerInput)
	if !ok {
		return fmt.Errorf("invalid player entry")
	}

	if input.MemberID == nil && input.GuestName == "" {
		return errPlayerIdentity
	}

	return nil
}

type ConsumptionItemInput struct {
	ProductID       uint  `json:"product_id"`
	Quantity        int   `json:"quantity"`
	SessionPlayerID *uint `json:"session_player_id,omitempty"`
}

type AddConsumptionRequest struct {
	Items          []ConsumptionItemInput `json:"items"`
	TargetMemberID *uint                  `json:"target_member_id,omitempty"`
}

func (req *AddConsumptionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Items, validation.Required, validation.Each(validation.By(validateConsumptionItem))),
	)
}

func validateConsumptionItem(value interface{}) error {
	item, ok := value.(ConsumptionItemInput)
	if !ok {
		return fmt.Errorf("invalid consumption item")
	}

	return validation.ValidateStruct(&item,
		validation.Field(&item.ProductID, validation.Required, validation.Min(uint(1))),
		validation.Field(&item.Quantity, validation.Required, validation.Min(1)),
	)
}

type PaymentInput struct {
	Amount   int    `json:"amount"`
	Method   string `json:"method"`
	MemberID *uint  `json:"member_id,omitempty"`
}

// CloseSessionRequest may carry no payments at all; settlement then defaults
// to a single cash payment of the full total.
type CloseSessionRequest struct {
	Payments []PaymentInput `json:"payments"`
}

func (req *CloseSessionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Payments, validation.Each(validation.By(validatePaymentInput))),
	)
}

func validatePaymentInput(value interface{}) error {
	payment, ok := value.(PaymentInput)
	if !ok {
		return fmt.Errorf("invalid payment entry")
	}

	return validation.ValidateStruct(&payment,
		validation.Field(&payment.Amount, validation.Required, validation.Min(1)),
		validation.Field(&payment.Method, validation.Required, validation.In("CASH", "CARD", "TRANSFER", "ACCOUNT")),
	)
}

type UpdateGameStateRequest struct {
	GameState json.RawMessage `json:"game_state"`
}

func (req *UpdateGameStateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GameState, validation.Required),
	)
}
