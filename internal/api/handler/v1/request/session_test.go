package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestOpenSessionRequestValidate(t *testing.T) {
	req := OpenSessionRequest{
		Players: []SessionPlayerInput{
			{MemberID: uintPtr(7)},
			{GuestName: "Walk-in"},
		},
	}
	assert.NoError(t, req.Validate())
}

func TestOpenSessionRequestNoPlayers(t *testing.T) {
	req := OpenSessionRequest{}
	assert.Error(t, req.Validate())
}

func TestOpenSessionRequestAnonymousPlayer(t *testing.T) {
	req := OpenSessionRequest{
		Players: []SessionPlayerInput{{}},
	}
	assert.Error(t, req.Validate())
}

func TestJoinSessionRequestValidate(t *testing.T) {
	req := JoinSessionRequest{SessionPlayerInput{GuestName: "Late"}}
	assert.NoError(t, req.Validate())

	req = JoinSessionRequest{}
	assert.ErrorIs(t, req.Validate(), errPlayerIdentity)
}

func TestAddConsumptionRequestValidate(t *testing.T) {
	req := AddConsumptionRequest{
		Items: []ConsumptionItemInput{
			{ProductID: 1, Quantity: 2},
		},
	}
	assert.NoError(t, req.Validate())
}

func TestAddConsumptionRequestInvalidItems(t *testing.T) {
	req := AddConsumptionRequest{}
	assert.Error(t, req.Validate())

	req = AddConsumptionRequest{
		Items: []ConsumptionItemInput{{ProductID: 1, Quantity: 0}},
	}
	assert.Error(t, req.Validate())
}

func TestCloseSessionRequestEmptyPaymentsAllowed(t *testing.T) {
	req := CloseSessionRequest{}
	assert.NoError(t, req.Validate())
}

func TestCloseSessionRequestPaymentRules(t *testing.T) {
	req := CloseSessionRequest{
		Payments: []PaymentInput{
			{Amount: 3000, Method: "CASH"},
			{Amount: 5000, Method: "ACCOUNT", MemberID: uintPtr(7)},
		},
	}
	assert.NoError(t, req.Validate())

	req = CloseSessionRequest{
		Payments: []PaymentInput{{Amount: 0, Method: "CASH"}},
	}
	assert.Error(t, req.Validate())

	req = CloseSessionRequest{
		Payments: []PaymentInput{{Amount: 3000, Method: "CHECK"}},
	}
	assert.Error(t, req.Validate())
}

func TestUpdateGameStateRequestValidate(t *testing.T) {
	req := UpdateGameStateRequest{GameState: json.RawMessage(`{"turn":1}`)}
	assert.NoError(t, req.Validate())

	req = UpdateGameStateRequest{}
	assert.Error(t, req.Validate())
}
