package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSignup() SignupRequest {
	return SignupRequest{
		Email:           "staff@cueclub.cl",
		Password:        "abcdef12",
		ConfirmPassword: "abcdef12",
		Name:            "Valentina",
		Role:            "staff",
	}
}

func TestSignupRequestValidate(t *testing.T) {
	req := validSignup()
	assert.NoError(t, req.Validate())
}

func TestSignupRequestInvalidEmail(t *testing.T) {
	req := validSignup()
	req.Email = "not-an-email"
	assert.Error(t, req.Validate())
}

func TestSignupRequestPasswordRules(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"letters and digits", "abcdef12", false},
		{"too short", "abc1", true},
		{"digits only", "12345678", true},
		{"letters only", "abcdefgh", true},
		{"long mixed with symbols", "p@ssw0rd123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			req.Password = tt.password
			req.ConfirmPassword = tt.password

			err := req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSignupRequestConfirmPasswordMismatch(t *testing.T) {
	req := validSignup()
	req.ConfirmPassword = "abcdef13"
	assert.ErrorIs(t, req.Validate(), errConfirmPasswordMismatch)
}

func TestSignupRequestUnknownRole(t *testing.T) {
	req := validSignup()
	req.Role = "owner"
	assert.Error(t, req.Validate())
}

func TestLoginRequestValidate(t *testing.T) {
	req := LoginRequest{Email: "staff@cueclub.cl", Password: "abcdef12"}
	assert.NoError(t, req.Validate())

	req = LoginRequest{Email: "staff@cueclub.cl"}
	assert.Error(t, req.Validate())
}
