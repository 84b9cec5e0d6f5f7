package types

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestCreateUserRequest_Validation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			request: CreateUserRequest{Name: "Jane Doe", Email: "jane@example.com", Password: "password123"},
			wantErr: false,
		},
		{
			name:    "missing name",
			request: CreateUserRequest{Email: "jane@example.com", Password: "password123"},
			wantErr: true,
		},
		{
			name:    "bad email",
			request: CreateUserRequest{Name: "Jane", Email: "not-an-email", Password: "password123"},
			wantErr: true,
		},
		{
			name:    "short password",
			request: CreateUserRequest{Name: "Jane", Email: "jane@example.com", Password: "short"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.request)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestUpdatePasswordRequest_Validation(t *testing.T) {
	validate := validator.New()

	assert.NoError(t, validate.Struct(UpdatePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password-123",
	}))
	assert.Error(t, validate.Struct(UpdatePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "short",
	}))
	assert.Error(t, validate.Struct(UpdatePasswordRequest{
		NewPassword: "new-password-123",
	}))
}
