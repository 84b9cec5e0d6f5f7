package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-matcher/internal/completion"
	"github.com/jonathan/cv-matcher/internal/export"
	"github.com/jonathan/cv-matcher/internal/ledger"
	"github.com/jonathan/cv-matcher/internal/match"
	"github.com/jonathan/cv-matcher/internal/parsing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"auth required", &ledger.AuthRequiredError{}, http.StatusUnauthorized},
		{"insufficient balance", &ledger.InsufficientBalanceError{Cost: 10, Balance: 3}, http.StatusPaymentRequired},
		{"missing input", &match.ValidationError{Message: "m"}, http.StatusBadRequest},
		{"unsupported export format", &export.UnsupportedFormatError{Format: "docx"}, http.StatusBadRequest},
		{"transport failure", &completion.TransportError{StatusCode: 429, Status: "429"}, http.StatusBadGateway},
		{"schema failure", &completion.SchemaError{Message: "no choices"}, http.StatusBadGateway},
		{"parse failure", &parsing.ParseError{Kind: parsing.KindScoreAnalysis, Message: "bad JSON"}, http.StatusBadGateway},
		{"email conflict", &ErrEmailAlreadyExists{Email: "a@b.c"}, http.StatusConflict},
		{"bad credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_Wrapped(t *testing.T) {
	// Stage-labeled errors from the analysis fan-out stay mapped.
	err := fmt.Errorf("optimization: %w", &parsing.ParseError{Kind: parsing.KindImprovementList, Message: "bad"})
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
}
