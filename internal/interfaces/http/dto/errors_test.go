package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"validation error", "VALIDATION_ERROR", ErrCodeValidation},
		{"not found", "NOT_FOUND", ErrCodeNotFound},
		{"conflict", "CONFLICT", ErrCodeConflict},
		{"deadline expired", "DEADLINE_EXPIRED", ErrCodeDeadlineExpired},
		{"configuration", "CONFIGURATION_ERROR", ErrCodeConfiguration},
		{"external service", "EXTERNAL_SERVICE_ERROR", ErrCodeExternalService},
		{"already normalized", ErrCodeConflict, ErrCodeConflict},
		{"unknown passes through", "SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"validation maps to 400", ErrCodeValidation, http.StatusBadRequest},
		{"not found maps to 404", ErrCodeNotFound, http.StatusNotFound},
		{"conflict maps to 409", ErrCodeConflict, http.StatusConflict},
		{"deadline expired maps to 422", ErrCodeDeadlineExpired, http.StatusUnprocessableEntity},
		{"configuration maps to 500", ErrCodeConfiguration, http.StatusInternalServerError},
		{"external service maps to 502", ErrCodeExternalService, http.StatusBadGateway},
		{"unknown maps to 500", "NO_SUCH_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}
