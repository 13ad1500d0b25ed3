package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"VALIDATION_ERROR", http.StatusBadRequest},
		{"INVALID_INPUT", http.StatusBadRequest},
		{"INVALID_RATING", http.StatusBadRequest},
		{"INVALID_VERIFICATION_CODE", http.StatusBadRequest},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"EMAIL_NOT_VERIFIED", http.StatusForbidden},
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"EMPTY_CART", http.StatusUnprocessableEntity},
		{"CART_CHANGED", http.StatusConflict},
		{"NOT_CANCELLABLE", http.StatusUnprocessableEntity},
		{"RETURN_NOT_ALLOWED", http.StatusUnprocessableEntity},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"RATE_LIMIT_EXCEEDED", http.StatusTooManyRequests},
		{"PASSWORD_HASH_ERROR", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestResponseEnvelope(t *testing.T) {
	t.Run("success omits error", func(t *testing.T) {
		data, err := json.Marshal(NewSuccessResponse(map[string]int{"count": 2}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":{"count":2}}`, string(data))
	})

	t.Run("error carries details", func(t *testing.T) {
		resp := NewErrorResponseWithDetails("INSUFFICIENT_STOCK", "Insufficient stock", "req-1",
			map[string]any{"requested": 10, "available": 3})
		data, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"success": false,
			"error": {
				"code": "INSUFFICIENT_STOCK",
				"message": "Insufficient stock",
				"request_id": "req-1",
				"details": {"requested": 10, "available": 3}
			}
		}`, string(data))
	})

	t.Run("validation lists fields", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "",
			[]ValidationDetail{{Field: "quantity", Message: "Must be at least 1"}})
		assert.False(t, resp.Success)
		assert.Equal(t, ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Fields, 1)
	})
}
