package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.ErrInvalidInput.Code, http.StatusBadRequest},
		{shared.ErrInsufficientStock.Code, http.StatusBadRequest},
		{ErrCodeExceedsOutstanding, http.StatusBadRequest},
		{ErrCodeStockNotEmpty, http.StatusBadRequest},
		{ErrCodeBranchInUse, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusBadRequest},
		{shared.ErrUnauthorized.Code, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{shared.ErrAccessDenied.Code, http.StatusForbidden},
		{shared.ErrNotFound.Code, http.StatusNotFound},
		{shared.ErrAlreadyExists.Code, http.StatusConflict},
		{shared.ErrDuplicateRequest.Code, http.StatusConflict},
		{shared.ErrConcurrencyConflict.Code, http.StatusConflict},
		{shared.ErrPersistence.Code, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestDomainCodesMatchSentinels(t *testing.T) {
	assert.Equal(t, shared.ErrInvalidState.Code, ErrCodeInvalidState)
	assert.Equal(t, shared.ErrInsufficientStock.Code, ErrCodeInsufficientStock)
	assert.Equal(t, shared.ErrDuplicateRequest.Code, ErrCodeDuplicateRequest)
	assert.Equal(t, shared.ErrAccessDenied.Code, ErrCodeAccessDenied)
}

func TestErrorEnvelope(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "tonnage", Message: "Must be greater than 0"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "data")

	errBody := body["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errBody["code"])
	assert.Equal(t, "req-1", errBody["request_id"])
	assert.Len(t, errBody["details"], 1)
}

func TestSuccessWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, Meta{Total: 12, Page: 2, PageSize: 10, TotalPages: 2})
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	assert.Nil(t, resp.Error)
}
