package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"domain not found", "ENTRY_NOT_FOUND", ErrCodeNotFound},
		{"duplicate", "ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"state transition", "INVALID_STATE", ErrCodeInvalidState},
		{"unbalanced entry", "UNBALANCED_ENTRY", ErrCodeUnbalancedEntry},
		{"advance balance", "INSUFFICIENT_BALANCE", ErrCodeInsufficientBalance},
		{"daily advance limit", "DAILY_LIMIT", ErrCodeDailyLimit},
		{"depreciation floor", "DEPRECIATION_FLOOR", ErrCodeBusinessRule},
		{"field validation fallback", "INVALID_AMOUNT", ErrCodeInvalidInput},
		{"already normalized", ErrCodeNotFound, ErrCodeNotFound},
		{"unknown passes through", "SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.code))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeAlreadyExists))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeUnbalancedEntry))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeDailyLimit))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeInvalidInput))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("NO_SUCH_CODE"))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 41, 2, 20)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
