package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorStatusCode(t *testing.T) {
	testCases := []struct {
		Name     string
		Err      error
		Expected int
	}{
		{Name: "customer not found", Err: ErrCustomerNotFound, Expected: http.StatusNotFound},
		{Name: "invalid product", Err: ErrInvalidProduct, Expected: http.StatusBadRequest},
		{Name: "insufficient stock", Err: ErrInsufficientStock, Expected: http.StatusConflict},
		{Name: "duplicate product", Err: ErrDuplicateProduct, Expected: http.StatusBadRequest},
		{Name: "stock conflict", Err: ErrStockConflict, Expected: http.StatusConflict},
		{Name: "forbidden", Err: ErrForbidden, Expected: http.StatusForbidden},
		{Name: "wrapped domain error", Err: fmt.Errorf("PlaceOrder: %w", ErrInsufficientStock), Expected: http.StatusConflict},
		{Name: "unknown error", Err: errors.New("connection reset"), Expected: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, GetErrorStatusCode(tc.Err))
		})
	}
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(ErrCustomerNotFound))
	assert.True(t, IsDomainError(ErrInvalidProduct))
	assert.True(t, IsDomainError(fmt.Errorf("wrapped: %w", ErrInsufficientStock)))
	assert.False(t, IsDomainError(ErrInternalServer))
	assert.False(t, IsDomainError(errors.New("pq: connection refused")))
	assert.False(t, IsDomainError(nil))
}
