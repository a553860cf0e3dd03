package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusUnauthorized   = http.StatusUnauthorized
	ErrStatusForbidden      = http.StatusForbidden
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
)

var (
	ErrInternalServer = errors.New("Internal server error")
	ErrClient         = errors.New("Bad request")
	ErrNotLoggedIn    = errors.New("Unauthorized access")
	ErrForbidden      = errors.New("Forbidden access")
	ErrNotFound       = errors.New("Resource not found")
	ErrConflict       = errors.New("Conflicting record found")

	ErrCustomerNotFound  = errors.New("Customer not registered")
	ErrInvalidProduct    = errors.New("Invalid product in array")
	ErrInsufficientStock = errors.New("Invalid product quantity in array")
	ErrDuplicateProduct  = errors.New("Duplicate product in array")
	ErrInvalidQuantity   = errors.New("Product quantity must be greater than zero")
	ErrEmptyOrder        = errors.New("Order must contain at least one product")
	ErrStockConflict     = errors.New("Product stock changed while placing the order")
)

var errorMap = map[error]int{
	ErrInternalServer:    ErrStatusInternalServer,
	ErrClient:            ErrStatusClient,
	ErrNotLoggedIn:       ErrStatusUnauthorized,
	ErrForbidden:         ErrStatusForbidden,
	ErrNotFound:          ErrStatusNotFound,
	ErrConflict:          ErrStatusConflict,
	ErrCustomerNotFound:  ErrStatusNotFound,
	ErrInvalidProduct:    ErrStatusClient,
	ErrInsufficientStock: ErrStatusConflict,
	ErrDuplicateProduct:  ErrStatusClient,
	ErrInvalidQuantity:   ErrStatusClient,
	ErrEmptyOrder:        ErrStatusClient,
	ErrStockConflict:     ErrStatusConflict,
}

// domainErrors are raised by the order workflow itself, as opposed to errors
// coming back from a repository or broker.
var domainErrors = []error{
	ErrCustomerNotFound,
	ErrInvalidProduct,
	ErrInsufficientStock,
	ErrDuplicateProduct,
	ErrInvalidQuantity,
	ErrEmptyOrder,
	ErrStockConflict,
}

func GetErrorStatusCode(err error) int {
	for target, status := range errorMap {
		if errors.Is(err, target) {
			return status
		}
	}

	return errorMap[ErrInternalServer]
}

func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
