package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Cart errors
	ErrCartNotFound    = errors.New("cart not found")
	ErrCartEmpty       = errors.New("cart is empty")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrCartKeyRequired = errors.New("cart key required")

	// Catalog errors
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")

	// Hold errors
	ErrHoldUnavailable = errors.New("inventory hold unavailable")
	ErrHoldsDisabled   = errors.New("inventory holds disabled")

	// Checkout errors
	ErrCheckoutBlocked = errors.New("checkout blocked by stock issues")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
