package cart

import "errors"

var (
	// ErrProductNotFound is returned when an operation targets a product
	// that has no line in the cart.
	ErrProductNotFound = errors.New("product not found in cart")

	// ErrInvalidAmount is returned when an update requests an amount below 1.
	// Reducing a line to zero is done with RemoveProduct, not an update.
	ErrInvalidAmount = errors.New("invalid product amount")

	// ErrOutOfStock is returned when the requested quantity exceeds the
	// available stock. It is an expected rejection, not a failure.
	ErrOutOfStock = errors.New("requested amount exceeds available stock")
)
