package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrVendorConflict matches every *VendorConflictError.
	ErrVendorConflict  = errors.New("cart: item belongs to a different vendor")
	ErrVendorRequired  = errors.New("cart: item vendor is required")
	ErrProductRequired = errors.New("cart: item product is required")
	// ErrCheckoutClear reports that the checkout callback succeeded but the
	// stored cart could not be deleted afterwards.
	ErrCheckoutClear = errors.New("cart: clear after checkout failed")
)

// VendorConflictError reports an add rejected because the cart already holds
// another vendor's items. The cart is left untouched.
type VendorConflictError struct {
	CartVendorID string
	ItemVendorID string
}

func (e *VendorConflictError) Error() string {
	return fmt.Sprintf("cart: holds items from vendor %s, cannot add item from vendor %s", e.CartVendorID, e.ItemVendorID)
}

func (e *VendorConflictError) Is(target error) bool {
	return target == ErrVendorConflict
}

const unprovisionedMessage = "cart: use of unprovisioned cart"
