package service

import (
	"errors"
	"fmt"
)

// Checkout validation errors. All are recoverable: they are reported to the
// caller verbatim with the offending field or product named, and nothing is
// persisted when any of them fires.
var (
	ErrUnknownSeller        = errors.New("seller code does not exist")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaidTotal     = errors.New("paid total must be greater than 0")
	ErrPaidExceedsSuggested = errors.New("paid total cannot exceed the suggested total")
	ErrProductNotFound      = errors.New("product not found")
)

// MissingCustomerFieldError names the required customer field that is absent.
type MissingCustomerFieldError struct {
	Field string
}

func (e *MissingCustomerFieldError) Error() string {
	return fmt.Sprintf("missing customer field: %s", e.Field)
}

// MissingSizeSelectionError fires when a product tracked by size reaches
// checkout with no size-quantity selection.
type MissingSizeSelectionError struct {
	Product string
}

func (e *MissingSizeSelectionError) Error() string {
	return fmt.Sprintf("missing size selection for: %s", e.Product)
}

// InvalidSizeError names a requested size the product does not carry.
type InvalidSizeError struct {
	Product string
	Size    string
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("product %s has no size %q", e.Product, e.Size)
}

// InsufficientStockError reports the exact deficit so the caller can re-fetch
// availability and retry with an adjusted quantity.
type InsufficientStockError struct {
	Product   string
	Size      string // empty for sizeless products
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	if e.Size != "" {
		return fmt.Sprintf("insufficient stock for %s size %s: available %d, requested %d",
			e.Product, e.Size, e.Available, e.Requested)
	}
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.Product, e.Available, e.Requested)
}
