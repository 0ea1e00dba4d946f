package crm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateEmail indicates a customer with the same email already exists.
	ErrDuplicateEmail = errors.New("a customer with this email already exists")
	// ErrInvalidPhone indicates the phone number matches neither accepted format.
	ErrInvalidPhone = errors.New("phone number must be in the format '+999999999' or '123-456-7890'")
	// ErrInvalidPrice indicates a non-positive product price.
	ErrInvalidPrice = errors.New("price must be a positive number")
	// ErrInvalidStock indicates a negative stock quantity.
	ErrInvalidStock = errors.New("stock cannot be negative")
	// ErrCustomerNotFound indicates the referenced customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrEmptyProductList indicates an order was requested with no products.
	ErrEmptyProductList = errors.New("at least one product must be selected for an order")
)

// InvalidProductIDsError reports the product IDs that could not be
// resolved while creating an order, in request order.
type InvalidProductIDsError struct {
	IDs []string
}

func (e *InvalidProductIDsError) Error() string {
	return fmt.Sprintf("invalid product IDs found: %s", strings.Join(e.IDs, ", "))
}

// BatchInsertError wraps a store-level failure that aborted an entire
// customer batch insert.
type BatchInsertError struct {
	Err error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("an unexpected error occurred during bulk creation: %v", e.Err)
}

func (e *BatchInsertError) Unwrap() error {
	return e.Err
}

// RowError records a per-row failure in a bulk operation without
// aborting sibling rows. Row is 1-based, matching input order.
type RowError struct {
	Row    int    `json:"row"`
	Email  string `json:"email,omitempty"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	if e.Email != "" {
		return fmt.Sprintf("row %d (%s): %s", e.Row, e.Email, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}
