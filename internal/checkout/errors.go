package checkout

import (
	"errors"
	"fmt"
)

// Validation errors are detected before any mutation and are returned to the
// caller as recoverable conditions. TransactionError wraps a persistence
// failure inside the atomic block, after which everything is rolled back.
var (
	ErrEmptyCart        = errors.New("your cart is empty")
	ErrOrderNotFound    = errors.New("order not found")
	ErrAlreadyCompleted = errors.New("cannot cancel a completed order")
	ErrInvalidState     = errors.New("only processing orders can be marked as received")
)

type AlreadyOrderedError struct{ ProductName string }

func (e *AlreadyOrderedError) Error() string {
	return fmt.Sprintf("'%s' was already ordered", e.ProductName)
}

type AlreadySoldError struct{ ProductName string }

func (e *AlreadySoldError) Error() string {
	return fmt.Sprintf("'%s' is already sold", e.ProductName)
}

type RejectedProductError struct{ ProductName string }

func (e *RejectedProductError) Error() string {
	return fmt.Sprintf("'%s' is rejected", e.ProductName)
}

type ProductNotFoundError struct{ ProductID string }

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

type TransactionError struct {
	Step string
	Err  error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("checkout transaction failed at %s: %v", e.Step, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a user-correctable checkout error, as
// opposed to a transaction failure.
func IsValidation(err error) bool {
	var ao *AlreadyOrderedError
	var as *AlreadySoldError
	var rp *RejectedProductError
	var pn *ProductNotFoundError
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrInvalidState) ||
		errors.As(err, &ao) || errors.As(err, &as) ||
		errors.As(err, &rp) || errors.As(err, &pn)
}
