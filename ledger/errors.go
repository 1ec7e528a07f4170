/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The service layer wraps these with context, the API layer maps them
  to HTTP status codes through the helpers at the bottom of this file.

ERROR CATEGORIES:
  1. Validation errors - Rejected before any state change
  2. Lookup errors - Referenced customer or transaction is missing
  3. Store errors - Concurrent writers detected by the version check

USAGE:
  if errors.Is(err, ledger.ErrDuplicateCustomerName) {
      // tell the user to pick another name
  }

SEE ALSO:
  - types.go: Constructors returning validation errors
  - store.go: Commit returning ErrConcurrentModification
  - customerledger/service.go: Wraps these errors with context
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptyName is returned when a customer name is blank.
	ErrEmptyName = errors.New("customer name is required")

	// ErrDuplicateCustomerName is returned when another customer already has
	// the same name, compared case-insensitively.
	ErrDuplicateCustomerName = errors.New("customer name already exists")

	// ErrInvalidAmount is returned when an amount is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrMissingDate is returned when a transaction has no date.
	ErrMissingDate = errors.New("transaction date is required")

	// ErrUnknownTransactionType is returned for anything but credit or debit.
	ErrUnknownTransactionType = errors.New("transaction type must be credit or debit")

	// ErrInvalidPeriod is returned when a statement window ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrResetNotAllowed is returned when a reset is requested while money is
	// still pending or when there is nothing to reset.
	ErrResetNotAllowed = errors.New("reset not allowed: pending amount must be zero with recorded activity")

	// ErrNothingToReset is returned when a reset is requested on a ledger
	// with no recorded activity.
	ErrNothingToReset = fmt.Errorf("%w: no activity to reset", ErrResetNotAllowed)

	// ErrConfirmationRequired is returned when a destructive action is not confirmed.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrCustomerNotFound is returned when a referenced customer doesn't exist.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrTransactionNotFound is returned when a referenced transaction doesn't exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrConcurrentModification is returned when the stored version moved
	// between load and commit.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateNameError names the customer that already owns a name.
type DuplicateNameError struct {
	Name       string
	ExistingID CustomerID
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("customer name already exists: %q (customer %d)", e.Name, e.ExistingID)
}

func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateCustomerName
}

// PendingBalanceError reports why a reset was refused.
type PendingBalanceError struct {
	Totals Totals
}

func (e *PendingBalanceError) Error() string {
	return fmt.Sprintf("reset not allowed: credit %s, debit %s, pending %s",
		e.Totals.Credit.StringFixed(2), e.Totals.Debit.StringFixed(2), e.Totals.Pending().StringFixed(2))
}

func (e *PendingBalanceError) Unwrap() error {
	return ErrResetNotAllowed
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrMissingDate) ||
		errors.Is(err, ErrUnknownTransactionType) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrConfirmationRequired)
}

// IsConflict returns true if the request clashes with current state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateCustomerName) ||
		errors.Is(err, ErrResetNotAllowed)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}
