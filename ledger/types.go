/*
Package ledger provides the customer balance and ordering engine.

PURPOSE:
  Given an unordered set of dated credit/debit transactions, this package
  derives every number the rest of the system shows: current balance,
  running balances in chronological order, date-range statements and
  global totals. All functions are pure. They never touch storage and
  never keep state between calls.

KEY CONCEPTS IN THIS FILE (types.go):
  - Customer: A party the business extends credit to
  - Transaction: An immutable dated credit or debit against one customer
  - CustomerID / TransactionID: Clock-derived integer identifiers

SIGN CONVENTION:
  credit = the customer owes more (adds to balance)
  debit  = the customer paid (subtracts from balance)

  Positive balance = customer owes
  Negative balance = advance paid
  Zero             = settled

IMMUTABILITY:
  Transactions are only created and deleted. Corrections are made by
  deleting and re-entering. Balance is never stored, it is always
  recomputed from the transaction set.

SEE ALSO:
  - balance.go: Signed fold producing the current balance
  - order.go: Chronological ordering and running balances
  - statement.go: Opening/closing balances for a date window
  - report.go: Global totals and the reset guard
*/
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CustomerID int64
type TransactionID int64

// =============================================================================
// TRANSACTION TYPE
// =============================================================================

type TransactionType string

const (
	TxCredit TransactionType = "credit" // Customer owes more
	TxDebit  TransactionType = "debit"  // Customer paid
)

// ParseTransactionType accepts "credit" or "debit" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case TxCredit:
		return TxCredit, nil
	case TxDebit:
		return TxDebit, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTransactionType, s)
}

// =============================================================================
// CUSTOMER
// =============================================================================

type Customer struct {
	ID        CustomerID
	Name      string
	Phone     string
	Notes     string
	CreatedAt time.Time
}

// NewCustomer validates input and builds a customer. Name uniqueness needs
// the full collection and is checked by the caller.
func NewCustomer(id CustomerID, name, phone, notes string, now time.Time) (Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Customer{}, ErrEmptyName
	}
	return Customer{
		ID:        id,
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		Notes:     strings.TrimSpace(notes),
		CreatedAt: now.UTC(),
	}, nil
}

// =============================================================================
// TRANSACTION
// =============================================================================

// DescriptionPlaceholder is stored when a transaction has no description.
const DescriptionPlaceholder = "-"

type Transaction struct {
	ID          TransactionID
	CustomerID  CustomerID
	Type        TransactionType
	Amount      decimal.Decimal // Always positive, 2 decimal places
	Date        Date
	Description string
	CreatedAt   time.Time // Display only, never used for ordering
}

// NewTransaction validates input and builds a transaction. The amount is
// rounded to 2 decimal places and must still be positive afterwards.
func NewTransaction(id TransactionID, customerID CustomerID, txType string, amount decimal.Decimal, date Date, description string, now time.Time) (Transaction, error) {
	t, err := ParseTransactionType(txType)
	if err != nil {
		return Transaction{}, err
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amount.String())
	}
	if date.IsZero() {
		return Transaction{}, ErrMissingDate
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = DescriptionPlaceholder
	}
	return Transaction{
		ID:          id,
		CustomerID:  customerID,
		Type:        t,
		Amount:      amount,
		Date:        date,
		Description: description,
		CreatedAt:   now.UTC(),
	}, nil
}
