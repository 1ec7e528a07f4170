/*
order.go - Chronological ordering and running balances

PURPOSE:
  Defines the one canonical order of a customer's transactions and walks
  it once to attach a running balance to every entry.

CANONICAL ORDER:
  1. Date ascending (calendar day)
  2. ID ascending (tie-break for same-day entries)

  IDs are unique, so this is a total order. The result depends only on the
  set of transactions, never on the order they were stored or loaded in.

DISPLAY ORDER:
  Running balances are always computed oldest-first. Showing newest-first
  is a reversal of the computed entries, done by InDisplayOrder. A
  balance is never recomputed by walking backwards.

EXAMPLE:
  Input (stored order):
    id=5  2024-01-10 credit 100
    id=3  2024-01-10 debit   40
    id=9  2024-01-05 credit  20

  Chronological:           BalanceAfter
    id=9  2024-01-05  +20      20
    id=3  2024-01-10  -40     -20
    id=5  2024-01-10 +100      80

SEE ALSO:
  - balance.go: SignedAmount
  - statement.go: Uses the same order for date windows
*/
package ledger

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ORDERING
// =============================================================================

// CompareChronological orders by date, then by id.
func CompareChronological(a, b Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// OrderChronologically returns a sorted copy. The input is not modified.
func OrderChronologically(txs []Transaction) []Transaction {
	result := make([]Transaction, len(txs))
	copy(result, txs)
	slices.SortFunc(result, CompareChronological)
	return result
}

// =============================================================================
// RUNNING BALANCE
// =============================================================================

// Entry is a transaction with the customer's balance right after it.
type Entry struct {
	Transaction
	BalanceAfter decimal.Decimal
}

// ComputeRunningBalances orders the transactions of one customer and walks
// them once. The last entry's BalanceAfter equals ComputeBalance for the
// same set.
func ComputeRunningBalances(txs []Transaction) []Entry {
	ordered := OrderChronologically(txs)
	entries := make([]Entry, len(ordered))

	running := decimal.Zero
	for i, tx := range ordered {
		running = running.Add(SignedAmount(tx))
		entries[i] = Entry{Transaction: tx, BalanceAfter: running}
	}
	return entries
}

// =============================================================================
// DISPLAY ORDER
// =============================================================================

type SortOrder string

const (
	OldestFirst SortOrder = "oldest"
	NewestFirst SortOrder = "newest"
)

// ParseSortOrder defaults to OldestFirst when s is empty.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OldestFirst:
		return OldestFirst, nil
	case NewestFirst:
		return NewestFirst, nil
	}
	return "", fmt.Errorf("invalid sort order %q: must be %q or %q", s, OldestFirst, NewestFirst)
}

// Toggle flips between the two orders.
func (o SortOrder) Toggle() SortOrder {
	if o == NewestFirst {
		return OldestFirst
	}
	return NewestFirst
}

// InDisplayOrder re-presents already computed entries. Balances are
// carried over untouched.
func InDisplayOrder(entries []Entry, order SortOrder) []Entry {
	result := make([]Entry, len(entries))
	copy(result, entries)
	if order == NewestFirst {
		slices.Reverse(result)
	}
	return result
}
