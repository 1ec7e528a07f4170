/*
statement.go - Date-range statements

PURPOSE:
  Builds the account statement for one customer over [start, end],
  inclusive on both ends, comparing calendar dates only.

PARTITION:
  before  : date <  start  -> folded into the opening balance
  inRange : start <= date <= end -> statement rows
  after   : date >  end    -> ignored

BALANCES:
  Opening = signed sum of before (walked in chronological order)
  Row i   = Opening + signed sum of inRange[0..i]
  Closing = Opening + signed sum of inRange

  Totals (credit, debit) cover inRange only.

EMPTY WINDOW:
  When no transaction falls in the window the statement is still returned
  with Empty set. Opening and Closing are then equal. Callers use Empty to
  render "no transactions in range" instead of a blank table, which keeps
  it distinct from a window whose transactions net to zero.

SEE ALSO:
  - order.go: Canonical order used for the walk
  - export/csv.go: CSV rendering of a Statement
*/
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Statement struct {
	CustomerID     CustomerID
	Start          Date
	End            Date
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	Rows           []Entry
	TotalCredit    decimal.Decimal
	TotalDebit     decimal.Decimal
	Empty          bool
}

// ComputeStatement returns ErrInvalidPeriod when start is after end.
func ComputeStatement(customerID CustomerID, txs []Transaction, start, end Date) (Statement, error) {
	if start.After(end) {
		return Statement{}, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod, start, end)
	}

	stmt := Statement{
		CustomerID:     customerID,
		Start:          start,
		End:            end,
		OpeningBalance: decimal.Zero,
		TotalCredit:    decimal.Zero,
		TotalDebit:     decimal.Zero,
		Rows:           []Entry{},
	}

	ordered := OrderChronologically(ForCustomer(customerID, txs))

	// Everything before the window sorts ahead of it, so the opening
	// balance is final by the time the first row is reached.
	for _, tx := range ordered {
		if tx.Date.Before(start) {
			stmt.OpeningBalance = stmt.OpeningBalance.Add(SignedAmount(tx))
		}
	}

	running := stmt.OpeningBalance
	for _, tx := range ordered {
		if !tx.Date.Within(start, end) {
			continue
		}
		running = running.Add(SignedAmount(tx))
		stmt.Rows = append(stmt.Rows, Entry{Transaction: tx, BalanceAfter: running})

		switch tx.Type {
		case TxCredit:
			stmt.TotalCredit = stmt.TotalCredit.Add(tx.Amount)
		case TxDebit:
			stmt.TotalDebit = stmt.TotalDebit.Add(tx.Amount)
		}
	}

	stmt.ClosingBalance = running
	stmt.Empty = len(stmt.Rows) == 0
	return stmt, nil
}
