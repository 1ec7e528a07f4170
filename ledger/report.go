package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// TOTALS - Aggregate credit/debit across a transaction set
// =============================================================================

// Totals sums credits and debits separately. Pending is what customers
// still owe in aggregate.
type Totals struct {
	Credit decimal.Decimal
	Debit  decimal.Decimal
}

func (t Totals) Pending() decimal.Decimal { return t.Credit.Sub(t.Debit) }

// ResetAllowed reports whether the books can be closed.
func (t Totals) ResetAllowed() bool { return ResetAllowed(t.Credit, t.Debit) }

// ComputeGlobalTotals sums over all transactions regardless of customer.
func ComputeGlobalTotals(txs []Transaction) Totals {
	totals := Totals{Credit: decimal.Zero, Debit: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case TxCredit:
			totals.Credit = totals.Credit.Add(tx.Amount)
		case TxDebit:
			totals.Debit = totals.Debit.Add(tx.Amount)
		}
	}
	return totals
}

// CustomerTotals sums over a single customer's transactions.
func CustomerTotals(customerID CustomerID, txs []Transaction) Totals {
	return ComputeGlobalTotals(ForCustomer(customerID, txs))
}

// ResetAllowed is true only when nothing is pending and there has been
// some activity. Resetting an empty ledger is refused.
func ResetAllowed(credit, debit decimal.Decimal) bool {
	if credit.IsZero() && debit.IsZero() {
		return false
	}
	return credit.Sub(debit).IsZero()
}
