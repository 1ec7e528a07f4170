/*
balance.go - Current balance from the transaction set

PURPOSE:
  Answers "how much does this customer owe right now?". The balance is a
  signed fold over the customer's transactions. It is never persisted, so
  it can never drift from the transactions it is derived from.

SIGNED FOLD:
  credit  -> +amount
  debit   -> -amount
  other   ->  0 (ignored, legacy data only; new records are validated)

  The same SignedAmount is used by the running-balance walk and the
  statement engine. All three views agree by construction.

EXAMPLE:
  Credit 100, Debit 30, Credit 50  ->  120 (customer owes)
  Credit 100, Debit 150            ->  -50 (advance paid)

SEE ALSO:
  - order.go: Running balances use SignedAmount in chronological order
  - statement.go: Opening and closing balances
*/
package ledger

import "github.com/shopspring/decimal"

// SignedAmount is the contribution of one transaction to a balance.
func SignedAmount(tx Transaction) decimal.Decimal {
	switch tx.Type {
	case TxCredit:
		return tx.Amount
	case TxDebit:
		return tx.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// ComputeBalance returns the balance of one customer. Transactions for
// other customers are skipped, so the full collection can be passed in.
func ComputeBalance(customerID CustomerID, txs []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		if tx.CustomerID != customerID {
			continue
		}
		balance = balance.Add(SignedAmount(tx))
	}
	return balance
}

// Balances computes every customer's balance in a single pass. Customers
// without transactions are absent from the map; their balance is zero.
func Balances(txs []Transaction) map[CustomerID]decimal.Decimal {
	result := make(map[CustomerID]decimal.Decimal)
	for _, tx := range txs {
		result[tx.CustomerID] = result[tx.CustomerID].Add(SignedAmount(tx))
	}
	return result
}

// ForCustomer returns the customer's transactions in input order.
func ForCustomer(customerID CustomerID, txs []Transaction) []Transaction {
	var result []Transaction
	for _, tx := range txs {
		if tx.CustomerID == customerID {
			result = append(result, tx)
		}
	}
	return result
}
