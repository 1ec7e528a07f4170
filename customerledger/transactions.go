package customerledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

// NewTransaction is user input for a credit or debit entry. Type is
// validated here, so unknown values never reach the store.
type NewTransaction struct {
	Type        string
	Amount      decimal.Decimal
	Date        ledger.Date
	Description string
}

// AddTransaction records a credit or debit against an existing customer.
func (s *Service) AddTransaction(ctx context.Context, customerID ledger.CustomerID, in NewTransaction) (ledger.Transaction, error) {
	var created ledger.Transaction
	err := s.mutate(ctx, "add_transaction", func(snap *ledger.Snapshot) error {
		if _, ok := snap.Customer(customerID); !ok {
			return fmt.Errorf("%w: %d", ledger.ErrCustomerNotFound, customerID)
		}
		tx, err := ledger.NewTransaction(
			ledger.TransactionID(s.nextID(snap)), customerID,
			in.Type, in.Amount, in.Date, in.Description, s.now(),
		)
		if err != nil {
			return err
		}
		snap.Transactions = append(snap.Transactions, tx)
		created = tx
		return nil
	})
	if err != nil {
		return ledger.Transaction{}, err
	}

	s.log.Info("transaction added",
		zap.Int64("transaction_id", int64(created.ID)),
		zap.Int64("customer_id", int64(customerID)),
		zap.String("type", string(created.Type)),
		zap.String("amount", created.Amount.StringFixed(2)),
		zap.Stringer("date", created.Date),
	)
	return created, nil
}

// DeleteTransaction removes a single transaction. Balances are derived, so
// nothing else needs updating.
func (s *Service) DeleteTransaction(ctx context.Context, id ledger.TransactionID) (ledger.Transaction, error) {
	var removed ledger.Transaction
	err := s.mutate(ctx, "delete_transaction", func(snap *ledger.Snapshot) error {
		tx, ok := snap.Transaction(id)
		if !ok {
			return fmt.Errorf("%w: %d", ledger.ErrTransactionNotFound, id)
		}
		kept := make([]ledger.Transaction, 0, len(snap.Transactions))
		for _, t := range snap.Transactions {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		snap.Transactions = kept
		removed = tx
		return nil
	})
	if err != nil {
		return ledger.Transaction{}, err
	}

	s.log.Info("transaction deleted", zap.Int64("transaction_id", int64(id)), zap.Int64("customer_id", int64(removed.CustomerID)))
	return removed, nil
}
