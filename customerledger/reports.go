package customerledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

// CustomerStatement pairs a statement with the customer it belongs to, for
// headers in exports.
type CustomerStatement struct {
	Customer ledger.Customer
	ledger.Statement
}

// Summary is the report page: totals over every transaction.
type Summary struct {
	Totals       ledger.Totals
	ResetAllowed bool
	Customers    int
	Transactions int
	Initialized  bool
}

// Statement returns ledger.ErrInvalidPeriod when start is after end.
func (s *Service) Statement(ctx context.Context, id ledger.CustomerID, start, end ledger.Date) (CustomerStatement, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return CustomerStatement{}, err
	}
	c, ok := snap.Customer(id)
	if !ok {
		return CustomerStatement{}, fmt.Errorf("%w: %d", ledger.ErrCustomerNotFound, id)
	}
	stmt, err := ledger.ComputeStatement(id, snap.Transactions, start, end)
	if err != nil {
		return CustomerStatement{}, err
	}
	return CustomerStatement{Customer: c, Statement: stmt}, nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Summary{}, err
	}
	totals := ledger.ComputeGlobalTotals(snap.Transactions)
	return Summary{
		Totals:       totals,
		ResetAllowed: totals.ResetAllowed(),
		Customers:    len(snap.Customers),
		Transactions: len(snap.Transactions),
		Initialized:  snap.Initialized,
	}, nil
}

// ResetReports closes the books: all transactions are removed, customers
// stay and every balance becomes zero. Only allowed when nothing is
// pending and there has been activity.
func (s *Service) ResetReports(ctx context.Context, confirm bool) (int, error) {
	if err := requireConfirmation(confirm); err != nil {
		return 0, err
	}

	var removed int
	err := s.mutate(ctx, "reset_reports", func(snap *ledger.Snapshot) error {
		totals := ledger.ComputeGlobalTotals(snap.Transactions)
		if totals.Credit.IsZero() && totals.Debit.IsZero() {
			return ledger.ErrNothingToReset
		}
		if !totals.ResetAllowed() {
			return &ledger.PendingBalanceError{Totals: totals}
		}
		removed = len(snap.Transactions)
		snap.Transactions = []ledger.Transaction{}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("reports reset", zap.Int("transactions_removed", removed))
	return removed, nil
}

// ClearAll wipes both collections.
func (s *Service) ClearAll(ctx context.Context, confirm bool) error {
	if err := requireConfirmation(confirm); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.log.Error("clear failed", zap.Error(err))
		return err
	}
	s.log.Warn("all ledger data cleared")
	return nil
}
