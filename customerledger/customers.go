package customerledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

// =============================================================================
// TYPES
// =============================================================================

type NewCustomer struct {
	Name  string
	Phone string
	Notes string
}

// CustomerSummary is one row of the customer list.
type CustomerSummary struct {
	Customer ledger.Customer
	Balance  decimal.Decimal
	Status   ledger.BalanceStatus
}

// CustomerDetail is the full ledger view of one customer.
type CustomerDetail struct {
	Customer ledger.Customer
	Balance  decimal.Decimal
	Status   ledger.BalanceStatus
	Order    ledger.SortOrder
	Entries  []ledger.Entry // In the requested display order
	Totals   ledger.Totals
}

// =============================================================================
// WRITES
// =============================================================================

// AddCustomer rejects blank names and names already taken by another
// customer, compared case-insensitively.
func (s *Service) AddCustomer(ctx context.Context, in NewCustomer) (ledger.Customer, error) {
	var created ledger.Customer
	err := s.mutate(ctx, "add_customer", func(snap *ledger.Snapshot) error {
		c, err := ledger.NewCustomer(ledger.CustomerID(s.nextID(snap)), in.Name, in.Phone, in.Notes, s.now())
		if err != nil {
			return err
		}
		for _, existing := range snap.Customers {
			if strings.EqualFold(existing.Name, c.Name) {
				return &ledger.DuplicateNameError{Name: c.Name, ExistingID: existing.ID}
			}
		}
		snap.Customers = append(snap.Customers, c)
		created = c
		return nil
	})
	if err != nil {
		return ledger.Customer{}, err
	}

	s.log.Info("customer added", zap.Int64("customer_id", int64(created.ID)), zap.String("name", created.Name))
	return created, nil
}

// DeleteCustomer removes the customer and every one of its transactions in
// a single commit. Returns how many transactions went with it.
func (s *Service) DeleteCustomer(ctx context.Context, id ledger.CustomerID) (int, error) {
	var removed int
	err := s.mutate(ctx, "delete_customer", func(snap *ledger.Snapshot) error {
		if _, ok := snap.Customer(id); !ok {
			return fmt.Errorf("%w: %d", ledger.ErrCustomerNotFound, id)
		}

		customers := make([]ledger.Customer, 0, len(snap.Customers))
		for _, c := range snap.Customers {
			if c.ID != id {
				customers = append(customers, c)
			}
		}
		txs := make([]ledger.Transaction, 0, len(snap.Transactions))
		for _, tx := range snap.Transactions {
			if tx.CustomerID != id {
				txs = append(txs, tx)
			}
		}

		removed = len(snap.Transactions) - len(txs)
		snap.Customers = customers
		snap.Transactions = txs
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("customer deleted", zap.Int64("customer_id", int64(id)), zap.Int("transactions_removed", removed))
	return removed, nil
}

// =============================================================================
// READS
// =============================================================================

// ListCustomers returns customers sorted by name with their balances. A
// non-empty query keeps only customers whose name or phone contains it,
// ignoring case.
func (s *Service) ListCustomers(ctx context.Context, query string) ([]CustomerSummary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	balances := ledger.Balances(snap.Transactions)
	query = strings.ToLower(strings.TrimSpace(query))

	result := make([]CustomerSummary, 0, len(snap.Customers))
	for _, c := range snap.Customers {
		if query != "" && !matches(c, query) {
			continue
		}
		balance := balances[c.ID]
		result = append(result, CustomerSummary{
			Customer: c,
			Balance:  balance,
			Status:   ledger.StatusOf(balance),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].Customer.Name), strings.ToLower(result[j].Customer.Name)
		if a != b {
			return a < b
		}
		return result[i].Customer.ID < result[j].Customer.ID
	})
	return result, nil
}

func matches(c ledger.Customer, lowered string) bool {
	return strings.Contains(strings.ToLower(c.Name), lowered) ||
		strings.Contains(strings.ToLower(c.Phone), lowered)
}

// CustomerDetail computes running balances oldest-first and then presents
// them in the requested order.
func (s *Service) CustomerDetail(ctx context.Context, id ledger.CustomerID, order ledger.SortOrder) (CustomerDetail, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return CustomerDetail{}, err
	}
	c, ok := snap.Customer(id)
	if !ok {
		return CustomerDetail{}, fmt.Errorf("%w: %d", ledger.ErrCustomerNotFound, id)
	}

	txs := ledger.ForCustomer(id, snap.Transactions)
	entries := ledger.ComputeRunningBalances(txs)
	balance := ledger.ComputeBalance(id, txs)

	return CustomerDetail{
		Customer: c,
		Balance:  balance,
		Status:   ledger.StatusOf(balance),
		Order:    order,
		Entries:  ledger.InDisplayOrder(entries, order),
		Totals:   ledger.ComputeGlobalTotals(txs),
	}, nil
}
