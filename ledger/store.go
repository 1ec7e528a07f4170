/*
store.go - Persistence contract for the two ledger collections

PURPOSE:
  Defines the interface between the service and whatever holds the data.
  The ledger is two whole collections (customers, transactions). Stores
  read and write them as units, there is no per-row API.

KEY TYPES:
  Store:    Load / SaveCustomers / SaveTransactions / Commit / Clear
  Snapshot: Both collections plus the version they were read at

PERSISTED LAYOUT:
  customer_ledger_customers    -> JSON list of customers
  customer_ledger_transactions -> JSON list of transactions
  (plus a version counter, bumped on every write)

ATOMIC COMMIT:
  Deleting a customer touches both collections. Commit writes both in one
  step, and only if nothing else wrote since the snapshot was loaded:

    snap, _ := store.Load(ctx)
    snap.Customers = without(snap.Customers, id)
    snap.Transactions = without(snap.Transactions, id)
    err := store.Commit(ctx, snap) // ErrConcurrentModification on conflict

  SaveCustomers/SaveTransactions stay available as plain last-writer-wins
  replacements of one collection.

UNINITIALIZED VS EMPTY:
  A store that was never written loads as empty with Initialized=false.
  A storage failure is an error, never an empty result.

IMPLEMENTATIONS:
  - ledger/store/memory.go: In-memory, for tests and local runs
  - store/sqlstore: SQLite or PostgreSQL document table
  - store/redisstore: Redis keys with WATCH/MULTI

SEE ALSO:
  - codec.go: JSON encoding shared by all implementations
  - customerledger/service.go: The only writer
*/
package ledger

import "context"

const (
	CustomersKey    = "customer_ledger_customers"
	TransactionsKey = "customer_ledger_transactions"
)

// Store persists the ledger collections.
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go
type Store interface {
	// Load returns both collections and the version they were read at.
	Load(ctx context.Context) (Snapshot, error)

	// SaveCustomers replaces the customer collection.
	SaveCustomers(ctx context.Context, customers []Customer) error

	// SaveTransactions replaces the transaction collection.
	SaveTransactions(ctx context.Context, txs []Transaction) error

	// Commit replaces both collections if the stored version still equals
	// snap.Version. Returns ErrConcurrentModification otherwise.
	Commit(ctx context.Context, snap Snapshot) error

	// Clear removes everything. The next Load is uninitialized.
	Clear(ctx context.Context) error
}

// Snapshot is a consistent read of the ledger.
type Snapshot struct {
	Customers    []Customer
	Transactions []Transaction
	Version      int64
	Initialized  bool
}

// Customer looks up a customer by id.
func (s Snapshot) Customer(id CustomerID) (Customer, bool) {
	for _, c := range s.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// Transaction looks up a transaction by id.
func (s Snapshot) Transaction(id TransactionID) (Transaction, bool) {
	for _, tx := range s.Transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}

// MaxID is the largest id in either collection, used as the floor for
// new ids.
func (s Snapshot) MaxID() int64 {
	var highest int64
	for _, c := range s.Customers {
		if int64(c.ID) > highest {
			highest = int64(c.ID)
		}
	}
	for _, tx := range s.Transactions {
		if int64(tx.ID) > highest {
			highest = int64(tx.ID)
		}
	}
	return highest
}

// PruneOrphans drops transactions whose customer no longer exists. Such
// rows can only come from older data written by two separate saves.
// Returns the kept transactions and how many were dropped.
func PruneOrphans(customers []Customer, txs []Transaction) ([]Transaction, int) {
	known := make(map[CustomerID]struct{}, len(customers))
	for _, c := range customers {
		known[c.ID] = struct{}{}
	}

	kept := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if _, ok := known[tx.CustomerID]; ok {
			kept = append(kept, tx)
		}
	}
	return kept, len(txs) - len(kept)
}
