// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	customers    []ledger.Customer
	transactions []ledger.Transaction
	version      int64
	initialized  bool
}

func NewMemory() *Memory {
	return &Memory{}
}

// Load returns copies so callers can modify the snapshot freely.
func (m *Memory) Load(_ context.Context) (ledger.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return ledger.Snapshot{
		Customers:    cloneCustomers(m.customers),
		Transactions: cloneTransactions(m.transactions),
		Version:      m.version,
		Initialized:  m.initialized,
	}, nil
}

func (m *Memory) SaveCustomers(_ context.Context, customers []ledger.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.customers = cloneCustomers(customers)
	m.bumpLocked()
	return nil
}

func (m *Memory) SaveTransactions(_ context.Context, txs []ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = cloneTransactions(txs)
	m.bumpLocked()
	return nil
}

// Commit replaces both collections under one lock after checking the version.
func (m *Memory) Commit(_ context.Context, snap ledger.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if snap.Version != m.version {
		return ledger.ErrConcurrentModification
	}
	m.customers = cloneCustomers(snap.Customers)
	m.transactions = cloneTransactions(snap.Transactions)
	m.bumpLocked()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.customers = nil
	m.transactions = nil
	m.initialized = false
	// The version keeps counting so snapshots taken before the clear
	// cannot be committed over it.
	m.version++
	return nil
}

func (m *Memory) bumpLocked() {
	m.version++
	m.initialized = true
}

func cloneCustomers(in []ledger.Customer) []ledger.Customer {
	out := make([]ledger.Customer, len(in))
	copy(out, in)
	return out
}

func cloneTransactions(in []ledger.Transaction) []ledger.Transaction {
	out := make([]ledger.Transaction, len(in))
	copy(out, in)
	return out
}
