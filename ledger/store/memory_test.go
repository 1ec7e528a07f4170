package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger/store"
)

func TestMemory_FreshStoreIsUninitialized(t *testing.T) {
	m := store.NewMemory()

	snap, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Initialized)
	assert.Empty(t, snap.Customers)
	assert.Empty(t, snap.Transactions)
}

func TestMemory_CommitChecksVersion(t *testing.T) {
	// GIVEN: Two readers load the same version
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.SaveCustomers(ctx, []ledger.Customer{{ID: 1, Name: "Asha"}}))

	first, err := m.Load(ctx)
	require.NoError(t, err)
	second, err := m.Load(ctx)
	require.NoError(t, err)

	// WHEN: Both commit
	first.Customers = append(first.Customers, ledger.Customer{ID: 2, Name: "Ravi"})
	require.NoError(t, m.Commit(ctx, first))

	second.Customers = append(second.Customers, ledger.Customer{ID: 3, Name: "Meena"})
	err = m.Commit(ctx, second)

	// THEN: The second is rejected and the first write survives
	assert.ErrorIs(t, err, ledger.ErrConcurrentModification)
	snap, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Customers, 2)
	assert.True(t, snap.Initialized)
}

func TestMemory_LoadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.SaveTransactions(ctx, []ledger.Transaction{
		{ID: 1, CustomerID: 1, Type: ledger.TxCredit, Amount: decimal.NewFromInt(10), Date: ledger.NewDate(2024, 1, 1)},
	}))

	snap, err := m.Load(ctx)
	require.NoError(t, err)
	snap.Transactions[0].Description = "changed"

	again, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Transactions[0].Description)
}

func TestMemory_ClearInvalidatesOldSnapshots(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.SaveCustomers(ctx, []ledger.Customer{{ID: 1, Name: "Asha"}}))

	stale, err := m.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, m.Clear(ctx))

	assert.ErrorIs(t, m.Commit(ctx, stale), ledger.ErrConcurrentModification)

	snap, err := m.Load(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Initialized)
}
