/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario sets up the expected ledger:
	- Customers are created
	- Transactions are recorded against them
	- Balances and report totals match expected values

The scenarios run against the SQLite store, so these double as
integration tests for the service on a real database.
*/
package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/customerledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/store/sqlstore"
)

func setupScenarioHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	st, err := sqlstore.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	h := NewHandler(customerledger.NewService(st), zap.NewNop(), "Rs.")
	h.Ping = st.Ping
	return h, NewRouter(h, RouterOptions{})
}

func TestScenario_AshaStatement(t *testing.T) {
	// GIVEN: the asha-statement scenario
	h, _ := setupScenarioHandler(t)
	ctx := context.Background()

	// WHEN: loading it
	require.NoError(t, loadAshaScenario(ctx, h.Service))

	// THEN: one customer owing 400 with chronological running balances
	rows, err := h.Service.ListCustomers(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Asha", rows[0].Customer.Name)
	assert.Equal(t, "400.00", rows[0].Balance.StringFixed(2))

	detail, err := h.Service.CustomerDetail(ctx, rows[0].Customer.ID, ledger.OldestFirst)
	require.NoError(t, err)
	require.Len(t, detail.Entries, 3)
	assert.Equal(t, "Cooking oil", detail.Entries[0].Description)
	assert.Equal(t, "Rice and dal", detail.Entries[1].Description)
	assert.Equal(t, "Cash payment", detail.Entries[2].Description)
}

func TestScenario_SettledBook(t *testing.T) {
	h, _ := setupScenarioHandler(t)
	ctx := context.Background()

	require.NoError(t, loadSettledScenario(ctx, h.Service))

	summary, err := h.Service.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Customers)
	assert.Equal(t, 5, summary.Transactions)
	assert.True(t, summary.ResetAllowed)
	assert.Equal(t, "450.50", summary.Totals.Credit.StringFixed(2))
}

func TestScenario_AdvancePaid(t *testing.T) {
	h, _ := setupScenarioHandler(t)
	ctx := context.Background()

	require.NoError(t, loadAdvanceScenario(ctx, h.Service))

	rows, err := h.Service.ListCustomers(ctx, "kiran")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.StatusAdvance, rows[0].Status)
	assert.Equal(t, "-650.00", rows[0].Balance.StringFixed(2))
}

func TestScenarioEndpoints(t *testing.T) {
	_, router := setupScenarioHandler(t)

	rec := do(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ScenarioDTO](t, rec), len(scenarios))

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	// Loading twice replaces rather than duplicates.
	for i := 0; i < 2; i++ {
		rec = do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "settled-book"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	summary := decode[SummaryDTO](t, do(t, router, http.MethodGet, "/api/reports/summary", nil))
	assert.Equal(t, 2, summary.Customers)

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "settled-book", decode[ScenarioDTO](t, rec).ID)

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/healthz", nil).Code)
}
