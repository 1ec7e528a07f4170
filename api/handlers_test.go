/*
handlers_test.go - HTTP tests for the ledger API

Tests for:
- Customer add/list/search/detail/delete
- Transaction add/delete and input validation
- Statements (JSON and CSV) and the customer export
- Report summary, guarded reset, clear
- Health and metrics endpoints
*/
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/customerledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func setupTestRouter(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	svc := customerledger.NewService(store.NewMemory())
	h := NewHandler(svc, zap.NewNop(), "Rs.")
	router := NewRouter(h, RouterOptions{
		AllowedOrigins: []string{"http://localhost:5173"},
		Metrics:        NewMetrics("customer_ledger", "test"),
	})
	return h, router
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createCustomer(t *testing.T, router http.Handler, name string) CustomerDTO {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/customers", CreateCustomerRequest{Name: name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[CustomerDTO](t, rec)
}

func createTx(t *testing.T, router http.Handler, customerID int64, body string) TransactionDTO {
	t.Helper()
	rec := do(t, router, http.MethodPost, fmt.Sprintf("/api/customers/%d/transactions", customerID), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[TransactionDTO](t, rec)
}

// seedAsha loads the same-day pair before the older credit.
func seedAsha(t *testing.T, router http.Handler) CustomerDTO {
	t.Helper()
	asha := createCustomer(t, router, "Asha")
	createTx(t, router, asha.ID, `{"type":"credit","amount":500,"date":"2024-01-05","description":"Rice"}`)
	createTx(t, router, asha.ID, `{"type":"debit","amount":"200","date":"2024-01-05"}`)
	createTx(t, router, asha.ID, `{"type":"credit","amount":100,"date":"2024-01-03","description":"Oil"}`)
	return asha
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func TestCreateCustomer(t *testing.T) {
	_, router := setupTestRouter(t)

	c := createCustomer(t, router, "  Asha ")
	assert.Equal(t, "Asha", c.Name)
	assert.NotZero(t, c.ID)

	rec := do(t, router, http.MethodPost, "/api/customers", CreateCustomerRequest{Name: "ASHA"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/customers", CreateCustomerRequest{Name: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to create customer", decode[ErrorResponse](t, rec).Error)

	rec = do(t, router, http.MethodPost, "/api/customers", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCustomers_SortedWithBalancesAndSearch(t *testing.T) {
	_, router := setupTestRouter(t)
	seedAsha(t, router)
	ravi := createCustomer(t, router, "ravi")
	createTx(t, router, ravi.ID, `{"type":"debit","amount":"75.5","date":"2024-02-01"}`)

	rec := do(t, router, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]CustomerSummaryDTO](t, rec)

	require.Len(t, list, 2)
	assert.Equal(t, "Asha", list[0].Name)
	assert.Equal(t, BalanceDTO{Amount: "400.00", Signed: "400.00", Status: "owes", Label: "Customer Owes"}, list[0].Balance)
	assert.Equal(t, "ravi", list[1].Name)
	assert.Equal(t, "75.50", list[1].Balance.Amount)
	assert.Equal(t, "-75.50", list[1].Balance.Signed)
	assert.Equal(t, "advance", list[1].Balance.Status)

	rec = do(t, router, http.MethodGet, "/api/customers?q=RAV", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]CustomerSummaryDTO](t, rec), 1)
}

func TestGetCustomer_RunningBalancesInBothOrders(t *testing.T) {
	// GIVEN: Asha's ledger
	_, router := setupTestRouter(t)
	asha := seedAsha(t, router)

	// WHEN: fetched with the default order
	rec := do(t, router, http.MethodGet, fmt.Sprintf("/api/customers/%d", asha.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[CustomerDetailDTO](t, rec)

	// THEN: oldest first with running balances 100, 600, 400
	assert.Equal(t, "oldest", detail.Order)
	require.Len(t, detail.Entries, 3)
	var balances []string
	for _, e := range detail.Entries {
		balances = append(balances, e.BalanceAfter.Amount)
	}
	assert.Equal(t, []string{"100.00", "600.00", "400.00"}, balances)
	assert.Equal(t, "Oil", detail.Entries[0].Description)
	assert.Equal(t, "-", detail.Entries[2].Description)
	assert.Equal(t, TotalsDTO{Credit: "600.00", Debit: "200.00", Pending: "400.00"}, detail.Totals)

	// WHEN: newest first
	rec = do(t, router, http.MethodGet, fmt.Sprintf("/api/customers/%d?order=newest", asha.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	newest := decode[CustomerDetailDTO](t, rec)

	// THEN: reversed, balances unchanged
	assert.Equal(t, "400.00", newest.Entries[0].BalanceAfter.Amount)
	assert.Equal(t, "100.00", newest.Entries[2].BalanceAfter.Amount)

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/api/customers/%d?order=sideways", asha.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCustomer_Errors(t *testing.T) {
	_, router := setupTestRouter(t)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/customers/12345", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/customers/abc", nil).Code)
}

func TestDeleteCustomer_Cascades(t *testing.T) {
	_, router := setupTestRouter(t)
	asha := seedAsha(t, router)
	ravi := createCustomer(t, router, "Ravi")
	createTx(t, router, ravi.ID, `{"type":"credit","amount":10,"date":"2024-01-01"}`)

	rec := do(t, router, http.MethodDelete, fmt.Sprintf("/api/customers/%d", asha.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DeleteCustomerResponse{Deleted: asha.ID, TransactionsRemoved: 3}, decode[DeleteCustomerResponse](t, rec))

	summary := decode[SummaryDTO](t, do(t, router, http.MethodGet, "/api/reports/summary", nil))
	assert.Equal(t, 1, summary.Customers)
	assert.Equal(t, 1, summary.Transactions)

	rec = do(t, router, http.MethodDelete, fmt.Sprintf("/api/customers/%d", asha.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestCreateTransaction_Validation(t *testing.T) {
	_, router := setupTestRouter(t)
	asha := createCustomer(t, router, "Asha")
	path := fmt.Sprintf("/api/customers/%d/transactions", asha.ID)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"zero amount", `{"type":"credit","amount":0,"date":"2024-01-01"}`, http.StatusBadRequest},
		{"negative amount", `{"type":"debit","amount":-3,"date":"2024-01-01"}`, http.StatusBadRequest},
		{"missing date", `{"type":"credit","amount":3}`, http.StatusBadRequest},
		{"bad date", `{"type":"credit","amount":3,"date":"05/01/2024"}`, http.StatusBadRequest},
		{"unknown type", `{"type":"refund","amount":3,"date":"2024-01-01"}`, http.StatusBadRequest},
		{"garbage amount", `{"type":"credit","amount":"lots","date":"2024-01-01"}`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, path, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, router, http.MethodPost, "/api/customers/999/transactions", `{"type":"credit","amount":3,"date":"2024-01-01"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	summary := decode[SummaryDTO](t, do(t, router, http.MethodGet, "/api/reports/summary", nil))
	assert.Zero(t, summary.Transactions)
}

func TestCreateTransaction_AmountRoundedToTwoDecimals(t *testing.T) {
	_, router := setupTestRouter(t)
	asha := createCustomer(t, router, "Asha")

	tx := createTx(t, router, asha.ID, `{"type":"credit","amount":"19.999","date":"2024-01-01"}`)

	assert.Equal(t, "20.00", tx.Amount)
	assert.Equal(t, "credit", tx.Type)
	assert.Equal(t, "2024-01-01", tx.Date)
}

func TestDeleteTransaction(t *testing.T) {
	_, router := setupTestRouter(t)
	asha := createCustomer(t, router, "Asha")
	tx := createTx(t, router, asha.ID, `{"type":"credit","amount":50,"date":"2024-01-01"}`)

	rec := do(t, router, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", tx.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tx.ID, decode[TransactionDTO](t, rec).ID)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", tx.ID), nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodDelete, "/api/transactions/x", nil).Code)
}

// =============================================================================
// STATEMENTS & EXPORTS
// =============================================================================

func TestGetStatement(t *testing.T) {
	_, router := setupTestRouter(t)
	asha := seedAsha(t, router)

	rec := do(t, router, http.MethodGet, fmt.Sprintf("/api/customers/%d/statement?start=2024-01-04&end=2024-01-05", asha.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stmt := decode[StatementDTO](t, rec)

	assert.Equal(t, "100.00", stmt.OpeningBalance.Amount)
	assert.Equal(t, "400.00", stmt.ClosingBalance.Amount)
	assert.Equal(t, "500.00", stmt.TotalCredit)
	assert.Equal(t, "200.00", stmt.TotalDebit)
	assert.Len(t, stmt.Rows, 2)
	assert.False(t, stmt.Empty)

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/api/customers/%d/statement?start=2024-06-01&end=2024-06-30", asha.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[StatementDTO](t, rec)
	assert.True(t, empty.Empty)
	assert.Contains(t, rec.Body.String(), `"rows":[]`)
	assert.Equal(t, "400.00", empty.OpeningBalance.Amount)
}

func TestGetStatement_BadPeriod(t *testing.T) {
	_, router := setupTestRouter(t)
	asha := createCustomer(t, router, "Asha")
	base := fmt.Sprintf("/api/customers/%d/statement", asha.ID)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, base+"?start=2024-02-01&end=2024-01-01", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, base+"?end=2024-01-01", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/customers/777/statement?start=2024-01-01&end=2024-01-02", nil).Code)
}

func TestExportStatementCSV(t *testing.T) {
	_, router := setupTestRouter(t)
	asha := seedAsha(t, router)

	rec := do(t, router, http.MethodGet, fmt.Sprintf("/api/customers/%d/statement.csv?start=2024-01-01&end=2024-01-31", asha.ID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "statement_asha_2024-01-01_2024-01-31.csv")
	body := rec.Body.String()
	assert.Contains(t, body, "Closing Balance,Rs. 400.00,Customer Owes")
	assert.Contains(t, body, "2024-01-03,Oil,Rs. 100.00,-,Rs. 100.00")
}

func TestExportLedgerCSV(t *testing.T) {
	// GIVEN: Asha with three transactions entered out of date order
	_, router := setupTestRouter(t)
	asha := seedAsha(t, router)

	// WHEN: her full ledger is downloaded
	rec := do(t, router, http.MethodGet, fmt.Sprintf("/api/customers/%d/ledger.csv", asha.ID), nil)

	// THEN: every transaction oldest first with running balances and totals
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ledger_asha.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(t, []string{
		"Customer Ledger",
		"Customer,Asha",
		"Phone,-",
		"Current Balance,Rs. 400.00,Customer Owes",
		"",
		"Date,Description,Credit,Debit,Balance",
		"2024-01-03,Oil,Rs. 100.00,-,Rs. 100.00",
		"2024-01-05,Rice,Rs. 500.00,-,Rs. 600.00",
		"2024-01-05,-,-,Rs. 200.00,Rs. 400.00",
		",Total,Rs. 600.00,Rs. 200.00,Rs. 400.00",
	}, lines)
}

func TestExportLedgerCSV_EmptyAndUnknown(t *testing.T) {
	_, router := setupTestRouter(t)
	ravi := createCustomer(t, router, "Ravi")

	rec := do(t, router, http.MethodGet, fmt.Sprintf("/api/customers/%d/ledger.csv", ravi.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No transactions to export")

	rec = do(t, router, http.MethodGet, "/api/customers/777/ledger.csv", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCustomersCSV(t *testing.T) {
	_, router := setupTestRouter(t)
	seedAsha(t, router)

	rec := do(t, router, http.MethodGet, "/api/customers/export.csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Phone,Balance,Notes", lines[0])
	assert.Equal(t, "Asha,-,400.00,-", lines[1])
}

// =============================================================================
// REPORTS & ADMIN
// =============================================================================

func TestResetReports(t *testing.T) {
	_, router := setupTestRouter(t)

	// GIVEN: no activity
	rec := do(t, router, http.MethodPost, "/api/reports/reset", ConfirmRequest{Confirm: true})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Details, "no activity to reset")

	// GIVEN: a pending balance
	asha := seedAsha(t, router)
	summary := decode[SummaryDTO](t, do(t, router, http.MethodGet, "/api/reports/summary", nil))
	assert.False(t, summary.ResetAllowed)
	assert.Equal(t, "400.00", summary.Pending)

	rec = do(t, router, http.MethodPost, "/api/reports/reset", ConfirmRequest{Confirm: true})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// WHEN: Asha pays up
	createTx(t, router, asha.ID, `{"type":"debit","amount":400,"date":"2024-01-10"}`)

	rec = do(t, router, http.MethodPost, "/api/reports/reset", ConfirmRequest{Confirm: false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/reports/reset", ConfirmRequest{Confirm: true})
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: transactions gone, customer stays
	assert.Equal(t, 4, decode[ResetResponse](t, rec).TransactionsRemoved)
	summary = decode[SummaryDTO](t, do(t, router, http.MethodGet, "/api/reports/summary", nil))
	assert.Equal(t, 1, summary.Customers)
	assert.Equal(t, 0, summary.Transactions)
	assert.Equal(t, "0.00", summary.TotalCredit)
}

func TestClearAll(t *testing.T) {
	_, router := setupTestRouter(t)
	seedAsha(t, router)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/admin/clear", ConfirmRequest{}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/admin/clear", nil).Code)

	rec := do(t, router, http.MethodPost, "/api/admin/clear", ConfirmRequest{Confirm: true})
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[SummaryDTO](t, do(t, router, http.MethodGet, "/api/reports/summary", nil))
	assert.False(t, summary.Initialized)
	assert.Zero(t, summary.Customers)
}

// =============================================================================
// HEALTH & METRICS
// =============================================================================

func TestHealth(t *testing.T) {
	h, router := setupTestRouter(t)

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/healthz", nil).Code)

	h.Ping = func(context.Context) error { return errors.New("connection refused") }
	rec := do(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "connection refused", decode[ErrorResponse](t, rec).Details)
}

func TestMetrics_CountsRequests(t *testing.T) {
	_, router := setupTestRouter(t)
	createCustomer(t, router, "Asha")

	rec := do(t, router, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "customer_ledger_http_requests_total")
	assert.Contains(t, body, `status="201"`)
	assert.Contains(t, body, "customer_ledger_http_request_duration_seconds")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", ledger.ErrCustomerNotFound), http.StatusNotFound},
		{ledger.ErrTransactionNotFound, http.StatusNotFound},
		{&ledger.DuplicateNameError{Name: "Asha"}, http.StatusConflict},
		{&ledger.PendingBalanceError{}, http.StatusConflict},
		{ledger.ErrNothingToReset, http.StatusConflict},
		{ledger.ErrInvalidPeriod, http.StatusBadRequest},
		{ledger.ErrConfirmationRequired, http.StatusBadRequest},
		{ledger.ErrConcurrentModification, http.StatusServiceUnavailable},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
