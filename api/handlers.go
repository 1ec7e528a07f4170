/*
handlers.go - HTTP API handlers for the customer ledger

PURPOSE:
  Exposes the ledger service via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to customerledger.Service.

ENDPOINTS:
  Customers:
    GET    /api/customers?q=                    List (sorted by name, optional search)
    POST   /api/customers                       Add customer
    GET    /api/customers/export.csv            All customers as CSV
    GET    /api/customers/{id}?order=           Detail with running balances
    DELETE /api/customers/{id}                  Delete customer and its transactions
    GET    /api/customers/{id}/ledger.csv       Full ledger as CSV, oldest first

  Transactions:
    POST   /api/customers/{id}/transactions     Add credit or debit
    DELETE /api/transactions/{id}               Delete transaction

  Statements:
    GET    /api/customers/{id}/statement?start=&end=      JSON
    GET    /api/customers/{id}/statement.csv?start=&end=  CSV download

  Reports:
    GET    /api/reports/summary                 Global credit/debit totals
    POST   /api/reports/reset                   Close the books {"confirm": true}

  Admin:
    POST   /api/admin/clear                     Wipe everything {"confirm": true}

REQUEST FLOW:
  1. Parse HTTP request
  2. Call the service (it validates)
  3. Convert the result to DTOs
  4. Map errors to a status code

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Customer or transaction not found
  - 409: Duplicate name, reset with pending balance
  - 503: Commit kept losing to concurrent writers
  - 500: Storage failures

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/customerledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/export"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *customerledger.Service
	Log      *zap.Logger
	Currency string

	// Ping checks the backing store for /healthz. Optional.
	Ping func(ctx context.Context) error

	mu              sync.RWMutex
	currentScenario string
}

func NewHandler(svc *customerledger.Service, log *zap.Logger, currency string) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Service:  svc,
		Log:      log,
		Currency: currency,
	}
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns customers sorted by name with their balances.
// GET /api/customers?q=
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ListCustomers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, "Failed to list customers", err)
		return
	}

	dtos := make([]CustomerSummaryDTO, len(rows))
	for i, row := range rows {
		dtos[i] = CustomerSummaryDTO{
			CustomerDTO: toCustomerDTO(row.Customer),
			Balance:     toBalanceDTO(row.Balance),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCustomer adds a customer.
// POST /api/customers
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := h.Service.AddCustomer(r.Context(), customerledger.NewCustomer{
		Name:  req.Name,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		h.fail(w, r, "Failed to create customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerDTO(c))
}

// GetCustomer returns the ledger of one customer.
// GET /api/customers/{id}?order=oldest|newest
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerIDParam(w, r)
	if !ok {
		return
	}
	order, err := ledger.ParseSortOrder(r.URL.Query().Get("order"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order (use oldest or newest)", err)
		return
	}

	detail, err := h.Service.CustomerDetail(r.Context(), id, order)
	if err != nil {
		h.fail(w, r, "Failed to get customer", err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDetailDTO(detail))
}

// DeleteCustomer removes a customer and all of its transactions.
// DELETE /api/customers/{id}
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerIDParam(w, r)
	if !ok {
		return
	}

	removed, err := h.Service.DeleteCustomer(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to delete customer", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteCustomerResponse{
		Deleted:             int64(id),
		TransactionsRemoved: removed,
	})
}

// ExportCustomers downloads the customer list as CSV.
// GET /api/customers/export.csv
func (h *Handler) ExportCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ListCustomers(r.Context(), "")
	if err != nil {
		h.fail(w, r, "Failed to export customers", err)
		return
	}

	filename := fmt.Sprintf("customer_ledger_all_customers_%s.csv", ledger.Today())
	writeCSVHeaders(w, filename)
	if err := export.WriteCustomersCSV(w, rows); err != nil {
		h.Log.Error("customer export failed", zap.Error(err))
	}
}

// ExportLedger downloads every transaction of one customer with running
// balances.
// GET /api/customers/{id}/ledger.csv
func (h *Handler) ExportLedger(w http.ResponseWriter, r *http.Request) {
	id, ok := customerIDParam(w, r)
	if !ok {
		return
	}

	detail, err := h.Service.CustomerDetail(r.Context(), id, ledger.OldestFirst)
	if err != nil {
		h.fail(w, r, "Failed to export ledger", err)
		return
	}

	writeCSVHeaders(w, export.LedgerFilename(detail.Customer))
	if err := export.WriteLedgerCSV(w, detail, h.Currency); err != nil {
		h.Log.Error("ledger export failed", zap.Int64("customer_id", int64(id)), zap.Error(err))
	}
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// CreateTransaction records a credit or debit.
// POST /api/customers/{id}/transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := customerIDParam(w, r)
	if !ok {
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	tx, err := h.Service.AddTransaction(r.Context(), id, customerledger.NewTransaction{
		Type:        req.Type,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, r, "Failed to add transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// DeleteTransaction removes one transaction.
// DELETE /api/transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	raw, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction id", err)
		return
	}

	tx, err := h.Service.DeleteTransaction(r.Context(), ledger.TransactionID(raw))
	if err != nil {
		h.fail(w, r, "Failed to delete transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(tx))
}

// =============================================================================
// STATEMENT HANDLERS
// =============================================================================

// GetStatement returns the statement for [start, end].
// GET /api/customers/{id}/statement?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	stmt, ok := h.loadStatement(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toStatementDTO(stmt))
}

// ExportStatement downloads the statement as CSV.
// GET /api/customers/{id}/statement.csv?start=&end=
func (h *Handler) ExportStatement(w http.ResponseWriter, r *http.Request) {
	stmt, ok := h.loadStatement(w, r)
	if !ok {
		return
	}

	writeCSVHeaders(w, export.StatementFilename(stmt))
	if err := export.WriteStatementCSV(w, stmt, h.Currency); err != nil {
		h.Log.Error("statement export failed", zap.Int64("customer_id", int64(stmt.Customer.ID)), zap.Error(err))
	}
}

func (h *Handler) loadStatement(w http.ResponseWriter, r *http.Request) (customerledger.CustomerStatement, bool) {
	id, ok := customerIDParam(w, r)
	if !ok {
		return customerledger.CustomerStatement{}, false
	}

	q := r.URL.Query()
	start, err := ledger.ParseDate(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return customerledger.CustomerStatement{}, false
	}
	end, err := ledger.ParseDate(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
		return customerledger.CustomerStatement{}, false
	}

	stmt, err := h.Service.Statement(r.Context(), id, start, end)
	if err != nil {
		h.fail(w, r, "Failed to build statement", err)
		return customerledger.CustomerStatement{}, false
	}
	return stmt, true
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetSummary returns totals over all transactions.
// GET /api/reports/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// ResetReports clears all transactions when nothing is pending.
// POST /api/reports/reset
func (h *Handler) ResetReports(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	removed, err := h.Service.ResetReports(r.Context(), req.Confirm)
	if err != nil {
		h.fail(w, r, "Reset not performed", err)
		return
	}
	writeJSON(w, http.StatusOK, ResetResponse{TransactionsRemoved: removed})
}

// ClearAll wipes customers and transactions.
// POST /api/admin/clear
func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Service.ClearAll(r.Context(), req.Confirm); err != nil {
		h.fail(w, r, "Clear not performed", err)
		return
	}
	h.setCurrentScenario("")
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Health reports whether the store answers.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Ping != nil {
		if err := h.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case ledger.IsNotFound(err):
		return http.StatusNotFound
	case ledger.IsConflict(err):
		return http.StatusConflict
	case ledger.IsClientError(err):
		return http.StatusBadRequest
	case ledger.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error(message,
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
	writeError(w, status, message, err)
}

func customerIDParam(w http.ResponseWriter, r *http.Request) (ledger.CustomerID, bool) {
	raw, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id", err)
		return 0, false
	}
	return ledger.CustomerID(raw), true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
