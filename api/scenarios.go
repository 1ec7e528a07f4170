/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built ledgers for demos. Each scenario clears the store
	and then adds customers and transactions through the service, so the
	data passes the same validation as user input.

AVAILABLE SCENARIOS:

	asha-statement: One customer, two entries on the same day plus an
	                older one. Shows same-day ordering and statements.
	settled-book:   Two customers whose accounts net to zero. The books
	                can be reset.
	advance-paid:   A customer who paid ahead, so the balance is negative.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "asha-statement"}

ADDING NEW SCENARIOS:
 1. Add an entry to 'scenarios' with ID, name, description
 2. Write its loader: loadXxxScenario(ctx, svc)

NOTE:

	Scenarios clear the ledger. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ClearAll
*/
package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/customerledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	load func(ctx context.Context, svc *customerledger.Service) error
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "asha-statement",
			Name:        "Asha's Statement",
			Description: "Same-day credit and debit plus an older credit; balance 400 owed",
		},
		load: loadAshaScenario,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "settled-book",
			Name:        "Settled Book",
			Description: "Two customers fully paid up; reports can be reset",
		},
		load: loadSettledScenario,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "advance-paid",
			Name:        "Advance Paid",
			Description: "Customer paid ahead of purchases; negative balance",
		},
		load: loadAdvanceScenario,
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.getCurrentScenario()
	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if s, ok := findScenario(current); ok {
		writeJSON(w, http.StatusOK, s.ScenarioDTO)
		return
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario clears the ledger and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario: "+req.ScenarioID, nil)
		return
	}

	ctx := r.Context()
	if err := h.Service.ClearAll(ctx, true); err != nil {
		h.fail(w, r, "Failed to clear ledger", err)
		return
	}
	if err := s.load(ctx, h.Service); err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}

	h.setCurrentScenario(s.ID)
	h.Log.Info("scenario loaded", zap.String("scenario", s.ID))
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": s.ID,
	})
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

func (h *Handler) getCurrentScenario() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentScenario
}

func (h *Handler) setCurrentScenario(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentScenario = id
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

type seedTx struct {
	typ         ledger.TransactionType
	amount      string
	date        string
	description string
}

func seedCustomer(ctx context.Context, svc *customerledger.Service, c customerledger.NewCustomer, txs ...seedTx) error {
	customer, err := svc.AddCustomer(ctx, c)
	if err != nil {
		return err
	}
	for _, t := range txs {
		amount, err := decimal.NewFromString(t.amount)
		if err != nil {
			return err
		}
		date, err := ledger.ParseDate(t.date)
		if err != nil {
			return err
		}
		_, err = svc.AddTransaction(ctx, customer.ID, customerledger.NewTransaction{
			Type:        string(t.typ),
			Amount:      amount,
			Date:        date,
			Description: t.description,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// loadAshaScenario stores the same-day pair before the older credit, so
// ids and dates disagree on order.
func loadAshaScenario(ctx context.Context, svc *customerledger.Service) error {
	return seedCustomer(ctx, svc,
		customerledger.NewCustomer{Name: "Asha", Phone: "98450 12345", Notes: "Corner shop"},
		seedTx{ledger.TxCredit, "500", "2024-01-05", "Rice and dal"},
		seedTx{ledger.TxDebit, "200", "2024-01-05", "Cash payment"},
		seedTx{ledger.TxCredit, "100", "2024-01-03", "Cooking oil"},
	)
}

func loadSettledScenario(ctx context.Context, svc *customerledger.Service) error {
	err := seedCustomer(ctx, svc,
		customerledger.NewCustomer{Name: "Ravi", Phone: "99001 22334"},
		seedTx{ledger.TxCredit, "300", "2024-03-01", "Groceries"},
		seedTx{ledger.TxDebit, "300", "2024-03-15", "UPI payment"},
	)
	if err != nil {
		return err
	}
	return seedCustomer(ctx, svc,
		customerledger.NewCustomer{Name: "Meena", Notes: "Pays monthly"},
		seedTx{ledger.TxCredit, "150.50", "2024-03-02", "Vegetables"},
		seedTx{ledger.TxDebit, "100", "2024-03-20", "Cash"},
		seedTx{ledger.TxDebit, "50.50", "2024-03-31", "Cash"},
	)
}

func loadAdvanceScenario(ctx context.Context, svc *customerledger.Service) error {
	return seedCustomer(ctx, svc,
		customerledger.NewCustomer{Name: "Kiran", Phone: "90000 11111"},
		seedTx{ledger.TxDebit, "1000", "2024-04-01", "Advance for festival order"},
		seedTx{ledger.TxCredit, "350", "2024-04-10", "Sweets, first batch"},
	)
}
