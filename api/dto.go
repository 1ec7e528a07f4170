/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the ledger model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts are strings with exactly 2 decimals so clients never see float
  rounding. A BalanceDTO carries both the unsigned amount with its status
  (what a person reads) and the signed value (what a program sums).

VALIDATION:
  Validation is done by the service, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/format.go: Amount formatting and status labels
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/customerledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

type CustomerDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// BalanceDTO is a balance as shown to a person plus its signed value.
type BalanceDTO struct {
	Amount string `json:"amount"` // Unsigned, 2 decimals
	Signed string `json:"signed"`
	Status string `json:"status"` // owes, advance, settled
	Label  string `json:"label"`
}

type CustomerSummaryDTO struct {
	CustomerDTO
	Balance BalanceDTO `json:"balance"`
}

type TransactionDTO struct {
	ID          int64  `json:"id"`
	CustomerID  int64  `json:"customer_id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreateTransactionRequest accepts the amount as a JSON number or string.
type CreateTransactionRequest struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
}

// EntryDTO is a transaction with the balance right after it.
type EntryDTO struct {
	TransactionDTO
	BalanceAfter BalanceDTO `json:"balance_after"`
}

type TotalsDTO struct {
	Credit  string `json:"credit"`
	Debit   string `json:"debit"`
	Pending string `json:"pending"` // credit - debit, signed
}

type CustomerDetailDTO struct {
	Customer CustomerDTO `json:"customer"`
	Balance  BalanceDTO  `json:"balance"`
	Order    string      `json:"order"`
	Entries  []EntryDTO  `json:"entries"`
	Totals   TotalsDTO   `json:"totals"`
}

type StatementDTO struct {
	Customer       CustomerDTO `json:"customer"`
	Start          string      `json:"start"`
	End            string      `json:"end"`
	OpeningBalance BalanceDTO  `json:"opening_balance"`
	ClosingBalance BalanceDTO  `json:"closing_balance"`
	Rows           []EntryDTO  `json:"rows"`
	TotalCredit    string      `json:"total_credit"`
	TotalDebit     string      `json:"total_debit"`
	Empty          bool        `json:"empty"`
}

type SummaryDTO struct {
	TotalCredit  string `json:"total_credit"`
	TotalDebit   string `json:"total_debit"`
	Pending      string `json:"pending"`
	ResetAllowed bool   `json:"reset_allowed"`
	Customers    int    `json:"customers"`
	Transactions int    `json:"transactions"`
	Initialized  bool   `json:"initialized"`
}

// ConfirmRequest guards destructive operations.
type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

type DeleteCustomerResponse struct {
	Deleted             int64 `json:"deleted"`
	TransactionsRemoved int   `json:"transactions_removed"`
}

type ResetResponse struct {
	TransactionsRemoved int `json:"transactions_removed"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toCustomerDTO(c ledger.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        int64(c.ID),
		Name:      c.Name,
		Phone:     c.Phone,
		Notes:     c.Notes,
		CreatedAt: formatTimestamp(c.CreatedAt),
	}
}

func toBalanceDTO(balance decimal.Decimal) BalanceDTO {
	status := ledger.StatusOf(balance)
	return BalanceDTO{
		Amount: ledger.FormatAmount(balance),
		Signed: ledger.FormatSigned(balance),
		Status: string(status),
		Label:  status.Label(),
	}
}

func toTransactionDTO(tx ledger.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          int64(tx.ID),
		CustomerID:  int64(tx.CustomerID),
		Type:        string(tx.Type),
		Amount:      ledger.FormatAmount(tx.Amount),
		Date:        tx.Date.String(),
		Description: tx.Description,
		CreatedAt:   formatTimestamp(tx.CreatedAt),
	}
}

func toEntryDTOs(entries []ledger.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = EntryDTO{
			TransactionDTO: toTransactionDTO(e.Transaction),
			BalanceAfter:   toBalanceDTO(e.BalanceAfter),
		}
	}
	return dtos
}

func toTotalsDTO(t ledger.Totals) TotalsDTO {
	return TotalsDTO{
		Credit:  ledger.FormatAmount(t.Credit),
		Debit:   ledger.FormatAmount(t.Debit),
		Pending: ledger.FormatSigned(t.Pending()),
	}
}

func toCustomerDetailDTO(d customerledger.CustomerDetail) CustomerDetailDTO {
	return CustomerDetailDTO{
		Customer: toCustomerDTO(d.Customer),
		Balance:  toBalanceDTO(d.Balance),
		Order:    string(d.Order),
		Entries:  toEntryDTOs(d.Entries),
		Totals:   toTotalsDTO(d.Totals),
	}
}

func toStatementDTO(s customerledger.CustomerStatement) StatementDTO {
	return StatementDTO{
		Customer:       toCustomerDTO(s.Customer),
		Start:          s.Start.String(),
		End:            s.End.String(),
		OpeningBalance: toBalanceDTO(s.OpeningBalance),
		ClosingBalance: toBalanceDTO(s.ClosingBalance),
		Rows:           toEntryDTOs(s.Rows),
		TotalCredit:    ledger.FormatAmount(s.TotalCredit),
		TotalDebit:     ledger.FormatAmount(s.TotalDebit),
		Empty:          s.Empty,
	}
}

func toSummaryDTO(s customerledger.Summary) SummaryDTO {
	return SummaryDTO{
		TotalCredit:  ledger.FormatAmount(s.Totals.Credit),
		TotalDebit:   ledger.FormatAmount(s.Totals.Debit),
		Pending:      ledger.FormatSigned(s.Totals.Pending()),
		ResetAllowed: s.ResetAllowed,
		Customers:    s.Customers,
		Transactions: s.Transactions,
		Initialized:  s.Initialized,
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
