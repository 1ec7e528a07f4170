/*
csv.go - Spreadsheet exports

PURPOSE:
  Renders the customer list, full customer ledgers and date-range
  statements as CSV so they open directly in a spreadsheet.

CUSTOMERS:
  Name, Phone, Balance, Notes. Balance keeps its sign (positive = customer
  owes) so the column can be summed. Blank phone and notes become "-".

STATEMENT:
  A header block (customer, period, opening and closing balance with
  their status labels), one row per transaction in the window with the
  running balance, then a totals row. Amounts are prefixed with the
  currency symbol and shown unsigned, the label carries the direction.

LEDGER:
  Same table as the statement but over every transaction of the customer,
  oldest first, headed by the current balance. A customer without
  transactions gets a single "No transactions to export" row.

SEE ALSO:
  - ledger/order.go: Running balances behind the ledger export
  - ledger/statement.go: How the statement numbers are computed
  - api/handlers.go: The download endpoints
*/
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/customerledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

const placeholder = "-"

var (
	customerHeader = []string{"Name", "Phone", "Balance", "Notes"}
	tableHeader    = []string{"Date", "Description", "Credit", "Debit", "Balance"}
)

// WriteCustomersCSV writes one row per customer in the given order.
func WriteCustomersCSV(w io.Writer, rows []customerledger.CustomerSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(customerHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Customer.Name,
			orPlaceholder(r.Customer.Phone),
			ledger.FormatSigned(r.Balance),
			orPlaceholder(r.Customer.Notes),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write customer %d: %w", r.Customer.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatementCSV writes the statement for one customer. currency is
// prefixed to every amount.
func WriteStatementCSV(w io.Writer, stmt customerledger.CustomerStatement, currency string) error {
	money := moneyFormatter(currency)

	records := [][]string{
		{"Customer Statement"},
		{"Customer", stmt.Customer.Name},
		{"Phone", orPlaceholder(stmt.Customer.Phone)},
		{"Period", stmt.Start.String(), stmt.End.String()},
		{"Opening Balance", money(stmt.OpeningBalance), ledger.StatusOf(stmt.OpeningBalance).Label()},
		{"Closing Balance", money(stmt.ClosingBalance), ledger.StatusOf(stmt.ClosingBalance).Label()},
		{},
		tableHeader,
	}

	if stmt.Empty {
		records = append(records, []string{"No transactions in this period"})
	}
	for _, e := range stmt.Rows {
		records = append(records, entryRecord(e, money))
	}
	records = append(records, []string{
		"", "Total", money(stmt.TotalCredit), money(stmt.TotalDebit), money(stmt.ClosingBalance),
	})

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write statement for customer %d: %w", stmt.Customer.ID, err)
	}
	return nil
}

// WriteLedgerCSV writes every transaction of one customer with its running
// balance, oldest first whatever order the detail was built in.
func WriteLedgerCSV(w io.Writer, detail customerledger.CustomerDetail, currency string) error {
	money := moneyFormatter(currency)

	records := [][]string{
		{"Customer Ledger"},
		{"Customer", detail.Customer.Name},
		{"Phone", orPlaceholder(detail.Customer.Phone)},
		{"Current Balance", money(detail.Balance), detail.Status.Label()},
		{},
		tableHeader,
	}

	// Newest-first entries are flipped back.
	entries := ledger.InDisplayOrder(detail.Entries, detail.Order)
	if len(entries) == 0 {
		records = append(records, []string{"No transactions to export"})
	}
	for _, e := range entries {
		records = append(records, entryRecord(e, money))
	}
	records = append(records, []string{
		"", "Total", money(detail.Totals.Credit), money(detail.Totals.Debit), money(detail.Balance),
	})

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write ledger for customer %d: %w", detail.Customer.ID, err)
	}
	return nil
}

// StatementFilename is the suggested download name, e.g.
// "statement_asha_2024-01-01_2024-01-31.csv".
func StatementFilename(stmt customerledger.CustomerStatement) string {
	return fmt.Sprintf("statement_%s_%s_%s.csv", slug(stmt.Customer), stmt.Start, stmt.End)
}

// LedgerFilename is the suggested download name, e.g. "ledger_asha.csv".
func LedgerFilename(c ledger.Customer) string {
	return fmt.Sprintf("ledger_%s.csv", slug(c))
}

func moneyFormatter(currency string) func(decimal.Decimal) string {
	return func(d decimal.Decimal) string {
		return strings.TrimSpace(currency + " " + ledger.FormatAmount(d))
	}
}

func entryRecord(e ledger.Entry, money func(decimal.Decimal) string) []string {
	credit, debit := placeholder, placeholder
	switch e.Type {
	case ledger.TxCredit:
		credit = money(e.Amount)
	case ledger.TxDebit:
		debit = money(e.Amount)
	}
	return []string{
		e.Date.String(),
		e.Description,
		credit,
		debit,
		money(e.BalanceAfter),
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// slug keeps letters and digits of any script. Names with neither fall
// back to the customer id.
func slug(c ledger.Customer) string {
	var b strings.Builder
	for _, r := range strings.ToLower(c.Name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.Is(unicode.Mn, r), unicode.Is(unicode.Mc, r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	if strings.Trim(b.String(), "_") == "" {
		return fmt.Sprintf("customer_%d", c.ID)
	}
	return b.String()
}
