package ledger

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// =============================================================================
// DOCUMENT CODEC - JSON layout shared by every Store implementation
// =============================================================================

type customerDoc struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"createdAt"`
}

type transactionDoc struct {
	ID          int64      `json:"id"`
	CustomerID  int64      `json:"customerId"`
	Type        string     `json:"type"`
	Amount      jsonAmount `json:"amount"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	CreatedAt   string     `json:"createdAt"`
}

// jsonAmount writes a bare JSON number and reads either a number or a
// quoted string.
type jsonAmount decimal.Decimal

func (a jsonAmount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).String()), nil
}

func (a *jsonAmount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = jsonAmount(d)
	return nil
}

// EncodeCustomers serializes the customer collection.
func EncodeCustomers(customers []Customer) ([]byte, error) {
	docs := make([]customerDoc, len(customers))
	for i, c := range customers {
		docs[i] = customerDoc{
			ID:        int64(c.ID),
			Name:      c.Name,
			Phone:     c.Phone,
			Notes:     c.Notes,
			CreatedAt: formatCreatedAt(c.CreatedAt),
		}
	}
	return json.Marshal(docs)
}

// DecodeCustomers parses the customer collection. Empty input is an empty list.
func DecodeCustomers(data []byte) ([]Customer, error) {
	if len(data) == 0 {
		return []Customer{}, nil
	}
	var docs []customerDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode customers: %w", err)
	}
	customers := make([]Customer, len(docs))
	for i, d := range docs {
		customers[i] = Customer{
			ID:        CustomerID(d.ID),
			Name:      d.Name,
			Phone:     d.Phone,
			Notes:     d.Notes,
			CreatedAt: parseCreatedAt(d.CreatedAt),
		}
	}
	return customers, nil
}

// EncodeTransactions serializes the transaction collection.
func EncodeTransactions(txs []Transaction) ([]byte, error) {
	docs := make([]transactionDoc, len(txs))
	for i, tx := range txs {
		docs[i] = transactionDoc{
			ID:          int64(tx.ID),
			CustomerID:  int64(tx.CustomerID),
			Type:        string(tx.Type),
			Amount:      jsonAmount(tx.Amount),
			Date:        tx.Date.String(),
			Description: tx.Description,
			CreatedAt:   formatCreatedAt(tx.CreatedAt),
		}
	}
	return json.Marshal(docs)
}

// DecodeTransactions parses the transaction collection. Unknown types are
// kept as-is; the balance folds ignore them.
func DecodeTransactions(data []byte) ([]Transaction, error) {
	if len(data) == 0 {
		return []Transaction{}, nil
	}
	var docs []transactionDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	txs := make([]Transaction, len(docs))
	for i, d := range docs {
		date, err := ParseDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to decode transaction %d: %w", d.ID, err)
		}
		txs[i] = Transaction{
			ID:          TransactionID(d.ID),
			CustomerID:  CustomerID(d.CustomerID),
			Type:        TransactionType(d.Type),
			Amount:      decimal.Decimal(d.Amount),
			Date:        date,
			Description: d.Description,
			CreatedAt:   parseCreatedAt(d.CreatedAt),
		}
	}
	return txs, nil
}

func formatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseCreatedAt is lenient: the timestamp is display-only.
func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
