package ledger

import "github.com/shopspring/decimal"

// BalanceStatus tells which side of zero a balance is on. Amounts are
// always shown unsigned, with the status next to them.
type BalanceStatus string

const (
	StatusOwes    BalanceStatus = "owes"
	StatusAdvance BalanceStatus = "advance"
	StatusSettled BalanceStatus = "settled"
)

func StatusOf(balance decimal.Decimal) BalanceStatus {
	switch balance.Sign() {
	case 1:
		return StatusOwes
	case -1:
		return StatusAdvance
	default:
		return StatusSettled
	}
}

// Label is the human-readable form used in exports.
func (s BalanceStatus) Label() string {
	switch s {
	case StatusOwes:
		return "Customer Owes"
	case StatusAdvance:
		return "Advance Paid"
	default:
		return "Settled"
	}
}

// FormatAmount renders the absolute value with exactly 2 decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.Abs().StringFixed(2)
}

// FormatSigned keeps the sign, for machine-readable exports.
func FormatSigned(d decimal.Decimal) string {
	return d.StringFixed(2)
}
