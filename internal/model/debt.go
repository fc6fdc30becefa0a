package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt tracks an amount owed. Balance is derived state, mutated
// incrementally by the reconciliation engine as linked expense
// transactions are applied and reverted.
type Debt struct {
	CreatedAt             time.Time
	ID                    string
	UserID                string
	Description           string
	OriginalAmount        decimal.Decimal
	Balance               decimal.Decimal
	TotalInstallments     int // 0 when the debt does not track installments
	RemainingInstallments int
	MonthlyInterestRate   decimal.Decimal
}

// TracksInstallments reports whether the debt is paid in a fixed number
// of installments.
func (d *Debt) TracksInstallments() bool {
	return d.TotalInstallments > 0
}
