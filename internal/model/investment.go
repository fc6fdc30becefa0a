package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment tracks a position built from contributions (linked expense
// transactions) and withdrawals (linked income transactions). Balance
// is derived state maintained by the reconciliation engine.
type Investment struct {
	CreatedAt     time.Time
	ID            string
	UserID        string
	Name          string
	InitialAmount decimal.Decimal
	Balance       decimal.Decimal
}
