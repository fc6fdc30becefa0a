package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind indicates whether money came in or went out.
type TransactionKind string

const (
	// KindIncome represents money received.
	KindIncome TransactionKind = "income"
	// KindExpense represents money spent.
	KindExpense TransactionKind = "expense"
)

// Valid reports whether the kind is one of the known values.
func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single ledger entry. Amount is always a positive
// magnitude; Kind carries the direction. At most one of DebtID and
// InvestmentID is set, and which one is dictated by the linked
// category's type.
type Transaction struct {
	Date           time.Time
	ReferenceMonth time.Time // first day of the grouping month
	CreatedAt      time.Time
	ID             string
	UserID         string
	AccountID      string
	Description    string
	Hash           string
	CategoryID     string
	SubcategoryID  string
	DebtID         string
	InvestmentID   string
	Kind           TransactionKind
	Amount         decimal.Decimal
}

// GenerateHash creates a deterministic hash used for duplicate detection
// during statement imports.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		string(t.Kind),
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// NormalizeReferenceMonth snaps the reference month to the first day of
// its month, or derives it from the occurrence date when unset.
func (t *Transaction) NormalizeReferenceMonth() {
	src := t.ReferenceMonth
	if src.IsZero() {
		src = t.Date
	}
	t.ReferenceMonth = time.Date(src.Year(), src.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Linked reports whether the transaction carries a debt or investment
// reference.
func (t *Transaction) Linked() bool {
	return t.DebtID != "" || t.InvestmentID != ""
}
