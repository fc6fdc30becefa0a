package model

import "time"

// CategoryType is the immutable business meaning of a category. It
// dictates which ledger reference a transaction using the category
// must carry.
type CategoryType string

const (
	// CategoryTypeStandard represents ordinary income/expense categories.
	CategoryTypeStandard CategoryType = "standard"
	// CategoryTypeDebt represents categories whose transactions pay down a debt.
	CategoryTypeDebt CategoryType = "debt"
	// CategoryTypeInvestment represents categories whose transactions move an investment position.
	CategoryTypeInvestment CategoryType = "investment"
)

// Valid reports whether the type is one of the known values.
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypeStandard, CategoryTypeDebt, CategoryTypeInvestment:
		return true
	}
	return false
}

// Category groups transactions and, through its type, determines the
// structural shape a transaction referencing it must have.
type Category struct {
	CreatedAt time.Time
	ID        string
	UserID    string
	Name      string
	Type      CategoryType
}

// Subcategory is a finer-grained label scoped to a single category.
type Subcategory struct {
	CreatedAt  time.Time
	ID         string
	UserID     string
	CategoryID string
	Name       string
}
