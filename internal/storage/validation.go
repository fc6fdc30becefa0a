// Package storage provides the SQLite persistence layer. All entity
// operations are scoped by the owning user id.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/granadev/grana/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidDebt        = errors.New("invalid debt")
	ErrInvalidInvestment  = errors.New("invalid investment")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction record.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	}
	if txn.AccountID == "" {
		return fmt.Errorf("%w: missing account ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if !txn.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, txn.Kind)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrInvalidTransaction)
	}
	if txn.DebtID != "" && txn.InvestmentID != "" {
		return fmt.Errorf("%w: linked to both a debt and an investment", ErrInvalidTransaction)
	}
	return nil
}

// validateCategory validates a category record.
func validateCategory(cat *model.Category) error {
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if cat.ID == "" || cat.UserID == "" || cat.Name == "" {
		return fmt.Errorf("%w: missing required field", ErrInvalidCategory)
	}
	if !cat.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCategory, cat.Type)
	}
	return nil
}

// validateDebt validates a debt record.
func validateDebt(debt *model.Debt) error {
	if debt == nil {
		return fmt.Errorf("%w: debt", ErrNilParameter)
	}
	if debt.ID == "" || debt.UserID == "" {
		return fmt.Errorf("%w: missing required field", ErrInvalidDebt)
	}
	if debt.Balance.IsNegative() || debt.OriginalAmount.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrInvalidDebt)
	}
	return nil
}

// validateInvestment validates an investment record.
func validateInvestment(inv *model.Investment) error {
	if inv == nil {
		return fmt.Errorf("%w: investment", ErrNilParameter)
	}
	if inv.ID == "" || inv.UserID == "" {
		return fmt.Errorf("%w: missing required field", ErrInvalidInvestment)
	}
	if inv.Balance.IsNegative() {
		return fmt.Errorf("%w: negative balance", ErrInvalidInvestment)
	}
	return nil
}
