// Package ledger validates transaction links and keeps debt and
// investment balances consistent with the transaction history.
package ledger

import (
	"fmt"

	"github.com/granadev/grana/internal/common"
	"github.com/granadev/grana/internal/model"
)

// ValidateLink enforces the structural rule a category's type imposes
// on a transaction: debt categories require a debt reference,
// investment categories an investment reference, standard categories
// (and uncategorized transactions) take neither. Runs before any
// balance mutation, at creation, edit, and for every import row.
func ValidateLink(category *model.Category, debtID, investmentID string) error {
	if debtID != "" && investmentID != "" {
		return common.ErrConflictingLinks
	}

	if category == nil {
		if debtID != "" || investmentID != "" {
			return fmt.Errorf("%w: transaction has no category", common.ErrUnexpectedLink)
		}
		return nil
	}

	switch category.Type {
	case model.CategoryTypeDebt:
		if debtID == "" {
			return fmt.Errorf("%w: category %q", common.ErrMissingDebtLink, category.Name)
		}
		if investmentID != "" {
			return fmt.Errorf("%w: category %q is debt-typed", common.ErrUnexpectedLink, category.Name)
		}
	case model.CategoryTypeInvestment:
		if investmentID == "" {
			return fmt.Errorf("%w: category %q", common.ErrMissingInvestmentLink, category.Name)
		}
		if debtID != "" {
			return fmt.Errorf("%w: category %q is investment-typed", common.ErrUnexpectedLink, category.Name)
		}
	default:
		if debtID != "" || investmentID != "" {
			return fmt.Errorf("%w: category %q is standard", common.ErrUnexpectedLink, category.Name)
		}
	}

	return nil
}

// ValidateTransaction applies ValidateLink to a transaction against its
// resolved category.
func ValidateTransaction(txn *model.Transaction, category *model.Category) error {
	if txn == nil {
		return fmt.Errorf("transaction cannot be nil")
	}
	return ValidateLink(category, txn.DebtID, txn.InvestmentID)
}
