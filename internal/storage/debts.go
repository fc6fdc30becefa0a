package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/granadev/grana/internal/common"
	"github.com/granadev/grana/internal/model"
	"github.com/shopspring/decimal"
)

// CreateDebt inserts a new debt. Balance starts at the original amount
// unless explicitly set.
func (s queries) CreateDebt(ctx context.Context, debt *model.Debt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDebt(debt); err != nil {
		return err
	}

	if debt.Balance.IsZero() && !debt.OriginalAmount.IsZero() {
		debt.Balance = debt.OriginalAmount
	}
	if debt.RemainingInstallments == 0 {
		debt.RemainingInstallments = debt.TotalInstallments
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO debts (
			id, user_id, description, original_amount, balance,
			total_installments, remaining_installments, monthly_interest_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		debt.ID,
		debt.UserID,
		debt.Description,
		debt.OriginalAmount.String(),
		debt.Balance.String(),
		debt.TotalInstallments,
		debt.RemainingInstallments,
		debt.MonthlyInterestRate.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt %s: %w", debt.ID, err)
	}
	return nil
}

// GetDebt retrieves a debt by id, scoped to its owner.
func (s queries) GetDebt(ctx context.Context, userID, id string) (*model.Debt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var debt model.Debt
	var original, balance, rate string
	err := s.q.QueryRowContext(ctx, `
		SELECT id, user_id, description, original_amount, balance,
		       total_installments, remaining_installments,
		       monthly_interest_rate, created_at
		FROM debts
		WHERE user_id = ? AND id = ?
	`, userID, id).Scan(
		&debt.ID,
		&debt.UserID,
		&debt.Description,
		&original,
		&balance,
		&debt.TotalInstallments,
		&debt.RemainingInstallments,
		&rate,
		&debt.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("debt %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}

	if debt.OriginalAmount, err = decimal.NewFromString(original); err != nil {
		return nil, fmt.Errorf("failed to parse stored original amount %q: %w", original, err)
	}
	if debt.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("failed to parse stored balance %q: %w", balance, err)
	}
	if debt.MonthlyInterestRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("failed to parse stored interest rate %q: %w", rate, err)
	}
	return &debt, nil
}

// UpdateDebtBalance persists the derived balance fields maintained by
// the reconciliation engine.
func (s queries) UpdateDebtBalance(ctx context.Context, userID, id string, balance decimal.Decimal, remainingInstallments int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if balance.IsNegative() {
		return fmt.Errorf("%w: negative balance", ErrInvalidDebt)
	}

	result, err := s.q.ExecContext(ctx, `
		UPDATE debts
		SET balance = ?, remaining_installments = ?
		WHERE user_id = ? AND id = ?
	`, balance.String(), remainingInstallments, userID, id)
	if err != nil {
		return fmt.Errorf("failed to update debt %s: %w", id, err)
	}
	return requireRow(result, "debt")
}

// ListDebts returns the owner's debts sorted by description.
func (s queries) ListDebts(ctx context.Context, userID string) ([]model.Debt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, user_id, description, original_amount, balance,
		       total_installments, remaining_installments,
		       monthly_interest_rate, created_at
		FROM debts
		WHERE user_id = ?
		ORDER BY description
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var debts []model.Debt
	for rows.Next() {
		var debt model.Debt
		var original, balance, rate string
		if err := rows.Scan(
			&debt.ID,
			&debt.UserID,
			&debt.Description,
			&original,
			&balance,
			&debt.TotalInstallments,
			&debt.RemainingInstallments,
			&rate,
			&debt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		if debt.OriginalAmount, err = decimal.NewFromString(original); err != nil {
			return nil, fmt.Errorf("failed to parse stored original amount %q: %w", original, err)
		}
		if debt.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("failed to parse stored balance %q: %w", balance, err)
		}
		if debt.MonthlyInterestRate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("failed to parse stored interest rate %q: %w", rate, err)
		}
		debts = append(debts, debt)
	}
	return debts, rows.Err()
}
