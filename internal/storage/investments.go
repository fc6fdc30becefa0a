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

// CreateInvestment inserts a new investment position.
func (s queries) CreateInvestment(ctx context.Context, inv *model.Investment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateInvestment(inv); err != nil {
		return err
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO investments (id, user_id, name, initial_amount, balance)
		VALUES (?, ?, ?, ?, ?)
	`, inv.ID, inv.UserID, inv.Name, inv.InitialAmount.String(), inv.Balance.String())
	if err != nil {
		return fmt.Errorf("failed to insert investment %s: %w", inv.ID, err)
	}
	return nil
}

// GetInvestment retrieves an investment by id, scoped to its owner.
func (s queries) GetInvestment(ctx context.Context, userID, id string) (*model.Investment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var inv model.Investment
	var initial, balance string
	err := s.q.QueryRowContext(ctx, `
		SELECT id, user_id, name, initial_amount, balance, created_at
		FROM investments
		WHERE user_id = ? AND id = ?
	`, userID, id).Scan(&inv.ID, &inv.UserID, &inv.Name, &initial, &balance, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("investment %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}

	if inv.InitialAmount, err = decimal.NewFromString(initial); err != nil {
		return nil, fmt.Errorf("failed to parse stored initial amount %q: %w", initial, err)
	}
	if inv.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("failed to parse stored balance %q: %w", balance, err)
	}
	return &inv, nil
}

// UpdateInvestmentBalance persists the derived balance fields
// maintained by the reconciliation engine.
func (s queries) UpdateInvestmentBalance(ctx context.Context, userID, id string, balance, initialAmount decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if balance.IsNegative() {
		return fmt.Errorf("%w: negative balance", ErrInvalidInvestment)
	}

	result, err := s.q.ExecContext(ctx, `
		UPDATE investments
		SET balance = ?, initial_amount = ?
		WHERE user_id = ? AND id = ?
	`, balance.String(), initialAmount.String(), userID, id)
	if err != nil {
		return fmt.Errorf("failed to update investment %s: %w", id, err)
	}
	return requireRow(result, "investment")
}

// ListInvestments returns the owner's investments sorted by name.
func (s queries) ListInvestments(ctx context.Context, userID string) ([]model.Investment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, user_id, name, initial_amount, balance, created_at
		FROM investments
		WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var investments []model.Investment
	for rows.Next() {
		var inv model.Investment
		var initial, balance string
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Name, &initial, &balance, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		if inv.InitialAmount, err = decimal.NewFromString(initial); err != nil {
			return nil, fmt.Errorf("failed to parse stored initial amount %q: %w", initial, err)
		}
		if inv.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("failed to parse stored balance %q: %w", balance, err)
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}
