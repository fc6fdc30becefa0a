package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/granadev/grana/internal/common"
	"github.com/granadev/grana/internal/model"
)

// CreateAccount inserts a new account.
func (s queries) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if account.ID == "" || account.UserID == "" || account.Name == "" {
		return fmt.Errorf("missing required account field")
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name) VALUES (?, ?, ?)
	`, account.ID, account.UserID, account.Name)
	if err != nil {
		return fmt.Errorf("failed to insert account %s: %w", account.Name, err)
	}
	return nil
}

// GetAccount retrieves an account by id, scoped to its owner.
func (s queries) GetAccount(ctx context.Context, userID, id string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var account model.Account
	err := s.q.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM accounts
		WHERE user_id = ? AND id = ?
	`, userID, id).Scan(&account.ID, &account.UserID, &account.Name, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// ListAccounts returns the owner's accounts sorted by name.
func (s queries) ListAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM accounts
		WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var account model.Account
		if err := rows.Scan(&account.ID, &account.UserID, &account.Name, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
