package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/granadev/grana/internal/common"
	"github.com/granadev/grana/internal/model"
	"github.com/shopspring/decimal"
)

// nullable converts an optional reference to its SQL representation.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateTransaction inserts a new transaction record.
func (s queries) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO transactions (
			id, user_id, account_id, description, amount, kind,
			date, reference_month, category_id, subcategory_id,
			debt_id, investment_id, hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		txn.ID,
		txn.UserID,
		txn.AccountID,
		txn.Description,
		txn.Amount.String(),
		string(txn.Kind),
		txn.Date,
		txn.ReferenceMonth,
		nullable(txn.CategoryID),
		nullable(txn.SubcategoryID),
		nullable(txn.DebtID),
		nullable(txn.InvestmentID),
		txn.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}
	return nil
}

const transactionColumns = `
	id, user_id, account_id, description, amount, kind,
	date, reference_month, category_id, subcategory_id,
	debt_id, investment_id, hash, created_at`

// GetTransaction retrieves a single transaction by id, scoped to its
// owner.
func (s queries) GetTransaction(ctx context.Context, userID, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.q.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND id = ?
	`, userID, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetTransactionByHash retrieves a transaction by its deduplication
// hash. Returns nil without an error when no match exists.
func (s queries) GetTransactionByHash(ctx context.Context, userID, hash string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(hash, "hash"); err != nil {
		return nil, err
	}

	row := s.q.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND hash = ?
	`, userID, hash)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction by hash: %w", err)
	}
	return txn, nil
}

// UpdateTransaction replaces all mutable fields of a transaction.
func (s queries) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	result, err := s.q.ExecContext(ctx, `
		UPDATE transactions
		SET account_id = ?, description = ?, amount = ?, kind = ?,
		    date = ?, reference_month = ?, category_id = ?,
		    subcategory_id = ?, debt_id = ?, investment_id = ?, hash = ?
		WHERE user_id = ? AND id = ?
	`,
		txn.AccountID,
		txn.Description,
		txn.Amount.String(),
		string(txn.Kind),
		txn.Date,
		txn.ReferenceMonth,
		nullable(txn.CategoryID),
		nullable(txn.SubcategoryID),
		nullable(txn.DebtID),
		nullable(txn.InvestmentID),
		txn.Hash,
		txn.UserID,
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.ID, err)
	}
	return requireRow(result, "transaction")
}

// DeleteTransaction removes a transaction record.
func (s queries) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.q.ExecContext(ctx, `
		DELETE FROM transactions WHERE user_id = ? AND id = ?
	`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	return requireRow(result, "transaction")
}

// ListTransactions returns the owner's transactions, newest first,
// optionally filtered by account.
func (s queries) ListTransactions(ctx context.Context, userID, accountID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ?`
	args := []any{userID}
	if accountID != "" {
		query += ` AND account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// ListTransactionsByMonth returns the owner's transactions grouped
// under the given reference month.
func (s queries) ListTransactionsByMonth(ctx context.Context, userID string, month time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND reference_month = ?
		ORDER BY date ASC
	`, userID, first)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by month: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var txn model.Transaction
	var amount string
	var categoryID, subcategoryID, debtID, investmentID sql.NullString

	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.AccountID,
		&txn.Description,
		&amount,
		&txn.Kind,
		&txn.Date,
		&txn.ReferenceMonth,
		&categoryID,
		&subcategoryID,
		&debtID,
		&investmentID,
		&txn.Hash,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
	}
	txn.CategoryID = categoryID.String
	txn.SubcategoryID = subcategoryID.String
	txn.DebtID = debtID.String
	txn.InvestmentID = investmentID.String

	return &txn, nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}

// requireRow converts a zero-row mutation into ErrNotFound.
func requireRow(result sql.Result, entity string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, common.ErrNotFound)
	}
	return nil
}
