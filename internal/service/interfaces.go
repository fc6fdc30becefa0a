// Package service defines the interfaces between the engine and the
// persistence boundary. All lookups and mutations are scoped by the
// owning user id; ownership is enforced here, not by the engine.
package service

import (
	"context"
	"time"

	"github.com/granadev/grana/internal/model"
	"github.com/shopspring/decimal"
)

// LedgerStore is the subset of storage the reconciliation engine needs:
// resolving debts and investments and persisting their derived balance
// fields.
type LedgerStore interface {
	GetDebt(ctx context.Context, userID, id string) (*model.Debt, error)
	UpdateDebtBalance(ctx context.Context, userID, id string, balance decimal.Decimal, remainingInstallments int) error
	GetInvestment(ctx context.Context, userID, id string) (*model.Investment, error)
	UpdateInvestmentBalance(ctx context.Context, userID, id string, balance, initialAmount decimal.Decimal) error
}

// Store is the full set of owner-scoped entity operations.
type Store interface {
	LedgerStore

	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, userID, id string) (*model.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]model.Account, error)

	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, userID, id string) (*model.Category, error)
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)
	CreateSubcategory(ctx context.Context, subcategory *model.Subcategory) error
	GetSubcategory(ctx context.Context, userID, id string) (*model.Subcategory, error)

	CreateDebt(ctx context.Context, debt *model.Debt) error
	ListDebts(ctx context.Context, userID string) ([]model.Debt, error)

	CreateInvestment(ctx context.Context, investment *model.Investment) error
	ListInvestments(ctx context.Context, userID string) ([]model.Investment, error)

	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, userID, id string) (*model.Transaction, error)
	GetTransactionByHash(ctx context.Context, userID, hash string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	ListTransactions(ctx context.Context, userID, accountID string) ([]model.Transaction, error)
	ListTransactionsByMonth(ctx context.Context, userID string, month time.Time) ([]model.Transaction, error)
}

// Transaction is a unit of work at the persistence boundary. Each
// import row and each create/edit/delete with reconciliation runs
// inside one Transaction so the validate-write-reconcile sequence is
// all-or-nothing.
type Transaction interface {
	Store
	Commit() error
	Rollback() error
}

// Storage is the root persistence interface.
type Storage interface {
	Store
	BeginTx(ctx context.Context) (Transaction, error)
	Migrate(ctx context.Context) error
	Close() error
}
