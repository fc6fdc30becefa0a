// Package testutil provides shared helpers for tests that need a real
// storage layer.
package testutil

import (
	"context"
	"testing"

	"github.com/granadev/grana/internal/model"
	"github.com/granadev/grana/internal/storage"
	"github.com/shopspring/decimal"
)

// TestOwner is the user id test fixtures belong to.
const TestOwner = "test-user"

// SetupTestDB creates a migrated in-memory SQLite storage with cleanup
// registered on t.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedAccount creates an account owned by TestOwner.
func SeedAccount(t *testing.T, store *storage.SQLiteStorage, id, name string) *model.Account {
	t.Helper()

	account := &model.Account{ID: id, UserID: TestOwner, Name: name}
	if err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to seed account %q: %v", name, err)
	}
	return account
}

// SeedCategory creates a category owned by TestOwner.
func SeedCategory(t *testing.T, store *storage.SQLiteStorage, id, name string, catType model.CategoryType) *model.Category {
	t.Helper()

	cat := &model.Category{ID: id, UserID: TestOwner, Name: name, Type: catType}
	if err := store.CreateCategory(context.Background(), cat); err != nil {
		t.Fatalf("failed to seed category %q: %v", name, err)
	}
	return cat
}

// SeedDebt creates a debt owned by TestOwner with the given balance and
// installment counts.
func SeedDebt(t *testing.T, store *storage.SQLiteStorage, id string, balance decimal.Decimal, total, remaining int) *model.Debt {
	t.Helper()

	debt := &model.Debt{
		ID:                    id,
		UserID:                TestOwner,
		Description:           "debt " + id,
		OriginalAmount:        balance,
		Balance:               balance,
		TotalInstallments:     total,
		RemainingInstallments: remaining,
	}
	if err := store.CreateDebt(context.Background(), debt); err != nil {
		t.Fatalf("failed to seed debt %q: %v", id, err)
	}
	return debt
}

// SeedInvestment creates an investment owned by TestOwner with the
// given balance.
func SeedInvestment(t *testing.T, store *storage.SQLiteStorage, id string, balance decimal.Decimal) *model.Investment {
	t.Helper()

	inv := &model.Investment{
		ID:            id,
		UserID:        TestOwner,
		Name:          "investment " + id,
		InitialAmount: balance,
		Balance:       balance,
	}
	if err := store.CreateInvestment(context.Background(), inv); err != nil {
		t.Fatalf("failed to seed investment %q: %v", id, err)
	}
	return inv
}
