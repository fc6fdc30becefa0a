package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/granadev/grana/internal/common"
	"github.com/granadev/grana/internal/model"
	"github.com/granadev/grana/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedAccount(t, store, "acc-1", "Checking")
	testutil.SeedCategory(t, store, "cat-debt", "Car Loan", model.CategoryTypeDebt)
	testutil.SeedDebt(t, store, "debt-1", dec("5000.00"), 10, 10)

	svc := NewService(store)
	txn := &model.Transaction{
		UserID:      testutil.TestOwner,
		AccountID:   "acc-1",
		Date:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Description: "CAR LOAN INSTALLMENT",
		Kind:        model.KindExpense,
		Amount:      dec("500.00"),
		CategoryID:  "cat-debt",
		DebtID:      "debt-1",
	}

	delta, err := svc.Create(ctx, txn)
	require.NoError(t, err)

	// Identity fields are filled in.
	assert.NotEmpty(t, txn.ID)
	assert.NotEmpty(t, txn.Hash)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), txn.ReferenceMonth)

	assert.True(t, delta.BalanceAfter.Equal(dec("4500.00")))
	assert.Equal(t, 9, delta.RemainingAfter)

	stored, err := store.GetTransaction(ctx, testutil.TestOwner, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "CAR LOAN INSTALLMENT", stored.Description)
}

func TestServiceCreateRejectsBrokenLink(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedAccount(t, store, "acc-1", "Checking")
	testutil.SeedCategory(t, store, "cat-debt", "Car Loan", model.CategoryTypeDebt)
	testutil.SeedDebt(t, store, "debt-1", dec("5000.00"), 10, 10)

	svc := NewService(store)
	txn := &model.Transaction{
		UserID:      testutil.TestOwner,
		AccountID:   "acc-1",
		Date:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Description: "CAR LOAN INSTALLMENT",
		Kind:        model.KindExpense,
		Amount:      dec("500.00"),
		CategoryID:  "cat-debt",
		// DebtID missing.
	}

	_, err := svc.Create(ctx, txn)
	assert.ErrorIs(t, err, common.ErrMissingDebtLink)

	// Nothing was written and the debt is untouched.
	txns, err := store.ListTransactions(ctx, testutil.TestOwner, "")
	require.NoError(t, err)
	assert.Empty(t, txns)
	debt, err := store.GetDebt(ctx, testutil.TestOwner, "debt-1")
	require.NoError(t, err)
	assert.True(t, debt.Balance.Equal(dec("5000.00")))
}

func TestServiceCreateRejectsForeignSubcategory(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedAccount(t, store, "acc-1", "Checking")
	testutil.SeedCategory(t, store, "cat-a", "Food", model.CategoryTypeStandard)
	testutil.SeedCategory(t, store, "cat-b", "Transport", model.CategoryTypeStandard)
	require.NoError(t, store.CreateSubcategory(ctx, &model.Subcategory{
		ID: "sub-b", UserID: testutil.TestOwner, CategoryID: "cat-b", Name: "Bus",
	}))

	svc := NewService(store)
	_, err := svc.Create(ctx, &model.Transaction{
		UserID:        testutil.TestOwner,
		AccountID:     "acc-1",
		Date:          time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Description:   "LUNCH",
		Kind:          model.KindExpense,
		Amount:        dec("20.00"),
		CategoryID:    "cat-a",
		SubcategoryID: "sub-b",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
}

func TestServiceUpdateRevertsThenApplies(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedAccount(t, store, "acc-1", "Checking")
	testutil.SeedCategory(t, store, "cat-debt", "Car Loan", model.CategoryTypeDebt)
	testutil.SeedDebt(t, store, "debt-1", dec("5000.00"), 10, 10)

	svc := NewService(store)
	txn := &model.Transaction{
		UserID:      testutil.TestOwner,
		AccountID:   "acc-1",
		Date:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Description: "CAR LOAN INSTALLMENT",
		Kind:        model.KindExpense,
		Amount:      dec("500.00"),
		CategoryID:  "cat-debt",
		DebtID:      "debt-1",
	}
	_, err := svc.Create(ctx, txn)
	require.NoError(t, err)

	// Correct the amount: the old 500 comes back, then 750 goes out.
	txn.Amount = dec("750.00")
	delta, err := svc.Update(ctx, txn)
	require.NoError(t, err)
	assert.True(t, delta.BalanceAfter.Equal(dec("4250.00")))

	debt, err := store.GetDebt(ctx, testutil.TestOwner, "debt-1")
	require.NoError(t, err)
	assert.True(t, debt.Balance.Equal(dec("4250.00")))
	assert.Equal(t, 9, debt.RemainingInstallments)
}

func TestServiceUpdateMovesLinkBetweenEntities(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedAccount(t, store, "acc-1", "Checking")
	testutil.SeedCategory(t, store, "cat-debt", "Loans", model.CategoryTypeDebt)
	testutil.SeedDebt(t, store, "debt-1", dec("1000.00"), 0, 0)
	testutil.SeedDebt(t, store, "debt-2", dec("2000.00"), 0, 0)

	svc := NewService(store)
	txn := &model.Transaction{
		UserID:      testutil.TestOwner,
		AccountID:   "acc-1",
		Date:        time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		Description: "LOAN PAYMENT",
		Kind:        model.KindExpense,
		Amount:      dec("100.00"),
		CategoryID:  "cat-debt",
		DebtID:      "debt-1",
	}
	_, err := svc.Create(ctx, txn)
	require.NoError(t, err)

	txn.DebtID = "debt-2"
	_, err = svc.Update(ctx, txn)
	require.NoError(t, err)

	first, err := store.GetDebt(ctx, testutil.TestOwner, "debt-1")
	require.NoError(t, err)
	assert.True(t, first.Balance.Equal(dec("1000.00")))
	second, err := store.GetDebt(ctx, testutil.TestOwner, "debt-2")
	require.NoError(t, err)
	assert.True(t, second.Balance.Equal(dec("1900.00")))
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedAccount(t, store, "acc-1", "Checking")
	testutil.SeedCategory(t, store, "cat-inv", "Brokerage", model.CategoryTypeInvestment)
	testutil.SeedInvestment(t, store, "inv-1", dec("1000.00"))

	svc := NewService(store)
	txn := &model.Transaction{
		UserID:       testutil.TestOwner,
		AccountID:    "acc-1",
		Date:         time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Description:  "MONTHLY CONTRIBUTION",
		Kind:         model.KindExpense,
		Amount:       dec("200.00"),
		CategoryID:   "cat-inv",
		InvestmentID: "inv-1",
	}
	_, err := svc.Create(ctx, txn)
	require.NoError(t, err)

	delta, err := svc.Delete(ctx, testutil.TestOwner, txn.ID)
	require.NoError(t, err)
	assert.True(t, delta.BalanceAfter.Equal(dec("1000.00")))

	_, err = store.GetTransaction(ctx, testutil.TestOwner, txn.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestServiceDeleteMissingTransaction(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	_, err := NewService(store).Delete(ctx, testutil.TestOwner, "no-such-id")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
