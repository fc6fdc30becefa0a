package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/granadev/grana/internal/model"
	"github.com/granadev/grana/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func debtPayment(debtID string, amount string) *model.Transaction {
	return &model.Transaction{
		ID:     "txn-" + debtID,
		UserID: testutil.TestOwner,
		Date:   time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		Kind:   model.KindExpense,
		Amount: dec(amount),
		DebtID: debtID,
	}
}

func investmentTxn(invID string, kind model.TransactionKind, amount string) *model.Transaction {
	return &model.Transaction{
		ID:           "txn-" + invID,
		UserID:       testutil.TestOwner,
		Date:         time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		Kind:         kind,
		Amount:       dec(amount),
		InvestmentID: invID,
	}
}

func TestApplyDebtPayment(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedDebt(t, store, "debt-1", dec("5000.00"), 10, 10)

	engine := NewEngine(store)
	delta, err := engine.Apply(ctx, debtPayment("debt-1", "500.00"))
	require.NoError(t, err)

	assert.Equal(t, EntityDebt, delta.Entity)
	assert.True(t, delta.BalanceBefore.Equal(dec("5000.00")))
	assert.True(t, delta.BalanceAfter.Equal(dec("4500.00")))
	assert.Equal(t, 10, delta.RemainingBefore)
	assert.Equal(t, 9, delta.RemainingAfter)

	debt, err := store.GetDebt(ctx, testutil.TestOwner, "debt-1")
	require.NoError(t, err)
	assert.True(t, debt.Balance.Equal(dec("4500.00")))
	assert.Equal(t, 9, debt.RemainingInstallments)
}

func TestApplyDebtOverpaymentFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedDebt(t, store, "debt-1", dec("100.00"), 0, 0)

	delta, err := NewEngine(store).Apply(ctx, debtPayment("debt-1", "250.00"))
	require.NoError(t, err)

	assert.True(t, delta.BalanceAfter.IsZero())
	// Installments are not tracked, so the count stays put.
	assert.Equal(t, 0, delta.RemainingAfter)
}

func TestApplyDebtRemainingFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedDebt(t, store, "debt-1", dec("1000.00"), 12, 1)

	engine := NewEngine(store)
	delta, err := engine.Apply(ctx, debtPayment("debt-1", "100.00"))
	require.NoError(t, err)
	assert.Equal(t, 0, delta.RemainingAfter)

	// Further payments cannot push the count below zero.
	delta, err = engine.Apply(ctx, debtPayment("debt-1", "100.00"))
	require.NoError(t, err)
	assert.Equal(t, 0, delta.RemainingAfter)
}

func TestRevertDebtPayment(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedDebt(t, store, "debt-1", dec("5000.00"), 10, 10)

	engine := NewEngine(store)
	txn := debtPayment("debt-1", "500.00")

	_, err := engine.Apply(ctx, txn)
	require.NoError(t, err)
	delta, err := engine.Revert(ctx, txn)
	require.NoError(t, err)

	assert.True(t, delta.BalanceAfter.Equal(dec("5000.00")))
	assert.Equal(t, 10, delta.RemainingAfter)
}

func TestRevertDebtRemainingIsUncapped(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedDebt(t, store, "debt-1", dec("1000.00"), 12, 12)

	// Reverting a payment that was never applied in this history pushes
	// the remaining count past the original total.
	delta, err := NewEngine(store).Revert(ctx, debtPayment("debt-1", "100.00"))
	require.NoError(t, err)
	assert.Equal(t, 13, delta.RemainingAfter)
	assert.True(t, delta.BalanceAfter.Equal(dec("1100.00")))
}

func TestApplyInvestmentContribution(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedInvestment(t, store, "inv-1", dec("2000.00"))

	delta, err := NewEngine(store).Apply(ctx, investmentTxn("inv-1", model.KindExpense, "300.00"))
	require.NoError(t, err)

	assert.Equal(t, EntityInvestment, delta.Entity)
	assert.True(t, delta.BalanceAfter.Equal(dec("2300.00")))
	assert.False(t, delta.InitialAmountSet)
}

func TestApplyInvestmentFirstDeposit(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedInvestment(t, store, "inv-1", decimal.Zero)

	engine := NewEngine(store)
	delta, err := engine.Apply(ctx, investmentTxn("inv-1", model.KindExpense, "1500.00"))
	require.NoError(t, err)

	assert.True(t, delta.InitialAmountSet)
	assert.True(t, delta.BalanceAfter.Equal(dec("1500.00")))

	inv, err := store.GetInvestment(ctx, testutil.TestOwner, "inv-1")
	require.NoError(t, err)
	assert.True(t, inv.InitialAmount.Equal(dec("1500.00")))

	// A further contribution grows the balance but not the initial amount.
	delta, err = engine.Apply(ctx, investmentTxn("inv-1", model.KindExpense, "200.00"))
	require.NoError(t, err)
	assert.False(t, delta.InitialAmountSet)
	assert.True(t, delta.BalanceAfter.Equal(dec("1700.00")))

	inv, err = store.GetInvestment(ctx, testutil.TestOwner, "inv-1")
	require.NoError(t, err)
	assert.True(t, inv.InitialAmount.Equal(dec("1500.00")))
}

func TestApplyInvestmentWithdrawal(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedInvestment(t, store, "inv-1", dec("2000.00"))

	delta, err := NewEngine(store).Apply(ctx, investmentTxn("inv-1", model.KindIncome, "500.00"))
	require.NoError(t, err)
	assert.True(t, delta.BalanceAfter.Equal(dec("1500.00")))
}

func TestApplyInvestmentWithdrawalFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedInvestment(t, store, "inv-1", dec("200.00"))

	delta, err := NewEngine(store).Apply(ctx, investmentTxn("inv-1", model.KindIncome, "500.00"))
	require.NoError(t, err)
	assert.True(t, delta.BalanceAfter.IsZero())
}

func TestRevertInvestmentRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedInvestment(t, store, "inv-1", dec("2000.00"))

	engine := NewEngine(store)
	contribution := investmentTxn("inv-1", model.KindExpense, "300.00")

	_, err := engine.Apply(ctx, contribution)
	require.NoError(t, err)
	delta, err := engine.Revert(ctx, contribution)
	require.NoError(t, err)
	assert.True(t, delta.BalanceAfter.Equal(dec("2000.00")))
}

func TestRevertInvestmentDoesNotRestoreInitialAmount(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedInvestment(t, store, "inv-1", decimal.Zero)

	engine := NewEngine(store)
	deposit := investmentTxn("inv-1", model.KindExpense, "1500.00")

	_, err := engine.Apply(ctx, deposit)
	require.NoError(t, err)
	_, err = engine.Revert(ctx, deposit)
	require.NoError(t, err)

	inv, err := store.GetInvestment(ctx, testutil.TestOwner, "inv-1")
	require.NoError(t, err)
	assert.True(t, inv.Balance.IsZero())
	// The first-deposit rule has no inverse.
	assert.True(t, inv.InitialAmount.Equal(dec("1500.00")))
}

func TestRevertInvestmentContributionFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	testutil.SeedInvestment(t, store, "inv-1", dec("100.00"))

	delta, err := NewEngine(store).Revert(ctx, investmentTxn("inv-1", model.KindExpense, "300.00"))
	require.NoError(t, err)
	assert.True(t, delta.BalanceAfter.IsZero())
}

func TestApplyUnlinkedTransactionIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	txn := &model.Transaction{
		UserID: testutil.TestOwner,
		Kind:   model.KindExpense,
		Amount: dec("10.00"),
	}
	delta, err := NewEngine(store).Apply(ctx, txn)
	require.NoError(t, err)
	assert.Empty(t, delta.Entity)

	delta, err = NewEngine(store).Revert(ctx, txn)
	require.NoError(t, err)
	assert.Empty(t, delta.Entity)
}

func TestApplyMissingEntity(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	_, err := NewEngine(store).Apply(ctx, debtPayment("no-such-debt", "10.00"))
	assert.Error(t, err)

	_, err = NewEngine(store).Apply(ctx, investmentTxn("no-such-inv", model.KindExpense, "10.00"))
	assert.Error(t, err)
}
