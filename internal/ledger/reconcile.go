package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/granadev/grana/internal/model"
	"github.com/granadev/grana/internal/service"
	"github.com/shopspring/decimal"
)

// EntityKind names the ledger entity a delta touched.
type EntityKind string

const (
	// EntityDebt marks a delta applied to a debt balance.
	EntityDebt EntityKind = "debt"
	// EntityInvestment marks a delta applied to an investment balance.
	EntityInvestment EntityKind = "investment"
)

// BalanceDelta records how a single apply or revert changed a linked
// entity. A zero-value delta (empty Entity) means the transaction was
// not linked and nothing changed.
type BalanceDelta struct {
	Entity           EntityKind
	EntityID         string
	BalanceBefore    decimal.Decimal
	BalanceAfter     decimal.Decimal
	RemainingBefore  int
	RemainingAfter   int
	InitialAmountSet bool // investment first-deposit rule fired
}

// Engine computes and persists the balance effect a transaction has on
// a linked debt or investment, and the inverse effect to undo it.
// Callers pass a store bound to the surrounding unit of work; once an
// apply or revert begins it must run to completion or the ledger is
// left inconsistent for that transaction.
type Engine struct {
	store service.LedgerStore
}

// NewEngine creates a reconciliation engine over the given store.
func NewEngine(store service.LedgerStore) *Engine {
	return &Engine{store: store}
}

// Apply records the financial side-effect of txn on its linked entity.
//
// Debt: balance decreases by the amount, floored at zero; a debt that
// tracks installments has its remaining count decremented, floored at
// zero. Investment: an expense is a contribution (balance increases,
// and a contribution landing on a zero balance also becomes the
// position's initial amount); an income is a withdrawal (balance
// decreases, floored at zero).
func (e *Engine) Apply(ctx context.Context, txn *model.Transaction) (BalanceDelta, error) {
	switch {
	case txn.DebtID != "":
		return e.applyDebt(ctx, txn)
	case txn.InvestmentID != "":
		return e.applyInvestment(ctx, txn)
	}
	return BalanceDelta{}, nil
}

// Revert undoes a previously applied transaction, using the pre-edit
// snapshot of the transaction. Debt: balance increases by the amount
// and the remaining installment count is restored (uncapped).
// Investment: a contribution is subtracted back out and a withdrawal
// added back; a prior initial amount overwritten by the first-deposit
// rule is not restored.
func (e *Engine) Revert(ctx context.Context, txn *model.Transaction) (BalanceDelta, error) {
	switch {
	case txn.DebtID != "":
		return e.revertDebt(ctx, txn)
	case txn.InvestmentID != "":
		return e.revertInvestment(ctx, txn)
	}
	return BalanceDelta{}, nil
}

func (e *Engine) applyDebt(ctx context.Context, txn *model.Transaction) (BalanceDelta, error) {
	debt, err := e.store.GetDebt(ctx, txn.UserID, txn.DebtID)
	if err != nil {
		return BalanceDelta{}, fmt.Errorf("resolving debt %s: %w", txn.DebtID, err)
	}

	delta := BalanceDelta{
		Entity:          EntityDebt,
		EntityID:        debt.ID,
		BalanceBefore:   debt.Balance,
		RemainingBefore: debt.RemainingInstallments,
	}

	after := debt.Balance.Sub(txn.Amount)
	if after.IsNegative() {
		after = decimal.Zero
	}
	remaining := debt.RemainingInstallments
	if debt.TracksInstallments() && remaining > 0 {
		remaining--
	}

	if err := e.store.UpdateDebtBalance(ctx, txn.UserID, debt.ID, after, remaining); err != nil {
		return BalanceDelta{}, fmt.Errorf("updating debt %s: %w", debt.ID, err)
	}

	delta.BalanceAfter = after
	delta.RemainingAfter = remaining
	slog.Debug("applied debt effect",
		"debt", debt.ID, "amount", txn.Amount, "balance", after, "remaining", remaining)
	return delta, nil
}

func (e *Engine) revertDebt(ctx context.Context, txn *model.Transaction) (BalanceDelta, error) {
	debt, err := e.store.GetDebt(ctx, txn.UserID, txn.DebtID)
	if err != nil {
		return BalanceDelta{}, fmt.Errorf("resolving debt %s: %w", txn.DebtID, err)
	}

	delta := BalanceDelta{
		Entity:          EntityDebt,
		EntityID:        debt.ID,
		BalanceBefore:   debt.Balance,
		RemainingBefore: debt.RemainingInstallments,
	}

	after := debt.Balance.Add(txn.Amount)
	remaining := debt.RemainingInstallments
	if debt.TracksInstallments() {
		// Uncapped on purpose: reverting more transactions than were
		// applied can push this above the original total.
		remaining++
	}

	if err := e.store.UpdateDebtBalance(ctx, txn.UserID, debt.ID, after, remaining); err != nil {
		return BalanceDelta{}, fmt.Errorf("updating debt %s: %w", debt.ID, err)
	}

	delta.BalanceAfter = after
	delta.RemainingAfter = remaining
	slog.Debug("reverted debt effect",
		"debt", debt.ID, "amount", txn.Amount, "balance", after, "remaining", remaining)
	return delta, nil
}

func (e *Engine) applyInvestment(ctx context.Context, txn *model.Transaction) (BalanceDelta, error) {
	inv, err := e.store.GetInvestment(ctx, txn.UserID, txn.InvestmentID)
	if err != nil {
		return BalanceDelta{}, fmt.Errorf("resolving investment %s: %w", txn.InvestmentID, err)
	}

	delta := BalanceDelta{
		Entity:        EntityInvestment,
		EntityID:      inv.ID,
		BalanceBefore: inv.Balance,
	}

	balance := inv.Balance
	initial := inv.InitialAmount
	if txn.Kind == model.KindExpense {
		// Contribution. A contribution landing on an empty position is
		// its opening deposit.
		if balance.IsZero() {
			initial = txn.Amount
			delta.InitialAmountSet = true
		}
		balance = balance.Add(txn.Amount)
	} else {
		// Withdrawal.
		balance = balance.Sub(txn.Amount)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
	}

	if err := e.store.UpdateInvestmentBalance(ctx, txn.UserID, inv.ID, balance, initial); err != nil {
		return BalanceDelta{}, fmt.Errorf("updating investment %s: %w", inv.ID, err)
	}

	delta.BalanceAfter = balance
	slog.Debug("applied investment effect",
		"investment", inv.ID, "kind", txn.Kind, "amount", txn.Amount, "balance", balance)
	return delta, nil
}

func (e *Engine) revertInvestment(ctx context.Context, txn *model.Transaction) (BalanceDelta, error) {
	inv, err := e.store.GetInvestment(ctx, txn.UserID, txn.InvestmentID)
	if err != nil {
		return BalanceDelta{}, fmt.Errorf("resolving investment %s: %w", txn.InvestmentID, err)
	}

	delta := BalanceDelta{
		Entity:        EntityInvestment,
		EntityID:      inv.ID,
		BalanceBefore: inv.Balance,
	}

	balance := inv.Balance
	if txn.Kind == model.KindExpense {
		balance = balance.Sub(txn.Amount)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
	} else {
		balance = balance.Add(txn.Amount)
	}

	// InitialAmount deliberately untouched: the first-deposit rule has
	// no exact inverse.
	if err := e.store.UpdateInvestmentBalance(ctx, txn.UserID, inv.ID, balance, inv.InitialAmount); err != nil {
		return BalanceDelta{}, fmt.Errorf("updating investment %s: %w", inv.ID, err)
	}

	delta.BalanceAfter = balance
	slog.Debug("reverted investment effect",
		"investment", inv.ID, "kind", txn.Kind, "amount", txn.Amount, "balance", balance)
	return delta, nil
}
