package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/granadev/grana/internal/common"
	"github.com/granadev/grana/internal/model"
	"github.com/granadev/grana/internal/service"
)

// Service owns the transaction lifecycle: each create, edit, and delete
// validates the link rule, writes the record, and reconciles the linked
// balance inside a single storage transaction, so the sequence is
// all-or-nothing per operation.
type Service struct {
	storage service.Storage
}

// NewService creates a ledger service over the given storage.
func NewService(storage service.Storage) *Service {
	return &Service{storage: storage}
}

// Create validates and persists a new transaction and applies its
// balance effect. The transaction's id, hash, and reference month are
// filled in if absent.
func (s *Service) Create(ctx context.Context, txn *model.Transaction) (BalanceDelta, error) {
	if err := s.validate(ctx, txn); err != nil {
		return BalanceDelta{}, err
	}

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	txn.NormalizeReferenceMonth()
	if txn.Hash == "" {
		txn.Hash = txn.GenerateHash()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	var delta BalanceDelta
	err := s.inTx(ctx, func(tx service.Transaction) error {
		if err := tx.CreateTransaction(ctx, txn); err != nil {
			return err
		}
		var err error
		delta, err = NewEngine(tx).Apply(ctx, txn)
		return err
	})
	return delta, err
}

// Update replaces a transaction's fields. The pre-edit snapshot is
// reverted before the new effect is applied; both steps and the record
// update share one storage transaction.
func (s *Service) Update(ctx context.Context, txn *model.Transaction) (BalanceDelta, error) {
	old, err := s.storage.GetTransaction(ctx, txn.UserID, txn.ID)
	if err != nil {
		return BalanceDelta{}, fmt.Errorf("loading transaction %s: %w", txn.ID, err)
	}

	if err := s.validate(ctx, txn); err != nil {
		return BalanceDelta{}, err
	}

	txn.NormalizeReferenceMonth()
	txn.Hash = txn.GenerateHash()
	txn.CreatedAt = old.CreatedAt

	var delta BalanceDelta
	err = s.inTx(ctx, func(tx service.Transaction) error {
		engine := NewEngine(tx)
		if _, err := engine.Revert(ctx, old); err != nil {
			return err
		}
		if err := tx.UpdateTransaction(ctx, txn); err != nil {
			return err
		}
		var err error
		delta, err = engine.Apply(ctx, txn)
		return err
	})
	return delta, err
}

// Delete removes a transaction and reverts its balance effect.
func (s *Service) Delete(ctx context.Context, userID, id string) (BalanceDelta, error) {
	old, err := s.storage.GetTransaction(ctx, userID, id)
	if err != nil {
		return BalanceDelta{}, fmt.Errorf("loading transaction %s: %w", id, err)
	}

	var delta BalanceDelta
	err = s.inTx(ctx, func(tx service.Transaction) error {
		var err error
		if delta, err = NewEngine(tx).Revert(ctx, old); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, userID, id)
	})
	return delta, err
}

// validate resolves the category and subcategory and enforces the
// link rule before any mutation.
func (s *Service) validate(ctx context.Context, txn *model.Transaction) error {
	if !txn.Kind.Valid() {
		return fmt.Errorf("invalid transaction kind %q", txn.Kind)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("transaction amount must not be negative")
	}

	var category *model.Category
	if txn.CategoryID != "" {
		var err error
		category, err = s.storage.GetCategory(ctx, txn.UserID, txn.CategoryID)
		if err != nil {
			return fmt.Errorf("resolving category %s: %w", txn.CategoryID, err)
		}
	}

	if txn.SubcategoryID != "" {
		sub, err := s.storage.GetSubcategory(ctx, txn.UserID, txn.SubcategoryID)
		if err != nil {
			return fmt.Errorf("resolving subcategory %s: %w", txn.SubcategoryID, err)
		}
		if category == nil || sub.CategoryID != category.ID {
			return fmt.Errorf("subcategory %q does not belong to the transaction's category", sub.Name)
		}
	}

	return ValidateTransaction(txn, category)
}

// inTx runs fn inside one storage transaction. A rollback failure after
// a mid-unit error means the write and the reconcile may have diverged,
// which is surfaced as a distinct ledger-inconsistency error rather
// than swallowed.
func (s *Service) inTx(ctx context.Context, fn func(tx service.Transaction) error) error {
	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("beginning storage transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: %v (rollback failed: %v)", common.ErrLedgerInconsistent, err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit failed: %v", common.ErrLedgerInconsistent, err)
	}
	return nil
}
