// Package importer drives parsed statement drafts through link
// validation, persistence, and balance reconciliation, one row at a
// time.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/granadev/grana/internal/ledger"
	"github.com/granadev/grana/internal/model"
	"github.com/granadev/grana/internal/ofx"
	"github.com/granadev/grana/internal/service"
	"github.com/granadev/grana/internal/statement"
)

// RowCategorization assigns a draft its category and optional ledger
// links before it becomes a transaction.
type RowCategorization struct {
	CategoryID    string
	SubcategoryID string
	DebtID        string
	InvestmentID  string
}

// RowCategorizer resolves the categorization for one draft. index is
// the 1-based row position within the statement.
type RowCategorizer func(index int, draft statement.Draft) (RowCategorization, error)

// ImportSummary reports a completed batch.
type ImportSummary struct {
	Imported int
	Skipped  int // duplicates detected by transaction hash
}

// ImportError reports a batch aborted mid-way. Rows before Row stayed
// committed; rows after were never attempted.
type ImportError struct {
	Err      error
	Row      int
	Imported int
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%d rows imported, failed at row %d: %v", e.Imported, e.Row, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ProgressFunc is called after each row is settled (imported or
// skipped).
type ProgressFunc func(row int)

// Importer orchestrates batch statement imports. Rows are processed
// strictly in input order: a later row may hit the same debt or
// investment whose balance an earlier row just changed, so no row
// starts before the previous one's validation, persistence, and
// reconciliation have completed.
type Importer struct {
	storage  service.Storage
	ledger   *ledger.Service
	parser   *statement.Parser
	Progress ProgressFunc
}

// New creates an importer over the given storage.
func New(storage service.Storage, parser *statement.Parser) *Importer {
	return &Importer{
		storage: storage,
		ledger:  ledger.NewService(storage),
		parser:  parser,
	}
}

// ImportStatement parses delimited statement text and imports every
// draft into the target account. Parse failures carry no side effects;
// a row failure aborts the batch but leaves earlier rows committed.
func (i *Importer) ImportStatement(ctx context.Context, text, userID, accountID string, categorize RowCategorizer) (ImportSummary, error) {
	drafts, err := i.parser.Parse(text)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("parsing statement: %w", err)
	}
	return i.ImportDrafts(ctx, drafts, userID, accountID, categorize)
}

// ImportOFX reads an OFX/QFX statement and imports every draft into the
// target account.
func (i *Importer) ImportOFX(ctx context.Context, r io.Reader, userID, accountID string, categorize RowCategorizer) (ImportSummary, error) {
	drafts, err := ofx.NewParser().ParseStatement(r)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("parsing OFX statement: %w", err)
	}
	return i.ImportDrafts(ctx, drafts, userID, accountID, categorize)
}

// ImportDrafts imports an ordered draft sequence. Each row runs
// validate, write, reconcile to completion before the next row starts.
func (i *Importer) ImportDrafts(ctx context.Context, drafts []statement.Draft, userID, accountID string, categorize RowCategorizer) (ImportSummary, error) {
	var summary ImportSummary

	for idx, draft := range drafts {
		row := idx + 1

		cat := RowCategorization{}
		if categorize != nil {
			var err error
			cat, err = categorize(row, draft)
			if err != nil {
				return summary, &ImportError{Row: row, Imported: summary.Imported, Err: err}
			}
		}

		txn := model.Transaction{
			UserID:        userID,
			AccountID:     accountID,
			Date:          draft.Date,
			Description:   draft.Description,
			Amount:        draft.Amount,
			Kind:          draft.Kind,
			CategoryID:    cat.CategoryID,
			SubcategoryID: cat.SubcategoryID,
			DebtID:        cat.DebtID,
			InvestmentID:  cat.InvestmentID,
		}
		txn.NormalizeReferenceMonth()
		txn.Hash = txn.GenerateHash()

		existing, err := i.storage.GetTransactionByHash(ctx, userID, txn.Hash)
		if err != nil {
			return summary, &ImportError{Row: row, Imported: summary.Imported, Err: err}
		}
		if existing != nil {
			summary.Skipped++
			slog.Debug("skipping duplicate row", "row", row, "hash", txn.Hash)
			if i.Progress != nil {
				i.Progress(row)
			}
			continue
		}

		if _, err := i.ledger.Create(ctx, &txn); err != nil {
			return summary, &ImportError{Row: row, Imported: summary.Imported, Err: err}
		}
		summary.Imported++
		if i.Progress != nil {
			i.Progress(row)
		}
	}

	slog.Info("statement import complete",
		"imported", summary.Imported, "skipped", summary.Skipped, "account", accountID)
	return summary, nil
}
