package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/granadev/grana/internal/cli"
	"github.com/granadev/grana/internal/importer"
	"github.com/granadev/grana/internal/statement"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement into an account",
		Long: `Import transactions from a bank statement file.

Delimited text statements (date;description;amount with auto-detected
delimiter) and OFX/QFX statements are supported. Every row is validated,
written, and reconciled in order; a bad row aborts the rest of the batch
but rows already imported stay committed.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("account", "a", "", "target account id (required)")
	cmd.Flags().StringP("format", "f", "text", "statement format (text, ofx)")
	cmd.Flags().StringP("category", "c", "", "category id applied to every row")
	cmd.Flags().String("subcategory", "", "subcategory id applied to every row")
	cmd.Flags().String("debt", "", "debt id applied to every row (debt-typed category)")
	cmd.Flags().String("investment", "", "investment id applied to every row (investment-typed category)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	accountID, _ := cmd.Flags().GetString("account")
	format, _ := cmd.Flags().GetString("format")
	categoryID, _ := cmd.Flags().GetString("category")
	subcategoryID, _ := cmd.Flags().GetString("subcategory")
	debtID, _ := cmd.Flags().GetString("debt")
	investmentID, _ := cmd.Flags().GetString("investment")

	if _, err := store.GetAccount(ctx, owner(), accountID); err != nil {
		return fmt.Errorf("resolving account %s: %w", accountID, err)
	}

	categorize := func(_ int, _ statement.Draft) (importer.RowCategorization, error) {
		return importer.RowCategorization{
			CategoryID:    categoryID,
			SubcategoryID: subcategoryID,
			DebtID:        debtID,
			InvestmentID:  investmentID,
		}, nil
	}

	parser := statement.NewParserWithLimit(viper.GetInt("import.max_statement_bytes"))
	imp := importer.New(store, parser)

	var summary importer.ImportSummary
	switch format {
	case "ofx":
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open statement: %w", err)
		}
		defer func() { _ = file.Close() }()

		summary, err = imp.ImportOFX(ctx, file, owner(), accountID, categorize)
		if err != nil {
			return reportImportError(cmd, err)
		}
	case "text":
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read statement: %w", err)
		}

		drafts, err := parser.Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parsing statement: %w", err)
		}

		bar := progressbar.Default(int64(len(drafts)), "importing")
		imp.Progress = func(_ int) { _ = bar.Add(1) }

		summary, err = imp.ImportDrafts(ctx, drafts, owner(), accountID, categorize)
		if err != nil {
			return reportImportError(cmd, err)
		}
	default:
		return fmt.Errorf("unknown statement format %q", format)
	}

	cmd.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d duplicates skipped)",
		summary.Imported, summary.Skipped)))
	return nil
}

// reportImportError surfaces the partial-success condition: rows
// committed before the failure stay committed and both counts are shown
// to the user.
func reportImportError(cmd *cobra.Command, err error) error {
	var importErr *importer.ImportError
	if errors.As(err, &importErr) {
		cmd.PrintErrln(cli.FormatWarning(fmt.Sprintf(
			"%d rows imported before the failure and were kept", importErr.Imported)))
		return fmt.Errorf("import failed at row %d: %w", importErr.Row, importErr.Err)
	}
	return err
}
