package main

import (
	"fmt"
	"time"

	"github.com/granadev/grana/internal/cli"
	"github.com/granadev/grana/internal/ledger"
	"github.com/granadev/grana/internal/model"
	"github.com/granadev/grana/internal/statement"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Record and inspect ledger transactions",
	}

	cmd.AddCommand(transactionsAddCmd())
	cmd.AddCommand(transactionsEditCmd())
	cmd.AddCommand(transactionsDeleteCmd())
	cmd.AddCommand(transactionsListCmd())

	return cmd
}

func transactionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("account", "a", "", "account id (required)")
	cmd.Flags().StringP("description", "d", "", "description (required)")
	cmd.Flags().String("amount", "", "amount, negative for expense (required)")
	cmd.Flags().String("date", "", "occurrence date as DD/MM/YYYY (default: today)")
	cmd.Flags().String("month", "", "reference month as MM/YYYY (default: from date)")
	cmd.Flags().StringP("category", "c", "", "category id")
	cmd.Flags().String("subcategory", "", "subcategory id")
	cmd.Flags().String("debt", "", "debt id (debt-typed category)")
	cmd.Flags().String("investment", "", "investment id (investment-typed category)")
}

// transactionFromFlags builds a transaction from the shared flag set,
// reusing the statement parsers so CLI input follows the same locale
// rules as imported statements.
func transactionFromFlags(cmd *cobra.Command, userID string) (*model.Transaction, error) {
	accountID, _ := cmd.Flags().GetString("account")
	description, _ := cmd.Flags().GetString("description")
	rawAmount, _ := cmd.Flags().GetString("amount")
	rawDate, _ := cmd.Flags().GetString("date")
	rawMonth, _ := cmd.Flags().GetString("month")
	categoryID, _ := cmd.Flags().GetString("category")
	subcategoryID, _ := cmd.Flags().GetString("subcategory")
	debtID, _ := cmd.Flags().GetString("debt")
	investmentID, _ := cmd.Flags().GetString("investment")

	amount, kind, err := statement.ParseAmount(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid --amount: %w", err)
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if rawDate != "" {
		if date, err = statement.ParseDate(rawDate); err != nil {
			return nil, fmt.Errorf("invalid --date: %w", err)
		}
	}

	txn := &model.Transaction{
		UserID:        userID,
		AccountID:     accountID,
		Description:   description,
		Amount:        amount,
		Kind:          kind,
		Date:          date,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		DebtID:        debtID,
		InvestmentID:  investmentID,
	}

	if rawMonth != "" {
		month, err := time.Parse("01/2006", rawMonth)
		if err != nil {
			return nil, fmt.Errorf("invalid --month %q, want MM/YYYY", rawMonth)
		}
		txn.ReferenceMonth = month
	}
	txn.NormalizeReferenceMonth()

	return txn, nil
}

func transactionsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			txn, err := transactionFromFlags(cmd, owner())
			if err != nil {
				return err
			}

			delta, err := ledger.NewService(store).Create(ctx, txn)
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Recorded transaction %s", txn.ID)))
			printDelta(cmd, delta)
			return nil
		},
	}

	transactionFlags(cmd)
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func transactionsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a transaction's fields",
		Long: `Replace all fields of an existing transaction.

The old transaction's effect on any linked debt or investment balance is
reverted before the new effect is applied; both steps share one database
transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			txn, err := transactionFromFlags(cmd, owner())
			if err != nil {
				return err
			}
			txn.ID = args[0]

			delta, err := ledger.NewService(store).Update(ctx, txn)
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Updated transaction %s", txn.ID)))
			printDelta(cmd, delta)
			return nil
		},
	}

	transactionFlags(cmd)
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func transactionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction and revert its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			delta, err := ledger.NewService(store).Delete(ctx, owner(), args[0])
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %s", args[0])))
			printDelta(cmd, delta)
			return nil
		},
	}
}

func transactionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			rawMonth, _ := cmd.Flags().GetString("month")

			var transactions []model.Transaction
			if rawMonth != "" {
				month, err := time.Parse("01/2006", rawMonth)
				if err != nil {
					return fmt.Errorf("invalid --month %q, want MM/YYYY", rawMonth)
				}
				transactions, err = store.ListTransactionsByMonth(ctx, owner(), month)
				if err != nil {
					return err
				}
			} else {
				transactions, err = store.ListTransactions(ctx, owner(), accountID)
				if err != nil {
					return err
				}
			}

			if len(transactions) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No transactions found"))
				return nil
			}

			cmd.Println(cli.FormatTitle("Transactions"))
			for _, txn := range transactions {
				sign := "+"
				if txn.Kind == model.KindExpense {
					sign = "-"
				}
				cmd.Printf("%s  %s  %s%s  %s\n",
					txn.ID,
					txn.Date.Format("02/01/2006"),
					sign,
					txn.Amount.StringFixed(2),
					txn.Description,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringP("account", "a", "", "filter by account id")
	cmd.Flags().String("month", "", "filter by reference month (MM/YYYY)")

	return cmd
}

// printDelta reports a balance change caused by a lifecycle operation.
func printDelta(cmd *cobra.Command, delta ledger.BalanceDelta) {
	if delta.Entity == "" {
		return
	}
	cmd.Printf("%s %s balance: %s -> %s\n",
		delta.Entity, delta.EntityID,
		delta.BalanceBefore.StringFixed(2), delta.BalanceAfter.StringFixed(2))
	if delta.Entity == ledger.EntityDebt && delta.RemainingBefore != delta.RemainingAfter {
		cmd.Printf("remaining installments: %d -> %d\n", delta.RemainingBefore, delta.RemainingAfter)
	}
	if delta.InitialAmountSet {
		cmd.Println(cli.SubtleStyle.Render("first deposit: initial amount updated"))
	}
}
