package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/granadev/grana/internal/cli"
	"github.com/granadev/grana/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func debtsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debts",
		Short: "Manage debts",
	}

	addCmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Register a debt",
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

			rawAmount, _ := cmd.Flags().GetString("amount")
			amount, err := decimal.NewFromString(rawAmount)
			if err != nil || amount.IsNegative() {
				return fmt.Errorf("invalid --amount %q", rawAmount)
			}
			installments, _ := cmd.Flags().GetInt("installments")
			rawRate, _ := cmd.Flags().GetString("interest")
			rate := decimal.Zero
			if rawRate != "" {
				if rate, err = decimal.NewFromString(rawRate); err != nil {
					return fmt.Errorf("invalid --interest %q", rawRate)
				}
			}

			debt := &model.Debt{
				ID:                    uuid.NewString(),
				UserID:                owner(),
				Description:           args[0],
				OriginalAmount:        amount,
				Balance:               amount,
				TotalInstallments:     installments,
				RemainingInstallments: installments,
				MonthlyInterestRate:   rate,
			}
			if err := store.CreateDebt(ctx, debt); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Registered debt %s (%s)", debt.Description, debt.ID)))
			return nil
		},
	}
	addCmd.Flags().String("amount", "", "original amount owed (required)")
	addCmd.Flags().Int("installments", 0, "total installment count (0 = not tracked)")
	addCmd.Flags().String("interest", "", "monthly interest rate, e.g. 1.5")
	_ = addCmd.MarkFlagRequired("amount")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List debts with current balances",
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

			debts, err := store.ListDebts(ctx, owner())
			if err != nil {
				return err
			}

			if len(debts) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No debts found"))
				return nil
			}
			cmd.Println(cli.FormatTitle("Debts"))
			for _, debt := range debts {
				line := fmt.Sprintf("%s  %s  balance %s", debt.ID, debt.Description, debt.Balance.StringFixed(2))
				if debt.TracksInstallments() {
					line += fmt.Sprintf("  (%d/%d installments left)",
						debt.RemainingInstallments, debt.TotalInstallments)
				}
				cmd.Println(line)
			}
			return nil
		},
	})

	return cmd
}
