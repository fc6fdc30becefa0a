package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/granadev/grana/internal/cli"
	"github.com/granadev/grana/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func investmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "investments",
		Short: "Manage investment positions",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register an investment position",
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
			amount := decimal.Zero
			if rawAmount != "" {
				if amount, err = decimal.NewFromString(rawAmount); err != nil || amount.IsNegative() {
					return fmt.Errorf("invalid --amount %q", rawAmount)
				}
			}

			inv := &model.Investment{
				ID:            uuid.NewString(),
				UserID:        owner(),
				Name:          args[0],
				InitialAmount: amount,
				Balance:       amount,
			}
			if err := store.CreateInvestment(ctx, inv); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Registered investment %s (%s)", inv.Name, inv.ID)))
			return nil
		},
	}
	addCmd.Flags().String("amount", "", "opening balance (default 0; a first contribution sets it)")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List investments with current balances",
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

			investments, err := store.ListInvestments(ctx, owner())
			if err != nil {
				return err
			}

			if len(investments) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No investments found"))
				return nil
			}
			cmd.Println(cli.FormatTitle("Investments"))
			for _, inv := range investments {
				cmd.Printf("%s  %s  balance %s (initial %s)\n",
					inv.ID, inv.Name, inv.Balance.StringFixed(2), inv.InitialAmount.StringFixed(2))
			}
			return nil
		},
	})

	return cmd
}
