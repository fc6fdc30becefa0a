package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/granadev/grana/internal/cli"
	"github.com/granadev/grana/internal/model"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create an account",
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

			account := &model.Account{
				ID:     uuid.NewString(),
				UserID: owner(),
				Name:   args[0],
			}
			if err := store.CreateAccount(ctx, account); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Created account %s (%s)", account.Name, account.ID)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
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

			accounts, err := store.ListAccounts(ctx, owner())
			if err != nil {
				return err
			}

			if len(accounts) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No accounts found"))
				return nil
			}
			cmd.Println(cli.FormatTitle("Accounts"))
			for _, account := range accounts {
				cmd.Printf("%s  %s\n", account.ID, account.Name)
			}
			return nil
		},
	})

	return cmd
}
