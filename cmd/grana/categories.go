package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/granadev/grana/internal/cli"
	"github.com/granadev/grana/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories and subcategories",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Long: `Create a category. The type is immutable business meaning: transactions
using a debt-typed category must link a debt, and transactions using an
investment-typed category must link an investment.`,
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

			rawType, _ := cmd.Flags().GetString("type")
			catType := model.CategoryType(rawType)
			if !catType.Valid() {
				return fmt.Errorf("invalid category type %q (standard, debt, investment)", rawType)
			}

			category := &model.Category{
				ID:     uuid.NewString(),
				UserID: owner(),
				Name:   args[0],
				Type:   catType,
			}
			if err := store.CreateCategory(ctx, category); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Created %s category %s (%s)",
				category.Type, category.Name, category.ID)))
			return nil
		},
	}
	addCmd.Flags().StringP("type", "t", "standard", "category type (standard, debt, investment)")
	cmd.AddCommand(addCmd)

	subCmd := &cobra.Command{
		Use:   "add-sub <name>",
		Short: "Create a subcategory under a category",
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

			categoryID, _ := cmd.Flags().GetString("category")
			if _, err := store.GetCategory(ctx, owner(), categoryID); err != nil {
				return fmt.Errorf("resolving category %s: %w", categoryID, err)
			}

			sub := &model.Subcategory{
				ID:         uuid.NewString(),
				UserID:     owner(),
				CategoryID: categoryID,
				Name:       args[0],
			}
			if err := store.CreateSubcategory(ctx, sub); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Created subcategory %s (%s)", sub.Name, sub.ID)))
			return nil
		},
	}
	subCmd.Flags().StringP("category", "c", "", "parent category id (required)")
	_ = subCmd.MarkFlagRequired("category")
	cmd.AddCommand(subCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
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

			categories, err := store.ListCategories(ctx, owner())
			if err != nil {
				return err
			}

			if len(categories) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No categories found"))
				return nil
			}
			cmd.Println(cli.FormatTitle("Categories"))
			for _, category := range categories {
				cmd.Printf("%s  %-12s  %s\n", category.ID, category.Type, category.Name)
			}
			return nil
		},
	})

	return cmd
}
