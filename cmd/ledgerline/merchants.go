package main

import (
	"fmt"
	"strings"

	"github.com/finchworks/ledgerline/internal/model"
	"github.com/spf13/cobra"
)

func merchantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchants",
		Short: "Manage curated merchant records",
		Long: `View, add, and remove curated merchant records. These records are the
highest-priority categorization tier: when a transaction's merchant text
matches one, its category wins over aggregator hints and static tables.`,
	}

	cmd.AddCommand(merchantsListCmd())
	cmd.AddCommand(merchantsAddCmd())
	cmd.AddCommand(merchantsDeleteCmd())

	return cmd
}

func merchantsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active merchant records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			merchants, err := store.ListActiveMerchants(ctx)
			if err != nil {
				return fmt.Errorf("failed to list merchants: %w", err)
			}

			if len(merchants) == 0 {
				fmt.Println("No merchant records yet.")
				return nil
			}

			for _, m := range merchants {
				patterns := ""
				if len(m.Patterns) > 0 {
					patterns = "  patterns: " + strings.Join(m.Patterns, ", ")
				}
				fmt.Printf("%-30s  %-24s%s\n", m.Name, m.CategoryID, patterns)
			}

			return nil
		},
	}
}

func merchantsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <category-id>",
		Short: "Add or update a merchant record",
		Long: `Add a curated merchant record mapping a merchant name to a category.
Optional wildcard patterns (* and ?) widen what the record matches.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			patterns, err := cmd.Flags().GetStringSlice("pattern")
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			merchant := &model.Merchant{
				Name:           args[0],
				NormalizedName: strings.ToLower(strings.TrimSpace(args[0])),
				CategoryID:     args[1],
				Patterns:       patterns,
				IsActive:       true,
			}

			if err := store.SaveMerchant(ctx, merchant); err != nil {
				return fmt.Errorf("failed to save merchant: %w", err)
			}

			fmt.Printf("Saved merchant %q -> %s\n", merchant.Name, merchant.CategoryID)
			return nil
		},
	}

	cmd.Flags().StringSlice("pattern", nil, "wildcard patterns the merchant also matches (repeatable)")

	return cmd
}

func merchantsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a merchant record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteMerchant(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete merchant: %w", err)
			}

			fmt.Printf("Deleted merchant %q\n", args[0])
			return nil
		},
	}
}
