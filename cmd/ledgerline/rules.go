package main

import (
	"fmt"
	"strconv"

	"github.com/finchworks/ledgerline/internal/model"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage automation rules",
		Long: `View, add, and remove automation rules. Rules run after categorization
in descending priority order; each rule sees the transaction as mutated by
the rules before it.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesDeleteCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List automation rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			userRules, err := store.ListUserRules(ctx, currentUser())
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			if len(userRules) == 0 {
				fmt.Println("No automation rules yet.")
				return nil
			}

			for _, rule := range userRules {
				state := "active"
				if !rule.IsActive {
					state = "inactive"
				}
				fmt.Printf("#%-4d %-30s  priority=%d  applied=%d  %s\n",
					rule.ID, rule.Name, rule.Priority, rule.AppliedCount, state)
			}

			return nil
		},
	}
}

func rulesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an automation rule",
		Long: `Add an automation rule. Conditions (merchant pattern, description
pattern, amount range, transaction type) all have to hold for the rule to
fire; actions run in a fixed order: category, rename, tags, ignore flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			rule := &model.AutomationRule{
				Name:     args[0],
				UserID:   currentUser(),
				IsActive: true,
			}

			rule.MerchantPattern, _ = flags.GetString("merchant")
			rule.DescriptionPattern, _ = flags.GetString("description")
			rule.SetCategoryID, _ = flags.GetString("set-category")
			rule.RenameTo, _ = flags.GetString("rename-to")
			rule.AddTagIDs, _ = flags.GetStringSlice("add-tag")
			rule.IgnoreBudgeting, _ = flags.GetBool("ignore-budgeting")
			rule.IgnoreReporting, _ = flags.GetBool("ignore-reporting")
			rule.Priority, _ = flags.GetInt("priority")

			if txnType, _ := flags.GetString("type"); txnType != "" {
				switch model.TransactionType(txnType) {
				case model.TypeIncome, model.TypeExpense, model.TypeBoth:
					rule.TransactionType = model.TransactionType(txnType)
				default:
					return fmt.Errorf("invalid transaction type %q: must be income, expense, or both", txnType)
				}
			}

			if flags.Changed("amount-min") {
				amountMin, _ := flags.GetFloat64("amount-min")
				rule.AmountMin = &amountMin
			}
			if flags.Changed("amount-max") {
				amountMax, _ := flags.GetFloat64("amount-max")
				rule.AmountMax = &amountMax
			}

			if !rule.HasActions() {
				return fmt.Errorf("rule %q has no actions; set at least one of --set-category, --rename-to, --add-tag, --ignore-budgeting, --ignore-reporting", rule.Name)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveRule(ctx, rule); err != nil {
				return fmt.Errorf("failed to save rule: %w", err)
			}

			fmt.Printf("Saved rule #%d %q\n", rule.ID, rule.Name)
			return nil
		},
	}

	cmd.Flags().String("merchant", "", "wildcard pattern the merchant name must match")
	cmd.Flags().String("description", "", "wildcard pattern the description must match")
	cmd.Flags().Float64("amount-min", 0, "minimum absolute amount")
	cmd.Flags().Float64("amount-max", 0, "maximum absolute amount")
	cmd.Flags().String("type", "", "transaction type filter (income, expense, both)")
	cmd.Flags().String("set-category", "", "category ID to assign")
	cmd.Flags().String("rename-to", "", "replacement description")
	cmd.Flags().StringSlice("add-tag", nil, "tag to add (repeatable)")
	cmd.Flags().Bool("ignore-budgeting", false, "mark matching transactions as excluded from budgeting")
	cmd.Flags().Bool("ignore-reporting", false, "mark matching transactions as excluded from reporting")
	cmd.Flags().Int("priority", 0, "evaluation priority (higher runs first)")

	return cmd
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an automation rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRule(ctx, id); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}

			fmt.Printf("Deleted rule #%d\n", id)
			return nil
		},
	}
}
