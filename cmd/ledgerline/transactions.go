package main

import (
	"fmt"
	"time"

	"github.com/finchworks/ledgerline/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns"},
		Short:   "List imported transactions",
		RunE:    runListTransactions,
	}

	cmd.Flags().StringP("start-date", "s", "", "only show transactions on or after this date (format: 2006-01-02)")
	cmd.Flags().StringP("end-date", "e", "", "only show transactions on or before this date (format: 2006-01-02)")
	cmd.Flags().IntP("limit", "n", 50, "maximum number of transactions to show")
	cmd.Flags().Int("offset", 0, "number of transactions to skip")

	_ = viper.BindPFlag("transactions.start_date", cmd.Flags().Lookup("start-date"))
	_ = viper.BindPFlag("transactions.end_date", cmd.Flags().Lookup("end-date"))
	_ = viper.BindPFlag("transactions.limit", cmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag("transactions.offset", cmd.Flags().Lookup("offset"))

	return cmd
}

func runListTransactions(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	filter := service.TransactionFilter{
		UserID: currentUser(),
		Limit:  viper.GetInt("transactions.limit"),
		Offset: viper.GetInt("transactions.offset"),
	}

	if startStr := viper.GetString("transactions.start_date"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return fmt.Errorf("invalid start date format: %w", err)
		}
		filter.StartDate = &start
	}
	if endStr := viper.GetString("transactions.end_date"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return fmt.Errorf("invalid end date format: %w", err)
		}
		filter.EndDate = &end
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	transactions, err := store.GetTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	if len(transactions) == 0 {
		fmt.Println("No transactions found.")
		return nil
	}

	for _, txn := range transactions {
		category := txn.CategoryName
		if txn.Subcategory != "" {
			category = fmt.Sprintf("%s / %s", category, txn.Subcategory)
		}
		fmt.Printf("%s  %10.2f  %-28s  %-30s  %s (%.2f)\n",
			txn.Date.Format("2006-01-02"),
			txn.RawAmount,
			truncate(txn.MerchantName, 28),
			truncate(txn.Name, 30),
			category,
			txn.Confidence)
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
