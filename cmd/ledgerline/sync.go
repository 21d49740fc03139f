package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/finchworks/ledgerline/internal/plaid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync transactions from connected Plaid accounts",
		Long: `Fetch transactions from your connected Plaid accounts, including the
aggregator's category hints, and run them through the import pipeline.
Transactions are deduplicated automatically.`,
		RunE: runSync,
	}

	cmd.Flags().StringP("start-date", "s", "", "start date (format: 2006-01-02)")
	cmd.Flags().StringP("end-date", "e", "", "end date (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 30, "number of days to sync (used if start/end dates not specified)")
	cmd.Flags().Bool("list-accounts", false, "list available accounts without syncing")

	_ = viper.BindPFlag("sync.start_date", cmd.Flags().Lookup("start-date"))
	_ = viper.BindPFlag("sync.end_date", cmd.Flags().Lookup("end-date"))
	_ = viper.BindPFlag("sync.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("sync.list_accounts", cmd.Flags().Lookup("list-accounts"))

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	plaidConfig := plaid.Config{
		ClientID:    viper.GetString("plaid.client_id"),
		Secret:      viper.GetString("plaid.secret"),
		Environment: viper.GetString("plaid.environment"),
		AccessToken: viper.GetString("plaid.access_token"),
	}
	if plaidConfig.Environment == "" {
		plaidConfig.Environment = "sandbox"
	}

	client, err := plaid.NewClient(plaidConfig)
	if err != nil {
		return fmt.Errorf("failed to create Plaid client: %w", err)
	}

	if viper.GetBool("sync.list_accounts") {
		accounts, err := client.GetAccounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch accounts: %w", err)
		}
		for _, accountID := range accounts {
			fmt.Println(accountID)
		}
		return nil
	}

	startDate, endDate, err := parseDateRange()
	if err != nil {
		return err
	}

	slog.Info("Syncing transactions from Plaid",
		"start", startDate.Format("2006-01-02"),
		"end", endDate.Format("2006-01-02"))

	transactions, err := client.GetTransactions(ctx, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}

	if len(transactions) == 0 {
		slog.Info("No transactions in range")
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	stats, err := newPipeline(store).ImportTransactions(ctx, transactions)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	slog.Info("Sync complete",
		"total", stats.Total,
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"rules_applied", stats.RulesApplied,
		"duration", stats.Duration)

	return nil
}

func parseDateRange() (startDate, endDate time.Time, err error) {
	startStr := viper.GetString("sync.start_date")
	endStr := viper.GetString("sync.end_date")

	if startStr != "" && endStr != "" {
		startDate, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date format: %w", err)
		}

		endDate, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date format: %w", err)
		}

		return startDate, endDate, nil
	}

	days := viper.GetInt("sync.days")
	if days <= 0 {
		days = 30
	}

	endDate = time.Now()
	startDate = endDate.AddDate(0, 0, -days)

	return startDate, endDate, nil
}
