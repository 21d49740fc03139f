package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import transactions from a CSV or TSV export",
		Long: `Import transactions from a bank's CSV or TSV export file.

The file's layout is detected automatically: checking-style exports (posting
date plus debit/credit markers), credit-card-style exports (transaction and
post dates), and generic exports with recognizable column names all work.
Transactions are categorized, run through your automation rules, and
deduplicated before saving.`,
		Args: cobra.ExactArgs(1),
		RunE: runImportFile,
	}

	cmd.Flags().StringP("account", "a", "", "account ID to record against imported transactions")
	_ = viper.BindPFlag("import.account", cmd.Flags().Lookup("account"))

	return cmd
}

func runImportFile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	content, err := os.ReadFile(path) // #nosec G304 -- user-supplied import path
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	accountID := viper.GetString("import.account")
	if accountID == "" {
		// Fall back to the file name so re-imports of the same export dedupe
		accountID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	pipeline := newPipeline(store)

	var bar *progressbar.ProgressBar
	pipeline.Progress = func(processed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Classifying transactions..."),
			)
		}
		_ = bar.Set(processed)
	}

	stats, err := pipeline.ImportFile(ctx, string(content), accountID)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	slog.Info("Import complete",
		"file", path,
		"account", accountID,
		"total", stats.Total,
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"rules_applied", stats.RulesApplied,
		"duration", stats.Duration)

	return nil
}
