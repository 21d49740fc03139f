package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/finchworks/ledgerline/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-ofx <file>",
		Short: "Import transactions from an OFX/QFX file",
		Long: `Import transactions from an OFX or QFX statement file downloaded from
your bank. Both bank and credit card statements are supported; account IDs
come from the statement itself.`,
		Args: cobra.ExactArgs(1),
		RunE: runImportOFX,
	}
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	file, err := os.Open(path) // #nosec G304 -- user-supplied import path
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	parser := ofx.NewParser()
	transactions, err := parser.ParseFile(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to parse OFX file: %w", err)
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

	slog.Info("OFX import complete",
		"file", path,
		"total", stats.Total,
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"rules_applied", stats.RulesApplied,
		"duration", stats.Duration)

	return nil
}
