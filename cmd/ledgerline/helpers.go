package main

import (
	"context"
	"fmt"

	"github.com/finchworks/ledgerline/internal/classify"
	"github.com/finchworks/ledgerline/internal/config"
	"github.com/finchworks/ledgerline/internal/ingest"
	"github.com/finchworks/ledgerline/internal/rules"
	"github.com/finchworks/ledgerline/internal/service"
	"github.com/finchworks/ledgerline/internal/storage"
	"github.com/finchworks/ledgerline/internal/taxonomy"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/ledgerline/ledgerline.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// currentUser returns the user ID the command acts on behalf of.
func currentUser() string {
	user := viper.GetString("user")
	if user == "" {
		user = "default"
	}
	return user
}

// newPipeline assembles the full import pipeline over the given storage.
func newPipeline(store service.Storage) *ingest.Pipeline {
	tax := taxonomy.Default()
	classifier := classify.New(tax, store)
	engine := rules.New(store, tax)
	return ingest.New(store, classifier, engine, currentUser())
}
