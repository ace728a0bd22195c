// Package cmd provides common initialization for command-line
// applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkravets/pathway/pkg/persistence"
	"github.com/mkravets/pathway/pkg/persistence/file"
	"github.com/mkravets/pathway/pkg/persistence/postgresql"
)

// NewPersistence selects a storage backend from the database URL
// scheme: postgres/postgresql URLs get the SQL store, everything else
// falls back to the file store.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgresql persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
