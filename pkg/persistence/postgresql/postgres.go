// Package postgresql provides the PostgreSQL persistence implementation
// for workflows, nodes, and edges.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// Registers the postgres driver.
	_ "github.com/lib/pq"

	"github.com/mkravets/pathway/pkg/persistence"
	"github.com/mkravets/pathway/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	workflowRepo *WorkflowRepository
	nodeRepo     *NodeRepository
	edgeRepo     *EdgeRepository
}

// NewPersistence opens a connection, runs migrations, and returns the
// PostgreSQL persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:           database,
		logger:       logger,
		workflowRepo: NewWorkflowRepository(database, logger),
		nodeRepo:     NewNodeRepository(database, logger),
		edgeRepo:     NewEdgeRepository(database, logger),
	}, nil
}

// WorkflowRepository returns the workflow repository.
func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

// NodeRepository returns the node repository.
func (p *Persistence) NodeRepository() persistence.NodeRepository {
	return p.nodeRepo
}

// EdgeRepository returns the edge repository.
func (p *Persistence) EdgeRepository() persistence.EdgeRepository {
	return p.edgeRepo
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
