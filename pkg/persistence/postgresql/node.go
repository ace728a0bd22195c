package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
)

// NodeRepository handles node-related database operations.
type NodeRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewNodeRepository creates a new node repository.
func NewNodeRepository(db *sql.DB, logger *slog.Logger) *NodeRepository {
	return &NodeRepository{db: db, logger: logger}
}

const nodeColumns = `
			id
		  , workflow_id
		  , node_type
		  , status
		  , text
		  , condition
		  , created_at
		  , updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*models.Node, error) {
	var (
		node      models.Node
		status    sql.NullString
		text      sql.NullString
		condition sql.NullString
	)

	err := row.Scan(
		&node.ID,
		&node.WorkflowID,
		&node.Type,
		&status,
		&text,
		&condition,
		&node.CreatedAt,
		&node.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	node.Status = models.MessageStatus(status.String)
	node.Text = text.String
	node.Condition = condition.String

	return &node, nil
}

// List returns all nodes ordered by creation time.
func (r *NodeRepository) List(ctx context.Context) ([]*models.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes ORDER BY created_at ASC`

	return r.queryNodes(ctx, query)
}

// ListByWorkflow returns the nodes of one workflow ordered by creation time.
func (r *NodeRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE workflow_id = $1 ORDER BY created_at ASC`

	return r.queryNodes(ctx, query, workflowID)
}

func (r *NodeRepository) queryNodes(ctx context.Context, query string, args ...any) ([]*models.Node, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	nodes := make([]*models.Node, 0)

	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}

		nodes = append(nodes, node)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}

	return nodes, nil
}

// GetByID returns a node by its ID, or ErrNodeNotFound.
func (r *NodeRepository) GetByID(ctx context.Context, id string) (*models.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE id = $1`

	node, err := scanNode(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewNodeError("GetByID", id, persistence.ErrNodeNotFound)
		}

		return nil, fmt.Errorf("failed to scan node: %w", err)
	}

	return node, nil
}

// Save inserts or updates a node, generating an ID when missing.
func (r *NodeRepository) Save(ctx context.Context, node *models.Node) error {
	now := time.Now().UTC()

	if node.CreatedAt.IsZero() {
		node.CreatedAt = now
	}

	node.UpdatedAt = now

	if node.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate node ID: %w", err)
		}

		node.ID = id.String()
	}

	query := `
		INSERT INTO nodes (id, workflow_id, node_type, status, text, condition, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			workflow_id = EXCLUDED.workflow_id,
			status = EXCLUDED.status,
			text = EXCLUDED.text,
			condition = EXCLUDED.condition,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		node.ID,
		node.WorkflowID,
		node.Type,
		nullable(string(node.Status)),
		nullable(node.Text),
		nullable(node.Condition),
		node.CreatedAt,
		node.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save node: %w", err)
	}

	return nil
}

// Delete removes a node. Its edges go with it via the ON DELETE CASCADE
// foreign keys.
func (r *NodeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM nodes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewNodeError("Delete", id, persistence.ErrNodeNotFound)
	}

	return nil
}

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
