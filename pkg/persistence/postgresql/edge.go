package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
)

// EdgeRepository handles edge-related database operations.
type EdgeRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewEdgeRepository creates a new edge repository.
func NewEdgeRepository(db *sql.DB, logger *slog.Logger) *EdgeRepository {
	return &EdgeRepository{db: db, logger: logger}
}

// ListByWorkflow returns the edges whose source node belongs to the
// given workflow, ordered by creation time.
func (r *EdgeRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.Edge, error) {
	query := `
		SELECT
			e.out_id
		  , e.in_id
		  , e.label
		FROM edges e
		JOIN nodes n ON n.id = e.out_id
		WHERE n.workflow_id = $1
		ORDER BY e.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	edges := make([]*models.Edge, 0)

	for rows.Next() {
		var edge models.Edge

		err := rows.Scan(&edge.OutID, &edge.InID, &edge.Label)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}

		edges = append(edges, &edge)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}

	return edges, nil
}

// GetBySourceAndLabel returns the edge leaving a node under the given
// label, or ErrEdgeNotFound.
func (r *EdgeRepository) GetBySourceAndLabel(ctx context.Context, outID, label string) (*models.Edge, error) {
	query := `SELECT out_id, in_id, label FROM edges WHERE out_id = $1 AND label = $2`

	var edge models.Edge

	err := r.db.QueryRowContext(ctx, query, outID, label).Scan(&edge.OutID, &edge.InID, &edge.Label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrEdgeNotFound
		}

		return nil, fmt.Errorf("failed to scan edge: %w", err)
	}

	return &edge, nil
}

// Save upserts an edge on its (out, in, label) triple.
func (r *EdgeRepository) Save(ctx context.Context, edge *models.Edge) error {
	query := `
		INSERT INTO edges (out_id, in_id, label)
		VALUES ($1, $2, $3)
		ON CONFLICT (out_id, in_id, label) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, edge.OutID, edge.InID, edge.Label)
	if err != nil {
		return fmt.Errorf("failed to save edge: %w", err)
	}

	return nil
}

// Delete removes one edge by its triple.
func (r *EdgeRepository) Delete(ctx context.Context, edge *models.Edge) error {
	query := `DELETE FROM edges WHERE out_id = $1 AND in_id = $2 AND label = $3`

	_, err := r.db.ExecContext(ctx, query, edge.OutID, edge.InID, edge.Label)
	if err != nil {
		return fmt.Errorf("failed to delete edge: %w", err)
	}

	return nil
}

// DeleteByNode removes every edge touching the node, in either direction.
func (r *EdgeRepository) DeleteByNode(ctx context.Context, nodeID string) error {
	query := `DELETE FROM edges WHERE out_id = $1 OR in_id = $1`

	_, err := r.db.ExecContext(ctx, query, nodeID)
	if err != nil {
		return fmt.Errorf("failed to delete node edges: %w", err)
	}

	return nil
}
