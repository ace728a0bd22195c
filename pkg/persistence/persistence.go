// Package persistence provides the data storage abstraction for
// workflows, nodes, and edges.
package persistence

import (
	"context"

	"github.com/mkravets/pathway/pkg/models"
)

// Persistence is the storage entrypoint implemented by each backend.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	NodeRepository() NodeRepository
	EdgeRepository() EdgeRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow records. Delete cascades to the
// workflow's nodes and their edges.
type WorkflowRepository interface {
	List(ctx context.Context) ([]*models.Workflow, error)
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
}

// NodeRepository stores node records. Delete cascades to the node's
// edges, incoming and outgoing.
type NodeRepository interface {
	List(ctx context.Context) ([]*models.Node, error)
	ListByWorkflow(ctx context.Context, workflowID string) ([]*models.Node, error)
	GetByID(ctx context.Context, id string) (*models.Node, error)
	Save(ctx context.Context, node *models.Node) error
	Delete(ctx context.Context, id string) error
}

// EdgeRepository stores edge records keyed by the (out, in, label)
// triple. Save upserts on the triple.
type EdgeRepository interface {
	// ListByWorkflow returns the edges whose source node belongs to the
	// given workflow.
	ListByWorkflow(ctx context.Context, workflowID string) ([]*models.Edge, error)

	// GetBySourceAndLabel returns the edge leaving a node under the
	// given label, or ErrEdgeNotFound.
	GetBySourceAndLabel(ctx context.Context, outID, label string) (*models.Edge, error)

	Save(ctx context.Context, edge *models.Edge) error
	Delete(ctx context.Context, edge *models.Edge) error

	// DeleteByNode removes every edge touching the node, in either
	// direction. Used when a node moves to another workflow.
	DeleteByNode(ctx context.Context, nodeID string) error
}
