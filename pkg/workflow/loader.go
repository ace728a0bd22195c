package workflow

import (
	"context"
	"fmt"

	"github.com/mkravets/pathway/pkg/persistence"
)

// Loader materializes the graph of one workflow from the store. The
// load is a point-in-time snapshot: the executor operates on it for the
// whole traversal and never sees later changes.
type Loader struct {
	persistence persistence.Persistence
}

// NewLoader creates a graph loader on top of a persistence layer.
func NewLoader(persistence persistence.Persistence) *Loader {
	return &Loader{persistence: persistence}
}

// Load builds the in-memory graph for a workflow. It fails with
// ErrWorkflowNotFound for an unknown workflow and rejects snapshots
// whose edges reference nodes missing from the same snapshot.
func (l *Loader) Load(ctx context.Context, workflowID string) (*Graph, error) {
	_, err := l.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	nodes, err := l.persistence.NodeRepository().ListByWorkflow(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow nodes: %w", err)
	}

	edges, err := l.persistence.EdgeRepository().ListByWorkflow(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow edges: %w", err)
	}

	graph := NewGraph(workflowID)

	for _, node := range nodes {
		graph.AddNode(node)
	}

	for _, edge := range edges {
		if graph.Node(edge.OutID) == nil || graph.Node(edge.InID) == nil {
			return nil, fmt.Errorf("inconsistent snapshot for workflow %s: edge %s -> %s references a missing node",
				workflowID, edge.OutID, edge.InID)
		}

		graph.AddEdge(*edge)
	}

	return graph, nil
}
