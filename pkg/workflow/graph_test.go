package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/pathway/pkg/models"
)

func TestGraph_AddAndLookup(t *testing.T) {
	graph := NewGraph("wf-1")

	start := &models.Node{ID: "n-1", WorkflowID: "wf-1", Type: models.NodeTypeStart}
	end := &models.Node{ID: "n-2", WorkflowID: "wf-1", Type: models.NodeTypeEnd}

	graph.AddNode(start)
	graph.AddNode(end)
	graph.AddEdge(models.Edge{OutID: "n-1", InID: "n-2", Label: models.EdgeLabelDefault})

	assert.Equal(t, "wf-1", graph.WorkflowID())
	assert.Equal(t, 2, graph.Len())
	assert.Same(t, start, graph.Node("n-1"))
	assert.Nil(t, graph.Node("missing"))

	successors := graph.Successors("n-1")
	require.Len(t, successors, 1)
	assert.Equal(t, "n-2", successors[0].InID)

	assert.Empty(t, graph.Successors("n-2"))
}

func TestGraph_NodesKeepInsertionOrder(t *testing.T) {
	graph := NewGraph("wf-1")

	ids := []string{"n-3", "n-1", "n-2"}
	for _, id := range ids {
		graph.AddNode(&models.Node{ID: id, WorkflowID: "wf-1", Type: models.NodeTypeMessage})
	}

	nodes := graph.Nodes()
	require.Len(t, nodes, 3)

	for i, id := range ids {
		assert.Equal(t, id, nodes[i].ID)
	}
}

func TestGraph_SuccessorByLabel(t *testing.T) {
	graph := NewGraph("wf-1")

	graph.AddEdge(models.Edge{OutID: "c-1", InID: "n-1", Label: models.EdgeLabelYes})
	graph.AddEdge(models.Edge{OutID: "c-1", InID: "n-2", Label: models.EdgeLabelNo})

	yes, ok := graph.Successor("c-1", models.EdgeLabelYes)
	require.True(t, ok)
	assert.Equal(t, "n-1", yes.InID)

	no, ok := graph.Successor("c-1", models.EdgeLabelNo)
	require.True(t, ok)
	assert.Equal(t, "n-2", no.InID)

	_, ok = graph.Successor("c-1", models.EdgeLabelDefault)
	assert.False(t, ok)
}

func TestGraph_ParallelEdgesWithDistinctLabels(t *testing.T) {
	graph := NewGraph("wf-1")

	graph.AddEdge(models.Edge{OutID: "c-1", InID: "n-1", Label: models.EdgeLabelYes})
	graph.AddEdge(models.Edge{OutID: "c-1", InID: "n-1", Label: models.EdgeLabelNo})

	assert.Len(t, graph.Successors("c-1"), 2)
}
