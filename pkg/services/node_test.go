package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
	"github.com/mkravets/pathway/pkg/persistence/file"
)

type nodeServiceFixture struct {
	persistence persistence.Persistence
	workflows   *Workflow
	nodes       *Node
}

func newNodeServiceFixture(t *testing.T) *nodeServiceFixture {
	t.Helper()

	p := file.NewPersistence(t.TempDir())

	return &nodeServiceFixture{
		persistence: p,
		workflows:   NewWorkflow(p),
		nodes:       NewNode(p),
	}
}

func (f *nodeServiceFixture) createWorkflow(t *testing.T, name string) string {
	t.Helper()

	wf, err := f.workflows.Create(context.Background(), name)
	require.NoError(t, err)

	return wf.ID
}

func (f *nodeServiceFixture) edges(t *testing.T, workflowID string) []*models.Edge {
	t.Helper()

	edges, err := f.persistence.EdgeRepository().ListByWorkflow(context.Background(), workflowID)
	require.NoError(t, err)

	return edges
}

func TestNode_CreateStartNode(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	node, err := f.nodes.CreateStartNode(ctx, &CreateStartNodeRequest{WorkflowID: workflowID})
	require.NoError(t, err)

	assert.NotEmpty(t, node.ID)
	assert.Equal(t, models.NodeTypeStart, node.Type)
	assert.Equal(t, workflowID, node.WorkflowID)
}

func TestNode_CreateStartNode_WorkflowNotFound(t *testing.T) {
	f := newNodeServiceFixture(t)

	_, err := f.nodes.CreateStartNode(context.Background(), &CreateStartNodeRequest{WorkflowID: "missing"})
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

// A second start node for the same workflow must be rejected as a
// conflict, distinguishable from not-found and validation failures.
func TestNode_CreateStartNode_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	_, err := f.nodes.CreateStartNode(ctx, &CreateStartNodeRequest{WorkflowID: workflowID})
	require.NoError(t, err)

	_, err = f.nodes.CreateStartNode(ctx, &CreateStartNodeRequest{WorkflowID: workflowID})
	require.ErrorIs(t, err, ErrStartNodeExists)
	assert.True(t, IsConflictError(err))
	assert.False(t, IsValidationError(err))
	assert.False(t, persistence.IsWorkflowNotFound(err))

	nodes, err := f.nodes.ListWorkflowNodes(ctx, workflowID)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestNode_CreateEndNode_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	_, err := f.nodes.CreateEndNode(ctx, &CreateEndNodeRequest{WorkflowID: workflowID})
	require.NoError(t, err)

	_, err = f.nodes.CreateEndNode(ctx, &CreateEndNodeRequest{WorkflowID: workflowID})
	require.ErrorIs(t, err, ErrEndNodeExists)
	assert.True(t, IsConflictError(err))
}

func TestNode_CreateMessageNode_WiresEdges(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	start, err := f.nodes.CreateStartNode(ctx, &CreateStartNodeRequest{WorkflowID: workflowID})
	require.NoError(t, err)

	end, err := f.nodes.CreateEndNode(ctx, &CreateEndNodeRequest{WorkflowID: workflowID})
	require.NoError(t, err)

	message, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID:   workflowID,
		Status:       "sent",
		Text:         "Hello",
		Predecessors: []string{start.ID},
		SuccessorID:  end.ID,
	})
	require.NoError(t, err)

	edges := f.edges(t, workflowID)
	require.Len(t, edges, 2)
	assert.Contains(t, edges, &models.Edge{OutID: start.ID, InID: message.ID, Label: models.EdgeLabelDefault})
	assert.Contains(t, edges, &models.Edge{OutID: message.ID, InID: end.ID, Label: models.EdgeLabelDefault})
}

func TestNode_CreateMessageNode_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	_, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID: workflowID,
		Status:     "delivered",
		Text:       "Hello",
	})
	require.ErrorIs(t, err, models.ErrInvalidMessageStatus)
	assert.True(t, IsValidationError(err))

	nodes, err := f.nodes.ListWorkflowNodes(ctx, workflowID)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestNode_CreateConditionNode_LabeledBranches(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	yes, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID: workflowID, Status: "pending", Text: "yes branch",
	})
	require.NoError(t, err)

	no, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID: workflowID, Status: "pending", Text: "no branch",
	})
	require.NoError(t, err)

	cond, err := f.nodes.CreateConditionNode(ctx, &CreateConditionNodeRequest{
		WorkflowID:     workflowID,
		Condition:      "status == 'sent'",
		YesSuccessorID: yes.ID,
		NoSuccessorID:  no.ID,
	})
	require.NoError(t, err)

	edges := f.edges(t, workflowID)
	assert.Contains(t, edges, &models.Edge{OutID: cond.ID, InID: yes.ID, Label: models.EdgeLabelYes})
	assert.Contains(t, edges, &models.Edge{OutID: cond.ID, InID: no.ID, Label: models.EdgeLabelNo})
}

// Connecting nodes from two workflows must fail and leave no edge
// behind, and the node itself must not be created.
func TestNode_CreateMessageNode_CrossWorkflowEdge(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowA := f.createWorkflow(t, "a")
	workflowB := f.createWorkflow(t, "b")

	foreign, err := f.nodes.CreateStartNode(ctx, &CreateStartNodeRequest{WorkflowID: workflowA})
	require.NoError(t, err)

	_, err = f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID:   workflowB,
		Status:       "sent",
		Text:         "Hello",
		Predecessors: []string{foreign.ID},
	})
	require.ErrorIs(t, err, models.ErrCrossWorkflowEdge)
	assert.True(t, IsValidationError(err))

	nodes, err := f.nodes.ListWorkflowNodes(ctx, workflowB)
	require.NoError(t, err)
	assert.Empty(t, nodes)

	assert.Empty(t, f.edges(t, workflowB))
	assert.Empty(t, f.edges(t, workflowA))
}

func TestNode_CreateMessageNode_DanglingPredecessor(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	_, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID:   workflowID,
		Status:       "sent",
		Text:         "Hello",
		Predecessors: []string{"ghost"},
	})
	require.ErrorIs(t, err, ErrDanglingEndpoint)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "ghost")
	assert.Contains(t, err.Error(), "predecessor")
}

func TestNode_UpdateMessageNode_SelfLoop(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	message, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID: workflowID, Status: "sent", Text: "Hello",
	})
	require.NoError(t, err)

	_, err = f.nodes.UpdateMessageNode(ctx, message.ID, &UpdateMessageNodeRequest{
		SuccessorID: message.ID,
	})
	require.ErrorIs(t, err, models.ErrSelfConnection)
	assert.True(t, IsValidationError(err))
	assert.Empty(t, f.edges(t, workflowID))
}

// Pointing a node's successor somewhere else must replace the existing
// same-label edge rather than add a parallel one.
func TestNode_UpdateStartNode_ReplacesSuccessor(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	first, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID: workflowID, Status: "pending", Text: "first",
	})
	require.NoError(t, err)

	second, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID: workflowID, Status: "pending", Text: "second",
	})
	require.NoError(t, err)

	start, err := f.nodes.CreateStartNode(ctx, &CreateStartNodeRequest{
		WorkflowID: workflowID, SuccessorID: first.ID,
	})
	require.NoError(t, err)

	_, err = f.nodes.UpdateStartNode(ctx, start.ID, &UpdateStartNodeRequest{
		SuccessorID: second.ID,
	})
	require.NoError(t, err)

	var outgoing []*models.Edge

	for _, edge := range f.edges(t, workflowID) {
		if edge.OutID == start.ID {
			outgoing = append(outgoing, edge)
		}
	}

	require.Len(t, outgoing, 1)
	assert.Equal(t, second.ID, outgoing[0].InID)
}

func TestNode_UpdateMessageNode_PartialFields(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	message, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID: workflowID, Status: "pending", Text: "Hello",
	})
	require.NoError(t, err)

	status := "sent"

	updated, err := f.nodes.UpdateMessageNode(ctx, message.ID, &UpdateMessageNodeRequest{
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, models.MessageStatusSent, updated.Status)
	assert.Equal(t, "Hello", updated.Text)
}

// Moving a node into another workflow severs every edge connecting it
// to the old one.
func TestNode_UpdateMessageNode_WorkflowMoveClearsEdges(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowA := f.createWorkflow(t, "a")
	workflowB := f.createWorkflow(t, "b")

	start, err := f.nodes.CreateStartNode(ctx, &CreateStartNodeRequest{WorkflowID: workflowA})
	require.NoError(t, err)

	message, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID:   workflowA,
		Status:       "sent",
		Text:         "Hello",
		Predecessors: []string{start.ID},
	})
	require.NoError(t, err)

	require.Len(t, f.edges(t, workflowA), 1)

	moved, err := f.nodes.UpdateMessageNode(ctx, message.ID, &UpdateMessageNodeRequest{
		WorkflowID: &workflowB,
	})
	require.NoError(t, err)
	assert.Equal(t, workflowB, moved.WorkflowID)

	assert.Empty(t, f.edges(t, workflowA))
	assert.Empty(t, f.edges(t, workflowB))

	nodes, err := f.nodes.ListWorkflowNodes(ctx, workflowB)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, message.ID, nodes[0].ID)
}

func TestNode_UpdateStartNode_WrongVariant(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	message, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID: workflowID, Status: "sent", Text: "Hello",
	})
	require.NoError(t, err)

	_, err = f.nodes.UpdateStartNode(ctx, message.ID, &UpdateStartNodeRequest{})
	assert.True(t, persistence.IsNodeNotFound(err))
}

func TestNode_DeleteNode_RemovesEdges(t *testing.T) {
	ctx := context.Background()
	f := newNodeServiceFixture(t)
	workflowID := f.createWorkflow(t, "wf")

	start, err := f.nodes.CreateStartNode(ctx, &CreateStartNodeRequest{WorkflowID: workflowID})
	require.NoError(t, err)

	message, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID:   workflowID,
		Status:       "sent",
		Text:         "Hello",
		Predecessors: []string{start.ID},
	})
	require.NoError(t, err)

	require.NoError(t, f.nodes.DeleteNode(ctx, message.ID))

	assert.Empty(t, f.edges(t, workflowID))

	_, err = f.nodes.FetchNode(ctx, message.ID)
	assert.True(t, persistence.IsNodeNotFound(err))
}
