package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
)

func TestWorkflowRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	wf := &models.Workflow{Name: "onboarding"}
	require.NoError(t, p.WorkflowRepository().Save(ctx, wf))

	assert.NotEmpty(t, wf.ID)
	assert.False(t, wf.CreatedAt.IsZero())

	fetched, err := p.WorkflowRepository().GetByID(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, "onboarding", fetched.Name)
}

func TestWorkflowRepository_GetByID_NotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.WorkflowRepository().GetByID(context.Background(), "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_List_SortedByCreation(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, p.WorkflowRepository().Save(ctx, &models.Workflow{Name: name}))
	}

	workflows, err := p.WorkflowRepository().List(ctx)
	require.NoError(t, err)
	require.Len(t, workflows, 3)
	assert.Equal(t, "first", workflows[0].Name)
	assert.Equal(t, "third", workflows[2].Name)
}

// Deleting a workflow takes its nodes and edges with it.
func TestWorkflowRepository_Delete_Cascades(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	wf := &models.Workflow{Name: "temp"}
	require.NoError(t, p.WorkflowRepository().Save(ctx, wf))

	node := models.NewStartNode(wf.ID)
	require.NoError(t, p.NodeRepository().Save(ctx, node))

	require.NoError(t, p.WorkflowRepository().Delete(ctx, wf.ID))

	_, err := p.NodeRepository().GetByID(ctx, node.ID)
	assert.True(t, persistence.IsNodeNotFound(err))
}

func TestNodeRepository_SaveAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	wf := &models.Workflow{Name: "wf"}
	require.NoError(t, p.WorkflowRepository().Save(ctx, wf))

	node, err := models.NewMessageNode(wf.ID, "sent", "Hello")
	require.NoError(t, err)
	require.NoError(t, p.NodeRepository().Save(ctx, node))

	assert.NotEmpty(t, node.ID)

	fetched, err := p.NodeRepository().GetByID(ctx, node.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusSent, fetched.Status)
	assert.Equal(t, "Hello", fetched.Text)
}

func TestNodeRepository_SaveMovesBetweenWorkflows(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	wfA := &models.Workflow{Name: "a"}
	require.NoError(t, p.WorkflowRepository().Save(ctx, wfA))

	wfB := &models.Workflow{Name: "b"}
	require.NoError(t, p.WorkflowRepository().Save(ctx, wfB))

	node := models.NewStartNode(wfA.ID)
	require.NoError(t, p.NodeRepository().Save(ctx, node))

	node.WorkflowID = wfB.ID
	require.NoError(t, p.NodeRepository().Save(ctx, node))

	aNodes, err := p.NodeRepository().ListByWorkflow(ctx, wfA.ID)
	require.NoError(t, err)
	assert.Empty(t, aNodes)

	bNodes, err := p.NodeRepository().ListByWorkflow(ctx, wfB.ID)
	require.NoError(t, err)
	require.Len(t, bNodes, 1)
	assert.Equal(t, node.ID, bNodes[0].ID)
}

func TestNodeRepository_Delete_RemovesTouchingEdges(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	wf := &models.Workflow{Name: "wf"}
	require.NoError(t, p.WorkflowRepository().Save(ctx, wf))

	start := models.NewStartNode(wf.ID)
	require.NoError(t, p.NodeRepository().Save(ctx, start))

	end := models.NewEndNode(wf.ID)
	require.NoError(t, p.NodeRepository().Save(ctx, end))

	require.NoError(t, p.EdgeRepository().Save(ctx, &models.Edge{OutID: start.ID, InID: end.ID}))

	require.NoError(t, p.NodeRepository().Delete(ctx, end.ID))

	edges, err := p.EdgeRepository().ListByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestEdgeRepository_SaveDeduplicatesTriple(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	wf := &models.Workflow{Name: "wf"}
	require.NoError(t, p.WorkflowRepository().Save(ctx, wf))

	start := models.NewStartNode(wf.ID)
	require.NoError(t, p.NodeRepository().Save(ctx, start))

	end := models.NewEndNode(wf.ID)
	require.NoError(t, p.NodeRepository().Save(ctx, end))

	edge := &models.Edge{OutID: start.ID, InID: end.ID, Label: models.EdgeLabelDefault}
	require.NoError(t, p.EdgeRepository().Save(ctx, edge))
	require.NoError(t, p.EdgeRepository().Save(ctx, edge))

	edges, err := p.EdgeRepository().ListByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestEdgeRepository_GetBySourceAndLabel(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	wf := &models.Workflow{Name: "wf"}
	require.NoError(t, p.WorkflowRepository().Save(ctx, wf))

	cond := models.NewConditionNode(wf.ID, "status == 'sent'")
	require.NoError(t, p.NodeRepository().Save(ctx, cond))

	end := models.NewEndNode(wf.ID)
	require.NoError(t, p.NodeRepository().Save(ctx, end))

	require.NoError(t, p.EdgeRepository().Save(ctx, &models.Edge{
		OutID: cond.ID, InID: end.ID, Label: models.EdgeLabelYes,
	}))

	edge, err := p.EdgeRepository().GetBySourceAndLabel(ctx, cond.ID, models.EdgeLabelYes)
	require.NoError(t, err)
	assert.Equal(t, end.ID, edge.InID)

	_, err = p.EdgeRepository().GetBySourceAndLabel(ctx, cond.ID, models.EdgeLabelNo)
	assert.True(t, persistence.IsEdgeNotFound(err))
}

func TestEdgeRepository_DeleteByNode(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	wf := &models.Workflow{Name: "wf"}
	require.NoError(t, p.WorkflowRepository().Save(ctx, wf))

	start := models.NewStartNode(wf.ID)
	require.NoError(t, p.NodeRepository().Save(ctx, start))

	middle, err := models.NewMessageNode(wf.ID, "sent", "Hello")
	require.NoError(t, err)
	require.NoError(t, p.NodeRepository().Save(ctx, middle))

	end := models.NewEndNode(wf.ID)
	require.NoError(t, p.NodeRepository().Save(ctx, end))

	require.NoError(t, p.EdgeRepository().Save(ctx, &models.Edge{OutID: start.ID, InID: middle.ID}))
	require.NoError(t, p.EdgeRepository().Save(ctx, &models.Edge{OutID: middle.ID, InID: end.ID}))

	require.NoError(t, p.EdgeRepository().DeleteByNode(ctx, middle.ID))

	edges, err := p.EdgeRepository().ListByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)
}
