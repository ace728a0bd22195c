package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/pathway/pkg/channels/gochannel"
	"github.com/mkravets/pathway/pkg/eventbus"
	"github.com/mkravets/pathway/pkg/events"
	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
	"github.com/mkravets/pathway/pkg/persistence/file"
	"github.com/mkravets/pathway/pkg/workflow"
)

type launchFixture struct {
	nodeServiceFixture

	launch *Launch
	bus    *eventbus.WatermillEventBus
}

func newLaunchFixture(t *testing.T) *launchFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	p := file.NewPersistence(t.TempDir())

	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	return &launchFixture{
		nodeServiceFixture: nodeServiceFixture{
			persistence: p,
			workflows:   NewWorkflow(p),
			nodes:       NewNode(p),
		},
		launch: NewLaunch(p, bus, nil, logger),
		bus:    bus,
	}
}

// Builds the branching scenario: Start -> Message(opened, "Hello") ->
// Condition(status == 'sent') -No-> Condition(status == 'opened')
// -Yes-> Message("How old are you?") -> End.
func (f *launchFixture) buildBranchingWorkflow(t *testing.T) string {
	t.Helper()

	ctx := context.Background()
	workflowID := f.createWorkflow(t, "engagement")

	end, err := f.nodes.CreateEndNode(ctx, &CreateEndNodeRequest{WorkflowID: workflowID})
	require.NoError(t, err)

	followUp, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID:  workflowID,
		Status:      "pending",
		Text:        "How old are you?",
		SuccessorID: end.ID,
	})
	require.NoError(t, err)

	openedCheck, err := f.nodes.CreateConditionNode(ctx, &CreateConditionNodeRequest{
		WorkflowID:     workflowID,
		Condition:      "status == 'opened'",
		YesSuccessorID: followUp.ID,
		NoSuccessorID:  end.ID,
	})
	require.NoError(t, err)

	sentCheck, err := f.nodes.CreateConditionNode(ctx, &CreateConditionNodeRequest{
		WorkflowID:     workflowID,
		Condition:      "status == 'sent'",
		YesSuccessorID: end.ID,
		NoSuccessorID:  openedCheck.ID,
	})
	require.NoError(t, err)

	hello, err := f.nodes.CreateMessageNode(ctx, &CreateMessageNodeRequest{
		WorkflowID:  workflowID,
		Status:      "opened",
		Text:        "Hello",
		SuccessorID: sentCheck.ID,
	})
	require.NoError(t, err)

	_, err = f.nodes.CreateStartNode(ctx, &CreateStartNodeRequest{
		WorkflowID:  workflowID,
		SuccessorID: hello.ID,
	})
	require.NoError(t, err)

	return workflowID
}

func TestLaunch_BranchingWorkflow(t *testing.T) {
	f := newLaunchFixture(t)
	workflowID := f.buildBranchingWorkflow(t)

	path, err := f.launch.Launch(context.Background(), workflowID)
	require.NoError(t, err)
	require.Len(t, path, 6)

	assert.Equal(t, "start", path[0]["type"])
	assert.Equal(t, "Hello", path[1]["text"])
	assert.Equal(t, models.EdgeLabelNo, path[2]["result"])
	assert.Equal(t, models.EdgeLabelYes, path[3]["result"])
	assert.Equal(t, "How old are you?", path[4]["text"])
	assert.Equal(t, "end", path[5]["type"])
}

func TestLaunch_PublishesLifecycleEvents(t *testing.T) {
	f := newLaunchFixture(t)
	workflowID := f.buildBranchingWorkflow(t)

	received := make(chan *events.WorkflowLaunchCompleted, 1)

	err := f.bus.Handle(events.WorkflowLaunchCompletedEvent, func(_ context.Context, event any) error {
		completed, ok := event.(*events.WorkflowLaunchCompleted)
		if ok {
			received <- completed
		}

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, f.bus.Subscribe(context.Background()))

	_, err = f.launch.Launch(context.Background(), workflowID)
	require.NoError(t, err)

	select {
	case completed := <-received:
		assert.Equal(t, workflowID, completed.WorkflowID)
		assert.Equal(t, 6, completed.PathLength)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for launch completed event")
	}
}

func TestLaunch_WorkflowNotFound(t *testing.T) {
	f := newLaunchFixture(t)

	path, err := f.launch.Launch(context.Background(), "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
	assert.Nil(t, path)
}

// A condition node wired directly after start fails the traversal:
// there is no message context to evaluate against.
func TestLaunch_ConditionAfterStart(t *testing.T) {
	ctx := context.Background()
	f := newLaunchFixture(t)
	workflowID := f.createWorkflow(t, "broken")

	end, err := f.nodes.CreateEndNode(ctx, &CreateEndNodeRequest{WorkflowID: workflowID})
	require.NoError(t, err)

	cond, err := f.nodes.CreateConditionNode(ctx, &CreateConditionNodeRequest{
		WorkflowID:     workflowID,
		Condition:      "status == 'sent'",
		YesSuccessorID: end.ID,
		NoSuccessorID:  end.ID,
	})
	require.NoError(t, err)

	_, err = f.nodes.CreateStartNode(ctx, &CreateStartNodeRequest{
		WorkflowID:  workflowID,
		SuccessorID: cond.ID,
	})
	require.NoError(t, err)

	path, err := f.launch.Launch(ctx, workflowID)

	var predecessor *workflow.PredecessorError

	require.ErrorAs(t, err, &predecessor)
	assert.Equal(t, cond.ID, predecessor.NodeID)
	assert.True(t, workflow.IsExecutionError(err))
	assert.Nil(t, path)
}

func TestLaunch_MissingStartNode(t *testing.T) {
	ctx := context.Background()
	f := newLaunchFixture(t)
	workflowID := f.createWorkflow(t, "empty")

	_, err := f.nodes.CreateEndNode(ctx, &CreateEndNodeRequest{WorkflowID: workflowID})
	require.NoError(t, err)

	_, err = f.launch.Launch(ctx, workflowID)
	assert.ErrorIs(t, err, workflow.ErrNoStartNode)
}
