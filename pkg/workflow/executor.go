package workflow

import (
	"context"
	"log/slog"

	"github.com/mkravets/pathway/pkg/condition"
	"github.com/mkravets/pathway/pkg/models"
)

// Snapshot is the full attribute set of one visited node. Condition
// nodes additionally carry the computed branch under "result".
type Snapshot map[string]any

// Trace is the ordered sequence of node snapshots produced by a
// successful traversal, start to end.
type Trace []Snapshot

// DefaultMaxSteps bounds a single traversal. The reference design has
// no cycle guard at all, so a condition cycle that always matches would
// walk forever; the budget turns that into a structured error. Zero
// disables the guard.
const DefaultMaxSteps = 10000

// Executor walks one loaded graph from its start node to an end node.
// It holds no state between runs: the same snapshot always yields the
// same trace.
type Executor struct {
	logger *slog.Logger

	// MaxSteps bounds the traversal loop. Zero means unbounded.
	MaxSteps int
}

// NewExecutor creates an executor with the default step budget.
func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{logger: logger, MaxSteps: DefaultMaxSteps}
}

// Execute walks the graph and returns the ordered trace, or a
// structured error naming the violated invariant. A failed walk returns
// no partial trace.
func (e *Executor) Execute(ctx context.Context, graph *Graph) (Trace, error) {
	logger := e.logger.With("workflow_id", graph.WorkflowID())
	logger.InfoContext(ctx, "Starting workflow execution", "nodes", graph.Len())

	start, err := findStartNode(graph)
	if err != nil {
		return nil, err
	}

	successors := graph.Successors(start.ID)
	if len(successors) != 1 {
		return nil, &BranchingError{NodeID: start.ID, Type: start.Type}
	}

	previous := start
	current := graph.Node(successors[0].InID)

	trace := Trace{Snapshot(start.Attributes()), Snapshot(current.Attributes())}

	// Symbol table for condition nodes: the attributes of the most
	// recently visited message node.
	var lastMessage *models.Node

	steps := 0

	for current.Type != models.NodeTypeEnd {
		if e.MaxSteps > 0 && steps >= e.MaxSteps {
			return nil, &StepLimitError{Limit: e.MaxSteps}
		}

		steps++

		var next *models.Node

		switch current.Type {
		case models.NodeTypeMessage:
			lastMessage = current

			successors := graph.Successors(current.ID)
			if len(successors) != 1 {
				return nil, &BranchingError{NodeID: current.ID, Type: current.Type}
			}

			next = graph.Node(successors[0].InID)

		case models.NodeTypeCondition:
			if previous.Type != models.NodeTypeMessage && previous.Type != models.NodeTypeCondition {
				return nil, &PredecessorError{NodeID: current.ID}
			}

			symbols := map[string]any{}
			if lastMessage != nil {
				symbols = lastMessage.Attributes()
			}

			matched, err := condition.Evaluate(current.Condition, symbols)
			if err != nil {
				return nil, &ConditionError{NodeID: current.ID, Err: err}
			}

			label := models.EdgeLabelNo
			if matched {
				label = models.EdgeLabelYes
			}

			edge, ok := graph.Successor(current.ID, label)
			if !ok {
				return nil, &MissingBranchError{NodeID: current.ID, Label: label}
			}

			// The computed branch is part of the condition node's
			// snapshot, already appended to the trace.
			trace[len(trace)-1]["result"] = label

			logger.DebugContext(ctx, "Evaluated condition",
				"node_id", current.ID, "condition", current.Condition, "result", label)

			next = graph.Node(edge.InID)

		case models.NodeTypeStart, models.NodeTypeEnd:
			// Any other node kind on the path is constrained to
			// out-degree exactly one, same as messages.
			successors := graph.Successors(current.ID)
			if len(successors) != 1 {
				return nil, &BranchingError{NodeID: current.ID, Type: current.Type}
			}

			next = graph.Node(successors[0].InID)
		}

		previous = current
		current = next

		trace = append(trace, Snapshot(current.Attributes()))
	}

	logger.InfoContext(ctx, "Workflow execution completed", "steps", len(trace))

	return trace, nil
}

func findStartNode(graph *Graph) (*models.Node, error) {
	var start *models.Node

	count := 0

	for _, node := range graph.Nodes() {
		if node.Type == models.NodeTypeStart {
			start = node
			count++
		}
	}

	if count == 0 {
		return nil, ErrNoStartNode
	}

	if count > 1 {
		return nil, ErrMultipleStartNodes
	}

	return start, nil
}
