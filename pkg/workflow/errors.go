package workflow

import (
	"errors"
	"fmt"

	"github.com/mkravets/pathway/pkg/models"
)

// Shape violations detected while walking a graph. All of them abort
// the walk immediately; no partial trace is returned.
var (
	// ErrNoStartNode indicates a graph without a start node.
	ErrNoStartNode = errors.New("no start node")

	// ErrMultipleStartNodes indicates a graph with more than one start node.
	ErrMultipleStartNodes = errors.New("multiple start nodes")
)

// BranchingError indicates a non-condition node with other than exactly
// one outgoing edge.
type BranchingError struct {
	NodeID string
	Type   models.NodeType
}

func (e *BranchingError) Error() string {
	switch e.Type {
	case models.NodeTypeStart:
		return fmt.Sprintf("Start node (id: %s) should have exactly one successor node", e.NodeID)
	case models.NodeTypeMessage:
		return fmt.Sprintf("Message node(id: %s) should have exactly one successor node", e.NodeID)
	case models.NodeTypeEnd, models.NodeTypeCondition:
	}

	return fmt.Sprintf("node (id: %s) should have exactly one successor node", e.NodeID)
}

// PredecessorError indicates a condition node whose immediate
// predecessor on the path is neither a message nor a condition node.
type PredecessorError struct {
	NodeID string
}

func (e *PredecessorError) Error() string {
	return fmt.Sprintf("Condition node(id: %s) should have message node or another condition node as its predecessor", e.NodeID)
}

// MissingBranchError indicates a condition node without the outgoing
// edge matching its evaluated branch label.
type MissingBranchError struct {
	NodeID string
	Label  string
}

func (e *MissingBranchError) Error() string {
	return fmt.Sprintf("Condition node(id: %s) don't have '%s' successor", e.NodeID, e.Label)
}

// ConditionError annotates a condition-evaluation failure with the
// offending node's ID. It wraps the evaluator's error.
type ConditionError struct {
	NodeID string
	Err    error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("Condition node(id: %s) %v", e.NodeID, e.Err)
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}

// StepLimitError indicates a walk that exceeded the executor's step
// budget, which points at a condition cycle that never releases.
type StepLimitError struct {
	Limit int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("execution exceeded %d steps, workflow graph likely contains a non-terminating cycle", e.Limit)
}

// IsExecutionError reports whether an error is one of the structured
// failures produced by walking a graph.
func IsExecutionError(err error) bool {
	var (
		branching     *BranchingError
		predecessor   *PredecessorError
		missingBranch *MissingBranchError
		conditionErr  *ConditionError
		stepLimit     *StepLimitError
	)

	return errors.Is(err, ErrNoStartNode) ||
		errors.Is(err, ErrMultipleStartNodes) ||
		errors.As(err, &branching) ||
		errors.As(err, &predecessor) ||
		errors.As(err, &missingBranch) ||
		errors.As(err, &conditionErr) ||
		errors.As(err, &stepLimit)
}
