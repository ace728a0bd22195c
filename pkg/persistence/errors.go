// Package persistence provides standardized error types for storage
// operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrNodeNotFound indicates a node was not found by the given identifier.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound indicates no edge exists for the given source and label.
	ErrEdgeNotFound = errors.New("edge not found")
)

// WorkflowError wraps workflow-related storage errors with context.
type WorkflowError struct {
	Op         string // Operation being performed (e.g. "GetByID", "Save", "Delete")
	WorkflowID string
	Err        error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s operation failed for workflow %s: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func (e *WorkflowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkflowError creates a new workflow error with context.
func NewWorkflowError(op, workflowID string, err error) *WorkflowError {
	return &WorkflowError{Op: op, WorkflowID: workflowID, Err: err}
}

// NodeError wraps node-related storage errors with context.
type NodeError struct {
	Op     string
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s operation failed for node %s: %v", e.Op, e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func (e *NodeError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewNodeError creates a new node error with context.
func NewNodeError(op, nodeID string, err error) *NodeError {
	return &NodeError{Op: op, NodeID: nodeID, Err: err}
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsNodeNotFound checks if an error indicates a node was not found.
func IsNodeNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound)
}

// IsEdgeNotFound checks if an error indicates an edge was not found.
func IsEdgeNotFound(err error) bool {
	return errors.Is(err, ErrEdgeNotFound)
}
