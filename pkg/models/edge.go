package models

import "errors"

// Edge labels. The empty label is the single-successor default; Yes/No
// are reserved for condition branches.
const (
	EdgeLabelDefault = ""
	EdgeLabelYes     = "Yes"
	EdgeLabelNo      = "No"
)

// Edge is a labeled directed connection between two nodes of the same
// workflow, identified by the (OutID, InID, Label) triple. An edge is
// owned by its endpoints: deleting either node deletes the edge.
type Edge struct {
	OutID string `json:"out_id"`
	InID  string `json:"in_id"`
	Label string `json:"label"`
}

// Structural validation errors reported before an edge is written.
var (
	// ErrSelfConnection indicates an edge whose endpoints are the same node.
	ErrSelfConnection = errors.New("self connected nodes are not allowed")

	// ErrCrossWorkflowEdge indicates endpoints in different workflows.
	ErrCrossWorkflowEdge = errors.New("cannot connect nodes from different workflows")
)

// ValidateEdge checks the structural invariants for a prospective edge
// between two resolved nodes. It is pure: callers resolve the endpoints
// and persist nothing when it fails.
func ValidateEdge(out, in *Node) error {
	if out.ID == in.ID {
		return ErrSelfConnection
	}

	if out.WorkflowID != in.WorkflowID {
		return ErrCrossWorkflowEdge
	}

	return nil
}
