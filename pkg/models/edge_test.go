package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEdge(t *testing.T) {
	nodeA := &Node{ID: "a", WorkflowID: "wf-1", Type: NodeTypeStart}
	nodeB := &Node{ID: "b", WorkflowID: "wf-1", Type: NodeTypeEnd}
	nodeC := &Node{ID: "c", WorkflowID: "wf-2", Type: NodeTypeEnd}

	tests := []struct {
		name    string
		out     *Node
		in      *Node
		wantErr error
	}{
		{name: "valid edge", out: nodeA, in: nodeB, wantErr: nil},
		{name: "self loop", out: nodeA, in: nodeA, wantErr: ErrSelfConnection},
		{name: "cross workflow", out: nodeA, in: nodeC, wantErr: ErrCrossWorkflowEdge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEdge(tt.out, tt.in)
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
