package models

import (
	"errors"
	"fmt"
	"time"
)

// NodeType represents the variant of a workflow node.
type NodeType string

const (
	NodeTypeStart     NodeType = "start"
	NodeTypeEnd       NodeType = "end"
	NodeTypeMessage   NodeType = "message"
	NodeTypeCondition NodeType = "condition"
)

// MessageStatus is the delivery state carried by message nodes.
type MessageStatus string

const (
	MessageStatusPending MessageStatus = "pending"
	MessageStatusSent    MessageStatus = "sent"
	MessageStatusOpened  MessageStatus = "opened"
)

// ErrInvalidMessageStatus indicates a message status outside the closed enum.
var ErrInvalidMessageStatus = errors.New("invalid message status")

// ParseMessageStatus validates a raw status value against the closed enum.
func ParseMessageStatus(raw string) (MessageStatus, error) {
	switch status := MessageStatus(raw); status {
	case MessageStatusPending, MessageStatusSent, MessageStatusOpened:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMessageStatus, raw)
	}
}

// Node is a typed vertex in a workflow graph. The Type tag selects the
// variant; variant-specific fields are zero for the other variants.
// A node belongs to exactly one workflow at a time.
type Node struct {
	ID         string   `json:"id"`
	WorkflowID string   `json:"workflow_id"`
	Type       NodeType `json:"type"`

	// Message variant.
	Status MessageStatus `json:"status,omitempty"`
	Text   string        `json:"text,omitempty"`

	// Condition variant. The expression is evaluated lazily at launch
	// time, never at creation.
	Condition string `json:"condition,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStartNode creates a start node for the given workflow.
func NewStartNode(workflowID string) *Node {
	return &Node{WorkflowID: workflowID, Type: NodeTypeStart}
}

// NewEndNode creates an end node for the given workflow.
func NewEndNode(workflowID string) *Node {
	return &Node{WorkflowID: workflowID, Type: NodeTypeEnd}
}

// NewMessageNode creates a message node, rejecting statuses outside the
// closed enum.
func NewMessageNode(workflowID, status, text string) (*Node, error) {
	parsed, err := ParseMessageStatus(status)
	if err != nil {
		return nil, err
	}

	return &Node{
		WorkflowID: workflowID,
		Type:       NodeTypeMessage,
		Status:     parsed,
		Text:       text,
	}, nil
}

// NewConditionNode creates a condition node. The expression is not
// parsed here.
func NewConditionNode(workflowID, condition string) *Node {
	return &Node{
		WorkflowID: workflowID,
		Type:       NodeTypeCondition,
		Condition:  condition,
	}
}

// Attributes returns the node's full attribute set as a plain map. The
// map doubles as the trace snapshot and, for message nodes, as the
// symbol table for condition evaluation, so values are plain strings.
func (n *Node) Attributes() map[string]any {
	attrs := map[string]any{
		"id":          n.ID,
		"workflow_id": n.WorkflowID,
		"type":        string(n.Type),
	}

	switch n.Type {
	case NodeTypeMessage:
		attrs["status"] = string(n.Status)
		attrs["text"] = n.Text
	case NodeTypeCondition:
		attrs["condition"] = n.Condition
	case NodeTypeStart, NodeTypeEnd:
	}

	return attrs
}
