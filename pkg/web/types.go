// Package web provides HTTP request and response types for the
// workflow API.
package web

// CreateWorkflowRequest represents the request body for creating a new
// workflow.
type CreateWorkflowRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// UpdateWorkflowRequest represents the request body for renaming an
// existing workflow.
type UpdateWorkflowRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// CreateStartNodeRequest represents the request body for creating the
// start node of a workflow.
type CreateStartNodeRequest struct {
	WorkflowID  string `json:"workflow_id"            validate:"required"`
	SuccessorID string `json:"successor_id,omitempty"`
}

// CreateEndNodeRequest represents the request body for creating the end
// node of a workflow.
type CreateEndNodeRequest struct {
	WorkflowID   string   `json:"workflow_id"            validate:"required"`
	Predecessors []string `json:"predecessors,omitempty"`
}

// CreateMessageNodeRequest represents the request body for creating a
// message node. The status enum is checked by the node service, not the
// request validator, so a bad value surfaces as a validation problem.
type CreateMessageNodeRequest struct {
	WorkflowID   string   `json:"workflow_id"            validate:"required"`
	Status       string   `json:"status"                 validate:"required"`
	Text         string   `json:"text"`
	Predecessors []string `json:"predecessors,omitempty"`
	SuccessorID  string   `json:"successor_id,omitempty"`
}

// CreateConditionNodeRequest represents the request body for creating a
// condition node.
type CreateConditionNodeRequest struct {
	WorkflowID     string   `json:"workflow_id"                validate:"required"`
	Condition      string   `json:"condition"                  validate:"required"`
	Predecessors   []string `json:"predecessors,omitempty"`
	YesSuccessorID string   `json:"yes_successor_id,omitempty"`
	NoSuccessorID  string   `json:"no_successor_id,omitempty"`
}

// UpdateStartNodeRequest represents a partial update of a start node.
// All fields are optional; omitted fields stay untouched.
type UpdateStartNodeRequest struct {
	WorkflowID  *string `json:"workflow_id,omitempty"`
	SuccessorID string  `json:"successor_id,omitempty"`
}

// UpdateEndNodeRequest represents a partial update of an end node.
type UpdateEndNodeRequest struct {
	WorkflowID   *string  `json:"workflow_id,omitempty"`
	Predecessors []string `json:"predecessors,omitempty"`
}

// UpdateMessageNodeRequest represents a partial update of a message node.
type UpdateMessageNodeRequest struct {
	WorkflowID   *string  `json:"workflow_id,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Text         *string  `json:"text,omitempty"`
	Predecessors []string `json:"predecessors,omitempty"`
	SuccessorID  string   `json:"successor_id,omitempty"`
}

// UpdateConditionNodeRequest represents a partial update of a condition
// node.
type UpdateConditionNodeRequest struct {
	WorkflowID     *string  `json:"workflow_id,omitempty"`
	Condition      *string  `json:"condition,omitempty"`
	Predecessors   []string `json:"predecessors,omitempty"`
	YesSuccessorID string   `json:"yes_successor_id,omitempty"`
	NoSuccessorID  string   `json:"no_successor_id,omitempty"`
}
