// Package models defines the core domain models for workflow graphs.
package models

import "time"

// Workflow is a named container for one process graph. It owns its
// nodes: deleting a workflow cascades to all nodes and their edges.
type Workflow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,min=1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
