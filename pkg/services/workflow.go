package services

import (
	"context"
	"fmt"

	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

// Workflow handles workflow-related business operations.
type Workflow struct {
	persistence persistence.Persistence
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(persistence persistence.Persistence) *Workflow {
	return &Workflow{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns all workflows.
func (w *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := w.persistence.WorkflowRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// FetchByID retrieves a workflow by its ID.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return workflow, nil
}

// Create adds a new workflow to the repository. The repository assigns
// the ID and timestamps.
func (w *Workflow) Create(ctx context.Context, name string) (*models.Workflow, error) {
	workflow := &models.Workflow{Name: name}

	err := w.persistence.WorkflowRepository().Save(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return workflow, nil
}

// Update renames an existing workflow.
func (w *Workflow) Update(ctx context.Context, workflowID, name string) (*models.Workflow, error) {
	existing, err := w.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	existing.Name = name

	err = w.persistence.WorkflowRepository().Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	return existing, nil
}

// Delete removes a workflow by its ID, cascading to its nodes and
// their edges.
func (w *Workflow) Delete(ctx context.Context, workflowID string) error {
	return w.persistence.WorkflowRepository().Delete(ctx, workflowID)
}
