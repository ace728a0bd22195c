package file

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
)

type workflowRepository struct {
	store *store
}

func (r *workflowRepository) List(_ context.Context) ([]*models.Workflow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	documents, err := r.store.readAll()
	if err != nil {
		return nil, err
	}

	workflows := make([]*models.Workflow, 0, len(documents))
	for _, doc := range documents {
		workflows = append(workflows, doc.Workflow)
	}

	return workflows, nil
}

func (r *workflowRepository) GetByID(_ context.Context, id string) (*models.Workflow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doc, err := r.store.read(id)
	if err != nil {
		return nil, err
	}

	return doc.Workflow, nil
}

func (r *workflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	doc, err := r.store.read(workflow.ID)
	if err != nil {
		if !persistence.IsWorkflowNotFound(err) {
			return err
		}

		doc = &document{Nodes: []*models.Node{}, Edges: []*models.Edge{}}
	}

	doc.Workflow = workflow

	return r.store.write(doc)
}

func (r *workflowRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.remove(id)
}
