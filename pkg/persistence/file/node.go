package file

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
)

type nodeRepository struct {
	store *store
}

func (r *nodeRepository) List(_ context.Context) ([]*models.Node, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	documents, err := r.store.readAll()
	if err != nil {
		return nil, err
	}

	nodes := make([]*models.Node, 0)
	for _, doc := range documents {
		nodes = append(nodes, doc.Nodes...)
	}

	return nodes, nil
}

func (r *nodeRepository) ListByWorkflow(_ context.Context, workflowID string) ([]*models.Node, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doc, err := r.store.read(workflowID)
	if err != nil {
		return nil, err
	}

	return doc.Nodes, nil
}

func (r *nodeRepository) GetByID(_ context.Context, id string) (*models.Node, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, node, err := r.store.findNode(id)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (r *nodeRepository) Save(_ context.Context, node *models.Node) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()

	if node.CreatedAt.IsZero() {
		node.CreatedAt = now
	}

	node.UpdatedAt = now

	if node.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate node ID: %w", err)
		}

		node.ID = id.String()
	}

	target, err := r.store.read(node.WorkflowID)
	if err != nil {
		return err
	}

	// A node moving between workflows leaves its old document, taking
	// no edges with it.
	previous, _, findErr := r.store.findNode(node.ID)
	if findErr == nil && previous.Workflow.ID != node.WorkflowID {
		detachNode(previous, node.ID)

		err = r.store.write(previous)
		if err != nil {
			return err
		}
	}

	if previous != nil && previous.Workflow.ID == node.WorkflowID {
		target = previous
	}

	replaced := false

	for i, existing := range target.Nodes {
		if existing.ID == node.ID {
			target.Nodes[i] = node
			replaced = true

			break
		}
	}

	if !replaced {
		target.Nodes = append(target.Nodes, node)
	}

	return r.store.write(target)
}

func (r *nodeRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc, _, err := r.store.findNode(id)
	if err != nil {
		return persistence.NewNodeError("Delete", id, persistence.ErrNodeNotFound)
	}

	detachNode(doc, id)

	return r.store.write(doc)
}
