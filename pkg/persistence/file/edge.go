package file

import (
	"context"

	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
)

type edgeRepository struct {
	store *store
}

func (r *edgeRepository) ListByWorkflow(_ context.Context, workflowID string) ([]*models.Edge, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doc, err := r.store.read(workflowID)
	if err != nil {
		return nil, err
	}

	return doc.Edges, nil
}

func (r *edgeRepository) GetBySourceAndLabel(_ context.Context, outID, label string) (*models.Edge, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doc, _, err := r.store.findNode(outID)
	if err != nil {
		return nil, err
	}

	for _, edge := range doc.Edges {
		if edge.OutID == outID && edge.Label == label {
			return edge, nil
		}
	}

	return nil, persistence.ErrEdgeNotFound
}

func (r *edgeRepository) Save(_ context.Context, edge *models.Edge) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc, _, err := r.store.findNode(edge.OutID)
	if err != nil {
		return err
	}

	for _, existing := range doc.Edges {
		if *existing == *edge {
			return nil
		}
	}

	doc.Edges = append(doc.Edges, edge)

	return r.store.write(doc)
}

func (r *edgeRepository) Delete(_ context.Context, edge *models.Edge) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc, _, err := r.store.findNode(edge.OutID)
	if err != nil {
		return err
	}

	edges := doc.Edges[:0]

	for _, existing := range doc.Edges {
		if *existing != *edge {
			edges = append(edges, existing)
		}
	}

	doc.Edges = edges

	return r.store.write(doc)
}

func (r *edgeRepository) DeleteByNode(_ context.Context, nodeID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc, _, err := r.store.findNode(nodeID)
	if err != nil {
		return err
	}

	edges := doc.Edges[:0]

	for _, edge := range doc.Edges {
		if edge.OutID != nodeID && edge.InID != nodeID {
			edges = append(edges, edge)
		}
	}

	doc.Edges = edges

	return r.store.write(doc)
}
