// Package file provides a file-based persistence implementation that
// stores each workflow as one JSON document embedding its nodes and
// edges. It backs tests and local runs.
package file

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/mkravets/pathway/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface on the
// file system.
type Persistence struct {
	store        *store
	workflowRepo *workflowRepository
	nodeRepo     *nodeRepository
	edgeRepo     *edgeRepository
}

// NewPersistence creates a file persistence layer rooted at the given
// directory. A "file://" prefix is stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)
	store := &store{root: cleanRoot, mu: &sync.RWMutex{}}

	return &Persistence{
		store:        store,
		workflowRepo: &workflowRepository{store: store},
		nodeRepo:     &nodeRepository{store: store},
		edgeRepo:     &edgeRepository{store: store},
	}
}

// WorkflowRepository returns the workflow repository.
func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

// NodeRepository returns the node repository.
func (p *Persistence) NodeRepository() persistence.NodeRepository {
	return p.nodeRepo
}

// EdgeRepository returns the edge repository.
func (p *Persistence) EdgeRepository() persistence.EdgeRepository {
	return p.edgeRepo
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.store.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. There is nothing to clean up
// for file persistence.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}
