package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
)

// document is the on-disk representation of one workflow and the graph
// it owns.
type document struct {
	Workflow *models.Workflow `json:"workflow"`
	Nodes    []*models.Node   `json:"nodes"`
	Edges    []*models.Edge   `json:"edges"`
}

// store serializes access to the workflow documents under root.
type store struct {
	root string
	mu   *sync.RWMutex
}

func (s *store) workflowsDir() string {
	return filepath.Join(s.root, "workflows")
}

func (s *store) documentPath(workflowID string) string {
	return filepath.Join(s.workflowsDir(), workflowID+".json")
}

// read returns the document for one workflow. Callers hold the lock.
func (s *store) read(workflowID string) (*document, error) {
	data, err := os.ReadFile(s.documentPath(workflowID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkflowError("read", workflowID, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to read workflow document: %w", err)
	}

	var doc document

	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode workflow document: %w", err)
	}

	return &doc, nil
}

// readAll returns every document sorted by workflow creation time.
// Callers hold the lock.
func (s *store) readAll() ([]*document, error) {
	entries, err := os.ReadDir(s.workflowsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list workflow documents: %w", err)
	}

	documents := make([]*document, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		doc, err := s.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}

		documents = append(documents, doc)
	}

	sort.Slice(documents, func(i, j int) bool {
		return documents[i].Workflow.CreatedAt.Before(documents[j].Workflow.CreatedAt)
	})

	return documents, nil
}

// write persists a document. Callers hold the lock.
func (s *store) write(doc *document) error {
	err := os.MkdirAll(s.workflowsDir(), 0o755)
	if err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode workflow document: %w", err)
	}

	err = os.WriteFile(s.documentPath(doc.Workflow.ID), data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write workflow document: %w", err)
	}

	return nil
}

// remove deletes a document. Callers hold the lock.
func (s *store) remove(workflowID string) error {
	err := os.Remove(s.documentPath(workflowID))
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.NewWorkflowError("remove", workflowID, persistence.ErrWorkflowNotFound)
		}

		return fmt.Errorf("failed to remove workflow document: %w", err)
	}

	return nil
}

// findNode locates the document containing a node. Callers hold the lock.
func (s *store) findNode(nodeID string) (*document, *models.Node, error) {
	documents, err := s.readAll()
	if err != nil {
		return nil, nil, err
	}

	for _, doc := range documents {
		for _, node := range doc.Nodes {
			if node.ID == nodeID {
				return doc, node, nil
			}
		}
	}

	return nil, nil, persistence.NewNodeError("findNode", nodeID, persistence.ErrNodeNotFound)
}

// detachNode removes a node and every edge touching it from a document.
func detachNode(doc *document, nodeID string) {
	nodes := doc.Nodes[:0]

	for _, node := range doc.Nodes {
		if node.ID != nodeID {
			nodes = append(nodes, node)
		}
	}

	doc.Nodes = nodes

	edges := doc.Edges[:0]

	for _, edge := range doc.Edges {
		if edge.OutID != nodeID && edge.InID != nodeID {
			edges = append(edges, edge)
		}
	}

	doc.Edges = edges
}
