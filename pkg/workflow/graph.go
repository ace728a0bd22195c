// Package workflow loads workflow graphs into memory and executes them
// deterministically, producing an ordered trace of node snapshots.
package workflow

import "github.com/mkravets/pathway/pkg/models"

// Graph is an in-memory directed multigraph for one workflow. Node IDs
// are unique keys; parallel edges between the same ordered pair are
// permitted only under distinct labels. Cycles are structurally legal
// at this layer; termination is the executor's concern.
type Graph struct {
	workflowID string
	order      []string
	nodes      map[string]*models.Node
	out        map[string][]models.Edge
}

// NewGraph creates an empty graph for one workflow.
func NewGraph(workflowID string) *Graph {
	return &Graph{
		workflowID: workflowID,
		nodes:      make(map[string]*models.Node),
		out:        make(map[string][]models.Edge),
	}
}

// WorkflowID returns the owning workflow's ID.
func (g *Graph) WorkflowID() string {
	return g.workflowID
}

// AddNode registers a node under its ID, keeping insertion order.
func (g *Graph) AddNode(node *models.Node) {
	if _, exists := g.nodes[node.ID]; !exists {
		g.order = append(g.order, node.ID)
	}

	g.nodes[node.ID] = node
}

// AddEdge registers an outgoing edge for its source node.
func (g *Graph) AddEdge(edge models.Edge) {
	g.out[edge.OutID] = append(g.out[edge.OutID], edge)
}

// Node returns the node registered under the given ID, or nil.
func (g *Graph) Node(id string) *models.Node {
	return g.nodes[id]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*models.Node {
	nodes := make([]*models.Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}

	return nodes
}

// Successors returns the outgoing edges of a node, any label.
func (g *Graph) Successors(id string) []models.Edge {
	return g.out[id]
}

// Successor returns the outgoing edge of a node under the exact label.
func (g *Graph) Successor(id, label string) (models.Edge, bool) {
	for _, edge := range g.out[id] {
		if edge.Label == label {
			return edge, true
		}
	}

	return models.Edge{}, false
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}
