package services

import (
	"context"
	"fmt"

	"github.com/mkravets/pathway/pkg/models"
	"github.com/mkravets/pathway/pkg/persistence"
)

// CreateStartNodeRequest represents the request to create a start node.
type CreateStartNodeRequest struct {
	WorkflowID  string
	SuccessorID string
}

// CreateEndNodeRequest represents the request to create an end node.
type CreateEndNodeRequest struct {
	WorkflowID   string
	Predecessors []string
}

// CreateMessageNodeRequest represents the request to create a message node.
type CreateMessageNodeRequest struct {
	WorkflowID   string
	Status       string
	Text         string
	Predecessors []string
	SuccessorID  string
}

// CreateConditionNodeRequest represents the request to create a condition node.
type CreateConditionNodeRequest struct {
	WorkflowID     string
	Condition      string
	Predecessors   []string
	YesSuccessorID string
	NoSuccessorID  string
}

// UpdateStartNodeRequest represents a partial update of a start node.
// Nil pointers leave the field untouched; empty edge ids add no edge.
type UpdateStartNodeRequest struct {
	WorkflowID  *string
	SuccessorID string
}

// UpdateEndNodeRequest represents a partial update of an end node.
type UpdateEndNodeRequest struct {
	WorkflowID   *string
	Predecessors []string
}

// UpdateMessageNodeRequest represents a partial update of a message node.
type UpdateMessageNodeRequest struct {
	WorkflowID   *string
	Status       *string
	Text         *string
	Predecessors []string
	SuccessorID  string
}

// UpdateConditionNodeRequest represents a partial update of a condition node.
type UpdateConditionNodeRequest struct {
	WorkflowID     *string
	Condition      *string
	Predecessors   []string
	YesSuccessorID string
	NoSuccessorID  string
}

// Node handles node-related business operations. Every mutation
// validates its edges before writing anything, so a failed request
// persists nothing.
type Node struct {
	persistence persistence.Persistence
}

// NewNode creates a new node service.
func NewNode(persistence persistence.Persistence) *Node {
	return &Node{
		persistence: persistence,
	}
}

// ListNodes returns every node across all workflows.
func (n *Node) ListNodes(ctx context.Context) ([]*models.Node, error) {
	return n.persistence.NodeRepository().List(ctx)
}

// ListWorkflowNodes returns the nodes of one workflow.
func (n *Node) ListWorkflowNodes(ctx context.Context, workflowID string) ([]*models.Node, error) {
	_, err := n.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	return n.persistence.NodeRepository().ListByWorkflow(ctx, workflowID)
}

// FetchNode retrieves a node by its ID.
func (n *Node) FetchNode(ctx context.Context, nodeID string) (*models.Node, error) {
	return n.persistence.NodeRepository().GetByID(ctx, nodeID)
}

// DeleteNode removes a node and every edge touching it.
func (n *Node) DeleteNode(ctx context.Context, nodeID string) error {
	return n.persistence.NodeRepository().Delete(ctx, nodeID)
}

// CreateStartNode creates the start node of a workflow. A workflow may
// hold at most one.
func (n *Node) CreateStartNode(ctx context.Context, req *CreateStartNodeRequest) (*models.Node, error) {
	err := n.checkWorkflowExists(ctx, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	err = n.checkSingleton(ctx, req.WorkflowID, models.NodeTypeStart)
	if err != nil {
		return nil, err
	}

	node := models.NewStartNode(req.WorkflowID)

	err = n.validateSuccessor(ctx, node, req.SuccessorID)
	if err != nil {
		return nil, err
	}

	err = n.persistence.NodeRepository().Save(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("failed to save node: %w", err)
	}

	err = n.replaceSuccessor(ctx, node, req.SuccessorID, models.EdgeLabelDefault)
	if err != nil {
		return nil, err
	}

	return node, nil
}

// CreateEndNode creates the end node of a workflow. A workflow may hold
// at most one.
func (n *Node) CreateEndNode(ctx context.Context, req *CreateEndNodeRequest) (*models.Node, error) {
	err := n.checkWorkflowExists(ctx, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	err = n.checkSingleton(ctx, req.WorkflowID, models.NodeTypeEnd)
	if err != nil {
		return nil, err
	}

	node := models.NewEndNode(req.WorkflowID)

	err = n.validatePredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	err = n.persistence.NodeRepository().Save(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("failed to save node: %w", err)
	}

	err = n.linkPredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	return node, nil
}

// CreateMessageNode creates a message node, optionally wiring its
// predecessors and successor in the same request.
func (n *Node) CreateMessageNode(ctx context.Context, req *CreateMessageNodeRequest) (*models.Node, error) {
	err := n.checkWorkflowExists(ctx, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	node, err := models.NewMessageNode(req.WorkflowID, req.Status, req.Text)
	if err != nil {
		return nil, err
	}

	err = n.validatePredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	err = n.validateSuccessor(ctx, node, req.SuccessorID)
	if err != nil {
		return nil, err
	}

	err = n.persistence.NodeRepository().Save(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("failed to save node: %w", err)
	}

	err = n.linkPredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	err = n.replaceSuccessor(ctx, node, req.SuccessorID, models.EdgeLabelDefault)
	if err != nil {
		return nil, err
	}

	return node, nil
}

// CreateConditionNode creates a condition node. Its Yes and No branches
// are distinct labeled edges.
func (n *Node) CreateConditionNode(ctx context.Context, req *CreateConditionNodeRequest) (*models.Node, error) {
	err := n.checkWorkflowExists(ctx, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	node := models.NewConditionNode(req.WorkflowID, req.Condition)

	err = n.validatePredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	err = n.validateSuccessor(ctx, node, req.YesSuccessorID)
	if err != nil {
		return nil, err
	}

	err = n.validateSuccessor(ctx, node, req.NoSuccessorID)
	if err != nil {
		return nil, err
	}

	err = n.persistence.NodeRepository().Save(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("failed to save node: %w", err)
	}

	err = n.linkPredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	err = n.replaceSuccessor(ctx, node, req.YesSuccessorID, models.EdgeLabelYes)
	if err != nil {
		return nil, err
	}

	err = n.replaceSuccessor(ctx, node, req.NoSuccessorID, models.EdgeLabelNo)
	if err != nil {
		return nil, err
	}

	return node, nil
}

// UpdateStartNode applies a partial update to a start node.
func (n *Node) UpdateStartNode(ctx context.Context, nodeID string, req *UpdateStartNodeRequest) (*models.Node, error) {
	node, err := n.fetchTyped(ctx, nodeID, models.NodeTypeStart)
	if err != nil {
		return nil, err
	}

	moved, err := n.prepareMove(ctx, node, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	err = n.validateSuccessor(ctx, node, req.SuccessorID)
	if err != nil {
		return nil, err
	}

	err = n.commitMove(ctx, node, moved)
	if err != nil {
		return nil, err
	}

	err = n.replaceSuccessor(ctx, node, req.SuccessorID, models.EdgeLabelDefault)
	if err != nil {
		return nil, err
	}

	return node, nil
}

// UpdateEndNode applies a partial update to an end node.
func (n *Node) UpdateEndNode(ctx context.Context, nodeID string, req *UpdateEndNodeRequest) (*models.Node, error) {
	node, err := n.fetchTyped(ctx, nodeID, models.NodeTypeEnd)
	if err != nil {
		return nil, err
	}

	moved, err := n.prepareMove(ctx, node, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	err = n.validatePredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	err = n.commitMove(ctx, node, moved)
	if err != nil {
		return nil, err
	}

	err = n.linkPredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	return node, nil
}

// UpdateMessageNode applies a partial update to a message node.
func (n *Node) UpdateMessageNode(ctx context.Context, nodeID string, req *UpdateMessageNodeRequest) (*models.Node, error) {
	node, err := n.fetchTyped(ctx, nodeID, models.NodeTypeMessage)
	if err != nil {
		return nil, err
	}

	moved, err := n.prepareMove(ctx, node, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		status, err := models.ParseMessageStatus(*req.Status)
		if err != nil {
			return nil, err
		}

		node.Status = status
	}

	if req.Text != nil {
		node.Text = *req.Text
	}

	err = n.validatePredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	err = n.validateSuccessor(ctx, node, req.SuccessorID)
	if err != nil {
		return nil, err
	}

	err = n.commitMove(ctx, node, moved)
	if err != nil {
		return nil, err
	}

	err = n.linkPredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	err = n.replaceSuccessor(ctx, node, req.SuccessorID, models.EdgeLabelDefault)
	if err != nil {
		return nil, err
	}

	return node, nil
}

// UpdateConditionNode applies a partial update to a condition node.
func (n *Node) UpdateConditionNode(ctx context.Context, nodeID string, req *UpdateConditionNodeRequest) (*models.Node, error) {
	node, err := n.fetchTyped(ctx, nodeID, models.NodeTypeCondition)
	if err != nil {
		return nil, err
	}

	moved, err := n.prepareMove(ctx, node, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	if req.Condition != nil {
		node.Condition = *req.Condition
	}

	err = n.validatePredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	err = n.validateSuccessor(ctx, node, req.YesSuccessorID)
	if err != nil {
		return nil, err
	}

	err = n.validateSuccessor(ctx, node, req.NoSuccessorID)
	if err != nil {
		return nil, err
	}

	err = n.commitMove(ctx, node, moved)
	if err != nil {
		return nil, err
	}

	err = n.linkPredecessors(ctx, req.Predecessors, node)
	if err != nil {
		return nil, err
	}

	err = n.replaceSuccessor(ctx, node, req.YesSuccessorID, models.EdgeLabelYes)
	if err != nil {
		return nil, err
	}

	err = n.replaceSuccessor(ctx, node, req.NoSuccessorID, models.EdgeLabelNo)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (n *Node) checkWorkflowExists(ctx context.Context, workflowID string) error {
	_, err := n.persistence.WorkflowRepository().GetByID(ctx, workflowID)

	return err
}

// checkSingleton fails when the workflow already holds a node of the
// given variant. Checked only at creation time: moving a node into a
// workflow does not re-check.
func (n *Node) checkSingleton(ctx context.Context, workflowID string, nodeType models.NodeType) error {
	nodes, err := n.persistence.NodeRepository().ListByWorkflow(ctx, workflowID)
	if err != nil {
		return fmt.Errorf("failed to list workflow nodes: %w", err)
	}

	for _, existing := range nodes {
		if existing.Type != nodeType {
			continue
		}

		if nodeType == models.NodeTypeStart {
			return ErrStartNodeExists
		}

		return ErrEndNodeExists
	}

	return nil
}

// fetchTyped loads a node and checks its variant; a node of another
// variant under that id is treated as absent.
func (n *Node) fetchTyped(ctx context.Context, nodeID string, nodeType models.NodeType) (*models.Node, error) {
	node, err := n.persistence.NodeRepository().GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	if node.Type != nodeType {
		return nil, persistence.NewNodeError("FetchTyped", nodeID, persistence.ErrNodeNotFound)
	}

	return node, nil
}

// prepareMove resolves a requested workflow change. It validates the
// target workflow and mutates the in-memory node only; commitMove
// performs the writes after the rest of the request has validated.
func (n *Node) prepareMove(ctx context.Context, node *models.Node, workflowID *string) (bool, error) {
	if workflowID == nil || *workflowID == node.WorkflowID {
		return false, nil
	}

	err := n.checkWorkflowExists(ctx, *workflowID)
	if err != nil {
		return false, err
	}

	node.WorkflowID = *workflowID

	return true, nil
}

// commitMove persists the updated node. A workflow move first clears
// every edge connecting the node to its old workflow.
func (n *Node) commitMove(ctx context.Context, node *models.Node, moved bool) error {
	if moved {
		err := n.persistence.EdgeRepository().DeleteByNode(ctx, node.ID)
		if err != nil {
			return fmt.Errorf("failed to clear node edges: %w", err)
		}
	}

	err := n.persistence.NodeRepository().Save(ctx, node)
	if err != nil {
		return fmt.Errorf("failed to save node: %w", err)
	}

	return nil
}

func (n *Node) validatePredecessors(ctx context.Context, predecessors []string, node *models.Node) error {
	for _, predecessorID := range predecessors {
		predecessor, err := n.resolveEndpoint(ctx, predecessorID, RolePredecessor)
		if err != nil {
			return err
		}

		err = models.ValidateEdge(predecessor, node)
		if err != nil {
			return err
		}
	}

	return nil
}

func (n *Node) validateSuccessor(ctx context.Context, node *models.Node, successorID string) error {
	if successorID == "" {
		return nil
	}

	successor, err := n.resolveEndpoint(ctx, successorID, RoleSuccessor)
	if err != nil {
		return err
	}

	return models.ValidateEdge(node, successor)
}

func (n *Node) resolveEndpoint(ctx context.Context, nodeID, role string) (*models.Node, error) {
	node, err := n.persistence.NodeRepository().GetByID(ctx, nodeID)
	if err != nil {
		if persistence.IsNodeNotFound(err) {
			return nil, &EndpointError{NodeID: nodeID, Role: role}
		}

		return nil, err
	}

	return node, nil
}

// linkPredecessors appends one default-labeled edge per predecessor.
func (n *Node) linkPredecessors(ctx context.Context, predecessors []string, node *models.Node) error {
	for _, predecessorID := range predecessors {
		edge := &models.Edge{OutID: predecessorID, InID: node.ID, Label: models.EdgeLabelDefault}

		err := n.persistence.EdgeRepository().Save(ctx, edge)
		if err != nil {
			return fmt.Errorf("failed to save edge: %w", err)
		}
	}

	return nil
}

// replaceSuccessor points the node's outgoing edge under the given
// label at successorID, replacing an existing same-label edge instead
// of adding a parallel one.
func (n *Node) replaceSuccessor(ctx context.Context, node *models.Node, successorID, label string) error {
	if successorID == "" {
		return nil
	}

	existing, err := n.persistence.EdgeRepository().GetBySourceAndLabel(ctx, node.ID, label)
	if err != nil && !persistence.IsEdgeNotFound(err) {
		return fmt.Errorf("failed to look up successor edge: %w", err)
	}

	if existing != nil && existing.InID != successorID {
		err := n.persistence.EdgeRepository().Delete(ctx, existing)
		if err != nil {
			return fmt.Errorf("failed to replace successor edge: %w", err)
		}
	}

	edge := &models.Edge{OutID: node.ID, InID: successorID, Label: label}

	err = n.persistence.EdgeRepository().Save(ctx, edge)
	if err != nil {
		return fmt.Errorf("failed to save edge: %w", err)
	}

	return nil
}
