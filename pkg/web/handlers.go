package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/mkravets/pathway/pkg/services"
)

// APIHandlers carries the service dependencies of the REST surface.
// Handlers stay thin: bind, validate, delegate, map errors.
type APIHandlers struct {
	workflowService *services.Workflow
	nodeService     *services.Node
	launchService   *services.Launch
	validator       *validator.Validate
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	nodeService *services.Node,
	launchService *services.Launch,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		nodeService:     nodeService,
		launchService:   launchService,
		validator:       validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Pathway API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Pathway API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.workflowService.Create(c.Context(), req.Name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.workflowService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.workflowService.Update(c.Context(), id, req.Name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	err := h.workflowService.Delete(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetWorkflowNodes(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	nodes, err := h.nodeService.ListWorkflowNodes(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(nodes)
}

// LaunchWorkflow walks the workflow graph and returns the ordered path
// of node snapshots.
func (h *APIHandlers) LaunchWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	path, err := h.launchService.Launch(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"path": path})
}

func (h *APIHandlers) GetNodes(c fiber.Ctx) error {
	nodes, err := h.nodeService.ListNodes(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(nodes)
}

func (h *APIHandlers) GetNode(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Node ID is required")
	}

	node, err := h.nodeService.FetchNode(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) DeleteNode(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Node ID is required")
	}

	err := h.nodeService.DeleteNode(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CreateStartNode(c fiber.Ctx) error {
	var req CreateStartNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.nodeService.CreateStartNode(c.Context(), &services.CreateStartNodeRequest{
		WorkflowID:  req.WorkflowID,
		SuccessorID: req.SuccessorID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

func (h *APIHandlers) CreateEndNode(c fiber.Ctx) error {
	var req CreateEndNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.nodeService.CreateEndNode(c.Context(), &services.CreateEndNodeRequest{
		WorkflowID:   req.WorkflowID,
		Predecessors: req.Predecessors,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

func (h *APIHandlers) CreateMessageNode(c fiber.Ctx) error {
	var req CreateMessageNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.nodeService.CreateMessageNode(c.Context(), &services.CreateMessageNodeRequest{
		WorkflowID:   req.WorkflowID,
		Status:       req.Status,
		Text:         req.Text,
		Predecessors: req.Predecessors,
		SuccessorID:  req.SuccessorID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

func (h *APIHandlers) CreateConditionNode(c fiber.Ctx) error {
	var req CreateConditionNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.nodeService.CreateConditionNode(c.Context(), &services.CreateConditionNodeRequest{
		WorkflowID:     req.WorkflowID,
		Condition:      req.Condition,
		Predecessors:   req.Predecessors,
		YesSuccessorID: req.YesSuccessorID,
		NoSuccessorID:  req.NoSuccessorID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

func (h *APIHandlers) UpdateStartNode(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Node ID is required")
	}

	var req UpdateStartNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	node, err := h.nodeService.UpdateStartNode(c.Context(), id, &services.UpdateStartNodeRequest{
		WorkflowID:  req.WorkflowID,
		SuccessorID: req.SuccessorID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) UpdateEndNode(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Node ID is required")
	}

	var req UpdateEndNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	node, err := h.nodeService.UpdateEndNode(c.Context(), id, &services.UpdateEndNodeRequest{
		WorkflowID:   req.WorkflowID,
		Predecessors: req.Predecessors,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) UpdateMessageNode(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Node ID is required")
	}

	var req UpdateMessageNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	node, err := h.nodeService.UpdateMessageNode(c.Context(), id, &services.UpdateMessageNodeRequest{
		WorkflowID:   req.WorkflowID,
		Status:       req.Status,
		Text:         req.Text,
		Predecessors: req.Predecessors,
		SuccessorID:  req.SuccessorID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) UpdateConditionNode(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Node ID is required")
	}

	var req UpdateConditionNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	node, err := h.nodeService.UpdateConditionNode(c.Context(), id, &services.UpdateConditionNodeRequest{
		WorkflowID:     req.WorkflowID,
		Condition:      req.Condition,
		Predecessors:   req.Predecessors,
		YesSuccessorID: req.YesSuccessorID,
		NoSuccessorID:  req.NoSuccessorID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}
