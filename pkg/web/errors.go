package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/mkravets/pathway/pkg/persistence"
	"github.com/mkravets/pathway/pkg/services"
	"github.com/mkravets/pathway/pkg/workflow"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusBadRequest).
		WithInstance(c.Path()).
		WithType("bad_request").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusNotFound).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(fiber.StatusInternalServerError).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError maps service and engine errors onto problem
// responses: 404 for missing entities, 422 for structural validation,
// 409 for singleton conflicts, 400 for traversal failures.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case services.IsValidationError(err):
		problem := problems.NewStatusProblem(fiber.StatusUnprocessableEntity).
			WithInstance(c.Path()).
			WithType("validation_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	case services.IsConflictError(err):
		problem := problems.NewStatusProblem(fiber.StatusConflict).
			WithInstance(c.Path()).
			WithType("conflict").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	case persistence.IsWorkflowNotFound(err):
		return notFound(c, "Workflow not found")

	case persistence.IsNodeNotFound(err):
		return notFound(c, "Node not found")

	case workflow.IsExecutionError(err):
		problem := problems.NewStatusProblem(fiber.StatusBadRequest).
			WithInstance(c.Path()).
			WithType("execution_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(problem)

	default:
		return internalError(c, err)
	}
}
