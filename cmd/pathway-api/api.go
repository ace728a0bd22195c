// Package main provides the Pathway API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/mkravets/pathway/pkg/eventbus"
	"github.com/mkravets/pathway/pkg/persistence"
	"github.com/mkravets/pathway/pkg/services"
	"github.com/mkravets/pathway/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	workflowService := services.NewWorkflow(a.persistence)
	nodeService := services.NewNode(a.persistence)
	launchService := services.NewLaunch(a.persistence, a.eventBus, nil, a.logger)

	handlers := web.NewAPIHandlers(workflowService, nodeService, launchService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Pathway API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Patch("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Get("/:id/nodes", handlers.GetWorkflowNodes)
	w.Get("/:id/launch", handlers.LaunchWorkflow)

	n := app.Group("/nodes")
	n.Get("/", handlers.GetNodes)
	n.Get("/:id", handlers.GetNode)
	n.Delete("/:id", handlers.DeleteNode)
	n.Post("/start", handlers.CreateStartNode)
	n.Post("/end", handlers.CreateEndNode)
	n.Post("/message", handlers.CreateMessageNode)
	n.Post("/condition", handlers.CreateConditionNode)
	n.Patch("/start/:id", handlers.UpdateStartNode)
	n.Patch("/end/:id", handlers.UpdateEndNode)
	n.Patch("/message/:id", handlers.UpdateMessageNode)
	n.Patch("/condition/:id", handlers.UpdateConditionNode)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	a.logger.Info("Starting Pathway API server", "port", port)

	return app.Listen(":" + strconv.Itoa(port))
}
