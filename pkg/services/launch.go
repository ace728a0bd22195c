package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mkravets/pathway/pkg/eventbus"
	"github.com/mkravets/pathway/pkg/events"
	"github.com/mkravets/pathway/pkg/otelhelper"
	"github.com/mkravets/pathway/pkg/persistence"
	"github.com/mkravets/pathway/pkg/workflow"
)

// Launch runs workflows: it loads a point-in-time graph snapshot,
// walks it, and publishes lifecycle events around the traversal.
type Launch struct {
	loader    *workflow.Loader
	executor  *workflow.Executor
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewLaunch creates a launch service. A nil tracer falls back to the
// globally registered provider.
func NewLaunch(
	persistence persistence.Persistence,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Launch {
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer("pathway")
	}

	return &Launch{
		loader:    workflow.NewLoader(persistence),
		executor:  workflow.NewExecutor(logger),
		publisher: publisher,
		tracer:    tracer,
		logger:    logger,
	}
}

// Launch walks one workflow from its start node to the end node and
// returns the ordered trace of node snapshots. A failed walk returns no
// partial trace.
func (l *Launch) Launch(ctx context.Context, workflowID string) (workflow.Trace, error) {
	ctx, span := otelhelper.StartSpan(ctx, l.tracer, "workflow.launch",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
	)
	defer span.End()

	graph, err := l.loader.Load(ctx, workflowID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	startedAt := time.Now().UTC()

	l.publish(ctx, workflowID, events.WorkflowLaunchStarted{
		BaseEvent: l.baseEvent(events.WorkflowLaunchStartedEvent, workflowID),
	})

	path, err := l.executor.Execute(ctx, graph)
	if err != nil {
		otelhelper.SetError(span, err, attribute.String(otelhelper.WorkflowIDKey, workflowID))

		l.publish(ctx, workflowID, events.WorkflowLaunchFailed{
			BaseEvent: l.baseEvent(events.WorkflowLaunchFailedEvent, workflowID),
			Error:     err.Error(),
		})

		return nil, err
	}

	span.SetAttributes(attribute.Int(otelhelper.PathLengthKey, len(path)))

	l.publish(ctx, workflowID, events.WorkflowLaunchCompleted{
		BaseEvent:  l.baseEvent(events.WorkflowLaunchCompletedEvent, workflowID),
		PathLength: len(path),
		Duration:   time.Since(startedAt),
	})

	return path, nil
}

func (l *Launch) baseEvent(eventType events.EventType, workflowID string) events.BaseEvent {
	return events.BaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

// publish is best-effort: a broken bus never fails a launch.
func (l *Launch) publish(ctx context.Context, workflowID string, event eventbus.Event) {
	if l.publisher == nil {
		return
	}

	err := l.publisher.Publish(ctx, workflowID, event)
	if err != nil {
		l.logger.WarnContext(ctx, "Failed to publish launch event",
			"workflow_id", workflowID, "event_type", event.GetType(), "error", err)
	}
}
