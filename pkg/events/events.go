// Package events defines event types and structures for workflow
// lifecycle notifications.
package events

import "time"

// EventType identifies the kind of a published event.
type EventType string

// Topic carries all workflow lifecycle events.
const Topic = "pathway.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowLaunchStartedEvent   EventType = "workflow.launch.started"
	WorkflowLaunchCompletedEvent EventType = "workflow.launch.completed"
	WorkflowLaunchFailedEvent    EventType = "workflow.launch.failed"
)

// BaseEvent carries the fields shared by all events.
type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	WorkflowID string    `json:"workflow_id"`
}

// WorkflowLaunchStarted is published when a launch begins walking the
// loaded graph.
type WorkflowLaunchStarted struct {
	BaseEvent
}

func (w WorkflowLaunchStarted) GetType() EventType {
	return WorkflowLaunchStartedEvent
}

// WorkflowLaunchCompleted is published after a successful traversal.
type WorkflowLaunchCompleted struct {
	BaseEvent

	PathLength int           `json:"path_length"`
	Duration   time.Duration `json:"duration"`
}

func (w WorkflowLaunchCompleted) GetType() EventType {
	return WorkflowLaunchCompletedEvent
}

// WorkflowLaunchFailed is published when a traversal aborts on a
// violated invariant or evaluation failure.
type WorkflowLaunchFailed struct {
	BaseEvent

	Error string `json:"error"`
}

func (w WorkflowLaunchFailed) GetType() EventType {
	return WorkflowLaunchFailedEvent
}
