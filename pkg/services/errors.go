// Package services provides the business operations behind the HTTP
// surface: workflow CRUD, node mutation with edge wiring, and launch.
package services

import (
	"errors"
	"fmt"

	"github.com/mkravets/pathway/pkg/models"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Singleton conflicts (409 Conflict).
	ErrStartNodeExists = errors.New("start node already exist for the current workflow")
	ErrEndNodeExists   = errors.New("end node already exist for the current workflow")

	// ErrDanglingEndpoint indicates an edge endpoint id that resolves to
	// no node (422 Unprocessable Entity).
	ErrDanglingEndpoint = errors.New("edge endpoint does not exist")
)

// Edge endpoint roles used in dangling-endpoint messages.
const (
	RolePredecessor = "predecessor"
	RoleSuccessor   = "successor"
)

// EndpointError reports an edge endpoint id that resolves to no node.
type EndpointError struct {
	NodeID string
	Role   string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("node with id = %s doesn't exist and cannot be used as %s for current node", e.NodeID, e.Role)
}

func (e *EndpointError) Unwrap() error {
	return ErrDanglingEndpoint
}

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a structural validation error
// that should return HTTP 422.
func IsValidationError(err error) bool {
	return errors.Is(err, models.ErrSelfConnection) ||
		errors.Is(err, models.ErrCrossWorkflowEdge) ||
		errors.Is(err, models.ErrInvalidMessageStatus) ||
		errors.Is(err, ErrDanglingEndpoint)
}

// IsConflictError checks if an error is a singleton conflict that should
// return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrStartNodeExists) ||
		errors.Is(err, ErrEndNodeExists)
}
