// Package service implements the project, task and note use cases. Every
// write checks project membership, persists through the store interfaces and
// then publishes an entity event through the events.Notifier port.
package service

import "errors"

// Common service errors. The API layer maps them to HTTP status codes.
var (
	// ErrForbidden indicates the caller is not a member of the project.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("access to project denied")

	// ErrNotOwned indicates the operation is reserved for the project owner
	// (or the resource author). API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidAssignee indicates a task was assigned to a non-member.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidAssignee = errors.New("assignee is not a project member")

	// ErrOwnerMembership indicates an attempt to remove the owner from their own project.
	ErrOwnerMembership = errors.New("project owner cannot be removed")
)
