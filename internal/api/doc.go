// Package api exposes the project, task and note services over HTTP.
// Handlers translate requests into service calls and map service errors to
// status codes without leaking internal detail to clients.
package api
