// Package events carries entity-change notifications from the CRUD services
// to whatever consumes them (the realtime layer in production).
//
// Services publish through the Notifier port and never see delivery
// failures: the emitter isolates handler errors and panics and only logs them.
package events
