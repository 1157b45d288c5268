package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter dispatches events synchronously to registered handlers.
type InMemoryEventEmitter struct {
	handlers []EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

var (
	_ EventEmitter = (*InMemoryEventEmitter)(nil)
	_ Notifier     = (*InMemoryEventEmitter)(nil)
)

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		handlers: make([]EventHandler, 0),
		logger:   logger.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new event handler", "handler_count", len(e.handlers))
}

// EmitEvent publishes the given event to all registered handlers.
// Every handler runs even if an earlier one fails or panics; the first
// failure is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *EntityEvent) error {
	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	if len(handlers) == 0 {
		e.logger.Debug("no handlers registered for event",
			"event_id", event.ID,
			"event", event.Name())
		return nil
	}

	var firstErr error
	for i, handler := range handlers {
		if err := e.invoke(ctx, handler, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event", event.Name(),
				"project_id", event.ProjectID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// Notify implements Notifier by emitting and discarding the result.
// Handler failures have already been logged by EmitEvent.
func (e *InMemoryEventEmitter) Notify(ctx context.Context, event *EntityEvent) {
	if event == nil {
		return
	}
	_ = e.EmitEvent(ctx, event)
}

func (e *InMemoryEventEmitter) invoke(ctx context.Context, handler EventHandler, event *EntityEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked: %v", r)
		}
	}()
	return handler.HandleEvent(ctx, event)
}
