package webhook

import (
	"context"
	"sort"
	"sync"
)

// HandlerFunc processes one verified delivery.
type HandlerFunc func(ctx context.Context, payload map[string]any, meta Metadata) error

// Registry maps event types to handlers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]HandlerFunc)}
}

// RegisterHandler sets the handler for eventType, replacing any previous one.
func (r *Registry) RegisterHandler(eventType string, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[eventType] = handler
}

// RegisterHandlers registers every entry of handlers.
func (r *Registry) RegisterHandlers(handlers map[string]HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for eventType, handler := range handlers {
		r.handlers[eventType] = handler
	}
}

// Handler returns the handler for eventType.
func (r *Registry) Handler(eventType string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[eventType]
	return h, ok
}

// RegisteredEventTypes returns the registered event types in sorted order.
func (r *Registry) RegisteredEventTypes() []string {
	r.mu.RLock()
	types := make([]string, 0, len(r.handlers))
	for eventType := range r.handlers {
		types = append(types, eventType)
	}
	r.mu.RUnlock()

	sort.Strings(types)
	return types
}
