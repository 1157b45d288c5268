package webhook

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	calls := ""
	first := func(context.Context, map[string]any, Metadata) error { calls += "first"; return nil }
	second := func(context.Context, map[string]any, Metadata) error { calls += "second"; return nil }
	noop := func(context.Context, map[string]any, Metadata) error { return nil }

	r.RegisterHandler("push", first)
	r.RegisterHandler("push", second)
	r.RegisterHandlers(map[string]HandlerFunc{"ping": noop, "invoice.paid": noop})

	h, ok := r.Handler("push")
	require.True(t, ok)
	require.NoError(t, h(context.Background(), nil, Metadata{}))
	assert.Equal(t, "second", calls, "last registration wins")

	_, ok = r.Handler("issues")
	assert.False(t, ok)
	assert.Equal(t, []string{"invoice.paid", "ping", "push"}, r.RegisteredEventTypes())
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.RegisterHandler(fmt.Sprintf("event.%d", i), func(context.Context, map[string]any, Metadata) error { return nil })
		}(i)
		go func() {
			defer wg.Done()
			_ = r.RegisteredEventTypes()
			_, _ = r.Handler("event.0")
		}()
	}
	wg.Wait()

	assert.Len(t, r.RegisteredEventTypes(), 20)
}
