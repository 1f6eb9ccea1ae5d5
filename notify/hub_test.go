package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("sess-1", core.AudienceAdmin)
	defer cancel()

	require.NoError(t, hub.Publish(context.Background(), "sess-1", core.AudienceAdmin, map[string]any{"state": "started"}))

	msg := <-ch
	assert.Equal(t, "sess-1", msg.Tenant)
	assert.Equal(t, core.AudienceAdmin, msg.Audience)
	assert.Equal(t, "started", msg.Payload["state"])
}

func TestHub_ScopesByTenantAndAudience(t *testing.T) {
	hub := NewHub()
	admin, cancelAdmin := hub.Subscribe("sess-1", core.AudienceAdmin)
	defer cancelAdmin()
	candidate, cancelCandidate := hub.Subscribe("sess-1", core.AudienceCandidate)
	defer cancelCandidate()
	other, cancelOther := hub.Subscribe("sess-2", core.AudienceAdmin)
	defer cancelOther()

	require.NoError(t, hub.Publish(context.Background(), "sess-1", core.AudienceAdmin, map[string]any{"n": 1}))

	assert.Len(t, admin, 1)
	assert.Empty(t, candidate, "other audience must not receive the message")
	assert.Empty(t, other, "other tenant must not receive the message")
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(func(o *HubOptions) { o.BufferSize = 1 })
	ch, cancel := hub.Subscribe("sess-1", core.AudienceAdmin)
	defer cancel()

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, "sess-1", core.AudienceAdmin, map[string]any{"n": 1}))
	// Buffer is now full; this publish must return immediately without error.
	require.NoError(t, hub.Publish(ctx, "sess-1", core.AudienceAdmin, map[string]any{"n": 2}))

	msg := <-ch
	assert.Equal(t, 1, msg.Payload["n"])
	assert.Empty(t, ch, "the second message was dropped")
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("sess-1", core.AudienceAdmin)
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic or deliver anywhere.
	require.NoError(t, hub.Publish(context.Background(), "sess-1", core.AudienceAdmin, map[string]any{"n": 1}))
}

func TestHub_CancelDuringPublishDoesNotPanic(t *testing.T) {
	hub := NewHub(func(o *HubOptions) { o.BufferSize = 1 })
	ctx := context.Background()

	for round := 0; round < 200; round++ {
		ch, cancel := hub.Subscribe("sess-1", core.AudienceAdmin)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				require.NoError(t, hub.Publish(ctx, "sess-1", core.AudienceAdmin, map[string]any{"n": i}))
			}
		}()
		go func() {
			defer wg.Done()
			cancel()
		}()
		wg.Wait()

		// Drain whatever arrived before the cancel; the channel must end up
		// closed exactly once.
		for range ch {
		}
	}
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe("sess-1", core.AudienceAdmin)
	cancel()
	cancel()
}

func TestHub_PublishHonorsContext(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, hub.Publish(ctx, "sess-1", core.AudienceAdmin, nil))
}
