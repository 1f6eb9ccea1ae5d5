package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, optFns ...func(o *Options)) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "events.db"), optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AppendAndGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	appended, err := store.Append(ctx, core.NewEvent("sess-1", core.EventResponseScored, map[string]any{
		"question_number": 1,
		"answer_text":     "because the scheduler multiplexes",
		"scores":          map[string]any{"overall": 75.0, "completeness": 80.0, "depth": 60.0},
		"llm_reasoning":   "solid answer",
	}, map[string]any{"strategy": "clarification"}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), appended.SequenceNumber)

	events, err := store.GetEvents(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0]
	assert.Equal(t, appended.ID, got.ID)
	assert.Equal(t, core.EventResponseScored, got.EventType)
	overall, ok := got.ScoreField("overall")
	require.True(t, ok)
	assert.Equal(t, 75.0, overall)
	assert.Equal(t, "clarification", got.EventMetadata["strategy"])
	assert.False(t, got.OccurredAt.IsZero())
}

func TestStore_SequencePerSession(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ev, err := store.Append(ctx, core.NewEvent("a", core.EventAnswerSubmitted, map[string]any{"answer_text": "x"}, nil))
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), ev.SequenceNumber)
	}
	ev, err := store.Append(ctx, core.NewEvent("b", core.EventInterviewStarted, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(1), ev.SequenceNumber)
}

func TestStore_ConcurrentAppendsStayGapFree(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Append(ctx, core.NewEvent("sess-1", core.EventAnswerSubmitted, map[string]any{"answer_text": "x"}, nil))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	events, err := store.GetEvents(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, events, writers)
	for i, ev := range events {
		assert.Equal(t, int64(i+1), ev.SequenceNumber)
	}
}

func TestStore_RouterRunsAfterCommit(t *testing.T) {
	var dispatched []core.Event
	var mu sync.Mutex
	router := routerFunc(func(ev core.Event) []error {
		mu.Lock()
		defer mu.Unlock()
		dispatched = append(dispatched, ev)
		return nil
	})
	store := openTestStore(t, func(o *Options) { o.Router = router })

	_, err := store.Append(context.Background(), core.NewEvent("sess-1", core.EventInterviewStarted, map[string]any{"candidate_name": "Ada"}, nil))
	require.NoError(t, err)
	require.Len(t, dispatched, 1)
	assert.Equal(t, int64(1), dispatched[0].SequenceNumber)
}

func TestStore_EmptySessionReadsEmpty(t *testing.T) {
	store := openTestStore(t)
	events, err := store.GetEvents(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, events)
}

// routerFunc adapts a function to the eventlog.Router interface.
type routerFunc func(core.Event) []error

func (f routerFunc) Dispatch(ev core.Event) []error { return f(ev) }
