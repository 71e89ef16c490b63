package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindgraph-backend/domain/graph"
	"mindgraph-backend/domain/layout"
	"mindgraph-backend/infrastructure/messaging"
	"mindgraph-backend/infrastructure/observability"
	"mindgraph-backend/infrastructure/persistence/memory"
)

// recordingSink captures frames delivered by layout sessions
type recordingSink struct {
	mu     sync.Mutex
	frames map[string][][]layout.Position
}

func newRecordingSink() *recordingSink {
	return &recordingSink{frames: make(map[string][][]layout.Position)}
}

func (s *recordingSink) SendFrame(userID string, frame []layout.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := append([]layout.Position(nil), frame...)
	s.frames[userID] = append(s.frames[userID], copied)
	return nil
}

func (s *recordingSink) frameCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames[userID])
}

func (s *recordingSink) lastFrame(userID string) []layout.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	frames := s.frames[userID]
	if len(frames) == 0 {
		return nil
	}
	return frames[len(frames)-1]
}

type layoutFixture struct {
	notes   *NoteService
	manager *LayoutManager
	sink    *recordingSink
}

func newLayoutFixture(t *testing.T) *layoutFixture {
	t.Helper()

	logger := zap.NewNop()
	repo := memory.NewNoteRepository()
	bus := messaging.NewDispatcher(logger)
	metrics := observability.NewCollector("mindgraph_layout_test")

	graphs := NewGraphService(repo, graph.NewDefaultBuilder(), bus, metrics, logger)
	sink := newRecordingSink()
	manager := NewLayoutManager(graphs, sink, layout.DefaultConfig(), 2*time.Millisecond, metrics, logger)
	manager.RegisterHandlers(bus)
	t.Cleanup(manager.StopAll)

	return &layoutFixture{
		notes:   NewNoteService(repo, bus, metrics, logger),
		manager: manager,
		sink:    sink,
	}
}

func (f *layoutFixture) seed(t *testing.T, userID string, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := f.notes.CreateNote(context.Background(), userID, NoteInput{Title: title, Tags: []string{"seed"}})
		require.NoError(t, err)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func TestLayoutManager_SessionStreamsFrames(t *testing.T) {
	f := newLayoutFixture(t)
	f.seed(t, "user-1", "first note", "second note")

	require.NoError(t, f.manager.StartSession(context.Background(), "user-1"))

	require.True(t, waitFor(t, 2*time.Second, func() bool {
		return f.sink.frameCount("user-1") >= 3
	}), "expected frames to stream")

	frame := f.sink.lastFrame("user-1")
	// Two note nodes plus the shared tag node.
	assert.Len(t, frame, 3)
}

func TestLayoutManager_EmptyGraphStaysIdle(t *testing.T) {
	f := newLayoutFixture(t)

	require.NoError(t, f.manager.StartSession(context.Background(), "user-empty"))

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, f.sink.frameCount("user-empty"))
}

func TestLayoutManager_NoteChangeTriggersRebuild(t *testing.T) {
	f := newLayoutFixture(t)
	f.seed(t, "user-1", "only note")

	require.NoError(t, f.manager.StartSession(context.Background(), "user-1"))
	require.True(t, waitFor(t, 2*time.Second, func() bool {
		return f.sink.frameCount("user-1") > 0
	}))

	// Creating a note publishes note.created, which the manager handles
	// by rebuilding the session's graph.
	_, err := f.notes.CreateNote(context.Background(), "user-1", NoteInput{Title: "another note", Tags: []string{"seed"}})
	require.NoError(t, err)

	require.True(t, waitFor(t, 2*time.Second, func() bool {
		frame := f.sink.lastFrame("user-1")
		return len(frame) == 3
	}), "expected the rebuilt layout to contain the new node")
}

func TestLayoutManager_PinHoldsPosition(t *testing.T) {
	f := newLayoutFixture(t)
	f.seed(t, "user-1", "alpha note", "beta note")

	require.NoError(t, f.manager.StartSession(context.Background(), "user-1"))
	require.True(t, waitFor(t, 2*time.Second, func() bool {
		return f.sink.frameCount("user-1") > 0
	}))

	target := f.sink.lastFrame("user-1")[0].ID
	f.manager.PinNode("user-1", target, 100, 200)

	require.True(t, waitFor(t, 2*time.Second, func() bool {
		for _, p := range f.sink.lastFrame("user-1") {
			if p.ID == target {
				return p.X == 100 && p.Y == 200
			}
		}
		return false
	}), "pinned node should report the pinned position")
}

func TestLayoutManager_StopSessionStopsFrames(t *testing.T) {
	f := newLayoutFixture(t)
	f.seed(t, "user-1", "one note", "two note")

	require.NoError(t, f.manager.StartSession(context.Background(), "user-1"))
	require.True(t, waitFor(t, 2*time.Second, func() bool {
		return f.sink.frameCount("user-1") > 0
	}))

	f.manager.StopSession("user-1")
	after := f.sink.frameCount("user-1")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, f.sink.frameCount("user-1"))
}

func TestLayoutManager_ConcurrentStartsLeaveOneSession(t *testing.T) {
	f := newLayoutFixture(t)
	f.seed(t, "user-1", "left note", "right note")

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.manager.StartSession(ctx, "user-1"))
		}()
	}
	wg.Wait()

	f.manager.mu.Lock()
	sessionCount := len(f.manager.sessions)
	f.manager.mu.Unlock()
	require.Equal(t, 1, sessionCount)

	require.True(t, waitFor(t, 2*time.Second, func() bool {
		return f.sink.frameCount("user-1") > 0
	}))

	// Stopping the surviving session must silence the user entirely; a
	// displaced loop left running would keep streaming frames here.
	f.manager.StopSession("user-1")
	after := f.sink.frameCount("user-1")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, f.sink.frameCount("user-1"))
}

func TestLayoutManager_StartTwiceReplacesSession(t *testing.T) {
	f := newLayoutFixture(t)
	f.seed(t, "user-1", "repeat note", "other note")

	ctx := context.Background()
	require.NoError(t, f.manager.StartSession(ctx, "user-1"))
	require.NoError(t, f.manager.StartSession(ctx, "user-1"))

	require.True(t, waitFor(t, 2*time.Second, func() bool {
		return f.sink.frameCount("user-1") > 0
	}))
	f.manager.StopSession("user-1")
}
