package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

type recordingHandler struct {
	mu   sync.Mutex
	seen []string
	fail map[string]bool
}

func (h *recordingHandler) HandleEventCreated(ctx context.Context, job domain.EventCreatedJob) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, job.EventID)
	if h.fail[job.EventID] {
		return errors.New("boom")
	}
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestChannel_SubmitNeverBlocks(t *testing.T) {
	q := NewChannel(2, discard())
	ctx := context.Background()

	require.NoError(t, q.Submit(ctx, domain.EventCreatedJob{EventID: "a"}))
	require.NoError(t, q.Submit(ctx, domain.EventCreatedJob{EventID: "b"}))
	require.ErrorIs(t, q.Submit(ctx, domain.EventCreatedJob{EventID: "c"}), domain.ErrQueueFull)
	assert.Equal(t, 2, q.Len())

	q.Close()
	q.Close()
	require.ErrorIs(t, q.Submit(ctx, domain.EventCreatedJob{EventID: "d"}), ErrClosed)
}

func TestChannel_RunDrainsBufferedJobsAfterClose(t *testing.T) {
	q := NewChannel(10, discard())
	h := &recordingHandler{fail: map[string]bool{"b": true}}
	ctx, cancel := context.WithCancel(context.Background())

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Submit(ctx, domain.EventCreatedJob{EventID: id}))
	}
	cancel()
	q.Close()

	require.NoError(t, q.Run(ctx, h))
	assert.Equal(t, []string{"a", "b", "c"}, h.seen, "a failing job does not stop the worker")
}
