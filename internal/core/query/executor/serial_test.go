package executor_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/gqlsql/internal/core/query/executor"
)

type recordingExecutor struct {
	mu       sync.Mutex
	queries  []string
	inFlight int32
	maxSeen  int32
	gate     chan struct{}
}

func (r *recordingExecutor) Execute(ctx context.Context, query string) ([]map[string]interface{}, error) {
	n := atomic.AddInt32(&r.inFlight, 1)
	defer atomic.AddInt32(&r.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&r.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&r.maxSeen, seen, n) {
			break
		}
	}
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	r.queries = append(r.queries, query)
	r.mu.Unlock()
	return []map[string]interface{}{{"q": query}}, nil
}

func TestSerial_OneAtATime(t *testing.T) {
	next := &recordingExecutor{}
	s := executor.NewSerial(next)
	defer s.Close()

	var wg sync.WaitGroup
	for _, q := range []string{"a", "b", "c", "d", "e", "f"} {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			rows, err := s.Execute(context.Background(), q)
			assert.NoError(t, err)
			assert.Equal(t, q, rows[0]["q"])
		}(q)
	}
	wg.Wait()

	assert.Len(t, next.queries, 6)
	assert.Equal(t, int32(1), atomic.LoadInt32(&next.maxSeen))
}

func TestSerial_SubmissionOrder(t *testing.T) {
	next := &recordingExecutor{}
	s := executor.NewSerial(next)
	defer s.Close()

	for _, q := range []string{"first", "second", "third"} {
		_, err := s.Execute(context.Background(), q)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"first", "second", "third"}, next.queries)
}

func TestSerial_CancelWhileWaiting(t *testing.T) {
	next := &recordingExecutor{gate: make(chan struct{})}
	s := executor.NewSerial(next)
	defer s.Close()

	started := make(chan struct{})
	go func() {
		close(started)
		s.Execute(context.Background(), "slow")
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Execute(ctx, "queued")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	close(next.gate)
}

func TestSerial_Closed(t *testing.T) {
	s := executor.NewSerial(&recordingExecutor{})
	s.Close()
	s.Close()

	_, err := s.Execute(context.Background(), "late")
	assert.True(t, errors.Is(err, executor.ErrClosed))
}

func TestSerial_RawFallback(t *testing.T) {
	next := &recordingExecutor{}
	s := executor.NewSerial(next)
	defer s.Close()

	rows, err := s.ExecuteRaw(context.Background(), "raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", rows[0]["q"])
}
