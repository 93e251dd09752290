package executor

import (
	"context"
	"errors"
	"sync"

	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
)

// ErrClosed is returned for statements submitted after Close.
var ErrClosed = errors.New("executor closed")

type rowsFunc func(ctx context.Context) ([]map[string]interface{}, error)

type result struct {
	rows []map[string]interface{}
	err  error
}

type job struct {
	ctx  context.Context
	run  rowsFunc
	done chan result
}

// Serial runs statements one at a time on a single worker, in the order they
// were submitted. It is meant for backends that share one physical
// connection.
type Serial struct {
	next   domain.RowExecutor
	jobs   chan job
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewSerial starts a worker in front of next. Call Close to stop it.
func NewSerial(next domain.RowExecutor) *Serial {
	s := &Serial{
		next:   next,
		jobs:   make(chan job),
		closed: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.work()
	return s
}

// Execute queues query behind the statements already submitted.
func (s *Serial) Execute(ctx context.Context, query string) ([]map[string]interface{}, error) {
	return s.submit(ctx, func(ctx context.Context) ([]map[string]interface{}, error) {
		return s.next.Execute(ctx, query)
	})
}

// ExecuteRaw queues a raw read. It falls back to Execute when the wrapped
// executor has no raw mode.
func (s *Serial) ExecuteRaw(ctx context.Context, query string) ([]map[string]interface{}, error) {
	raw, ok := s.next.(RawExecutor)
	if !ok {
		return s.Execute(ctx, query)
	}
	return s.submit(ctx, func(ctx context.Context) ([]map[string]interface{}, error) {
		return raw.ExecuteRaw(ctx, query)
	})
}

// Close stops the worker after the running statement finishes.
func (s *Serial) Close() {
	s.once.Do(func() { close(s.closed) })
	s.wg.Wait()
}

func (s *Serial) submit(ctx context.Context, run rowsFunc) ([]map[string]interface{}, error) {
	j := job{ctx: ctx, run: run, done: make(chan result, 1)}
	select {
	case s.jobs <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.closed:
		return nil, ErrClosed
	}

	select {
	case r := <-j.done:
		return r.rows, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Serial) work() {
	defer s.wg.Done()
	for {
		select {
		case j := <-s.jobs:
			if err := j.ctx.Err(); err != nil {
				j.done <- result{err: err}
				continue
			}
			rows, err := j.run(j.ctx)
			j.done <- result{rows: rows, err: err}
		case <-s.closed:
			return
		}
	}
}

var (
	_ domain.RowExecutor = (*Serial)(nil)
	_ RawExecutor        = (*Serial)(nil)
)
