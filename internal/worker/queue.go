package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/purplemusic/catalog/internal/logger"
)

type task struct {
	id   string
	name string
	fn   func(ctx context.Context) error
}

// Queue is a bounded in-process task queue with an explicit lifecycle.
// Tasks enqueued before Stop are drained; later ones are rejected.
type Queue struct {
	logger  *logger.Logger
	tasks   chan task
	workers int

	mu      sync.RWMutex
	started bool
	closed  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewQueue(size, workers int, log *logger.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logger.Default()
	}
	return &Queue{
		logger:  log.WithComponent("queue"),
		tasks:   make(chan task, size),
		workers: workers,
	}
}

// Start launches the workers. Tasks run under a context that outlives ctx's
// cancellation so that Stop can drain them.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	q.cancel = cancel
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(runCtx)
	}
}

// Enqueue adds a task. It returns false when the queue is full or stopped.
func (q *Queue) Enqueue(name string, fn func(ctx context.Context) error) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	t := task{id: uuid.NewString(), name: name, fn: fn}
	select {
	case q.tasks <- t:
		return true
	default:
		q.logger.Warn("Task queue full, dropping task", "task", name)
		return false
	}
}

// Len is the number of tasks waiting to run.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Stop rejects new tasks and waits for pending ones. If ctx ends first the
// running tasks are cancelled and ctx's error is returned.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	started, cancel := q.started, q.cancel
	q.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		cancel()
		return nil
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}

func (q *Queue) work(ctx context.Context) {
	defer q.wg.Done()
	for t := range q.tasks {
		if ctx.Err() != nil {
			continue
		}
		q.run(ctx, t)
	}
}

func (q *Queue) run(ctx context.Context, t task) {
	log := q.logger.WithTask(t.id, t.name)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Task panicked", "panic", fmt.Sprint(r))
		}
	}()
	if err := t.fn(ctx); err != nil {
		log.Warn("Task failed", "error", err)
		return
	}
	log.Debug("Task done")
}
