// Package worker runs interval jobs and a bounded background task queue.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/purplemusic/catalog/internal/logger"
)

// Job is one scheduled unit of work. Errors are logged and the job keeps its schedule.
type Job func(ctx context.Context) error

type scheduledJob struct {
	name     string
	interval time.Duration
	fn       Job
}

// Scheduler runs each registered job on its own ticker.
type Scheduler struct {
	logger *logger.Logger
	jobs   []scheduledJob

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

func NewScheduler(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Default()
	}
	return &Scheduler{logger: log.WithComponent("scheduler")}
}

// Every registers fn to run once per interval. It must be called before Start.
func (s *Scheduler) Every(name string, interval time.Duration, fn Job) {
	s.jobs = append(s.jobs, scheduledJob{name: name, interval: interval, fn: fn})
}

// Start launches all jobs. They stop when ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.group != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	s.group = g

	for _, j := range s.jobs {
		j := j
		if j.interval <= 0 {
			s.logger.Warn("Skipping job with non-positive interval", "job", j.name)
			continue
		}
		g.Go(func() error {
			s.loop(gctx, j)
			return nil
		})
	}
	s.logger.Info("Scheduler started", "jobs", len(s.jobs))
}

// Stop cancels all jobs and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, g := s.cancel, s.group
	s.mu.Unlock()
	if g == nil {
		return
	}
	cancel()
	_ = g.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, j scheduledJob) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.run(ctx, j); err != nil && ctx.Err() == nil {
				s.logger.Warn("Job failed", "job", j.name, "error", err)
			}
		}
	}
}

func (s *Scheduler) run(ctx context.Context, j scheduledJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in job %s: %v", j.name, r)
		}
	}()
	return j.fn(ctx)
}
