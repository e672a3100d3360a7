// Package tasks provides an in-process work queue with bounded retry,
// queue expiry and execution deadlines for background refresh units.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Func is one unit of work. The context carries the execution deadline; a
// unit that ignores it is forcibly abandoned when the hard limit expires.
type Func func(ctx context.Context) error

// Job is a named unit of work placed on the queue.
type Job struct {
	ID         string
	Name       string
	EnqueuedAt time.Time

	run     Func
	attempt int
	delay   backoff.BackOff
}

// Options bound a queue's execution behavior.
type Options struct {
	Workers    int
	SoftLimit  time.Duration // log a warning past this
	HardLimit  time.Duration // cancel the unit past this
	Expiry     time.Duration // discard if not started within this
	MaxRetries int
}

// Queue executes jobs on a fixed worker pool. Failed jobs are requeued with
// exponential backoff up to MaxRetries, then dropped; since all writes behind
// the jobs are idempotent upserts, a dropped unit only means stale data until
// the next refresh cycle.
type Queue struct {
	opts Options
	jobs chan *Job
	log  *zap.SugaredLogger

	workers sync.WaitGroup
	pending sync.WaitGroup
}

// NewQueue builds a queue; call Start before enqueuing.
func NewQueue(opts Options, log *zap.SugaredLogger) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.SoftLimit <= 0 {
		opts.SoftLimit = 25 * time.Second
	}
	if opts.HardLimit <= 0 {
		opts.HardLimit = 30 * time.Second
	}
	if opts.Expiry <= 0 {
		opts.Expiry = time.Hour
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 5
	}
	return &Queue{
		opts: opts,
		jobs: make(chan *Job, 256),
		log:  log,
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.opts.Workers; i++ {
		q.workers.Add(1)
		go func() {
			defer q.workers.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-q.jobs:
					q.process(ctx, job)
				}
			}
		}()
	}
}

// Enqueue places a named unit on the queue, fire and forget. Returns the job
// ID, or "" when the queue is saturated and the unit was dropped.
func (q *Queue) Enqueue(name string, fn Func) string {
	job := &Job{
		ID:         uuid.NewString(),
		Name:       name,
		EnqueuedAt: time.Now(),
		run:        fn,
	}
	q.pending.Add(1)
	select {
	case q.jobs <- job:
		return job.ID
	default:
		q.pending.Done()
		q.log.Warnw("queue full, dropping job", "job", name)
		return ""
	}
}

// Wait blocks until every enqueued job has reached a terminal state. Intended
// for tests and shutdown.
func (q *Queue) Wait() {
	q.pending.Wait()
}

func (q *Queue) process(ctx context.Context, job *Job) {
	if time.Since(job.EnqueuedAt) > q.opts.Expiry {
		q.log.Warnw("job expired in queue", "job", job.Name, "id", job.ID)
		q.pending.Done()
		return
	}

	jctx, cancel := context.WithTimeout(ctx, q.opts.HardLimit)
	soft := time.AfterFunc(q.opts.SoftLimit, func() {
		q.log.Warnw("job exceeded soft time limit", "job", job.Name, "id", job.ID)
	})
	err := job.run(jctx)
	soft.Stop()
	cancel()

	if err == nil {
		q.pending.Done()
		return
	}

	if job.attempt >= q.opts.MaxRetries {
		q.log.Errorw("job dropped after max retries",
			"job", job.Name, "id", job.ID, "attempts", job.attempt+1, "error", err)
		q.pending.Done()
		return
	}

	if job.delay == nil {
		job.delay = backoff.NewExponentialBackOff()
	}
	job.attempt++
	wait := job.delay.NextBackOff()
	q.log.Warnw("job failed, retrying",
		"job", job.Name, "id", job.ID, "attempt", job.attempt, "backoff", wait, "error", err)

	time.AfterFunc(wait, func() {
		if ctx.Err() != nil {
			q.pending.Done()
			return
		}
		select {
		case q.jobs <- job:
		default:
			q.log.Warnw("queue full, dropping retry", "job", job.Name, "id", job.ID)
			q.pending.Done()
		}
	})
}
