package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	applog "github.com/ypeng90/shopper/internal/log"
)

func startQueue(t *testing.T, opts Options) *Queue {
	t.Helper()
	q := NewQueue(opts, applog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	q.Start(ctx)
	return q
}

func TestQueueRunsJob(t *testing.T) {
	q := startQueue(t, Options{Workers: 2})

	var ran atomic.Int32
	id := q.Enqueue("unit", func(context.Context) error {
		ran.Add(1)
		return nil
	})
	if id == "" {
		t.Fatal("enqueue returned no job ID")
	}
	q.Wait()
	if ran.Load() != 1 {
		t.Fatalf("want 1 run, got %d", ran.Load())
	}
}

func TestQueueRetriesUntilSuccess(t *testing.T) {
	q := startQueue(t, Options{Workers: 1, MaxRetries: 5})

	var attempts atomic.Int32
	q.Enqueue("flaky", func(context.Context) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	})
	q.Wait()
	if attempts.Load() != 3 {
		t.Fatalf("want 3 attempts, got %d", attempts.Load())
	}
}

func TestQueueDropsAfterMaxRetries(t *testing.T) {
	q := startQueue(t, Options{Workers: 1, MaxRetries: 2})

	var attempts atomic.Int32
	q.Enqueue("doomed", func(context.Context) error {
		attempts.Add(1)
		return errors.New("persistent")
	})
	q.Wait()
	// initial run plus two retries
	if attempts.Load() != 3 {
		t.Fatalf("want 3 attempts, got %d", attempts.Load())
	}
}

func TestQueueExpiresStaleJob(t *testing.T) {
	q := startQueue(t, Options{Workers: 1, Expiry: 10 * time.Millisecond})

	// a slow unit holds the only worker long enough for the next to expire
	q.Enqueue("slow", func(context.Context) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	})
	var ran atomic.Int32
	q.Enqueue("stale", func(context.Context) error {
		ran.Add(1)
		return nil
	})
	q.Wait()
	if ran.Load() != 0 {
		t.Fatal("expired job must not run")
	}
}

func TestQueueHardLimitCancelsUnit(t *testing.T) {
	q := startQueue(t, Options{Workers: 1, HardLimit: 20 * time.Millisecond, MaxRetries: 0})

	var sawCancel atomic.Bool
	q.Enqueue("hung", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			sawCancel.Store(true)
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})
	q.Wait()
	if !sawCancel.Load() {
		t.Fatal("unit never observed the execution deadline")
	}
}

func TestQueueDropsWhenSaturated(t *testing.T) {
	q := NewQueue(Options{Workers: 1}, applog.Nop())
	// not started: the buffer fills, then enqueue must refuse

	var dropped bool
	for i := 0; i < 1000; i++ {
		if q.Enqueue("filler", func(context.Context) error { return nil }) == "" {
			dropped = true
			break
		}
	}
	if !dropped {
		t.Fatal("saturated queue never dropped a job")
	}
}
