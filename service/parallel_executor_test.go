package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ludo-technologies/codopsy/domain"
)

type countingProgress struct {
	NoOpProgressManager
	started   int
	total     int
	increment atomic.Int32
}

func (p *countingProgress) StartTask(_ string, total int) domain.TaskProgress {
	p.started++
	p.total = total
	return &countingTask{p: p}
}

type countingTask struct {
	NoOpTaskProgress
	p *countingProgress
}

func (t *countingTask) Increment(n int) {
	t.p.increment.Add(int32(n))
}

func task(name string, fn func(ctx context.Context) error) Task {
	return TaskFunc{TaskName: name, Fn: fn}
}

func TestNewParallelExecutor(t *testing.T) {
	executor := NewParallelExecutor()
	if executor.maxConcurrency <= 0 {
		t.Errorf("maxConcurrency should be > 0, got %d", executor.maxConcurrency)
	}
	if executor.timeout != DefaultTimeout {
		t.Errorf("timeout should be %v, got %v", DefaultTimeout, executor.timeout)
	}

	executor.SetMaxConcurrency(0)
	executor.SetTimeout(-time.Second)
	if executor.maxConcurrency <= 0 || executor.timeout != DefaultTimeout {
		t.Error("non-positive settings must be ignored")
	}
}

func TestParallelExecutor_Execute(t *testing.T) {
	t.Run("no tasks", func(t *testing.T) {
		if err := NewParallelExecutor().Execute(context.Background(), nil); err != nil {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("all tasks run", func(t *testing.T) {
		var ran atomic.Int32
		tasks := make([]Task, 20)
		for i := range tasks {
			tasks[i] = task("t", func(ctx context.Context) error {
				ran.Add(1)
				return nil
			})
		}
		if err := NewParallelExecutor().Execute(context.Background(), tasks); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if ran.Load() != 20 {
			t.Errorf("expected 20 tasks to run, got %d", ran.Load())
		}
	})

	t.Run("concurrency limit", func(t *testing.T) {
		var running, peak atomic.Int32
		tasks := make([]Task, 12)
		for i := range tasks {
			tasks[i] = task("t", func(ctx context.Context) error {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				running.Add(-1)
				return nil
			})
		}
		executor := NewParallelExecutor()
		executor.SetMaxConcurrency(3)
		if err := executor.Execute(context.Background(), tasks); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if peak.Load() > 3 {
			t.Errorf("expected at most 3 concurrent tasks, saw %d", peak.Load())
		}
	})

	t.Run("failures are aggregated", func(t *testing.T) {
		boom := errors.New("boom")
		var ran atomic.Int32
		tasks := []Task{
			task("ok", func(ctx context.Context) error { ran.Add(1); return nil }),
			task("bad-1", func(ctx context.Context) error { ran.Add(1); return boom }),
			task("bad-2", func(ctx context.Context) error { ran.Add(1); return boom }),
		}
		err := NewParallelExecutor().Execute(context.Background(), tasks)

		var agg *AggregatedError
		if !errors.As(err, &agg) {
			t.Fatalf("expected *AggregatedError, got %T", err)
		}
		if len(agg.Errors) != 2 {
			t.Errorf("expected 2 task errors, got %d", len(agg.Errors))
		}
		if !errors.Is(err, boom) {
			t.Error("aggregated error should unwrap to the task error")
		}
		if !strings.Contains(agg.Error(), "2 tasks failed") {
			t.Errorf("unexpected message %q", agg.Error())
		}
		if ran.Load() != 3 {
			t.Error("a failing task must not stop the others")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewParallelExecutor().Execute(ctx, []Task{
			task("t", func(ctx context.Context) error { return nil }),
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		executor := NewParallelExecutor()
		executor.SetTimeout(10 * time.Millisecond)
		err := executor.Execute(context.Background(), []Task{
			task("slow", func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			}),
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}

func TestParallelExecutor_Progress(t *testing.T) {
	pm := &countingProgress{}
	executor := NewParallelExecutorWithProgress(pm, "Analyzing files")
	tasks := []Task{
		task("a", func(ctx context.Context) error { return nil }),
		task("b", func(ctx context.Context) error { return errors.New("x") }),
	}
	_ = executor.Execute(context.Background(), tasks)

	if pm.started != 1 || pm.total != 2 {
		t.Errorf("expected one task of 2 units, got %d tasks of %d", pm.started, pm.total)
	}
	if pm.increment.Load() != 2 {
		t.Errorf("expected 2 increments, got %d", pm.increment.Load())
	}
}

func TestTaskError(t *testing.T) {
	err := TaskError{TaskName: "src/a.ts", Err: errors.New("bad")}
	if err.Error() != "[src/a.ts] bad" {
		t.Errorf("unexpected message %q", err.Error())
	}
	single := &AggregatedError{Errors: []TaskError{err}}
	if single.Error() != "[src/a.ts] bad" {
		t.Errorf("unexpected message %q", single.Error())
	}
	if (&AggregatedError{}).Unwrap() != nil {
		t.Error("empty aggregate should unwrap to nil")
	}
}
