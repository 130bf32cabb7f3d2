package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/codopsy/domain"
)

// DefaultTimeout bounds a whole parallel run
const DefaultTimeout = 5 * time.Minute

// Task is one unit of work for the ParallelExecutor
type Task interface {
	Name() string
	Execute(ctx context.Context) error
}

// TaskFunc adapts a function to the Task interface
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

// Name returns the task name
func (t TaskFunc) Name() string { return t.TaskName }

// Execute runs the function
func (t TaskFunc) Execute(ctx context.Context) error { return t.Fn(ctx) }

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d tasks failed:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// ParallelExecutor runs tasks with bounded concurrency
type ParallelExecutor struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	description    string
	mu             sync.RWMutex
}

// NewParallelExecutor creates an executor using runtime.NumCPU() workers
// and a 5 minute timeout
func NewParallelExecutor() *ParallelExecutor {
	return &ParallelExecutor{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
		description:    "Executing tasks",
	}
}

// NewParallelExecutorWithProgress creates an executor that reports one
// progress unit per finished task
func NewParallelExecutorWithProgress(pm domain.ProgressManager, description string) *ParallelExecutor {
	e := NewParallelExecutor()
	e.progress = pm
	if description != "" {
		e.description = description
	}
	return e
}

// Execute runs every task and waits for all of them. Task failures do not
// stop the others; they are returned together as an *AggregatedError. If the
// context is cancelled or the timeout expires, the context error is returned.
func (e *ParallelExecutor) Execute(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	e.mu.RUnlock()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var task domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		task = e.progress.StartTask(e.description, len(tasks))
	}
	defer task.Complete()

	g, gCtx := errgroup.WithContext(timeoutCtx)
	g.SetLimit(maxConcurrency)

	var errMu sync.Mutex
	var taskErrors []TaskError

	for _, t := range tasks {
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			err := t.Execute(gCtx)
			task.Increment(1)

			if err != nil {
				errMu.Lock()
				taskErrors = append(taskErrors, TaskError{TaskName: t.Name(), Err: err})
				errMu.Unlock()
			}
			// failures are collected so the remaining tasks keep running
			return nil
		})
	}

	waitErr := g.Wait()

	if err := timeoutCtx.Err(); err != nil {
		return err
	}
	if waitErr != nil {
		return waitErr
	}
	if len(taskErrors) > 0 {
		return &AggregatedError{Errors: taskErrors}
	}
	return nil
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutor) SetMaxConcurrency(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n > 0 {
		e.maxConcurrency = n
	}
}

// SetTimeout sets the timeout for a whole run
func (e *ParallelExecutor) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}
