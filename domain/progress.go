package domain

// ProgressManager creates progress tasks for long-running work
type ProgressManager interface {
	// StartTask begins a task with the given description and total unit count
	StartTask(description string, total int) TaskProgress

	// IsInteractive reports whether progress is rendered to a terminal
	IsInteractive() bool

	// Close releases any resources held by the manager
	Close()
}

// TaskProgress reports progress for a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
