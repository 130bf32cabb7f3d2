package service

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/ludo-technologies/codopsy/domain"
)

// IsInteractiveEnvironment reports whether stderr is a terminal and CI is unset
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// ProgressManagerImpl renders one progress bar per task on a writer
type ProgressManagerImpl struct {
	writer io.Writer

	mu    sync.Mutex
	tasks []*TaskProgressImpl
}

// NewProgressManager returns a bar-rendering manager when enabled and stderr
// is a terminal, and a no-op manager otherwise
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return NewProgressManagerWithWriter(os.Stderr)
	}
	return &NoOpProgressManager{}
}

// NewProgressManagerWithWriter renders bars to w unconditionally
func NewProgressManagerWithWriter(w io.Writer) *ProgressManagerImpl {
	return &ProgressManagerImpl{writer: w}
}

func fileBarOptions(w io.Writer, description string) []progressbar.Option {
	return []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(24),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionThrottle(65 * time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	}
}

// StartTask starts a bar counting total files
func (pm *ProgressManagerImpl) StartTask(description string, total int) domain.TaskProgress {
	task := &TaskProgressImpl{
		bar: progressbar.NewOptions(total, fileBarOptions(pm.writer, description)...),
	}
	pm.mu.Lock()
	pm.tasks = append(pm.tasks, task)
	pm.mu.Unlock()
	return task
}

// IsInteractive is always true; the constructor already checked the terminal
func (pm *ProgressManagerImpl) IsInteractive() bool {
	return true
}

// Close completes every task that is still running
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	tasks := pm.tasks
	pm.tasks = nil
	pm.mu.Unlock()

	for _, task := range tasks {
		task.Complete()
	}
}

// TaskProgressImpl is a progress bar safe for use from analysis workers
type TaskProgressImpl struct {
	bar  *progressbar.ProgressBar
	done sync.Once
}

// Increment records n more files as analyzed
func (tp *TaskProgressImpl) Increment(n int) {
	_ = tp.bar.Add(n)
}

// Describe replaces the label shown before the bar
func (tp *TaskProgressImpl) Describe(description string) {
	tp.bar.Describe(description)
}

// Complete finishes the bar; later calls do nothing
func (tp *TaskProgressImpl) Complete() {
	tp.done.Do(func() {
		_ = tp.bar.Finish()
	})
}

// NoOpProgressManager discards all progress
type NoOpProgressManager struct{}

// StartTask returns a task that ignores updates
func (pm *NoOpProgressManager) StartTask(_ string, _ int) domain.TaskProgress {
	return NoOpTaskProgress{}
}

// IsInteractive is false
func (pm *NoOpProgressManager) IsInteractive() bool {
	return false
}

// Close does nothing
func (pm *NoOpProgressManager) Close() {}

// NoOpTaskProgress ignores every update
type NoOpTaskProgress struct{}

func (NoOpTaskProgress) Increment(int)   {}
func (NoOpTaskProgress) Describe(string) {}
func (NoOpTaskProgress) Complete()       {}
