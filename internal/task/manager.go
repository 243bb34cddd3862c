package task

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
)

// ErrNotFound is returned when a task id is unknown or already purged.
var ErrNotFound = errors.New("task: not found")

// retention is how long completed tasks stay queryable after finishing.
const retention = time.Hour

// Job is the work a task runs: it reports progress through the callback and
// must observe ctx for cancellation between steps.
type Job func(ctx context.Context, progress func(current, total int, status string)) (*model.ProcessingResult, error)

// Task tracks one running or finished processing job.
type Task struct {
	mu        sync.Mutex
	id        string
	progress  int
	total     int
	status    string
	results   *model.ProcessingResult
	completed bool
	cancelled bool
	startTime time.Time
	cancel    context.CancelFunc
}

// Info returns a consistent snapshot of the task for the API.
func (t *Task) Info() model.Task {
	t.mu.Lock()
	defer t.mu.Unlock()

	var percent float64
	if t.total > 0 {
		percent = float64(t.progress) / float64(t.total) * 100
	}
	if percent > 100 {
		percent = 100
	}

	info := model.Task{
		TaskID:         t.id,
		Progress:       t.progress,
		Total:          t.total,
		Percent:        percent,
		Status:         t.status,
		ElapsedSeconds: int(time.Since(t.startTime).Seconds()),
		Completed:      t.completed,
		Cancelled:      t.cancelled,
	}
	if t.completed && t.results != nil {
		info.Results = t.results
	}
	return info
}

func (t *Task) update(current, total int, status string) {
	t.mu.Lock()
	t.progress = current
	t.total = total
	t.status = status
	t.mu.Unlock()
}

// Manager owns the in-memory task registry and runs jobs in goroutines.
type Manager struct {
	mu    sync.Mutex
	tasks map[string]*Task

	onComplete func()
	onCancel   func()
}

// NewManager creates a Manager. The optional hooks fire when a task
// completes or is cancelled (used for metrics).
func NewManager() *Manager {
	return &Manager{tasks: make(map[string]*Task)}
}

// SetHooks registers completion/cancellation hooks. Call before Start.
func (m *Manager) SetHooks(onComplete, onCancel func()) {
	m.onComplete = onComplete
	m.onCancel = onCancel
}

// Start registers a new task and launches its job in a goroutine.
// Returns the task id immediately.
func (m *Manager) Start(job Job) string {
	ctx, cancel := context.WithCancel(context.Background())

	t := &Task{
		id:        uuid.NewString(),
		status:    "Initializing...",
		startTime: time.Now(),
		cancel:    cancel,
	}

	m.mu.Lock()
	m.tasks[t.id] = t
	m.mu.Unlock()

	go m.run(ctx, t, job)
	return t.id
}

func (m *Manager) run(ctx context.Context, t *Task, job Job) {
	results, err := job(ctx, t.update)

	t.mu.Lock()
	switch {
	case t.cancelled || (results != nil && results.Cancelled):
		t.cancelled = true
		t.status = "Cancelled"
	case err != nil:
		log.Printf("task %s: %v", t.id, err)
		t.status = "Error: " + err.Error()
		t.completed = true
	default:
		t.results = results
		t.completed = true
	}
	completed := t.completed
	t.mu.Unlock()

	if completed && m.onComplete != nil {
		m.onComplete()
	}

	m.purgeExpired()
}

// Get returns a snapshot of the task, or ErrNotFound.
func (m *Manager) Get(id string) (model.Task, error) {
	m.mu.Lock()
	t, ok := m.tasks[id]
	m.mu.Unlock()
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return t.Info(), nil
}

// Cancel asks a running task to stop. The job observes the cancellation
// between steps, so progress may continue briefly; clients confirm through
// polling. Cancelling twice is harmless.
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	t, ok := m.tasks[id]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	t.mu.Lock()
	alreadyTerminal := t.completed || t.cancelled
	if !alreadyTerminal {
		t.cancelled = true
		t.status = "Cancelling..."
	}
	t.mu.Unlock()

	t.cancel()

	if !alreadyTerminal && m.onCancel != nil {
		m.onCancel()
	}
	return nil
}

// Len reports the number of tracked tasks.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// StartCleanup runs periodic purging of finished tasks until ctx ends.
func (m *Manager) StartCleanup(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.purgeExpired()
		case <-ctx.Done():
			return
		}
	}
}

// purgeExpired drops finished tasks older than the retention window.
func (m *Manager) purgeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, t := range m.tasks {
		t.mu.Lock()
		expired := (t.completed || t.cancelled) && now.Sub(t.startTime) > retention
		t.mu.Unlock()
		if expired {
			delete(m.tasks, id)
		}
	}
}
