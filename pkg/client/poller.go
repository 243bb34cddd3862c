package client

import (
	"context"
	"sync"
	"time"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
)

// pollInterval is the fixed delay between task status checks.
const pollInterval = time.Second

// PollerCallbacks are the observer hooks for a polling loop. All callbacks
// are invoked from the poller goroutine, never concurrently.
type PollerCallbacks struct {
	// OnProgress fires after every successful status fetch, terminal or not.
	OnProgress func(task *model.Task)
	// OnComplete fires exactly once, on the first status with completed=true.
	OnComplete func(task *model.Task)
	// OnCancelled fires exactly once, on the first status with cancelled=true.
	OnCancelled func(task *model.Task)
	// OnError fires on a failed poll. The loop keeps running; the next tick
	// retries.
	OnError func(err error)
}

// Poller drives the fixed-interval status loop for one task until a
// terminal state is observed or the context is cancelled. Ticks are
// strictly sequential: a new status request is never issued before the
// previous one's response or error has been handled.
type Poller struct {
	client   *Client
	taskID   string
	cb       PollerCallbacks
	interval time.Duration

	mu      sync.Mutex
	started bool
	done    chan struct{}
}

// NewPoller creates a Poller for the given task.
func NewPoller(client *Client, taskID string, cb PollerCallbacks) *Poller {
	return &Poller{
		client:   client,
		taskID:   taskID,
		cb:       cb,
		interval: pollInterval,
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop in a goroutine. Cancelling ctx tears the
// loop down without a terminal callback; no further requests are issued.
// Calling Start twice is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.run(ctx)
}

// Done is closed when the loop has stopped, whether by terminal state or
// teardown.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	state := model.TaskPending
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		task, err := p.client.TaskStatus(ctx, p.taskID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if p.cb.OnError != nil {
				p.cb.OnError(err)
			}
			continue
		}

		clampPercent(task)
		if p.cb.OnProgress != nil {
			p.cb.OnProgress(task)
		}

		// The state machine decides terminal handling. Cancelled wins when
		// both flags arrive in one response.
		state = state.Next(task.Completed, task.Cancelled)
		switch state {
		case model.TaskCancelled:
			if p.cb.OnCancelled != nil {
				p.cb.OnCancelled(task)
			}
			return
		case model.TaskCompleted:
			if p.cb.OnComplete != nil {
				p.cb.OnComplete(task)
			}
			return
		}
	}
}

// Cancel sends a cancel request for the task. No local state is forced;
// the loop stops when a subsequent poll observes cancelled=true.
func (p *Poller) Cancel(ctx context.Context) error {
	return p.client.CancelTask(ctx, p.taskID)
}

func clampPercent(task *model.Task) {
	if task.Percent < 0 {
		task.Percent = 0
	}
	if task.Percent > 100 {
		task.Percent = 100
	}
}
