package model

// Task is the client-visible projection of a server-side processing job.
// The server owns the state; clients refresh this by polling GET /api/task/:id.
type Task struct {
	TaskID         string            `json:"task_id"`
	Progress       int               `json:"progress"`
	Total          int               `json:"total"`
	Percent        float64           `json:"percent"`
	Status         string            `json:"status"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
	Completed      bool              `json:"completed"`
	Cancelled      bool              `json:"cancelled"`
	Results        *ProcessingResult `json:"results,omitempty"`
}

// TaskState is the explicit client-side state machine for a polled task,
// replacing inference from the completed/cancelled flag pair.
type TaskState int

const (
	TaskPending TaskState = iota
	TaskRunning
	TaskCompleted
	TaskCancelled
)

// String returns the state name.
func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s TaskState) IsTerminal() bool {
	return s == TaskCompleted || s == TaskCancelled
}

// Next returns the state after observing one poll response. Terminal states
// never transition. When a response carries both flags, cancelled wins: the
// cancel acknowledgement was observed first.
func (s TaskState) Next(completed, cancelled bool) TaskState {
	if s.IsTerminal() {
		return s
	}
	switch {
	case cancelled:
		return TaskCancelled
	case completed:
		return TaskCompleted
	default:
		return TaskRunning
	}
}

// ProcessRequest is the body of POST /api/process-transcripts.
type ProcessRequest struct {
	Videos              []Video `json:"videos"`
	Language            string  `json:"language"`
	OutputType          string  `json:"outputType"`
	LimitValue          int     `json:"limitValue"`
	FilterHasTranscript bool    `json:"filterHasTranscript"`
	OutputDir           string  `json:"outputDir,omitempty"`
	OutputStyle         string  `json:"outputStyle"`
	TokenLimit          int     `json:"tokenLimit,omitempty"`
	FileLimit           int     `json:"fileLimit,omitempty"`
	IsVideoURL          bool    `json:"isVideoUrl"`
}

// ProcessResponse acknowledges a started processing job.
type ProcessResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}
