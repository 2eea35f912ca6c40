package render

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Rionsanfas/lunaburn/internal/style"
	"github.com/Rionsanfas/lunaburn/internal/subtitle"
)

// Request describes one burn-in job: a source video, the timeline to overlay,
// and an optional resolved style. A nil Style renders with style.Default().
type Request struct {
	InputPath  string
	OutputPath string
	Timeline   []subtitle.Entry
	Style      *style.Spec
}

// Result of a completed render. Logs carries the engine's diagnostic output,
// kept even on success so callers can troubleshoot quality issues.
type Result struct {
	OutputPath string
	Duration   time.Duration
	Logs       []string
}

// Renderer burns a subtitle timeline into a video. Implementations:
// FilterGraph (single-pass subtitle filter) and Compositor (frame-by-frame
// overlay drawing). A renderer instance must not be invoked concurrently;
// independent jobs use independent instances.
type Renderer interface {
	Render(ctx context.Context, req Request) (*Result, error)
}

func (r Request) styleSpec() style.Spec {
	if r.Style == nil {
		return style.Default()
	}
	return r.Style.Clamp()
}

// validate rejects input errors before any resource-intensive work
func (r Request) validate() error {
	if r.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if r.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if _, err := os.Stat(r.InputPath); err != nil {
		return fmt.Errorf("input video not readable: %w", err)
	}
	if err := subtitle.ValidateEntries(r.Timeline); err != nil {
		return fmt.Errorf("invalid timeline: %w", err)
	}
	return nil
}

// EngineError is a fatal rendering-engine failure with the diagnostic log
// attached. Output-validation failures (zero or unknown output duration) are
// reported the same way even when the engine itself exited cleanly.
type EngineError struct {
	Op   string
	Logs []string
	Err  error
}

func (e *EngineError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Err)
	if tail := LogTail(e.Logs, 12); len(tail) > 0 {
		msg += "\nengine log tail:\n" + strings.Join(tail, "\n")
	}
	return msg
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// LogTail returns the last n lines of a diagnostic log.
func LogTail(logs []string, n int) []string {
	if len(logs) <= n {
		return logs
	}
	return logs[len(logs)-n:]
}

func splitLogLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// job lifecycle
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Job tracks one render through pending -> running -> completed|failed. The
// renderer never retries; retry policy belongs to whatever orchestrates jobs.
type Job struct {
	mu       sync.Mutex
	renderer Renderer
	req      Request
	state    State
	result   *Result
	err      error
}

func NewJob(renderer Renderer, req Request) *Job {
	return &Job{
		renderer: renderer,
		req:      req,
		state:    StatePending,
	}
}

// Run executes the job once. A job cannot be re-run.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	j.mu.Lock()
	if j.state != StatePending {
		state := j.state
		j.mu.Unlock()
		return nil, fmt.Errorf("job already %s", state)
	}
	j.state = StateRunning
	j.mu.Unlock()

	result, err := j.renderer.Render(ctx, j.req)

	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		j.state = StateFailed
		j.err = err
		return nil, err
	}
	j.state = StateCompleted
	j.result = result
	return result, nil
}

func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

func (j *Job) Result() (*Result, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.err
}
