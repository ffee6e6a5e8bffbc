package matching

import (
	"fmt"
	"time"
)

// DebugStep is one instrumentation entry with its timing.
type DebugStep struct {
	Message   string
	Timestamp time.Time
}

// Tracker collects ordered debug steps for one match request. A nil Tracker
// is valid and records nothing, so callers only pay for instrumentation when
// the request asks for it.
type Tracker struct {
	start time.Time
	steps []DebugStep
}

// NewTracker starts a tracker at the current time.
func NewTracker() *Tracker {
	return &Tracker{start: time.Now()}
}

// Add records a step.
func (t *Tracker) Add(message string) {
	if t == nil {
		return
	}
	t.steps = append(t.steps, DebugStep{Message: message, Timestamp: time.Now()})
}

// Addf records a formatted step.
func (t *Tracker) Addf(format string, args ...any) {
	if t == nil {
		return
	}
	t.Add(fmt.Sprintf(format, args...))
}

// Lines renders the steps as "[totalms +stepms] message" strings.
func (t *Tracker) Lines() []string {
	if t == nil || len(t.steps) == 0 {
		return nil
	}
	lines := make([]string, 0, len(t.steps))
	prev := t.start
	for _, step := range t.steps {
		total := step.Timestamp.Sub(t.start).Milliseconds()
		delta := step.Timestamp.Sub(prev).Milliseconds()
		lines = append(lines, fmt.Sprintf("[%dms +%dms] %s", total, delta, step.Message))
		prev = step.Timestamp
	}
	return lines
}
