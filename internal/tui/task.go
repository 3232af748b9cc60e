package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
)

// Task is one stage of an inventory run as shown in the progress display.
type Task struct {
	ID       TaskID
	Name     string
	Status   TaskStatus
	Message  string
	Count    int
	Progress float64
	Error    error

	started time.Time
	elapsed time.Duration
}

// NewTask creates a pending task.
func NewTask(id TaskID, name string) Task {
	return Task{
		ID:     id,
		Name:   name,
		Status: StatusPending,
	}
}

// apply folds a TaskEvent into the task, timing it from the first running
// event to the first terminal one.
func (t *Task) apply(e TaskEvent, now time.Time) {
	if e.Status == StatusRunning && t.started.IsZero() {
		t.started = now
	}
	if t.Status == StatusRunning && e.Status != StatusRunning && !t.started.IsZero() {
		t.elapsed = now.Sub(t.started)
	}

	t.Status = e.Status
	if e.Message != "" {
		t.Message = e.Message
	}
	if e.Count > 0 {
		t.Count = e.Count
	}
	if e.Progress > 0 {
		t.Progress = e.Progress
	}
	if e.Error != nil {
		t.Error = e.Error
	}
}

// View renders the task as one line.
func (t Task) View(spinnerFrame string, prog progress.Model) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(StatusIcon(t.Status, spinnerFrame))
	b.WriteString(" ")
	if t.Status == StatusPending {
		b.WriteString(taskDimStyle.Render(t.Name))
	} else {
		b.WriteString(taskNameStyle.Render(t.Name))
	}

	if t.Status == StatusRunning && t.Progress > 0 {
		fmt.Fprintf(&b, " %s %3d%%", prog.ViewAs(t.Progress), int(t.Progress*100))
	}
	if detail := t.detail(); detail != "" {
		b.WriteString(" ")
		b.WriteString(messageStyle.Render(detail))
	}
	if t.Status == StatusComplete && t.elapsed > 0 {
		b.WriteString(" ")
		b.WriteString(elapsedStyle.Render(formatElapsed(t.elapsed)))
	}
	if t.Error != nil {
		b.WriteString(" ")
		b.WriteString(errorStyle.Render(t.Error.Error()))
	}
	return b.String()
}

// detail is the message, or the count when there is none.
func (t Task) detail() string {
	switch {
	case t.Message != "" && t.Status == StatusRunning && t.Progress > 0:
		return "(" + t.Message + ")"
	case t.Message != "":
		return t.Message
	case t.Count > 0:
		return fmt.Sprintf("(%d)", t.Count)
	default:
		return ""
	}
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
