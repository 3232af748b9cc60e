package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model for the inventory progress display.
type Model struct {
	tasks    []Task
	spinner  spinner.Model
	progress progress.Model
	events   <-chan Event
	now      func() time.Time

	username       string
	buckets        []BucketCount
	rateLimited    bool
	rateLimitReset time.Time
	width          int
	done           bool
}

// doneMsg signals that the event channel was closed.
type doneMsg struct{}

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*Model)

// WithTasks replaces the default task list.
func WithTasks(tasks []Task) ModelOption {
	return func(m *Model) {
		m.tasks = tasks
	}
}

// WithClock sets the time source used to time tasks.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// DefaultTasks returns the task list for an inventory run.
func DefaultTasks() []Task {
	return []Task{
		NewTask(TaskAuth, "Authenticating"),
		NewTask(TaskOrgs, "Listing organizations"),
		NewTask(TaskRepos, "Processing repositories"),
		NewTask(TaskReport, "Writing reports"),
	}
}

// NewModel creates a new TUI model reading from events.
func NewModel(events <-chan Event, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	m := Model{
		tasks:   DefaultTasks(),
		spinner: s,
		progress: progress.New(
			progress.WithScaledGradient("#34d399", "#065f46"),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
		events: events,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the spinner and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s := msg.String(); s == "ctrl+c" || s == "q" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case TaskEvent:
		cmd := m.applyTaskEvent(msg)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case ReportEvent:
		m.buckets = msg.Buckets
		return m, waitForEvent(m.events)

	case RateLimitEvent:
		m.rateLimited = msg.Limited
		m.rateLimitReset = msg.ResetAt
		return m, waitForEvent(m.events)

	case DoneEvent, doneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyTaskEvent(e TaskEvent) tea.Cmd {
	// tasks is shared with the previous value of the model
	m.tasks = append([]Task(nil), m.tasks...)

	for i := range m.tasks {
		if m.tasks[i].ID != e.Task {
			continue
		}
		m.tasks[i].apply(e, m.now())
		if e.Task == TaskAuth && e.Status == StatusComplete && e.Message != "" {
			m.username = e.Message
		}
		if e.Progress > 0 {
			return m.progress.SetPercent(e.Progress)
		}
		return nil
	}
	return nil
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	for _, task := range m.tasks {
		if task.ID == TaskAuth {
			b.WriteString(m.authLine(task))
		} else {
			b.WriteString(task.View(m.spinner.View(), m.progress))
		}
		b.WriteString("\n")
	}

	if len(m.buckets) > 0 {
		b.WriteString("\n")
		for _, bc := range m.buckets {
			line := "    " + bucketLabelStyle.Render(bc.Label) + bucketCountStyle.Render(fmt.Sprint(bc.Count))
			if bc.Path != "" {
				line += "  " + messageStyle.Render(filepath.Base(bc.Path))
			}
			b.WriteString(line + "\n")
		}
	}

	if m.rateLimited {
		if wait := m.rateLimitReset.Sub(m.now()).Round(time.Second); wait > 0 {
			b.WriteString(warnStyle.Render(fmt.Sprintf("\n  Rate limited, remaining requests fail until reset (in %s)", wait)))
			b.WriteString("\n")
		}
	}

	if !m.done {
		b.WriteString(footerStyle.Render("  Press Ctrl+C to cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

// authLine shows who the token belongs to once authentication completes.
func (m Model) authLine(task Task) string {
	switch task.Status {
	case StatusComplete:
		if m.username == "" {
			return task.View(m.spinner.View(), m.progress)
		}
		return fmt.Sprintf("  %s Authenticated as %s", StatusIcon(StatusComplete, ""), userStyle.Render(m.username))
	case StatusRunning:
		return fmt.Sprintf("  %s Authenticating...", StatusIcon(StatusRunning, m.spinner.View()))
	default:
		return task.View(m.spinner.View(), m.progress)
	}
}

// waitForEvent reads the next event, or reports doneMsg once the channel
// is closed.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return event
	}
}
