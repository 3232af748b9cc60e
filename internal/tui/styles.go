package tui

import "github.com/charmbracelet/lipgloss"

var (
	dim    = lipgloss.Color("240")
	red    = lipgloss.Color("196")
	green  = lipgloss.Color("46")
	orange = lipgloss.Color("214")

	statusIcons = map[TaskStatus]string{
		StatusPending:  lipgloss.NewStyle().Foreground(dim).Render("○"),
		StatusComplete: lipgloss.NewStyle().Foreground(green).Render("✓"),
		StatusError:    lipgloss.NewStyle().Foreground(red).Render("✗"),
		StatusSkipped:  lipgloss.NewStyle().Foreground(dim).Render("-"),
	}

	taskNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	taskDimStyle  = lipgloss.NewStyle().Foreground(dim)
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	elapsedStyle  = lipgloss.NewStyle().Foreground(dim).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(red)
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	warnStyle     = lipgloss.NewStyle().Foreground(orange)
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)

	bucketLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(12)
	bucketCountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).Width(6).Align(lipgloss.Right)

	footerStyle = lipgloss.NewStyle().Foreground(dim).MarginTop(1)
)

// StatusIcon returns the icon for a task status. Running tasks show the
// current spinner frame.
func StatusIcon(status TaskStatus, spinnerFrame string) string {
	if status == StatusRunning {
		return spinnerStyle.Render(spinnerFrame)
	}
	if icon, ok := statusIcons[status]; ok {
		return icon
	}
	return statusIcons[StatusPending]
}
