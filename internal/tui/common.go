package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/grinder/internal/recorder"
	"github.com/sadopc/grinder/internal/timelog"
)

// viewState represents the currently active view.
type viewState int

const (
	viewRecorder viewState = iota
	viewWeek
)

var viewNames = []string{"Recorder", "Week"}

// --- Messages ---

type recordingDataMsg struct {
	status recorder.Status
	tasks  []string
	err    error
}

type intervalStartedMsg struct{}

type committedMsg struct {
	entry timelog.Entry
}

type ignoredMsg struct{}

type logClearedMsg struct {
	kept bool
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatHours renders a duration the way the log does, "1.58h".
func formatHours(d time.Duration) string {
	return fmt.Sprintf("%.2fh", d.Hours())
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// truncate shortens s to n cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
