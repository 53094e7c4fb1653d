package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/grinder/internal/recorder"
	"github.com/sadopc/grinder/internal/store"
	"github.com/sadopc/grinder/internal/timelog"
)

// recentTasks is how many task names the recorder view lists.
const recentTasks = 5

type recordingModel struct {
	rec    *recorder.Recorder
	timer  timerModel
	width  int
	height int

	status recorder.Status
	tasks  []string

	formActive bool
	form       *huh.Form
	pending    *store.Interval
	values     *commitValues
}

// commitValues backs the commit form. Held by pointer so the form's bindings
// survive value copies of the model.
type commitValues struct {
	task string
	from string
	to   string
	book bool
}

func newRecordingModel(r *recorder.Recorder) recordingModel {
	return recordingModel{
		rec:    r,
		timer:  newTimerModel(),
		values: &commitValues{},
	}
}

func (m recordingModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *recordingModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m recordingModel) isRunning() bool { return m.timer.running() }
func (m recordingModel) isPending() bool { return m.timer.pending() }
func (m recordingModel) elapsed() time.Duration {
	return m.timer.currentElapsed()
}

func (m recordingModel) loadData() tea.Cmd {
	return func() tea.Msg {
		st, err := m.rec.Status()
		if err != nil {
			return recordingDataMsg{err: err}
		}
		tasks, err := m.rec.TaskNames()
		return recordingDataMsg{status: st, tasks: tasks, err: err}
	}
}

func (m recordingModel) update(msg tea.Msg) (recordingModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case recordingDataMsg:
		if msg.err != nil {
			return m, errStatus(msg.err)
		}
		m.status = msg.status
		m.tasks = msg.tasks
		m.timer.sync(msg.status)
		return m, nil

	case tickMsg:
		m.timer.tick(time.Time(msg))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Toggle):
			if m.timer.pending() {
				return m.showCommitForm()
			}
			return m.toggle()
		case key.Matches(msg, keys.Commit):
			return m.showCommitForm()
		case key.Matches(msg, keys.Ignore):
			return m.ignore()
		}
	}
	return m, nil
}

func (m recordingModel) toggle() (recordingModel, tea.Cmd) {
	st, err := m.rec.Toggle()
	if err != nil {
		return m, errStatus(err)
	}
	m.status = st
	m.timer.sync(st)
	if st.State == recorder.Pending {
		return m.showCommitForm()
	}
	return m, tea.Batch(m.loadData(), func() tea.Msg { return intervalStartedMsg{} })
}

func (m recordingModel) ignore() (recordingModel, tea.Cmd) {
	if err := m.rec.Ignore(); err != nil {
		return m, errStatus(err)
	}
	return m, tea.Batch(m.loadData(), func() tea.Msg { return ignoredMsg{} })
}

func (m recordingModel) showCommitForm() (recordingModel, tea.Cmd) {
	iv, err := m.rec.Pending()
	if err != nil {
		if errors.Is(err, recorder.ErrNothingPending) {
			return m, status("Nothing to commit: stop a recording first")
		}
		return m, errStatus(err)
	}
	m.pending = iv
	m.values.task = m.status.LastTask
	m.values.from = iv.Start.Format(timelog.ClockLayout)
	m.values.to = iv.Stop.Format(timelog.ClockLayout)
	m.values.book = true

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").
				Suggestions(m.tasks).
				Validate(validateTaskInput).
				Value(&m.values.task),
			huh.NewInput().Title("From").
				Placeholder("HH:MM").
				Validate(validateClock).
				Value(&m.values.from),
			huh.NewInput().Title("To").
				Placeholder("HH:MM").
				Validate(validateClock).
				Value(&m.values.to),
			huh.NewConfirm().Title("Book this interval?").
				Affirmative("Commit").
				Negative("Ignore").
				Value(&m.values.book),
		).Title(fmt.Sprintf("Stopped after %s", formatDuration(iv.Duration()))),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m recordingModel) updateForm(msg tea.Msg) (recordingModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, status("Interval kept: press c to commit or i to ignore")
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		if !m.values.book {
			return m.ignore()
		}
		return m.commit()
	}

	return m, cmd
}

func (m recordingModel) commit() (recordingModel, tea.Cmd) {
	from, to, err := commitBounds(m.pending, m.values.from, m.values.to)
	if err != nil {
		return m, errStatus(err)
	}
	e, err := m.rec.Commit(m.values.task, from, to)
	if err != nil {
		return m, errStatus(err)
	}
	m.pending = nil
	return m, tea.Batch(m.loadData(), func() tea.Msg { return committedMsg{entry: e} })
}

// commitBounds turns the edited clock fields into times on the interval's
// own days. Unedited fields keep the recorded instant.
func commitBounds(iv *store.Interval, from, to string) (time.Time, time.Time, error) {
	if iv == nil || iv.Stop == nil {
		return time.Time{}, time.Time{}, recorder.ErrNothingPending
	}
	start, err := onDay(iv.Start, from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	stop, err := onDay(*iv.Stop, to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, stop, nil
}

func onDay(orig time.Time, clock string) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	if clock == orig.Format(timelog.ClockLayout) {
		return orig, nil
	}
	return timelog.AtClock(orig, clock)
}

func validateClock(s string) error {
	if _, err := time.Parse(timelog.ClockLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("expected HH:MM")
	}
	return nil
}

// validateTaskInput rejects names that would break the log line. An empty
// name is allowed here so the form can still be used to ignore.
func validateTaskInput(s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return timelog.ErrInvalidTask
	}
	return nil
}

func (m recordingModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}

	contentWidth := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Commit interval")
		return activePanelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTimerPanel(contentWidth),
		m.renderTodayPanel(contentWidth),
		m.renderTasksPanel(contentWidth),
	)
}

func (m recordingModel) renderTimerPanel(w int) string {
	timeStr := formatDuration(m.timer.currentElapsed())

	switch {
	case m.timer.running():
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerRunningStyle.Width(w-6).Render(timeStr),
			successStyle.Render("●  RECORDING"),
			mutedStyle.Render("since "+m.timer.startTime.Format(timelog.ClockLayout)),
		)
		return activePanelStyle.Width(w).Render(content)

	case m.timer.pending():
		span := fmt.Sprintf("%s - %s",
			m.timer.startTime.Format(timelog.ClockLayout),
			m.timer.stopTime.Format(timelog.ClockLayout))
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerPendingStyle.Width(w-6).Render(timeStr),
			warningStyle.Render("■  STOPPED "+span),
			mutedStyle.Render("c: commit  i: ignore"),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("00:00:00"),
		mutedStyle.Render("■  IDLE"),
		mutedStyle.Render("Press s to start recording"),
	)
	return panelStyle.Width(w).Render(content)
}

func (m recordingModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today")
	total := highlightStyle.Render(formatDuration(m.status.Today))
	header := fmt.Sprintf("%s  %s  %s", title, total, mutedStyle.Render(formatHours(m.status.Today)))

	last := mutedStyle.Render("No task booked yet")
	if m.status.LastTask != "" {
		last = "Last task: " + highlightStyle.Render(m.status.LastTask)
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, last))
}

func (m recordingModel) renderTasksPanel(w int) string {
	title := titleStyle.Render("Recent Tasks")
	if len(m.tasks) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No tasks yet"),
		))
	}

	rows := []string{title}
	for i, name := range m.tasks {
		if i == recentTasks {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", len(m.tasks)-recentTasks)))
			break
		}
		dot := lipgloss.NewStyle().Foreground(taskColor(i)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %s", dot, truncate(name, w-10)))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
