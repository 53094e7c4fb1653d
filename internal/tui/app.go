package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/grinder/internal/export"
	"github.com/sadopc/grinder/internal/recorder"
	"github.com/sadopc/grinder/internal/report"
	"github.com/sadopc/grinder/internal/week"
)

type exportFormat struct {
	name string
	ext  string
	save func(path string, weekStart time.Time, records []*week.Record) error
}

var exportFormats = []exportFormat{
	{"CSV", ".csv", export.SaveCSV},
	{"JSON", ".json", export.SaveJSON},
}

// App is the root Bubble Tea model.
type App struct {
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	recording recordingModel
	reports   reportsModel

	help          help.Model
	status        string
	statusIsError bool
}

func NewApp(sess *report.Session, rec *recorder.Recorder) App {
	h := help.New()
	h.ShowAll = false

	home, _ := os.UserHomeDir()
	return App{
		activeView: viewRecorder,
		exportDir:  home,
		recording:  newRecordingModel(rec),
		reports:    newReportsModel(sess),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.recording.Init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.recording.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A form owns the keyboard until it completes or is cancelled.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewRecorder
			return a, a.recording.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewWeek
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		var cmd tea.Cmd
		a.recording, cmd = a.recording.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case recordingDataMsg:
		var cmd tea.Cmd
		a.recording, cmd = a.recording.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusIsError = msg.isError
		return a, nil

	case intervalStartedMsg:
		a.setStatus("Recording started")
		return a, nil

	case ignoredMsg:
		a.setStatus("Interval ignored")
		return a, nil

	case committedMsg:
		a.setStatus(fmt.Sprintf("Booked %s to %s", formatHours(time.Duration(msg.entry.Minutes)*time.Minute), msg.entry.Task))
		a.reports.reload()
		return a, nil

	case logClearedMsg:
		a.setStatus("Log cleared")
		if msg.kept {
			a.setStatus("Log cleared, task names kept")
		}
		return a, a.recording.loadData()

	case exportDoneMsg:
		a.setStatus("Exported to " + msg.path)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string) {
	a.status = text
	a.statusIsError = false
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewRecorder:
		a.recording, cmd = a.recording.update(msg)
	case viewWeek:
		a.reports, cmd = a.reports.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewRecorder:
		return a.recording.formActive
	case viewWeek:
		return a.reports.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	if a.activeView == viewRecorder {
		return a.recording.loadData()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case a.exportPicking:
		content = a.renderExportPicker()
	case a.activeView == viewRecorder:
		content = a.recording.view()
	default:
		content = a.reports.view()
	}

	header, footer := a.renderHeader(), a.renderFooter()
	body := lipgloss.NewStyle().
		Width(a.width).
		Height(max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (a App) renderHeader() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		style := inactiveTabStyle
		if viewState(i) == a.activeView {
			style = activeTabStyle
		}
		tabs[i] = style.Render(name)
	}

	brand := fg(colorPrimary).Bold(true).Render("grinder")
	return headerStyle.Render(spread(brand, lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...), a.width-2))
}

// spread places left and right at the two ends of a line of the given width.
func spread(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, strings.Repeat(" ", gap), right)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusIsError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Recording indicator, visible from every tab
	timerInfo := ""
	switch {
	case a.recording.isRunning():
		timerInfo = successStyle.Render(" ● " + formatDuration(a.recording.elapsed()))
	case a.recording.isPending():
		timerInfo = warningStyle.Render(" ■ " + formatDuration(a.recording.elapsed()))
	}

	return spread(footerStyle.Render(helpView), timerInfo+status, a.width-2)
}

func (a App) renderExportPicker() string {
	rows := []string{
		titleStyle.Render("Export " + a.reports.session.Title()),
		mutedStyle.Render("into " + a.exportDir),
		"",
	}
	for i, f := range exportFormats {
		line := normalItemStyle.Render("  " + f.name)
		if i == a.exportCursor {
			line = selectedItemStyle.Render("> " + f.name)
		}
		rows = append(rows, line)
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		a.exportCursor = clamp(a.exportCursor-1, 0, len(exportFormats)-1)
	case key.Matches(msg, keys.Down):
		a.exportCursor = clamp(a.exportCursor+1, 0, len(exportFormats)-1)
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the week as shown, edits included. Records are copied
// when the command is built.
func (a App) doExport(format int) tea.Cmd {
	f := exportFormats[format]
	v := a.reports.session.View()
	weekStart, records := v.WeekStart(), v.Records()
	path := filepath.Join(a.exportDir, "grinder-week-"+weekStart.Format("2006-01-02")+f.ext)

	return func() tea.Msg {
		if err := f.save(path, weekStart, records); err != nil {
			return statusMsg{text: fmt.Sprintf("%s export: %v", f.name, err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
