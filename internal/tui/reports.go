package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/grinder/internal/report"
	"github.com/sadopc/grinder/internal/week"
)

const (
	taskColumnMin = 12
	taskColumnMax = 28
	dayColumn     = 8
)

// reportsModel is the Week tab: the selected week's grid, a chart of the
// day totals and the join, rebalance and split commands.
type reportsModel struct {
	session *report.Session
	width   int
	height  int

	row        int // selected row; the totals row is last
	col        int // selected day
	showDetail bool

	chart barchart.Model

	formActive bool
	form       *huh.Form
	clear      *clearValues
}

type clearValues struct {
	confirm  bool
	keepTask bool
}

func newReportsModel(s *report.Session) reportsModel {
	return reportsModel{
		session: s,
		chart:   barchart.New(60, 10),
		clear:   &clearValues{},
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

func (r reportsModel) weekView() *week.View { return r.session.View() }

// reload reads the log again, e.g. after the recorder appended to it.
func (r *reportsModel) reload() {
	r.session.Reload()
	r.afterChange()
}

func (r *reportsModel) afterChange() {
	r.row = clamp(r.row, 0, r.weekView().Len()-1)
	r.buildChart()
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	if r.formActive && r.form != nil {
		return r.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	return r.handleKey(km)
}

func (r reportsModel) handleKey(msg tea.KeyMsg) (reportsModel, tea.Cmd) {
	v := r.weekView()

	switch {
	case key.Matches(msg, keys.Up):
		r.row = clamp(r.row-1, 0, v.Len()-1)
	case key.Matches(msg, keys.Down):
		r.row = clamp(r.row+1, 0, v.Len()-1)
	case key.Matches(msg, keys.Left):
		r.col = clamp(r.col-1, 0, week.DaysPerWeek-1)
	case key.Matches(msg, keys.Right):
		r.col = clamp(r.col+1, 0, week.DaysPerWeek-1)

	case key.Matches(msg, keys.PrevWeek):
		if r.session.Prev() {
			r.row = 0
			r.afterChange()
		}
	case key.Matches(msg, keys.NextWeek):
		if r.session.Next() {
			r.row = 0
			r.afterChange()
		}

	case key.Matches(msg, keys.Join):
		on := !v.Joining()
		r.session.SetJoining(on)
		if on {
			return r, status("Join: pick the target row, then the row to merge into it")
		}
		return r, status("Join mode off")

	case key.Matches(msg, keys.Enter):
		if !v.Joining() {
			r.showDetail = !r.showDetail
			return r, nil
		}
		return r.join()

	case key.Matches(msg, keys.Equalize):
		if err := r.session.Equalize(); err != nil {
			return r, errStatus(err)
		}
		r.afterChange()
		return r, status(fmt.Sprintf("Workdays filled to %sh", r.session.Policy().WorkdayHours.StringFixed(2)))

	case key.Matches(msg, keys.Weekend):
		if err := r.session.EliminateWeekend(); err != nil {
			return r, errStatus(err)
		}
		r.afterChange()
		return r, status("Weekend hours moved to workdays")

	case key.Matches(msg, keys.Split):
		if !r.session.CanSplit() {
			return r, nil
		}
		r.session.Split()
		r.afterChange()
		return r, status("Week restored from the log")

	case key.Matches(msg, keys.Reload):
		r.reload()
		return r, status("Reloaded " + r.session.Path())

	case key.Matches(msg, keys.Clear):
		return r.showClearForm()

	case key.Matches(msg, keys.Back):
		switch {
		case r.session.Err() != "":
			r.session.ClearErr()
		case v.Joining():
			r.session.SetJoining(false)
		default:
			r.showDetail = false
		}
	}
	return r, nil
}

func (r reportsModel) join() (reportsModel, tea.Cmd) {
	rec, _ := r.weekView().Record(r.row)
	switch r.session.Join(r.row) {
	case week.JoinPending:
		return r, status(fmt.Sprintf("Merge into %q: pick another row", rec.TaskName()))
	case week.JoinMerged:
		r.afterChange()
		return r, status(fmt.Sprintf("Merged %q", rec.TaskName()))
	}
	return r, nil
}

func (r reportsModel) showClearForm() (reportsModel, tea.Cmd) {
	r.clear.confirm = false
	r.clear.keepTask = true

	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear the time log?").
				Description(r.session.Path()).
				Affirmative("Clear").
				Negative("Cancel").
				Value(&r.clear.confirm),
			huh.NewConfirm().
				Title("Keep task names?").
				Description("One zero-length entry per task stays in the log").
				Value(&r.clear.keepTask),
		),
	).WithShowHelp(true)

	r.formActive = true
	return r, r.form.Init()
}

func (r reportsModel) updateForm(msg tea.Msg) (reportsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			r.formActive = false
			r.form = nil
			return r, nil
		}
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}

	if r.form.State == huh.StateCompleted {
		r.formActive = false
		r.form = nil
		if !r.clear.confirm {
			return r, nil
		}
		if err := r.session.Clear(r.clear.keepTask); err != nil {
			return r, errStatus(err)
		}
		r.row = 0
		r.afterChange()
		kept := r.clear.keepTask
		return r, func() tea.Msg { return logClearedMsg{kept: kept} }
	}

	return r, cmd
}

// buildChart stacks every task's hours per day.
func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if r.height > 36 {
		chartHeight = 12
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	v := r.weekView()
	records := v.Records()
	var bars []barchart.BarData
	for _, d := range week.AllDays() {
		var values []barchart.BarValue
		for i, rec := range records {
			if rec.IsTotals() || rec.Hours(d).IsZero() {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  rec.TaskName(),
				Value: rec.Hours(d).InexactFloat64(),
				Style: lipgloss.NewStyle().Foreground(taskColor(i)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{
			Label:  week.ColumnTitle(v.WeekStart(), d),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	if r.formActive && r.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Clear log"), "", r.form.View()),
		)
	}

	parts := []string{r.renderTitle(), ""}
	if msg := r.session.Err(); msg != "" {
		parts = append(parts, r.renderError(w-6, msg), "")
	}
	parts = append(parts, r.renderGrid())
	if r.showDetail {
		parts = append(parts, "", r.renderDetail())
	}
	parts = append(parts, "", r.chart.View(), "", r.renderHints())

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (r reportsModel) renderTitle() string {
	prev, next := mutedStyle.Render("◀"), mutedStyle.Render("▶")
	if r.session.HasPrev() {
		prev = highlightStyle.Render("◀")
	}
	if r.session.HasNext() {
		next = highlightStyle.Render("▶")
	}

	var tags []string
	if r.weekView().Joining() {
		tags = append(tags, joinTargetStyle.Render("JOIN"))
	}
	if r.session.CanSplit() {
		tags = append(tags, warningStyle.Render("edited"))
	}

	line := fmt.Sprintf("%s %s %s", prev, titleStyle.Render(r.session.Title()), next)
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	return line
}

func (r reportsModel) renderError(w int, msg string) string {
	lines := strings.Split(msg, "\n")
	const maxLines = 6
	if len(lines) > maxLines {
		more := len(lines) - maxLines
		lines = append(lines[:maxLines], fmt.Sprintf("… %d more", more))
	}
	body := errorStyle.Render(strings.Join(lines, "\n"))
	return errorPanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, body, mutedStyle.Render("esc: dismiss")),
	)
}

func (r reportsModel) taskColumnWidth(records []*week.Record) int {
	n := taskColumnMin
	for _, rec := range records {
		if l := len([]rune(rec.TaskName())); l > n {
			n = l
		}
	}
	return min(n, taskColumnMax)
}

func (r reportsModel) renderGrid() string {
	v := r.weekView()
	records := v.Records()
	taskW := r.taskColumnWidth(records)
	target, hasTarget := v.PendingTarget()

	header := fmt.Sprintf("  %-*s", taskW, "Task")
	for _, d := range week.AllDays() {
		header += fmt.Sprintf("%*s", dayColumn, week.ColumnTitle(v.WeekStart(), d))
	}
	header += fmt.Sprintf("%*s", dayColumn, "Week")

	rows := []string{gridHeaderStyle.Render(header)}
	for i, rec := range records {
		cursor := "  "
		if i == r.row {
			cursor = "> "
		}

		style := normalItemStyle
		switch {
		case rec.IsTotals():
			style = totalsRowStyle
		case hasTarget && i == target:
			style = joinTargetStyle
		case i == r.row:
			style = selectedItemStyle
		}

		line := style.Render(fmt.Sprintf("%s%-*s", cursor, taskW, truncate(rec.TaskName(), taskW)))
		for j, d := range week.AllDays() {
			cell := fmt.Sprintf("%*s", dayColumn, rec.DayString(d))
			if i == r.row && j == r.col {
				line += selectedCellStyle.Render(cell)
				continue
			}
			line += style.Render(cell)
		}
		line += style.Render(fmt.Sprintf("%*s", dayColumn, rec.WeeklyString()))
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

// renderDetail lists where the selected cell's hours came from.
func (r reportsModel) renderDetail() string {
	rec, ok := r.weekView().Record(r.row)
	if !ok {
		return ""
	}
	d := week.AllDays()[r.col]
	title := fmt.Sprintf("%s, %s", rec.TaskName(), rec.ColumnTitle(d))

	desc := rec.PartialDescriptions(d)
	if len(desc) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), mutedStyle.Render("  No hours"))
	}
	rows := []string{titleStyle.Render(title)}
	for _, line := range desc {
		rows = append(rows, "  "+highlightStyle.Render(line))
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderHints() string {
	hints := "  [/]: week  m: join  e: equalize  w: no weekend  enter: details"
	if r.session.CanSplit() {
		hints += "  u: split"
	}
	return mutedStyle.Render(hints)
}
