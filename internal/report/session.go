// Package report holds the state behind the weekly report: the loaded log,
// the selected week and its editable view, and a dismissible error message.
package report

import (
	"errors"
	"time"

	"github.com/sadopc/grinder/internal/rebalance"
	"github.com/sadopc/grinder/internal/timelog"
	"github.com/sadopc/grinder/internal/week"
)

// Session is the report for one log file. It is not safe for concurrent use.
type Session struct {
	path     string
	balancer *rebalance.Balancer
	now      func() time.Time

	snap  *timelog.Snapshot
	index int // -1 when the log has no weeks
	view  *week.View
	err   string
}

// Open loads the log at path and selects the week containing today, or the
// latest logged week when today has no entries. Load problems end up in Err.
func Open(path string, policy rebalance.Policy) *Session {
	return open(path, policy, time.Now)
}

func open(path string, policy rebalance.Policy, now func() time.Time) *Session {
	s := &Session{path: path, balancer: rebalance.New(policy), now: now}
	s.Reload()
	return s
}

// Reload reads the log again and reselects the initial week. Edits to the
// current view are lost.
func (s *Session) Reload() {
	s.snap = timelog.Load(s.path)
	s.err = s.snap.Errors()
	s.index = initialWeek(s.snap.Weeks, timelog.WeekStart(s.now()))
	s.rebuild()
}

func initialWeek(weeks []time.Time, current time.Time) int {
	for i, w := range weeks {
		if w.Equal(current) {
			return i
		}
	}
	return len(weeks) - 1
}

func (s *Session) rebuild() {
	start := timelog.WeekStart(s.now())
	if s.index >= 0 {
		start = s.snap.Weeks[s.index]
	}
	s.view = week.NewView(s.snap.Totals, start)
}

func (s *Session) Path() string { return s.path }

// Snapshot is the last load result.
func (s *Session) Snapshot() *timelog.Snapshot { return s.snap }

// Diagnostics are the problems found by the last load.
func (s *Session) Diagnostics() []timelog.Diagnostic { return s.snap.Diagnostics }

// Tasks lists every task name in the log, in first-logged order.
func (s *Session) Tasks() []string { return s.snap.Totals.Tasks() }

// ---------------------------------------------------------------------------
// Week selection
// ---------------------------------------------------------------------------

func (s *Session) Weeks() []time.Time {
	out := make([]time.Time, len(s.snap.Weeks))
	copy(out, s.snap.Weeks)
	return out
}

// Index is the selected week, or -1 when the log is empty.
func (s *Session) Index() int { return s.index }

// SelectWeek rebuilds the view for week i. Out-of-range indexes are ignored.
func (s *Session) SelectWeek(i int) bool {
	if i < 0 || i >= len(s.snap.Weeks) {
		return false
	}
	s.index = i
	s.rebuild()
	return true
}

// SelectDate selects the logged week containing t.
func (s *Session) SelectDate(t time.Time) bool {
	ws := timelog.WeekStart(t)
	for i, w := range s.snap.Weeks {
		if w.Equal(ws) {
			return s.SelectWeek(i)
		}
	}
	return false
}

func (s *Session) HasPrev() bool { return s.index > 0 }
func (s *Session) HasNext() bool { return s.index >= 0 && s.index < len(s.snap.Weeks)-1 }

func (s *Session) Prev() bool { return s.SelectWeek(s.index - 1) }
func (s *Session) Next() bool { return s.SelectWeek(s.index + 1) }

// View is the editable view of the selected week.
func (s *Session) View() *week.View { return s.view }

// Title describes the selected week.
func (s *Session) Title() string { return week.Title(s.view.WeekStart()) }

// ---------------------------------------------------------------------------
// Error state
// ---------------------------------------------------------------------------

// Err is the message waiting to be shown, or "".
func (s *Session) Err() string { return s.err }

func (s *Session) SetErr(msg string) { s.err = msg }

func (s *Session) ClearErr() { s.err = "" }

// ---------------------------------------------------------------------------
// Edits
// ---------------------------------------------------------------------------

// Equalize fills every workday up to the policy's workday hours. On failure
// the view is unchanged and the reason is kept in Err.
func (s *Session) Equalize() error {
	return s.apply(s.balancer.Equalize(s.view))
}

// EliminateWeekend moves weekend hours into workdays. On failure the view is
// unchanged and the reason is kept in Err.
func (s *Session) EliminateWeekend() error {
	return s.apply(s.balancer.EliminateWeekend(s.view))
}

func (s *Session) apply(err error) error {
	if err != nil {
		s.err = err.Error()
	}
	return err
}

// SetJoining switches the two-click join mode.
func (s *Session) SetJoining(on bool) { s.view.SetJoining(on) }

// Join forwards a row click to the view.
func (s *Session) Join(i int) week.JoinResult { return s.view.Join(i) }

// Split undoes all joins and rebalances of the selected week.
func (s *Session) Split() { s.view.Reset() }

// CanSplit reports whether there is anything to undo.
func (s *Session) CanSplit() bool { return s.view.Edited() }

// Clear empties the log, optionally keeping one placeholder per task name,
// and reloads. A failure leaves the log untouched and is kept in Err.
func (s *Session) Clear(keepTaskNames bool) error {
	if err := timelog.Clear(s.path, keepTaskNames, s.now()); err != nil {
		s.err = err.Error()
		return err
	}
	s.Reload()
	return nil
}

// Policy is the rebalancing policy in use.
func (s *Session) Policy() rebalance.Policy { return s.balancer.Policy }

// IsInfeasible reports whether err is one of the rebalancing failures.
func IsInfeasible(err error) bool {
	return errors.Is(err, rebalance.ErrInsufficientSurplus) || errors.Is(err, rebalance.ErrOverCapacity)
}
