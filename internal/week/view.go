package week

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sadopc/grinder/internal/timelog"
	"github.com/shopspring/decimal"
)

var ErrNotConserved = errors.New("weekly task totals changed")

// Build groups the totals of the week starting at weekStart into one row per
// task, in first-logged order, followed by the totals row. Days with no
// hours are skipped, so placeholder tasks produce no row.
func Build(totals *timelog.Totals, weekStart time.Time) []*Record {
	weekStart = timelog.Day(weekStart)
	weekEnd := Date(weekStart, Sunday)

	var rows []*Record
	if totals == nil {
		return append(rows, newTotalsRecord(weekStart, rows))
	}
	byTask := make(map[string]*Record)
	for _, k := range totals.Keys() {
		if k.Date.Before(weekStart) || k.Date.After(weekEnd) {
			continue
		}
		h := totals.Hours(k.Date, k.Task)
		if !h.IsPositive() {
			continue
		}
		r, ok := byTask[k.Task]
		if !ok {
			r = &Record{task: k.Task, weekStart: weekStart}
			byTask[k.Task] = r
			rows = append(rows, r)
		}
		d := int(k.Date.Sub(weekStart).Hours() / 24)
		r.hours[d] = r.hours[d].Add(h)
	}
	return append(rows, newTotalsRecord(weekStart, rows))
}

// View is the editable week view: task rows plus a totals row that is
// recomputed after every mutation. It is not safe for concurrent use.
type View struct {
	weekStart time.Time
	source    *timelog.Totals
	rows      []*Record
	totals    *Record

	joining bool
	join    joinState
	edited  bool
}

// NewView builds the view of the week starting at weekStart.
func NewView(source *timelog.Totals, weekStart time.Time) *View {
	v := &View{weekStart: timelog.Day(weekStart), source: source}
	v.Reset()
	return v
}

func (v *View) WeekStart() time.Time { return v.weekStart }

// Reset discards joins and rebalances and rebuilds the view from the log
// totals. Join mode is switched off.
func (v *View) Reset() {
	built := Build(v.source, v.weekStart)
	v.rows = built[:len(built)-1]
	v.totals = built[len(built)-1]
	v.joining = false
	v.join = joinIdle{}
	v.edited = false
}

// Edited reports whether rows were joined or rebalanced since the last reset.
func (v *View) Edited() bool { return v.edited }

// Len counts all rows including the totals row.
func (v *View) Len() int { return len(v.rows) + 1 }

// TaskRows counts the rows excluding the totals row.
func (v *View) TaskRows() int { return len(v.rows) }

// Records returns copies of all rows, the totals row last.
func (v *View) Records() []*Record {
	out := make([]*Record, 0, v.Len())
	for _, r := range v.rows {
		out = append(out, r.Clone())
	}
	return append(out, v.totals.Clone())
}

// Record returns a copy of row i; the totals row is at index TaskRows().
func (v *View) Record(i int) (*Record, bool) {
	switch {
	case i >= 0 && i < len(v.rows):
		return v.rows[i].Clone(), true
	case i == len(v.rows):
		return v.totals.Clone(), true
	}
	return nil, false
}

// Totals returns a copy of the totals row.
func (v *View) Totals() *Record { return v.totals.Clone() }

func (v *View) isTaskRow(i int) bool { return i >= 0 && i < len(v.rows) }

// Merge folds row source into row target. The merged row keeps the target's
// position and source is removed. Requests naming the totals row, an
// out-of-range row, or the same row twice are ignored.
func (v *View) Merge(target, source int) bool {
	if target == source || !v.isTaskRow(target) || !v.isTaskRow(source) {
		return false
	}
	v.rows[target].mergeFrom(v.rows[source])
	v.rows = slices.Delete(v.rows, source, source+1)
	v.afterEdit()
	return true
}

// Rebalance runs fn on copies of the task rows. The copies replace the rows
// only if fn succeeds and every task keeps its weekly total, so a failed
// rebalance leaves the view untouched. A run that moves no hours leaves the
// view unedited.
func (v *View) Rebalance(fn func(rows []*Record) error) error {
	work := make([]*Record, len(v.rows))
	for i, r := range v.rows {
		work[i] = r.Clone()
	}
	if err := fn(work); err != nil {
		return err
	}
	if len(work) != len(v.rows) {
		return fmt.Errorf("%w: row count %d became %d", ErrNotConserved, len(v.rows), len(work))
	}
	for i := range work {
		before, after := v.rows[i].Weekly(), work[i].Weekly()
		if !before.Equal(after) {
			return fmt.Errorf("%w: %q %s became %s", ErrNotConserved, v.rows[i].task, before.StringFixed(2), after.StringFixed(2))
		}
	}
	if !slices.EqualFunc(v.rows, work, sameCells) {
		v.rows = work
		v.afterEdit()
	}
	return nil
}

func sameCells(a, b *Record) bool {
	for d := range a.hours {
		if !a.hours[d].Equal(b.hours[d]) {
			return false
		}
	}
	return true
}

// DayTotals returns a copy of the totals row's cells.
func (v *View) DayTotals() [DaysPerWeek]decimal.Decimal { return v.totals.hours }

func (v *View) afterEdit() {
	v.totals = newTotalsRecord(v.weekStart, v.rows)
	v.join = joinIdle{}
	v.edited = true
}
