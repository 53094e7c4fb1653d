package week

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidMove = errors.New("invalid hour move")

// PartialTask is a named fraction of one cell.
type PartialTask struct {
	Hours decimal.Decimal
	Name  string
}

func (p PartialTask) String() string {
	return fmt.Sprintf("%s: %s", p.Hours.StringFixed(2), p.Name)
}

// Record is one row of a week view: a task's hours for each day.
type Record struct {
	task      string
	weekStart time.Time
	hours     [DaysPerWeek]decimal.Decimal
	totals    bool

	// partials[d] is nil until a transfer touches day d. An untracked cell
	// reads as a single partial task holding the whole cell under the
	// row's current name.
	partials [DaysPerWeek][]PartialTask
}

// NewRecord creates a task row.
func NewRecord(weekStart time.Time, task string, hours [DaysPerWeek]decimal.Decimal) *Record {
	return &Record{task: task, weekStart: weekStart, hours: hours}
}

func newTotalsRecord(weekStart time.Time, rows []*Record) *Record {
	var sum [DaysPerWeek]decimal.Decimal
	for _, r := range rows {
		for d := range sum {
			sum[d] = sum[d].Add(r.hours[d])
		}
	}
	return &Record{task: "Total", weekStart: weekStart, hours: sum, totals: true}
}

func (r *Record) TaskName() string     { return r.task }
func (r *Record) WeekStart() time.Time { return r.weekStart }
func (r *Record) IsTotals() bool       { return r.totals }

// Hours returns the hours booked on day d.
func (r *Record) Hours(d Day) decimal.Decimal {
	if !d.Valid() {
		return decimal.Zero
	}
	return r.hours[d]
}

// WorkedHours returns a copy of all seven cells.
func (r *Record) WorkedHours() [DaysPerWeek]decimal.Decimal {
	return r.hours
}

// Weekly is the sum of the row.
func (r *Record) Weekly() decimal.Decimal {
	sum := decimal.Zero
	for _, h := range r.hours {
		sum = sum.Add(h)
	}
	return sum
}

// DayString formats a cell as "0.00".
func (r *Record) DayString(d Day) string { return r.Hours(d).StringFixed(2) }

func (r *Record) WeeklyString() string { return r.Weekly().StringFixed(2) }

// ColumnTitle is the header of day d for this row's week.
func (r *Record) ColumnTitle(d Day) string { return ColumnTitle(r.weekStart, d) }

// PartialTasks returns a copy of day d's composition, applying the default
// single-entry composition when the cell is untracked.
func (r *Record) PartialTasks(d Day) []PartialTask {
	if !d.Valid() {
		return nil
	}
	if r.partials[d] == nil {
		return []PartialTask{r.defaultPartial(d)}
	}
	out := make([]PartialTask, len(r.partials[d]))
	copy(out, r.partials[d])
	return out
}

// PartialDescriptions lists "h.hh: name" for every contributing task with
// positive hours on day d.
func (r *Record) PartialDescriptions(d Day) []string {
	var out []string
	for _, p := range r.PartialTasks(d) {
		if p.Hours.IsPositive() {
			out = append(out, p.String())
		}
	}
	return out
}

// Tracked reports whether day d's composition has been materialized.
func (r *Record) Tracked(d Day) bool {
	return d.Valid() && r.partials[d] != nil
}

func (r *Record) defaultPartial(d Day) PartialTask {
	return PartialTask{Hours: r.hours[d], Name: r.task}
}

// materialize returns day d's composition, creating the default one first.
func (r *Record) materialize(d Day) []PartialTask {
	if r.partials[d] == nil {
		r.partials[d] = []PartialTask{r.defaultPartial(d)}
	}
	return r.partials[d]
}

func (r *Record) addPartial(d Day, name string, amount decimal.Decimal) {
	parts := r.materialize(d)
	for i := range parts {
		if parts[i].Name == name {
			parts[i].Hours = parts[i].Hours.Add(amount)
			return
		}
	}
	r.partials[d] = append(parts, PartialTask{Hours: amount, Name: name})
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	for d := range r.partials {
		if r.partials[d] != nil {
			c.partials[d] = append([]PartialTask(nil), r.partials[d]...)
		}
	}
	return &c
}

// Move shifts amount hours of this row from one day to another, carrying
// the provenance of the moved fraction along.
func (r *Record) Move(from, to Day, amount decimal.Decimal) error {
	switch {
	case r.totals:
		return fmt.Errorf("%w: totals row", ErrInvalidMove)
	case !from.Valid() || !to.Valid() || from == to:
		return fmt.Errorf("%w: %s to %s", ErrInvalidMove, from, to)
	case amount.IsNegative():
		return fmt.Errorf("%w: negative amount %s", ErrInvalidMove, amount)
	case amount.GreaterThan(r.hours[from]):
		return fmt.Errorf("%w: %s exceeds %s on %s", ErrInvalidMove, amount.StringFixed(2), r.hours[from].StringFixed(2), from)
	}
	if amount.IsZero() {
		return nil
	}
	Transfer(r, r, from, to, amount)
	r.hours[from] = r.hours[from].Sub(amount)
	r.hours[to] = r.hours[to].Add(amount)
	return nil
}

// mergeFrom folds other into r: cells are summed, other's whole composition
// moves into r, and the names are concatenated.
func (r *Record) mergeFrom(other *Record) {
	for d := range r.hours {
		Transfer(other, r, Day(d), Day(d), other.hours[d])
		r.hours[d] = r.hours[d].Add(other.hours[d])
	}
	r.task += " + " + other.task
}
