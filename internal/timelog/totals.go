package timelog

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Key identifies one task on one calendar day.
type Key struct {
	Date time.Time
	Task string
}

// Totals accumulates minutes per (day, task). Keys and task names keep the
// order in which they were first seen in the log.
type Totals struct {
	keys    []Key
	minutes map[Key]int
	tasks   []string
	seen    map[string]bool
}

func NewTotals() *Totals {
	return &Totals{
		minutes: make(map[Key]int),
		seen:    make(map[string]bool),
	}
}

// Add books the entry's minutes on its (day, task) key.
func (t *Totals) Add(e Entry) {
	k := Key{Date: Day(e.Date), Task: e.Task}
	if _, ok := t.minutes[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.minutes[k] += e.Minutes
	if !t.seen[e.Task] {
		t.seen[e.Task] = true
		t.tasks = append(t.tasks, e.Task)
	}
}

func (t *Totals) Minutes(date time.Time, task string) int {
	return t.minutes[Key{Date: Day(date), Task: task}]
}

// Hours is the accumulated time for the key converted to decimal hours.
func (t *Totals) Hours(date time.Time, task string) decimal.Decimal {
	return MinutesToHours(t.Minutes(date, task))
}

func (t *Totals) Keys() []Key {
	out := make([]Key, len(t.keys))
	copy(out, t.keys)
	return out
}

// Tasks lists every task name in the log, including zero-minute placeholders.
func (t *Totals) Tasks() []string {
	out := make([]string, len(t.tasks))
	copy(out, t.tasks)
	return out
}

func (t *Totals) Len() int { return len(t.keys) }

// Weeks returns the distinct Mondays of all logged days, ascending.
func (t *Totals) Weeks() []time.Time {
	seen := make(map[time.Time]bool)
	var weeks []time.Time
	for _, k := range t.keys {
		w := WeekStart(k.Date)
		if seen[w] {
			continue
		}
		seen[w] = true
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	return weeks
}
