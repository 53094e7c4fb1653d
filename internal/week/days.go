// Package week turns logged task totals into a Monday-to-Sunday view and
// supports joining rows while keeping track of which original task every
// fraction of a cell came from.
package week

import (
	"fmt"
	"time"
)

// Day indexes a week column, Monday first.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the number of columns in a week view.
const DaysPerWeek = 7

var dayNames = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Workdays are Monday to Friday, in order.
var Workdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// Weekend is Saturday then Sunday.
var Weekend = []Day{Saturday, Sunday}

func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

func (d Day) Valid() bool { return d >= Monday && d <= Sunday }

func (d Day) IsWeekend() bool { return d == Saturday || d == Sunday }

// AllDays returns Monday..Sunday.
func AllDays() []Day {
	days := make([]Day, DaysPerWeek)
	for i := range days {
		days[i] = Day(i)
	}
	return days
}

// Date returns the calendar date of day d in the week starting at weekStart.
func Date(weekStart time.Time, d Day) time.Time {
	return weekStart.AddDate(0, 0, int(d))
}

// ColumnTitle is the grid header for day d, e.g. "Mon 01".
func ColumnTitle(weekStart time.Time, d Day) string {
	return Date(weekStart, d).Format("Mon 02")
}

// Title describes the week, e.g. "Week from January 01 to January 07".
func Title(weekStart time.Time) string {
	return fmt.Sprintf("Week from %s to %s",
		weekStart.Format("January 02"), Date(weekStart, Sunday).Format("January 02"))
}
