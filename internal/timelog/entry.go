// Package timelog reads and writes the pipe-delimited time log shared by the
// recorder and the weekly report.
package timelog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the on-disk date format (yyyy/MM/dd).
	DateLayout = "2006/01/02"
	// ClockLayout is the on-disk start/stop time format (HH:mm).
	ClockLayout = "15:04"

	separator  = "|"
	fieldCount = 6
)

// Accepted when reading; DateLayout is always used when writing. Month and
// day may be written without a leading zero.
var dateLayouts = []string{"2006/1/2", "2006-1-2", "2006.1.2"}

var (
	ErrEmptyTask   = errors.New("task name is empty")
	ErrInvalidTask = errors.New("task name contains a line break")
)

var minutesPerHour = decimal.NewFromInt(60)

// Entry is one line of the time log.
type Entry struct {
	Date    time.Time // calendar day at midnight UTC
	Start   string    // HH:mm, informational
	Stop    string    // HH:mm, informational
	Minutes int
	Task    string
}

// NewEntry builds the entry for a recorded interval. The whole interval is
// booked on the day it started.
func NewEntry(from, to time.Time, task string) Entry {
	return Entry{
		Date:    Day(from),
		Start:   from.Format(ClockLayout),
		Stop:    to.Format(ClockLayout),
		Minutes: int(to.Sub(from).Minutes()),
		Task:    task,
	}
}

// Hours returns the entry duration in decimal hours rounded to two places.
func (e Entry) Hours() decimal.Decimal {
	return MinutesToHours(e.Minutes)
}

// Line formats the entry the way it is stored on disk, without the trailing newline.
func (e Entry) Line() string {
	return strings.Join([]string{
		e.Date.Format(DateLayout),
		e.Start,
		e.Stop,
		strconv.Itoa(e.Minutes),
		e.Hours().StringFixed(2),
		e.Task,
	}, separator)
}

func (e Entry) validate() error {
	if strings.TrimSpace(e.Task) == "" {
		return ErrEmptyTask
	}
	if strings.ContainsAny(e.Task, "\r\n") {
		return ErrInvalidTask
	}
	return nil
}

// MinutesToHours converts whole minutes to hours rounded half away from zero
// to two decimal places.
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).Round(2)
}

// ParseLine parses a single log line. The hours column is ignored; minutes
// are authoritative and may be negative, which subtracts from the day's total. The task name is everything after the fifth separator,
// so it may itself contain '|'.
func ParseLine(line string) (Entry, error) {
	parts := strings.SplitN(line, separator, fieldCount)
	if len(parts) < fieldCount {
		return Entry{}, fmt.Errorf("not enough columns (expected %d, got %d)", fieldCount, len(parts))
	}

	date, ok := parseDate(parts[0])
	if !ok {
		return Entry{}, errors.New("failed to parse date or duration in minutes")
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil {
		return Entry{}, errors.New("failed to parse date or duration in minutes")
	}

	return Entry{
		Date:    date,
		Start:   strings.TrimSpace(parts[1]),
		Stop:    strings.TrimSpace(parts[2]),
		Minutes: minutes,
		Task:    parts[5],
	}, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate parses a day written in any of the accepted log layouts.
func ParseDate(s string) (time.Time, error) {
	if t, ok := parseDate(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected %s", s, DateLayout)
}

// AtClock returns the instant on day's calendar date at clock (HH:mm), in
// day's location.
func AtClock(day time.Time, clock string) (time.Time, error) {
	c, err := time.Parse(ClockLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location()), nil
}

// Day truncates t to its calendar day, expressed as midnight UTC so that days
// compare and hash consistently.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return d.AddDate(0, 0, -offset)
}
