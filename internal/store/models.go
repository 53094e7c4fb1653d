package store

import "time"

// IntervalStatus is the lifecycle state of a recorded interval.
type IntervalStatus string

const (
	StatusRunning   IntervalStatus = "running"
	StatusStopped   IntervalStatus = "stopped" // waiting to be committed or ignored
	StatusCommitted IntervalStatus = "committed"
	StatusIgnored   IntervalStatus = "ignored"
)

// Open reports whether the interval still blocks a new recording.
func (s IntervalStatus) Open() bool {
	return s == StatusRunning || s == StatusStopped
}

type Interval struct {
	ID        int64
	Start     time.Time
	Stop      *time.Time
	Status    IntervalStatus
	Task      string
	CreatedAt time.Time
}

// Duration is the recorded length, or zero while running.
func (i *Interval) Duration() time.Duration {
	if i.Stop == nil {
		return 0
	}
	return i.Stop.Sub(i.Start)
}

type TaskName struct {
	Name     string
	UseCount int
	LastUsed time.Time
}

type Setting struct {
	Key   string
	Value string
}

// IntervalFilter is used to filter intervals in queries.
type IntervalFilter struct {
	Status *IntervalStatus
	From   *time.Time
	To     *time.Time
	Limit  int
}
