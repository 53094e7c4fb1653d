// Package recorder measures work intervals and books them into the time log.
// An interval is started, stopped, and then either committed under a task
// name or ignored. Only one interval can be open at a time; the open
// interval lives in the store so separate invocations share it.
package recorder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/grinder/internal/store"
	"github.com/sadopc/grinder/internal/timelog"
)

var (
	ErrNotRecording     = errors.New("not recording")
	ErrAlreadyRecording = errors.New("already recording")
	ErrNothingPending   = errors.New("no stopped interval to commit")
	ErrInvalidInterval  = errors.New("interval must end after it starts")
)

// State of the recorder.
type State int

const (
	Idle State = iota
	Running
	Pending // stopped, waiting for commit or ignore
)

func (s State) String() string {
	switch s {
	case Running:
		return "recording"
	case Pending:
		return "pending"
	}
	return "idle"
}

// Status is a snapshot of the recorder.
type Status struct {
	State    State
	Interval *store.Interval // nil when idle
	Elapsed  time.Duration
	LastTask string
	Today    time.Duration // committed time since midnight
}

type Recorder struct {
	store   *store.Store
	logPath string
	now     func() time.Time
}

type Option func(*Recorder)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

func New(st *store.Store, logPath string, opts ...Option) *Recorder {
	r := &Recorder{store: st, logPath: logPath, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Recorder) LogPath() string { return r.logPath }

// clock drops sub-second precision, which the store does not keep.
func (r *Recorder) clock() time.Time { return r.now().Truncate(time.Second) }

func stateOf(iv *store.Interval) State {
	switch {
	case iv == nil:
		return Idle
	case iv.Status == store.StatusRunning:
		return Running
	default:
		return Pending
	}
}

func (r *Recorder) Status() (Status, error) {
	iv, err := r.store.GetOpenInterval()
	if err != nil {
		return Status{}, err
	}
	st := Status{State: stateOf(iv), Interval: iv}
	switch st.State {
	case Running:
		st.Elapsed = r.clock().Sub(iv.Start)
	case Pending:
		st.Elapsed = iv.Duration()
	}

	if st.LastTask, err = r.store.GetSetting(store.SettingLastTask); err != nil {
		return Status{}, err
	}

	now := r.clock()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if st.Today, err = r.store.CommittedDuration(midnight, midnight.AddDate(0, 0, 1)); err != nil {
		return Status{}, err
	}
	return st, nil
}

// Start opens a new interval now.
func (r *Recorder) Start() (*store.Interval, error) {
	iv, err := r.store.GetOpenInterval()
	if err != nil {
		return nil, err
	}
	switch stateOf(iv) {
	case Running:
		return nil, fmt.Errorf("%w since %s", ErrAlreadyRecording, iv.Start.Format(timelog.ClockLayout))
	case Pending:
		return nil, fmt.Errorf("%w: commit or ignore the stopped interval first", ErrAlreadyRecording)
	}
	return r.store.StartInterval(r.clock())
}

// Stop closes the running interval. The result is pending until Commit or
// Ignore.
func (r *Recorder) Stop() (*store.Interval, error) {
	iv, err := r.store.GetOpenInterval()
	if err != nil {
		return nil, err
	}
	if stateOf(iv) != Running {
		return nil, ErrNotRecording
	}
	return r.store.StopInterval(iv.ID, r.clock())
}

// Toggle starts when idle and stops when running.
func (r *Recorder) Toggle() (Status, error) {
	st, err := r.Status()
	if err != nil {
		return Status{}, err
	}
	switch st.State {
	case Idle:
		_, err = r.Start()
	case Running:
		_, err = r.Stop()
	default:
		err = fmt.Errorf("%w: commit or ignore the stopped interval first", ErrAlreadyRecording)
	}
	if err != nil {
		return st, err
	}
	return r.Status()
}

// Pending returns the stopped interval waiting for a decision.
func (r *Recorder) Pending() (*store.Interval, error) {
	iv, err := r.store.GetOpenInterval()
	if err != nil {
		return nil, err
	}
	if stateOf(iv) != Pending {
		return nil, ErrNothingPending
	}
	return iv, nil
}

// Commit books the pending interval under task, with the bounds possibly
// edited by the user, and appends it to the log.
func (r *Recorder) Commit(task string, from, to time.Time) (timelog.Entry, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return timelog.Entry{}, timelog.ErrEmptyTask
	}
	if !from.Before(to) {
		return timelog.Entry{}, fmt.Errorf("%w: %s - %s", ErrInvalidInterval,
			from.Format(timelog.ClockLayout), to.Format(timelog.ClockLayout))
	}
	iv, err := r.Pending()
	if err != nil {
		return timelog.Entry{}, err
	}

	e := timelog.NewEntry(from, to, task)
	if err := timelog.Append(r.logPath, e); err != nil {
		return timelog.Entry{}, err
	}
	if err := r.store.ResolveInterval(iv.ID, store.StatusCommitted, task, from, to); err != nil {
		return e, err
	}
	if err := r.store.TouchTask(task, r.clock()); err != nil {
		return e, err
	}
	return e, r.store.SetSetting(store.SettingLastTask, task)
}

// Ignore discards the pending interval.
func (r *Recorder) Ignore() error {
	iv, err := r.Pending()
	if err != nil {
		return err
	}
	return r.store.ResolveInterval(iv.ID, store.StatusIgnored, "", iv.Start, *iv.Stop)
}

// TaskNames lists known task names, most recently used first. The first
// call imports the names already present in the log.
func (r *Recorder) TaskNames() ([]string, error) {
	seeded, err := r.store.GetSetting(store.SettingTasksSeeded)
	if err != nil {
		return nil, err
	}
	if seeded != "1" {
		if err := r.SyncTasks(); err != nil {
			return nil, err
		}
	}

	tasks, err := r.store.ListTasks(0)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Name
	}
	return names, nil
}

// SyncTasks adds the log's task names to the history. Names logged later
// rank as more recent.
func (r *Recorder) SyncTasks() error {
	snap := timelog.Load(r.logPath)
	logged := snap.Totals.Tasks()
	for i, j := 0, len(logged)-1; i < j; i, j = i+1, j-1 {
		logged[i], logged[j] = logged[j], logged[i]
	}
	if err := r.store.SeedTasks(logged, r.clock().Add(-time.Hour)); err != nil {
		return err
	}
	return r.store.SetSetting(store.SettingTasksSeeded, "1")
}
