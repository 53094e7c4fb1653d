package recorder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/grinder/internal/store"
	"github.com/sadopc/grinder/internal/timelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRecorder(t *testing.T) (*Recorder, *fakeClock, string) {
	t.Helper()
	st, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := &fakeClock{t: time.Date(2024, 1, 3, 9, 5, 0, 0, time.Local)}
	path := filepath.Join(t.TempDir(), "Documents", "TimeTrack.txt")
	return New(st, path, WithClock(clock.now)), clock, path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestRecordAndCommit(t *testing.T) {
	r, clock, path := newTestRecorder(t)

	iv, err := r.Start()
	require.NoError(t, err)
	clock.advance(95 * time.Minute)

	st, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, Running, st.State)
	assert.Equal(t, 95*time.Minute, st.Elapsed)

	stopped, err := r.Stop()
	require.NoError(t, err)
	assert.Equal(t, iv.ID, stopped.ID)

	e, err := r.Commit("Meeting", stopped.Start, *stopped.Stop)
	require.NoError(t, err)
	assert.Equal(t, 95, e.Minutes)
	assert.Equal(t, []string{"2024/01/03|09:05|10:40|95|1.58|Meeting"}, readLines(t, path))

	st, err = r.Status()
	require.NoError(t, err)
	assert.Equal(t, Idle, st.State)
	assert.Equal(t, "Meeting", st.LastTask)
	assert.Equal(t, 95*time.Minute, st.Today)
}

func TestCommitWithEditedBounds(t *testing.T) {
	r, clock, path := newTestRecorder(t)
	_, err := r.Start()
	require.NoError(t, err)
	clock.advance(time.Hour)
	_, err = r.Stop()
	require.NoError(t, err)

	from := time.Date(2024, 1, 3, 8, 0, 0, 0, time.Local)
	to := time.Date(2024, 1, 3, 8, 30, 0, 0, time.Local)
	_, err = r.Commit("  Dev  ", from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024/01/03|08:00|08:30|30|0.50|Dev"}, readLines(t, path))
}

func TestCommitAppendsOnly(t *testing.T) {
	r, clock, path := newTestRecorder(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("2024/01/02|09:00|10:00|60|1.00|Dev\n"), 0o644))

	r.Start()
	clock.advance(30 * time.Minute)
	iv, _ := r.Stop()
	_, err := r.Commit("Dev", iv.Start, *iv.Stop)
	require.NoError(t, err)

	snap := timelog.Load(path)
	require.Empty(t, snap.Diagnostics)
	assert.Len(t, readLines(t, path), 2)
	assert.Equal(t, 30, snap.Totals.Minutes(iv.Start, "Dev"))
}

func TestStartTwice(t *testing.T) {
	r, _, _ := newTestRecorder(t)
	_, err := r.Start()
	require.NoError(t, err)
	_, err = r.Start()
	assert.ErrorIs(t, err, ErrAlreadyRecording)
}

func TestStartWhilePending(t *testing.T) {
	r, clock, _ := newTestRecorder(t)
	r.Start()
	clock.advance(time.Minute)
	r.Stop()

	_, err := r.Start()
	assert.ErrorIs(t, err, ErrAlreadyRecording)
}

func TestStopWhenIdle(t *testing.T) {
	r, _, _ := newTestRecorder(t)
	_, err := r.Stop()
	assert.ErrorIs(t, err, ErrNotRecording)
}

func TestCommitValidation(t *testing.T) {
	r, clock, path := newTestRecorder(t)
	r.Start()
	clock.advance(time.Hour)
	iv, err := r.Stop()
	require.NoError(t, err)

	_, err = r.Commit("   ", iv.Start, *iv.Stop)
	assert.ErrorIs(t, err, timelog.ErrEmptyTask)

	_, err = r.Commit("Dev", *iv.Stop, iv.Start)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = r.Commit("Dev", iv.Start, iv.Start)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = r.Commit("Dev\nInjected", iv.Start, *iv.Stop)
	assert.ErrorIs(t, err, timelog.ErrInvalidTask)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing should be logged")

	st, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, Pending, st.State)
}

func TestCommitWithoutPending(t *testing.T) {
	r, clock, _ := newTestRecorder(t)
	from := clock.now()
	_, err := r.Commit("Dev", from, from.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNothingPending)

	r.Start()
	_, err = r.Commit("Dev", from, from.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestIgnore(t *testing.T) {
	r, clock, path := newTestRecorder(t)
	r.Start()
	clock.advance(time.Hour)
	r.Stop()

	require.NoError(t, r.Ignore())
	st, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, Idle, st.State)
	assert.Equal(t, time.Duration(0), st.Today)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	assert.ErrorIs(t, r.Ignore(), ErrNothingPending)
}

func TestToggle(t *testing.T) {
	r, clock, _ := newTestRecorder(t)

	st, err := r.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Running, st.State)

	clock.advance(10 * time.Minute)
	st, err = r.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Pending, st.State)
	assert.Equal(t, 10*time.Minute, st.Elapsed)

	_, err = r.Toggle()
	assert.ErrorIs(t, err, ErrAlreadyRecording)
}

func TestTaskNamesSeededFromLog(t *testing.T) {
	r, clock, path := newTestRecorder(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(
		"2024/01/01|09:00|10:00|60|1.00|Dev\n"+
			"2024/01/01|10:00|11:00|60|1.00|Meeting\n"+
			"2024/01/02|09:00|10:00|60|1.00|Review\n"), 0o644))

	names, err := r.TaskNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Review", "Meeting", "Dev"}, names)

	r.Start()
	clock.advance(time.Hour)
	iv, _ := r.Stop()
	_, err = r.Commit("Dev", iv.Start, *iv.Stop)
	require.NoError(t, err)

	names, err = r.TaskNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Dev", "Review", "Meeting"}, names)
}

func TestTaskNamesEmptyLog(t *testing.T) {
	r, _, _ := newTestRecorder(t)
	names, err := r.TaskNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "recording", Running.String())
	assert.Equal(t, "pending", Pending.String())
}
