package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/grinder/internal/config"
	"github.com/sadopc/grinder/internal/rebalance"
	"github.com/sadopc/grinder/internal/report"
	"github.com/sadopc/grinder/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *report.Session {
	t.Helper()
	path := filepath.Join(t.TempDir(), "TimeTrack.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"2024/01/01|09:00|13:00|240|4.00|Dev",
		"2024/01/01|13:00|15:00|120|2.00|Meeting",
		"2024/01/02|09:00|10:00|60|1.00|Review",
	}, "\n")+"\n"), 0o644))
	return report.Open(path, rebalance.DefaultPolicy())
}

func TestParseJoin(t *testing.T) {
	target, source, err := parseJoin("1+3")
	require.NoError(t, err)
	assert.Equal(t, 1, target)
	assert.Equal(t, 3, source)

	for _, bad := range []string{"1", "1+1", "0+2", "a+b", "1-2"} {
		_, _, err := parseJoin(bad)
		assert.Error(t, err, bad)
	}
}

func TestApplyJoins(t *testing.T) {
	sess := newTestSession(t)
	require.NoError(t, applyJoins(sess, []string{"1+3", "1+2"}))

	v := sess.View()
	require.Equal(t, 1, v.TaskRows())
	r, _ := v.Record(0)
	assert.Equal(t, "Dev + Review + Meeting", r.TaskName())
	assert.False(t, v.Joining())
}

func TestApplyJoinsOutOfRange(t *testing.T) {
	sess := newTestSession(t)
	assert.Error(t, applyJoins(sess, []string{"1+4"}))
	assert.Equal(t, 3, sess.View().TaskRows())
}

func TestRebalanceError(t *testing.T) {
	sess := newTestSession(t)
	err := rebalanceError("cannot equalize workdays", sess.Equalize())
	require.Error(t, err)
	assert.ErrorIs(t, err, rebalance.ErrInsufficientSurplus)
	assert.Contains(t, err.Error(), "cannot equalize workdays")
}

func TestWriteWeekFormats(t *testing.T) {
	sess := newTestSession(t)
	t.Cleanup(func() { cfg.Output = "" })

	cfg.Output = config.CSVOut
	var buf bytes.Buffer
	require.NoError(t, writeWeek(&buf, sess))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, "Mon 01", records[0][1])

	cfg.Output = config.JSONOut
	buf.Reset()
	require.NoError(t, writeWeek(&buf, sess))
	assert.Contains(t, buf.String(), `"week_start": "2024/01/01"`)
}

func TestWriteWeekTable(t *testing.T) {
	config.SetColor(false)
	sess := newTestSession(t)
	t.Cleanup(func() { cfg.Output = "" })
	cfg.Output = config.TextOut

	var buf bytes.Buffer
	require.NoError(t, writeWeek(&buf, sess))
	out := buf.String()
	assert.Contains(t, out, "Week from January 01 to January 07")
	assert.Contains(t, out, "Meeting")
	assert.Contains(t, out, "7.00")
	assert.NotContains(t, out, "Edited view")

	require.NoError(t, applyJoins(sess, []string{"1+2"}))
	buf.Reset()
	require.NoError(t, writeWeek(&buf, sess))
	assert.Contains(t, buf.String(), "Edited view")
}

func TestWriteWeekList(t *testing.T) {
	sess := newTestSession(t)
	var buf bytes.Buffer
	require.NoError(t, writeWeekList(&buf, sess))
	assert.Equal(t, "* 2024/01/01  Week from January 01 to January 07\n", buf.String())
}

func TestStopBounds(t *testing.T) {
	start := time.Date(2024, 1, 3, 9, 5, 30, 0, time.Local)
	stop := time.Date(2024, 1, 3, 10, 40, 0, 0, time.Local)
	iv := &store.Interval{Start: start, Stop: &stop}

	from, to, err := stopBounds(iv, "", "")
	require.NoError(t, err)
	assert.Equal(t, start, from)
	assert.Equal(t, stop, to)

	from, to, err = stopBounds(iv, "08:00", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 3, 8, 0, 0, 0, time.Local), from)
	assert.Equal(t, stop, to)

	_, _, err = stopBounds(iv, "", "later")
	assert.Error(t, err)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "1h35m0s (1.58 h)", formatElapsed(95*time.Minute+300*time.Millisecond))
}

func TestExportWeek(t *testing.T) {
	sess := newTestSession(t)
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "week.CSV")
	require.NoError(t, exportWeek(sess.View(), csvPath))
	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	jsonPath := filepath.Join(dir, "week.json")
	require.NoError(t, exportWeek(sess.View(), jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Meeting")

	assert.Error(t, exportWeek(sess.View(), filepath.Join(dir, "week.txt")))
}
