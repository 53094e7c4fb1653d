package timelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "TimeTrack.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// ============================================================
// Parsing
// ============================================================

func TestParseLine(t *testing.T) {
	e, err := ParseLine("2024/01/01|09:00|17:00|480|8.00|Dev")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 1), e.Date)
	assert.Equal(t, "09:00", e.Start)
	assert.Equal(t, "17:00", e.Stop)
	assert.Equal(t, 480, e.Minutes)
	assert.Equal(t, "Dev", e.Task)
}

func TestParseLineTaskWithSeparator(t *testing.T) {
	e, err := ParseLine("2024/01/01|09:00|10:00|60|1.00|Dev | review")
	require.NoError(t, err)
	assert.Equal(t, "Dev | review", e.Task)
}

func TestParseLineErrors(t *testing.T) {
	cases := map[string]string{
		"too few columns": "2024/01/01|09:00|17:00|480|8.00",
		"bad date":        "yesterday|09:00|17:00|480|8.00|Dev",
		"bad minutes":     "2024/01/01|09:00|17:00|eight|8.00|Dev",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLine(line)
			assert.Error(t, err)
		})
	}
}

func TestHoursFieldIgnored(t *testing.T) {
	e, err := ParseLine("2024/01/01|09:00|09:20|20|99.99|Dev")
	require.NoError(t, err)
	assert.True(t, e.Hours().Equal(decimal.RequireFromString("0.33")))
}

func TestMinutesToHoursRounding(t *testing.T) {
	assert.Equal(t, "0.33", MinutesToHours(20).StringFixed(2))
	assert.Equal(t, "0.67", MinutesToHours(40).StringFixed(2))
	assert.Equal(t, "10.00", MinutesToHours(600).StringFixed(2))
	assert.Equal(t, "0.03", MinutesToHours(2).StringFixed(2))
}

func TestEntryLine(t *testing.T) {
	from := time.Date(2024, 1, 3, 9, 5, 0, 0, time.Local)
	to := from.Add(95 * time.Minute)
	e := NewEntry(from, to, "Meeting")
	assert.Equal(t, "2024/01/03|09:05|10:40|95|1.58|Meeting", e.Line())
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024/01/03", "2024/1/3", "2024-01-03", "2024-1-03", " 2024.01.03 "} {
		d, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, date(2024, 1, 3), d)
	}
	_, err := ParseDate("03/01/2024")
	assert.Error(t, err)
}

func TestAtClock(t *testing.T) {
	day := time.Date(2024, 1, 3, 17, 45, 12, 0, time.Local)
	at, err := AtClock(day, "08:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 3, 8, 30, 0, 0, time.Local), at)

	_, err = AtClock(day, "8.30")
	assert.Error(t, err)
}

func TestWeekStart(t *testing.T) {
	monday := date(2024, 1, 1)
	for i := 0; i < 7; i++ {
		assert.Equal(t, monday, WeekStart(monday.AddDate(0, 0, i)))
	}
	assert.Equal(t, date(2024, 1, 8), WeekStart(date(2024, 1, 8)))
	assert.Equal(t, date(2023, 12, 25), WeekStart(date(2023, 12, 31)))
}

// ============================================================
// Loading
// ============================================================

func TestLoadSumsRepeatedEntries(t *testing.T) {
	path := writeLog(t,
		"2024/01/01|09:00|17:00|480|8.00|Dev",
		"2024/01/01|18:00|20:00|120|2.00|Dev",
	)
	snap := Load(path)
	require.Empty(t, snap.Diagnostics)
	assert.Equal(t, 1, snap.Totals.Len())
	assert.Equal(t, 600, snap.Totals.Minutes(date(2024, 1, 1), "Dev"))
	assert.Equal(t, "10.00", snap.Totals.Hours(date(2024, 1, 1), "Dev").StringFixed(2))
}

func TestLoadNegativeCorrection(t *testing.T) {
	path := writeLog(t,
		"2024/01/01|09:00|17:00|480|8.00|Dev",
		"2024/01/01|00:00|00:00|-60|-1.00|Dev",
	)
	snap := Load(path)
	require.Empty(t, snap.Diagnostics)
	assert.Equal(t, 420, snap.Totals.Minutes(date(2024, 1, 1), "Dev"))
	assert.Equal(t, "7.00", snap.Totals.Hours(date(2024, 1, 1), "Dev").StringFixed(2))
}

func TestLoadUnpaddedDate(t *testing.T) {
	path := writeLog(t, "2024/1/5|09:00|10:00|60|1.00|Dev")
	snap := Load(path)
	require.Empty(t, snap.Diagnostics)
	assert.Equal(t, 60, snap.Totals.Minutes(date(2024, 1, 5), "Dev"))
}

func TestLoadMissingFile(t *testing.T) {
	snap := Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Empty(t, snap.Diagnostics)
	assert.Equal(t, 0, snap.Totals.Len())
	assert.Empty(t, snap.Weeks)
	assert.Equal(t, "", snap.Errors())
}

func TestLoadUnreadableIsSingleDiagnostic(t *testing.T) {
	// A directory cannot be read as a file.
	snap := Load(t.TempDir())
	require.Len(t, snap.Diagnostics, 1)
	assert.Equal(t, 0, snap.Diagnostics[0].Line)
	assert.Equal(t, 0, snap.Totals.Len())
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := writeLog(t,
		"2024/01/01|09:00|17:00|480|8.00|Dev",
		"",
		"garbage",
		"2024/13/45|09:00|17:00|480|8.00|Dev",
		"2024/01/02|09:00|10:00|60|1.00|Meeting",
	)
	snap := Load(path)
	require.Len(t, snap.Diagnostics, 2)
	assert.Equal(t, 3, snap.Diagnostics[0].Line)
	assert.Equal(t, 4, snap.Diagnostics[1].Line)
	assert.Contains(t, snap.Diagnostics[0].String(), "Line #3: garbage")
	assert.Equal(t, 2, snap.Totals.Len())
	assert.Equal(t, []string{"Dev", "Meeting"}, snap.Totals.Tasks())
}

func TestLoadWeeksAscending(t *testing.T) {
	path := writeLog(t,
		"2024/01/10|09:00|10:00|60|1.00|A",
		"2024/01/02|09:00|10:00|60|1.00|A",
		"2024/01/07|09:00|10:00|60|1.00|B",
		"2023/12/31|09:00|10:00|60|1.00|B",
	)
	snap := Load(path)
	assert.Equal(t, []time.Time{date(2023, 12, 25), date(2024, 1, 1), date(2024, 1, 8)}, snap.Weeks)
}

func TestLoadCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("2024/01/01|09:00|10:00|60|1.00|Dev\r\n"), 0o644))
	snap := Load(path)
	require.Empty(t, snap.Diagnostics)
	assert.Equal(t, 60, snap.Totals.Minutes(date(2024, 1, 1), "Dev"))
}

// ============================================================
// Append / Clear
// ============================================================

func TestAppendRoundTrip(t *testing.T) {
	path := writeLog(t,
		"2024/01/01|09:00|17:00|480|8.00|Dev",
		"2024/01/02|09:00|10:00|60|1.00|Meeting",
	)
	before := Load(path).Totals

	from := time.Date(2024, 1, 1, 18, 0, 0, 0, time.Local)
	e := NewEntry(from, from.Add(45*time.Minute), "Dev")
	require.NoError(t, Append(path, e))

	after := Load(path).Totals
	assert.Equal(t, before.Minutes(date(2024, 1, 1), "Dev")+45, after.Minutes(date(2024, 1, 1), "Dev"))
	assert.Equal(t, before.Minutes(date(2024, 1, 2), "Meeting"), after.Minutes(date(2024, 1, 2), "Meeting"))
}

func TestAppendCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "log.txt")
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	require.NoError(t, Append(path, NewEntry(now, now.Add(time.Hour), "Dev")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2024/01/01|09:00|10:00|60|1.00|Dev\n", string(data))
}

func TestAppendRejectsBadTask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	now := time.Now()
	assert.ErrorIs(t, Append(path, NewEntry(now, now, "  ")), ErrEmptyTask)
	assert.ErrorIs(t, Append(path, NewEntry(now, now, "a\nb")), ErrInvalidTask)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestClearKeepTaskNames(t *testing.T) {
	path := writeLog(t,
		"2024/01/01|09:00|17:00|480|8.00|Dev",
		"2024/01/02|09:00|10:00|60|1.00|Meeting",
		"2024/01/03|09:00|10:00|60|1.00|Dev",
	)
	now := time.Date(2024, 2, 5, 12, 30, 0, 0, time.Local)
	require.NoError(t, Clear(path, true, now))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{
		"2024/02/05|12:30|12:30|0|0.00|Dev",
		"2024/02/05|12:30|12:30|0|0.00|Meeting",
	}, lines)

	snap := Load(path)
	assert.Empty(t, snap.Diagnostics)
	assert.Equal(t, []string{"Dev", "Meeting"}, snap.Totals.Tasks())
	for _, k := range snap.Totals.Keys() {
		assert.Equal(t, 0, snap.Totals.Minutes(k.Date, k.Task))
	}
}

func TestClearWithoutKeeping(t *testing.T) {
	path := writeLog(t, "2024/01/01|09:00|17:00|480|8.00|Dev")
	require.NoError(t, Clear(path, false, time.Now()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestClearMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, Clear(path, true, time.Now()))
	assert.Equal(t, 0, Load(path).Totals.Len())
}

func TestClearUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "log.txt")
	assert.Error(t, Clear(path, false, time.Now()))
}
