package rebalance

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/grinder/internal/timelog"
	"github.com/sadopc/grinder/internal/week"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// line logs hours of task on day d of the test week.
func line(d week.Day, hours int, task string) string {
	date := week.Date(monday, d).Format(timelog.DateLayout)
	return fmt.Sprintf("%s|09:00|09:00|%d|%d.00|%s", date, hours*60, hours, task)
}

func newView(t *testing.T, lines ...string) *week.View {
	t.Helper()
	snap := timelog.Read(strings.NewReader(strings.Join(lines, "\n")))
	require.Empty(t, snap.Diagnostics)
	return week.NewView(snap.Totals, monday)
}

func dayTotalStrings(v *week.View) []string {
	totals := v.DayTotals()
	out := make([]string, 0, len(totals))
	for _, h := range totals {
		out = append(out, h.StringFixed(2))
	}
	return out
}

func rowStrings(v *week.View) map[string][]string {
	out := make(map[string][]string)
	for _, r := range v.Records() {
		var cells []string
		for _, d := range week.AllDays() {
			cells = append(cells, r.DayString(d))
		}
		out[r.TaskName()] = cells
	}
	return out
}

func weeklyByTask(v *week.View) map[string]string {
	out := make(map[string]string)
	for _, r := range v.Records() {
		out[r.TaskName()] = r.WeeklyString()
	}
	return out
}

func assertTotalsConsistent(t *testing.T, v *week.View) {
	t.Helper()
	recs := v.Records()
	totals := recs[len(recs)-1]
	require.True(t, totals.IsTotals())
	for _, d := range week.AllDays() {
		sum := decimal.Zero
		for _, r := range recs[:len(recs)-1] {
			sum = sum.Add(r.Hours(d))
		}
		assert.True(t, sum.Equal(totals.Hours(d)), "day %s", d)
	}
}

// fourLongDays is 10h Monday to Thursday with two tasks on Monday.
func fourLongDays(t *testing.T) *week.View {
	return newView(t,
		line(week.Monday, 6, "Dev"),
		line(week.Monday, 4, "Meeting"),
		line(week.Tuesday, 10, "Dev"),
		line(week.Wednesday, 10, "Dev"),
		line(week.Thursday, 10, "Dev"),
	)
}

// ---------------------------------------------------------------------------
// Equalize
// ---------------------------------------------------------------------------

func TestEqualizeFillsFriday(t *testing.T) {
	v := fourLongDays(t)
	before := weeklyByTask(v)

	require.NoError(t, New(DefaultPolicy()).Equalize(v))

	assert.Equal(t, []string{"8.00", "8.00", "8.00", "8.00", "8.00", "0.00", "0.00"}, dayTotalStrings(v))
	assert.Equal(t, before, weeklyByTask(v))
	assert.Equal(t, "40.00", v.Totals().WeeklyString())
	assertTotalsConsistent(t, v)

	rows := rowStrings(v)
	assert.Equal(t, []string{"4.00", "8.00", "8.00", "8.00", "8.00", "0.00", "0.00"}, rows["Dev"])
	assert.Equal(t, []string{"4.00", "0.00", "0.00", "0.00", "0.00", "0.00", "0.00"}, rows["Meeting"])
	assert.True(t, v.Edited())
}

func TestEqualizeIdempotent(t *testing.T) {
	v := fourLongDays(t)
	b := New(DefaultPolicy())
	require.NoError(t, b.Equalize(v))
	first := rowStrings(v)

	require.NoError(t, b.Equalize(v))
	assert.Equal(t, first, rowStrings(v))
}

func TestEqualizeUsesWeekendHours(t *testing.T) {
	v := newView(t,
		line(week.Monday, 8, "Dev"),
		line(week.Tuesday, 8, "Dev"),
		line(week.Wednesday, 8, "Dev"),
		line(week.Thursday, 8, "Dev"),
		line(week.Friday, 2, "Dev"),
		line(week.Saturday, 4, "Dev"),
		line(week.Sunday, 3, "Ops"),
	)
	require.NoError(t, New(DefaultPolicy()).Equalize(v))

	assert.Equal(t, []string{"8.00", "8.00", "8.00", "8.00", "8.00", "0.00", "1.00"}, dayTotalStrings(v))
	rows := rowStrings(v)
	assert.Equal(t, []string{"8.00", "8.00", "8.00", "8.00", "6.00", "0.00", "0.00"}, rows["Dev"])
	assert.Equal(t, []string{"0.00", "0.00", "0.00", "0.00", "2.00", "0.00", "1.00"}, rows["Ops"])
	assertTotalsConsistent(t, v)
}

func TestEqualizeProvenanceFollowsMovedHours(t *testing.T) {
	v := fourLongDays(t)
	v.SetJoining(true)
	require.Equal(t, week.JoinPending, v.Join(0))
	require.Equal(t, week.JoinMerged, v.Join(1))

	require.NoError(t, New(DefaultPolicy()).Equalize(v))

	merged, ok := v.Record(0)
	require.True(t, ok)
	assert.Equal(t, "Dev + Meeting", merged.TaskName())
	assert.Equal(t, "8.00", merged.DayString(week.Friday))
	assert.Equal(t, []string{"8.00: Dev"}, merged.PartialDescriptions(week.Friday))
	assert.Equal(t, []string{"4.00: Dev", "4.00: Meeting"}, merged.PartialDescriptions(week.Monday))
}

func TestEqualizeInsufficientSurplus(t *testing.T) {
	v := newView(t,
		line(week.Monday, 9, "Dev"),
		line(week.Saturday, 2, "Dev"),
	)
	before := rowStrings(v)

	err := New(DefaultPolicy()).Equalize(v)
	assert.ErrorIs(t, err, ErrInsufficientSurplus)
	assert.Equal(t, before, rowStrings(v))
	assert.False(t, v.Edited())
}

func TestEqualizeCustomWorkday(t *testing.T) {
	v := fourLongDays(t)
	p := DefaultPolicy()
	p.WorkdayHours = decimal.NewFromInt(6)
	require.NoError(t, New(p).Equalize(v))
	assert.Equal(t, []string{"6.00", "8.00", "10.00", "10.00", "6.00", "0.00", "0.00"}, dayTotalStrings(v))
	assertTotalsConsistent(t, v)
}

func TestEqualizeEmptyWeek(t *testing.T) {
	v := week.NewView(nil, monday)
	err := New(DefaultPolicy()).Equalize(v)
	assert.ErrorIs(t, err, ErrInsufficientSurplus)
}

// ---------------------------------------------------------------------------
// EliminateWeekend
// ---------------------------------------------------------------------------

func TestEliminateWeekend(t *testing.T) {
	v := newView(t,
		line(week.Monday, 20, "Dev"),
		line(week.Saturday, 6, "Dev"),
		line(week.Sunday, 2, "Dev"),
		line(week.Friday, 22, "Meeting"),
		line(week.Saturday, 4, "Meeting"),
	)
	before := weeklyByTask(v)

	require.NoError(t, New(DefaultPolicy()).EliminateWeekend(v))

	assert.Equal(t, []string{"20.00", "0.00", "0.00", "10.00", "24.00", "0.00", "0.00"}, dayTotalStrings(v))
	rows := rowStrings(v)
	assert.Equal(t, []string{"20.00", "0.00", "0.00", "6.00", "2.00", "0.00", "0.00"}, rows["Dev"])
	assert.Equal(t, []string{"0.00", "0.00", "0.00", "4.00", "22.00", "0.00", "0.00"}, rows["Meeting"])
	assert.Equal(t, before, weeklyByTask(v))
	assertTotalsConsistent(t, v)
}

func TestEliminateWeekendNoWeekendHours(t *testing.T) {
	v := fourLongDays(t)
	before := rowStrings(v)
	require.NoError(t, New(DefaultPolicy()).EliminateWeekend(v))
	assert.Equal(t, before, rowStrings(v))
	assert.False(t, v.Edited())
}

func TestEliminateWeekendIdempotent(t *testing.T) {
	v := newView(t,
		line(week.Wednesday, 5, "Dev"),
		line(week.Sunday, 3, "Dev"),
	)
	b := New(DefaultPolicy())
	require.NoError(t, b.EliminateWeekend(v))
	first := rowStrings(v)
	assert.Equal(t, []string{"0.00", "0.00", "5.00", "0.00", "3.00", "0.00", "0.00"}, first["Dev"])

	require.NoError(t, b.EliminateWeekend(v))
	assert.Equal(t, first, rowStrings(v))
}

func TestEliminateWeekendOverCapacity(t *testing.T) {
	v := newView(t,
		line(week.Monday, 8, "Dev"),
		line(week.Tuesday, 8, "Dev"),
		line(week.Saturday, 30, "Dev"),
	)
	before := rowStrings(v)

	p := DefaultPolicy()
	p.DailyCap = decimal.NewFromInt(9)
	err := New(p).EliminateWeekend(v)
	assert.ErrorIs(t, err, ErrOverCapacity)
	assert.Equal(t, before, rowStrings(v))
	assert.False(t, v.Edited())
}

func TestEliminateWeekendRespectsCap(t *testing.T) {
	v := newView(t,
		line(week.Monday, 10, "Dev"),
		line(week.Tuesday, 10, "Dev"),
		line(week.Wednesday, 10, "Dev"),
		line(week.Thursday, 10, "Dev"),
		line(week.Friday, 10, "Dev"),
		line(week.Saturday, 12, "Dev"),
		line(week.Sunday, 12, "Ops"),
	)
	p := DefaultPolicy()
	p.DailyCap = decimal.NewFromInt(16)
	require.NoError(t, New(p).EliminateWeekend(v))

	assert.Equal(t, []string{"10.00", "16.00", "16.00", "16.00", "16.00", "0.00", "0.00"}, dayTotalStrings(v))
	for _, d := range week.Workdays {
		assert.False(t, v.Totals().Hours(d).GreaterThan(p.DailyCap))
	}
	assertTotalsConsistent(t, v)
}
