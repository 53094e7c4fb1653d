package tui

import (
	"time"

	"github.com/sadopc/grinder/internal/recorder"
)

// timerModel mirrors the recorder's open interval for display. The recorder
// owns the state; the timer only follows it between ticks.
type timerModel struct {
	state     recorder.State
	startTime time.Time
	stopTime  time.Time
	elapsed   time.Duration
	now       func() time.Time
}

func newTimerModel() timerModel {
	return timerModel{state: recorder.Idle, now: time.Now}
}

// sync adopts a fresh recorder status.
func (t *timerModel) sync(st recorder.Status) {
	t.state = st.State
	t.elapsed = st.Elapsed
	t.startTime, t.stopTime = time.Time{}, time.Time{}
	if st.Interval == nil {
		return
	}
	t.startTime = st.Interval.Start
	if st.Interval.Stop != nil {
		t.stopTime = *st.Interval.Stop
	}
}

func (t *timerModel) tick(now time.Time) {
	if t.state == recorder.Running {
		t.elapsed = now.Sub(t.startTime)
	}
}

func (t timerModel) running() bool { return t.state == recorder.Running }

func (t timerModel) pending() bool { return t.state == recorder.Pending }

func (t timerModel) currentElapsed() time.Duration {
	switch t.state {
	case recorder.Running:
		return t.now().Sub(t.startTime)
	case recorder.Pending:
		return t.stopTime.Sub(t.startTime)
	}
	return 0
}
