package week

// joinState is the two-click join protocol: idle, or waiting for a second
// row to merge into a chosen target.
type joinState interface{ isJoinState() }

type joinIdle struct{}

type joinPending struct{ target int }

func (joinIdle) isJoinState()    {}
func (joinPending) isJoinState() {}

// JoinResult tells the caller what a Join click did.
type JoinResult int

const (
	JoinIgnored JoinResult = iota
	JoinPending
	JoinMerged
)

func (r JoinResult) String() string {
	switch r {
	case JoinPending:
		return "pending"
	case JoinMerged:
		return "merged"
	}
	return "ignored"
}

// SetJoining switches join mode. Any pending target is forgotten.
func (v *View) SetJoining(on bool) {
	v.joining = on
	v.join = joinIdle{}
}

func (v *View) Joining() bool { return v.joining }

// PendingTarget returns the row waiting to receive a join, if any.
func (v *View) PendingTarget() (int, bool) {
	if p, ok := v.join.(joinPending); ok {
		return p.target, true
	}
	return 0, false
}

// Join handles a row click in join mode. The first click picks the target,
// clicking the target again keeps waiting, and a click on another row merges
// it into the target. Clicks outside join mode or on the totals row are ignored.
func (v *View) Join(index int) JoinResult {
	if !v.joining || !v.isTaskRow(index) {
		return JoinIgnored
	}
	switch s := v.join.(type) {
	case joinPending:
		if s.target == index {
			return JoinPending
		}
		v.Merge(s.target, index)
		return JoinMerged
	default:
		v.join = joinPending{target: index}
		return JoinPending
	}
}
