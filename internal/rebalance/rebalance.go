// Package rebalance redistributes a week's hours across days without
// changing any task's weekly total.
package rebalance

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sadopc/grinder/internal/week"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientSurplus = errors.New("not enough surplus hours to fill every workday")
	ErrOverCapacity        = errors.New("weekly hours do not fit into five workdays")
)

// Defaults for Policy.
var (
	DefaultWorkdayHours = decimal.NewFromInt(8)
	DefaultDailyCap     = decimal.NewFromInt(24)
)

// Policy holds the targets of both algorithms.
type Policy struct {
	WorkdayHours decimal.Decimal // minimum per workday for Equalize
	DailyCap     decimal.Decimal // maximum per workday for EliminateWeekend
}

func DefaultPolicy() Policy {
	return Policy{WorkdayHours: DefaultWorkdayHours, DailyCap: DefaultDailyCap}
}

// pool is an ordered set of per-day hour amounts.
type pool struct {
	days   []week.Day
	amount map[week.Day]decimal.Decimal
}

func newPool() *pool { return &pool{amount: make(map[week.Day]decimal.Decimal)} }

func (p *pool) add(d week.Day, h decimal.Decimal) {
	if _, ok := p.amount[d]; !ok {
		p.days = append(p.days, d)
	}
	p.amount[d] = p.amount[d].Add(h)
}

func (p *pool) sum() decimal.Decimal {
	s := decimal.Zero
	for _, d := range p.days {
		s = s.Add(p.amount[d])
	}
	return s
}

func dayTotals(rows []*week.Record) [week.DaysPerWeek]decimal.Decimal {
	var t [week.DaysPerWeek]decimal.Decimal
	for _, r := range rows {
		for d := range t {
			t[d] = t[d].Add(r.Hours(week.Day(d)))
		}
	}
	return t
}

// Equalize brings every workday up to workday hours by moving surplus from
// workdays above the target and from weekend days. Deficit days are filled
// Monday first; for each, rows already holding the most time on that day
// receive first, taking from surplus days in day order. It fails with
// ErrInsufficientSurplus before touching any row when the surplus cannot
// cover every deficit.
func Equalize(rows []*week.Record, workday decimal.Decimal) error {
	totals := dayTotals(rows)
	fund, lacking := newPool(), newPool()
	for _, d := range week.AllDays() {
		h := totals[d]
		switch {
		case d.IsWeekend():
			if h.IsPositive() {
				fund.add(d, h)
			}
		case h.GreaterThan(workday):
			fund.add(d, h.Sub(workday))
		case h.LessThan(workday):
			lacking.add(d, workday.Sub(h))
		}
	}

	if fund.sum().LessThan(lacking.sum()) {
		return fmt.Errorf("%w: %s available, %s needed", ErrInsufficientSurplus,
			fund.sum().StringFixed(2), lacking.sum().StringFixed(2))
	}

	for _, target := range lacking.days {
		need := lacking.amount[target]

		candidates := make([]*week.Record, len(rows))
		copy(candidates, rows)
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Hours(target).GreaterThan(candidates[j].Hours(target))
		})

		for _, r := range candidates {
			for _, from := range fund.days {
				if !need.IsPositive() {
					break
				}
				amt := decimal.Min(r.Hours(from), fund.amount[from], need)
				if !amt.IsPositive() {
					continue
				}
				if err := r.Move(from, target, amt); err != nil {
					return err
				}
				fund.amount[from] = fund.amount[from].Sub(amt)
				need = need.Sub(amt)
			}
			if !need.IsPositive() {
				break
			}
		}
		// Unreachable once the pools balance: the rows together hold every
		// surplus hour. Kept as a guard against a broken pool.
		if need.IsPositive() {
			return fmt.Errorf("%w: %s still missing on %s", ErrInsufficientSurplus, need.StringFixed(2), target)
		}
	}
	return nil
}

// EliminateWeekend moves all Saturday and Sunday hours into workdays,
// filling Friday first and never pushing a workday above dailyCap. It fails
// with ErrOverCapacity before touching any row when the week's total
// exceeds five capped days.
func EliminateWeekend(rows []*week.Record, dailyCap decimal.Decimal) error {
	daily := dayTotals(rows)
	total := decimal.Zero
	for _, h := range daily {
		total = total.Add(h)
	}
	capacity := dailyCap.Mul(decimal.NewFromInt(int64(len(week.Workdays))))
	if total.GreaterThan(capacity) {
		return fmt.Errorf("%w: %s hours, capacity %s", ErrOverCapacity, total.StringFixed(2), capacity.StringFixed(2))
	}
	if daily[week.Saturday].IsZero() && daily[week.Sunday].IsZero() {
		return nil
	}

	for _, r := range rows {
		for _, from := range week.Weekend {
			remaining := r.Hours(from)
			for i := len(week.Workdays) - 1; i >= 0 && remaining.IsPositive(); i-- {
				to := week.Workdays[i]
				amt := decimal.Min(remaining, dailyCap.Sub(daily[to]))
				if !amt.IsPositive() {
					continue
				}
				if err := r.Move(from, to, amt); err != nil {
					return err
				}
				daily[to] = daily[to].Add(amt)
				daily[from] = daily[from].Sub(amt)
				remaining = remaining.Sub(amt)
			}
			if remaining.IsPositive() {
				return fmt.Errorf("%w: %s left on %s for %q", ErrOverCapacity, remaining.StringFixed(2), from, r.TaskName())
			}
		}
	}
	return nil
}

// Balancer applies a Policy to week views. Failed runs leave the view as it was.
type Balancer struct {
	Policy Policy
}

func New(p Policy) *Balancer { return &Balancer{Policy: p} }

// Equalize runs Equalize on the view's task rows.
func (b *Balancer) Equalize(v *week.View) error {
	return v.Rebalance(func(rows []*week.Record) error {
		return Equalize(rows, b.Policy.WorkdayHours)
	})
}

// EliminateWeekend runs EliminateWeekend on the view's task rows.
func (b *Balancer) EliminateWeekend(v *week.View) error {
	return v.Rebalance(func(rows []*week.Record) error {
		return EliminateWeekend(rows, b.Policy.DailyCap)
	})
}
