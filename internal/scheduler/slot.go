package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/planner/internal/model"
)

var (
	ErrNoFreeSlot = errors.New("scheduler: no free slot")
	ErrConflict   = errors.New("scheduler: conflicts with an existing event")
	ErrInPast     = errors.New("scheduler: time has already passed")
	ErrNoDay      = errors.New("scheduler: task has no day assigned")
)

// Policy controls automatic placement. Candidates start at DefaultStart and
// advance by Step; nothing starts later than LatestStart.
type Policy struct {
	DefaultStart model.Clock
	LatestStart  model.Clock
	Step         time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultStart: model.NewClock(9, 0),
		LatestStart:  model.NewClock(23, 0),
		Step:         30 * time.Minute,
	}
}

func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.Step <= 0 {
		p.Step = def.Step
	}
	if p.DefaultStart <= 0 && p.LatestStart <= 0 {
		p.DefaultStart = def.DefaultStart
	}
	if p.LatestStart <= 0 {
		p.LatestStart = def.LatestStart
	}
	return p
}

// FindSlot returns the first start on day at which an interval of length
// overlaps none of events. When day is today the search begins no earlier
// than now, truncated down to the step.
func FindSlot(events []model.Event, day time.Time, length time.Duration, p Policy, now time.Time) (time.Time, error) {
	if length <= 0 {
		return time.Time{}, fmt.Errorf("%w: %s", model.ErrInvalidDuration, length)
	}
	p = p.normalized()
	start := p.DefaultStart.On(day)
	// Candidates stay on the step grid, so the slot containing now is still
	// offered. Explicit times in Schedule get no such alignment and are
	// rejected once passed.
	if model.SameDate(day, now) && now.After(start) {
		start = truncate(now, p.Step)
	}
	latest := p.LatestStart.On(day)
	for ; !start.After(latest); start = start.Add(p.Step) {
		if conflict(events, start, start.Add(length)) == nil {
			return start, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w on %s for %s", ErrNoFreeSlot, day.Format("Monday Jan 2"), length)
}

// conflict returns the first event overlapping [start, end).
func conflict(events []model.Event, start, end time.Time) *model.Event {
	for i := range events {
		if events[i].Overlaps(start, end) {
			return &events[i]
		}
	}
	return nil
}

func truncate(t time.Time, step time.Duration) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	since := t.Sub(midnight)
	return midnight.Add(since - since%step)
}
