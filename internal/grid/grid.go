package grid

import (
	"time"

	"github.com/sandeepkv93/planner/internal/model"
)

const (
	DefaultGranularity = 30
	DefaultDayStart    = 6
	DefaultDayEnd      = 24
)

// Toggle switches between the two supported granularities.
func Toggle(minutes int) int {
	if minutes == 15 {
		return 30
	}
	return 15
}

type Options struct {
	Start time.Time
	Days  int
	// Granularity is the slot length in minutes, 15 or 30.
	Granularity int
	// DayStart and DayEnd bound the window in hours. Zero means the default
	// 06:00-24:00 window.
	DayStart int
	DayEnd   int
	Now      time.Time
}

func (o Options) normalized() Options {
	if o.Days <= 0 {
		o.Days = 7
	}
	if o.Granularity != 15 && o.Granularity != 30 {
		o.Granularity = DefaultGranularity
	}
	if o.DayStart <= 0 || o.DayStart > 23 {
		o.DayStart = DefaultDayStart
	}
	if o.DayEnd <= o.DayStart || o.DayEnd > 24 {
		o.DayEnd = DefaultDayEnd
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

type Kind int

const (
	KindEmpty Kind = iota
	// KindStart is the first slot of an event and carries its title.
	KindStart
	// KindContinuation is a following slot of the same event.
	KindContinuation
)

type Cell struct {
	Kind    Kind
	Title   string
	EventID string
	Status  model.Status
}

type Column struct {
	Date  time.Time
	Today bool
}

type Row struct {
	// Offset is the slot start measured from midnight.
	Offset time.Duration
	// Current marks the slot containing Now on today's column.
	Current bool
	Cells   []Cell
}

func (r Row) Label() string {
	return model.Clock(r.Offset / time.Minute).String()
}

type Grid struct {
	Granularity int
	Columns     []Column
	Rows        []Row
}

// Build lays events over a grid of slots. A slot is occupied by an event when
// the event starts on the column's date and start <= slot < end; the first
// such event in slice order wins.
func Build(events []model.Event, opts Options) Grid {
	opts = opts.normalized()
	step := time.Duration(opts.Granularity) * time.Minute

	g := Grid{Granularity: opts.Granularity}
	first := model.WeekStart(opts.Start)
	if opts.Days != 7 {
		y, m, d := opts.Start.Date()
		first = time.Date(y, m, d, 0, 0, 0, 0, opts.Start.Location())
	}
	for i := 0; i < opts.Days; i++ {
		date := first.AddDate(0, 0, i)
		g.Columns = append(g.Columns, Column{Date: date, Today: model.SameDate(date, opts.Now)})
	}

	// Events are bucketed per column once; slot lookups then scan a day.
	byColumn := make([][]int, len(g.Columns))
	for idx, ev := range events {
		for c, col := range g.Columns {
			if model.SameDate(ev.Start, col.Date) {
				byColumn[c] = append(byColumn[c], idx)
				break
			}
		}
	}

	prev := make([]int, len(g.Columns))
	for c := range prev {
		prev[c] = -1
	}
	for off := time.Duration(opts.DayStart) * time.Hour; off < time.Duration(opts.DayEnd)*time.Hour; off += step {
		row := Row{Offset: off, Cells: make([]Cell, len(g.Columns))}
		for c, col := range g.Columns {
			slot := model.Clock(off / time.Minute).On(col.Date)
			if col.Today && !opts.Now.Before(slot) && opts.Now.Before(slot.Add(step)) {
				row.Current = true
			}
			occupant := -1
			for _, idx := range byColumn[c] {
				ev := events[idx]
				if !slot.Before(ev.Start) && slot.Before(ev.End) {
					occupant = idx
					break
				}
			}
			if occupant < 0 {
				prev[c] = -1
				continue
			}
			ev := events[occupant]
			cell := Cell{Kind: KindStart, Title: ev.Title, EventID: ev.ID, Status: ev.StatusAt(opts.Now)}
			if prev[c] == occupant {
				cell.Kind = KindContinuation
			}
			row.Cells[c] = cell
			prev[c] = occupant
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}
