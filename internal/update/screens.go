package update

import (
	"errors"
	"time"

	"github.com/sandeepkv93/planner/internal/commands"
	"github.com/sandeepkv93/planner/internal/deadlines"
	"github.com/sandeepkv93/planner/internal/grid"
	"github.com/sandeepkv93/planner/internal/habits"
	"github.com/sandeepkv93/planner/internal/storage"
	"github.com/sandeepkv93/planner/internal/views"
)

// refresh re-reads the stores behind the current screen and renders its
// body. Unreadable documents are reported on the status line and shown as
// empty.
func (m *Model) refresh() {
	body, err := m.renderScreen()
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			m.Status = StatusBar{Text: "warning: " + err.Error() + " (starting empty)", IsError: true}
		} else {
			m.report("", err)
		}
	}
	m.body = body
	if m.ready {
		m.viewport.SetContent(m.content())
	}
}

func (m *Model) renderScreen() (string, error) {
	now := m.now()
	switch m.Screen {
	case commands.ScreenHome:
		return m.renderHome(now)
	case commands.ScreenCalendar:
		events, err := m.deps.Calendar.Load(m.ctx())
		g := grid.Build(events, grid.Options{
			Start:       m.shownWeek(),
			Days:        7,
			Granularity: m.Granularity,
			DayStart:    grid.DefaultDayStart,
			DayEnd:      grid.DefaultDayEnd,
			Now:         now,
		})
		return views.RenderGrid(g) + "\n" + views.RenderLegend(), err
	case commands.ScreenToday:
		events, err := m.deps.Calendar.Day(m.ctx(), now)
		g := grid.Build(events, grid.Options{
			Start:       now,
			Days:        1,
			Granularity: m.Granularity,
			DayStart:    grid.DefaultDayStart,
			DayEnd:      grid.DefaultDayEnd,
			Now:         now,
		})
		agenda := views.RenderAgenda("Today", agendaLines(events, now))
		return views.RenderGrid(g) + "\n" + agenda, err
	case commands.ScreenTasks:
		entries, err := m.deps.Tasks.Listing(m.ctx())
		return views.RenderTaskTable(taskRows(entries)), err
	case commands.ScreenNotes:
		entries, err := m.deps.Notes.List(m.NoteFolder)
		rows := make([]views.NoteEntryData, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, views.NoteEntryData{Name: e.Name, IsFolder: e.IsFolder})
		}
		return views.RenderNotes(m.NoteFolder, rows), err
	case commands.ScreenHabits:
		list, err := m.deps.Habits.Load()
		return views.RenderHabits(habitRows(list), habits.Days), err
	case commands.ScreenStudents:
		roster, err := m.deps.Students.Roster()
		rows := make([]views.StudentRowData, 0, len(roster))
		for _, e := range roster {
			rows = append(rows, views.StudentRowData{ID: e.ID, Name: e.Name, Cost: e.CostPerClass, Sessions: e.Sessions})
		}
		return views.RenderStudents(rows), err
	case commands.ScreenDeadlines:
		list, err := m.deps.Deadlines.Load()
		return views.RenderDeadlines(deadlineRows(list, now)), err
	}
	return "", nil
}

// shownMonth is the first day of the month on the home screen.
func (m Model) shownMonth() time.Time {
	now := m.now()
	return time.Date(now.Year(), now.Month()+time.Month(m.MonthOffset), 1, 0, 0, 0, 0, now.Location())
}

func (m *Model) renderHome(now time.Time) (string, error) {
	month := m.shownMonth()
	events, err := m.deps.Calendar.Load(m.ctx())
	busy := make(map[int]int)
	for _, ev := range events {
		if ev.Start.Year() == month.Year() && ev.Start.Month() == month.Month() {
			busy[ev.Start.Day()]++
		}
	}
	out := views.RenderMonth(views.MonthData{Month: month, Now: now, Busy: busy})

	list, derr := m.deps.Deadlines.Load()
	var soon []deadlines.Deadline
	for _, d := range list {
		if u := d.UrgencyAt(now); u == deadlines.UrgencyToday || u == deadlines.UrgencyTomorrow {
			soon = append(soon, d)
		}
	}
	if len(soon) > 0 {
		out += "\n" + views.RenderDeadlines(deadlineRows(soon, now))
	}
	return out, errors.Join(err, derr)
}

func habitRows(list []habits.Habit) []views.HabitRowData {
	rows := make([]views.HabitRowData, 0, len(list))
	for i, h := range list {
		done := make(map[int]bool)
		for d := 1; d <= habits.Days; d++ {
			if h.DoneOn(d) {
				done[d] = true
			}
		}
		rows = append(rows, views.HabitRowData{Index: i + 1, Title: h.Title, Done: done})
	}
	return rows
}

func deadlineRows(list []deadlines.Deadline, now time.Time) []views.DeadlineRowData {
	rows := make([]views.DeadlineRowData, 0, len(list))
	for i, d := range list {
		due := d.DueDate
		if t, err := d.Due(); err == nil {
			due = t.Format("Mon, Jan 2 2006")
		}
		rows = append(rows, views.DeadlineRowData{Index: i + 1, Name: d.Name, Due: due, Urgency: string(d.UrgencyAt(now))})
	}
	return rows
}
