package update

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planner/internal/calendar"
	"github.com/sandeepkv93/planner/internal/commands"
	"github.com/sandeepkv93/planner/internal/grid"
	"github.com/sandeepkv93/planner/internal/model"
	"github.com/sandeepkv93/planner/internal/views"
)

// ExportFile is written to the data directory by the export command.
const ExportFile = "calendar.ics"

func (m *Model) homeHandlers() commands.Handlers {
	open := func(s commands.Screen) func(commands.Command) (commands.Result, error) {
		return func(commands.Command) (commands.Result, error) {
			m.switchScreen(s)
			return commands.Result{}, nil
		}
	}
	return commands.Handlers{
		commands.TypeCalendar: func(commands.Command) (commands.Result, error) {
			m.WeekOffset = 0
			m.switchScreen(commands.ScreenCalendar)
			return commands.Result{}, nil
		},
		commands.TypeToday:     open(commands.ScreenToday),
		commands.TypeTasks:     open(commands.ScreenTasks),
		commands.TypeNotes:     open(commands.ScreenNotes),
		commands.TypeHabits:    open(commands.ScreenHabits),
		commands.TypeStudents:  open(commands.ScreenStudents),
		commands.TypeDeadlines: open(commands.ScreenDeadlines),
		commands.TypeNext: func(commands.Command) (commands.Result, error) {
			m.MonthOffset++
			return commands.Result{}, nil
		},
		commands.TypePrev: func(commands.Command) (commands.Result, error) {
			m.MonthOffset--
			return commands.Result{}, nil
		},
		commands.TypeExit: func(commands.Command) (commands.Result, error) {
			m.Quitting = true
			m.exec = tea.Quit
			return commands.Result{Message: "bye"}, nil
		},
	}
}

func (m *Model) calendarHandlers() commands.Handlers {
	return commands.Handlers{
		commands.TypeAdd:    m.addEvent,
		commands.TypeModify: m.modifyEvent,
		commands.TypeRemove: m.removeEvent,
		commands.TypeList: func(commands.Command) (commands.Result, error) {
			entries, err := m.deps.Calendar.Listing(m.ctx())
			if err != nil {
				return commands.Result{}, err
			}
			m.Preview = views.RenderEventList(eventRows(entries, m.now()))
			return commands.Result{Message: fmt.Sprintf("%d event(s)", len(entries))}, nil
		},
		commands.TypeGrid: func(commands.Command) (commands.Result, error) {
			m.Granularity = grid.Toggle(m.Granularity)
			return commands.Result{Message: fmt.Sprintf("grid set to %d minutes", m.Granularity)}, nil
		},
		commands.TypeExport: func(commands.Command) (commands.Result, error) {
			path := filepath.Join(m.deps.DataDir, ExportFile)
			n, err := m.exportICS(path)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported %d event(s) to %s", n, path)}, nil
		},
		commands.TypeNext: func(commands.Command) (commands.Result, error) {
			m.WeekOffset++
			return commands.Result{}, nil
		},
		commands.TypePrev: func(commands.Command) (commands.Result, error) {
			m.WeekOffset--
			return commands.Result{}, nil
		},
	}
}

// shownWeek is the Monday of the week the calendar grid displays. Day names
// typed on the calendar screen resolve within it.
func (m *Model) shownWeek() time.Time {
	return model.WeekStart(m.now()).AddDate(0, 0, 7*m.WeekOffset)
}

func (m *Model) addEvent(commands.Command) (commands.Result, error) {
	span := m.deps.Span
	if span <= 0 {
		span = model.DefaultRecurrenceSpan
	}
	return m.ask([]question{
		{Label: "Event title"},
		{Label: "Day and time (e.g., Monday 5:30 PM)"},
		{Label: "Duration in minutes"},
		{Label: "Recurrence (none, daily, weekly, monthly)", Default: string(model.RecurrenceNone)},
		{Label: "Occurrences to create when recurring", Default: strconv.Itoa(span)},
	}, func(m *Model, a []string) (string, error) {
		start, err := model.ParseDayTime(a[1], m.shownWeek())
		if err != nil {
			return "", err
		}
		minutes, err := parseMinutes(a[2])
		if err != nil {
			return "", err
		}
		rec, err := model.ParseRecurrence(a[3])
		if err != nil {
			return "", err
		}
		n, err := parseMinutes(a[4])
		if err != nil {
			return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("occurrences must be a positive number: %q", a[4])}
		}
		added, err := m.deps.Calendar.Add(m.ctx(), calendar.AddInput{
			Title:      a[0],
			Start:      start,
			End:        start.Add(time.Duration(minutes) * time.Minute),
			Recurrence: rec,
			Span:       n,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added %q (%d occurrence(s))", strings.TrimSpace(a[0]), len(added)), nil
	})
}

func (m *Model) modifyEvent(cmd commands.Command) (commands.Result, error) {
	return m.indexed(cmd, "Event ID to modify", []question{
		{Label: "New title (empty keeps)"},
		{Label: "New day and time (empty keeps)"},
		{Label: "New duration in minutes (empty keeps)"},
		{Label: "New recurrence (empty keeps)"},
	}, func(m *Model, index int, a []string) (string, error) {
		entry, err := m.eventAt(index)
		if err != nil {
			return "", err
		}
		in := calendar.ModifyInput{Title: a[0]}
		if a[1] != "" {
			if in.Start, err = model.ParseDayTime(a[1], m.shownWeek()); err != nil {
				return "", err
			}
		}
		if a[2] != "" {
			minutes, err := parseMinutes(a[2])
			if err != nil {
				return "", err
			}
			in.Duration = time.Duration(minutes) * time.Minute
		}
		if a[3] != "" {
			if in.Recurrence, err = model.ParseRecurrence(a[3]); err != nil {
				return "", err
			}
		}
		ev, err := m.deps.Calendar.Modify(m.ctx(), entry.EventID, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("updated %q", ev.Title), nil
	})
}

// removeEvent takes a display index, which removes that occurrence, or a
// title, which removes every occurrence after confirmation.
func (m *Model) removeEvent(cmd commands.Command) (commands.Result, error) {
	run := func(m *Model, target string) (string, error) {
		if _, err := strconv.Atoi(target); err == nil {
			index, err := parseIndex(target)
			if err != nil {
				return "", err
			}
			ev, err := m.deps.Calendar.RemoveAt(m.ctx(), index)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("removed %q on %s", ev.Title, ev.Start.Format("Mon Jan 2 15:04")), nil
		}
		return m.removeByTitle(target)
	}
	if cmd.Arg != "" {
		msg, err := run(m, cmd.Arg)
		return commands.Result{Message: msg}, err
	}
	return m.ask([]question{{Label: "Event ID or title to remove"}}, func(m *Model, a []string) (string, error) {
		return run(m, a[0])
	})
}

func (m *Model) removeByTitle(title string) (string, error) {
	matches := 0
	n, err := m.deps.Calendar.RemoveByTitle(m.ctx(), title, func(count int) bool {
		matches = count
		return false
	})
	if errors.Is(err, calendar.ErrCancelled) {
		m.prompt = promptState{
			questions: []question{{Label: fmt.Sprintf("Remove all %d occurrences of %q? (y/n)", matches, title), Default: "n"}},
			submit: func(m *Model, a []string) (string, error) {
				if !isYes(a[0]) {
					return "removal cancelled", nil
				}
				n, err := m.deps.Calendar.RemoveByTitle(m.ctx(), title, func(int) bool { return true })
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("removed %d occurrence(s) of %q", n, title), nil
			},
		}
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("removed %d occurrence(s) of %q", n, title), nil
}

func (m *Model) eventAt(index int) (calendar.Entry, error) {
	entries, err := m.deps.Calendar.Listing(m.ctx())
	if err != nil {
		return calendar.Entry{}, err
	}
	if index < 1 || index > len(entries) {
		return calendar.Entry{}, fmt.Errorf("%w: %d", calendar.ErrBadIndex, index)
	}
	return entries[index-1], nil
}

func (m *Model) exportICS(path string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	n, err := m.deps.Calendar.ExportICS(m.ctx(), f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("export: %w", cerr)
	}
	return n, err
}

func eventRows(entries []calendar.Entry, now time.Time) []views.EventRowData {
	rows := make([]views.EventRowData, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, views.EventRowData{
			Index:      e.Index,
			Title:      e.Title,
			Start:      e.Start.Format("Mon Jan 2 15:04"),
			End:        e.End.Format("15:04"),
			Recurrence: string(e.Recurrence),
			Count:      e.Occurrences,
			Completed:  e.Completed,
			Past:       e.End.Before(now),
		})
	}
	return rows
}
