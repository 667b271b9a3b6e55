package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/planner/internal/commands"
	"github.com/sandeepkv93/planner/internal/views"
)

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

var globalBindings = []key.Binding{
	key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run command / answer")),
	key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel prompt")),
	key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
	key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

var commandHelp = map[commands.Type]string{
	commands.TypeCalendar:   "weekly calendar",
	commands.TypeToday:      "today's schedule",
	commands.TypeTasks:      "task list",
	commands.TypeNotes:      "notes",
	commands.TypeHabits:     "habit tracker",
	commands.TypeStudents:   "students and attendance",
	commands.TypeDeadlines:  "deadlines",
	commands.TypeExit:       "quit",
	commands.TypeBack:       "back to the month view",
	commands.TypeAdd:        "add an entry",
	commands.TypeModify:     "change an entry",
	commands.TypeRemove:     "remove an event by ID, or all occurrences by title",
	commands.TypeList:       "list events with their IDs",
	commands.TypeGrid:       "toggle 15/30 minute rows",
	commands.TypeExport:     "write calendar.ics",
	commands.TypeDelete:     "delete an entry",
	commands.TypeSchedule:   "put a task on the calendar",
	commands.TypeUnschedule: "take a task off the calendar",
	commands.TypeFree:       "show where a task would be scheduled",
	commands.TypeView:       "preview a note",
	commands.TypeFolder:     "change folder",
	commands.TypeInfo:       "open a habit's notes",
	commands.TypeAttendance: "record today's class",
	commands.TypeReceipts:   "write this month's receipt",
}

func (m Model) renderHelpView() string {
	var lines []string
	for _, t := range commands.Available(m.Screen) {
		desc := commandHelp[t]
		switch {
		case t == commands.TypeNext || t == commands.TypePrev:
			desc = "next/previous week"
			if m.Screen == commands.ScreenHome {
				desc = "next/previous month"
			}
		case t == commands.TypeDone && m.Screen == commands.ScreenHabits:
			desc = "mark done for today"
		case t == commands.TypeDone:
			desc = "complete a task"
		}
		lines = append(lines, fmt.Sprintf("%-11s %s", t, desc))
	}
	keys := m.helpModel.View(helpKeyMap{short: globalBindings, full: [][]key.Binding{globalBindings}})
	return views.RenderTitled("Help: "+string(m.Screen), strings.Join(lines, "\n")+"\n\n"+keys)
}
