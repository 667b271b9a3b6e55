package update

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planner/internal/commands"
)

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.prompt.active() {
			m.cancelPrompt()
		}
		m.commandInput.SetValue("")
		return m, nil
	case tea.KeyEnter:
		line := m.commandInput.Value()
		m.commandInput.SetValue("")
		if m.prompt.active() {
			m.answer(line)
		} else {
			m.runCommand(line)
		}
		m.refresh()
		cmd := m.exec
		m.exec = nil
		return m, cmd
	case tea.KeyRunes:
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		return m, nil
	case tea.KeySpace:
		m.commandInput.SetValue(m.commandInput.Value() + " ")
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m *Model) runCommand(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	cmd, err := commands.Parse(m.Screen, line)
	if err != nil {
		m.report("", err)
		return
	}
	m.Preview = ""
	if cmd.Type == commands.TypeHelp {
		m.HelpVisible = !m.HelpVisible
		return
	}
	res, err := commands.Execute(cmd, m.handlers())
	m.report(res.Message, err)
}

func (m *Model) handlers() commands.Handlers {
	h := commands.Handlers{
		commands.TypeBack: func(commands.Command) (commands.Result, error) {
			m.switchScreen(commands.ScreenHome)
			return commands.Result{}, nil
		},
	}
	var screen commands.Handlers
	switch m.Screen {
	case commands.ScreenHome:
		screen = m.homeHandlers()
	case commands.ScreenCalendar:
		screen = m.calendarHandlers()
	case commands.ScreenTasks:
		screen = m.taskHandlers()
	case commands.ScreenNotes:
		screen = m.noteHandlers()
	case commands.ScreenHabits:
		screen = m.habitHandlers()
	case commands.ScreenStudents:
		screen = m.studentHandlers()
	case commands.ScreenDeadlines:
		screen = m.deadlineHandlers()
	}
	for t, fn := range screen {
		h[t] = fn
	}
	return h
}

// report puts the outcome of a command on the status line. Errors never stop
// the loop.
func (m *Model) report(msg string, err error) {
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		var cmdErr *commands.CommandError
		if !errors.As(err, &cmdErr) {
			m.log.Warn("command failed", "screen", m.Screen, "err", err)
		}
		return
	}
	if msg != "" {
		m.Status = StatusBar{Text: msg}
	}
}

func (m *Model) switchScreen(s commands.Screen) {
	if !s.IsValid() {
		return
	}
	m.Screen = s
	m.Preview = ""
	m.prompt = promptState{}
	if s == commands.ScreenHome {
		m.NoteFolder = ""
	}
	m.viewport.GotoTop()
}
