package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planner/internal/commands"
	"github.com/sandeepkv93/planner/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		// header, status, prompt and footer lines plus the panel border
		m.viewport.Width = typed.Width
		m.viewport.Height = max(typed.Height-8, 3)
		m.ready = true
		m.viewport.SetContent(m.content())
		return m, nil
	case tea.KeyMsg:
		switch typed.String() {
		case "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(typed)
			return m, cmd
		}
		return m.handleInputKey(typed)
	case SwitchScreenMsg:
		m.switchScreen(typed.Screen)
		m.refresh()
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case editorFinishedMsg:
		m.finishEdit(typed)
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	body := m.content()
	if m.ready {
		body = m.viewport.View()
	}

	prompt := m.commandInput.View()
	if m.prompt.active() {
		prompt = m.prompt.current().String() + "\n" + prompt
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	return views.RenderApp(views.AppData{
		Header:     m.header(),
		Body:       body,
		Prompt:     prompt,
		StatusLine: status,
		IsError:    m.Status.IsError,
		Footer:     m.footer(),
	})
}

// content is the screen body followed by the last command's output and the
// help panel when shown.
func (m Model) content() string {
	parts := []string{m.body}
	if strings.TrimSpace(m.Preview) != "" {
		parts = append(parts, m.Preview)
	}
	if m.HelpVisible {
		parts = append(parts, m.renderHelpView())
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) header() string {
	switch m.Screen {
	case commands.ScreenHome:
		return "planner | " + m.shownMonth().Format("January 2006")
	case commands.ScreenCalendar:
		week := m.shownWeek()
		return fmt.Sprintf("planner | cal | week of %s | %d min", week.Format("Jan 2, 2006"), m.Granularity)
	case commands.ScreenToday:
		return "planner | today | " + m.now().Format("Monday, Jan 2")
	case commands.ScreenNotes:
		if m.NoteFolder != "" {
			return "planner | notes | " + m.NoteFolder
		}
	}
	return "planner | " + string(m.Screen)
}

func (m Model) footer() string {
	if m.prompt.active() {
		return "enter answer | esc cancel"
	}
	names := make([]string, 0)
	for _, t := range commands.Available(m.Screen) {
		names = append(names, string(t))
	}
	return "commands: " + strings.Join(names, ", ") + " | ? help | ctrl+c quit"
}
