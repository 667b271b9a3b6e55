package update

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planner/internal/calendar"
	"github.com/sandeepkv93/planner/internal/commands"
	"github.com/sandeepkv93/planner/internal/deadlines"
	"github.com/sandeepkv93/planner/internal/grid"
	"github.com/sandeepkv93/planner/internal/habits"
	"github.com/sandeepkv93/planner/internal/notes"
	"github.com/sandeepkv93/planner/internal/scheduler"
	"github.com/sandeepkv93/planner/internal/students"
	"github.com/sandeepkv93/planner/internal/tasks"
)

type StatusBar struct {
	Text    string
	IsError bool
}

// Deps are the stores the menu loop drives. All of them are required except
// Logger and Now.
type Deps struct {
	Calendar  *calendar.Store
	Tasks     *tasks.List
	Scheduler *scheduler.Scheduler
	Notes     *notes.Store
	Habits    *habits.Store
	Students  *students.Store
	Deadlines *deadlines.Store

	DataDir     string
	Editor      string
	GridMinutes int
	// Span is the default occurrence count offered when adding a recurring
	// event.
	Span   int
	Now    func() time.Time
	Logger *slog.Logger
}

type Model struct {
	deps Deps
	log  *slog.Logger

	Screen      commands.Screen
	Status      StatusBar
	LastError   error
	HelpVisible bool
	Quitting    bool

	// MonthOffset moves the home overview, WeekOffset the calendar grid.
	MonthOffset int
	WeekOffset  int
	Granularity int
	NoteFolder  string

	// Preview holds the output of the last command (a listing, a rendered
	// note, a receipt) shown under the screen until the next command.
	Preview string
	body    string

	prompt promptState
	// exec is a command produced by a handler, handed to bubbletea once the
	// dispatch returns.
	exec tea.Cmd

	commandInput textinput.Model
	helpModel    help.Model
	viewport     viewport.Model
	ready        bool
}

type SwitchScreenMsg struct {
	Screen commands.Screen
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// editorFinishedMsg arrives when the external editor exits. Path is the file
// that was edited and is previewed afterwards.
type editorFinishedMsg struct {
	Path string
	Err  error
}

func NewModel(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.GridMinutes != 15 && deps.GridMinutes != 30 {
		deps.GridMinutes = grid.DefaultGranularity
	}
	if deps.Editor == "" {
		deps.Editor = notes.DefaultEditor
	}
	m := Model{
		deps:        deps,
		log:         deps.Logger,
		Screen:      commands.ScreenHome,
		Granularity: deps.GridMinutes,
	}
	m.initBubbleComponents()
	m.refresh()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "> "
	m.commandInput.Placeholder = "command"
	m.commandInput.CharLimit = 256
	m.commandInput.Focus()

	m.helpModel = help.New()
	m.helpModel.ShowAll = true

	m.viewport = viewport.New(0, 0)
}

func (m *Model) ctx() context.Context {
	return context.Background()
}

func (m *Model) now() time.Time {
	return m.deps.Now()
}
