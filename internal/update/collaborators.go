package update

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planner/internal/commands"
	"github.com/sandeepkv93/planner/internal/notes"
	"github.com/sandeepkv93/planner/internal/students"
	"github.com/sandeepkv93/planner/internal/views"
)

func (m *Model) noteHandlers() commands.Handlers {
	title := func(cmd commands.Command, label string, fn func(m *Model, title string) (string, error)) (commands.Result, error) {
		if cmd.Arg != "" {
			msg, err := fn(m, cmd.Arg)
			return commands.Result{Message: msg}, err
		}
		return m.ask([]question{{Label: label}}, func(m *Model, a []string) (string, error) {
			return fn(m, a[0])
		})
	}
	return commands.Handlers{
		commands.TypeAdd: func(cmd commands.Command) (commands.Result, error) {
			return title(cmd, "Note title", func(m *Model, t string) (string, error) {
				path, _, err := m.deps.Notes.Prepare(m.NoteFolder, t)
				if err != nil {
					return "", err
				}
				m.edit(path)
				return "opening " + path, nil
			})
		},
		commands.TypeModify: func(cmd commands.Command) (commands.Result, error) {
			return title(cmd, "Note title to modify", func(m *Model, t string) (string, error) {
				path, exists, err := m.deps.Notes.Path(m.NoteFolder, t)
				if err != nil {
					return "", err
				}
				if !exists {
					return "", fmt.Errorf("%w: %q", notes.ErrNotFound, t)
				}
				m.edit(path)
				return "opening " + path, nil
			})
		},
		commands.TypeView: func(cmd commands.Command) (commands.Result, error) {
			return title(cmd, "Note title to view", func(m *Model, t string) (string, error) {
				text, err := m.deps.Notes.Read(m.NoteFolder, t)
				if err != nil {
					return "", err
				}
				m.Preview = views.RenderMarkdown(text)
				return "", nil
			})
		},
		commands.TypeFolder: func(cmd commands.Command) (commands.Result, error) {
			return title(cmd, "Folder (.. goes up, / goes to the top)", func(m *Model, name string) (string, error) {
				next, err := m.deps.Notes.Enter(m.NoteFolder, name)
				if err != nil {
					return "", err
				}
				m.NoteFolder = next
				if next == "" {
					return "in notes root", nil
				}
				return "in folder " + next, nil
			})
		},
	}
}

func (m *Model) habitHandlers() commands.Handlers {
	return commands.Handlers{
		commands.TypeAdd: func(commands.Command) (commands.Result, error) {
			return m.ask([]question{{Label: "Habit title"}}, func(m *Model, a []string) (string, error) {
				h, err := m.deps.Habits.Add(a[0])
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("added habit %q", h.Title), nil
			})
		},
		commands.TypeDelete: func(cmd commands.Command) (commands.Result, error) {
			return m.indexed(cmd, "Habit ID to delete", nil, func(m *Model, index int, _ []string) (string, error) {
				h, err := m.deps.Habits.Delete(index)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("deleted habit %q", h.Title), nil
			})
		},
		commands.TypeDone: func(cmd commands.Command) (commands.Result, error) {
			return m.indexed(cmd, "Habit ID to mark as done for today", nil, func(m *Model, index int, _ []string) (string, error) {
				h, err := m.deps.Habits.MarkDone(index)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%q done for today", h.Title), nil
			})
		},
		commands.TypeInfo: func(cmd commands.Command) (commands.Result, error) {
			return m.indexed(cmd, "Habit ID to open", nil, func(m *Model, index int, _ []string) (string, error) {
				path, err := m.deps.Habits.DetailPath(index)
				if err != nil {
					return "", err
				}
				m.edit(path)
				return "opening " + path, nil
			})
		},
	}
}

func (m *Model) studentHandlers() commands.Handlers {
	byID := func(cmd commands.Command, label string, fn func(m *Model, id string) (string, error)) (commands.Result, error) {
		if cmd.Arg != "" {
			msg, err := fn(m, cmd.Arg)
			return commands.Result{Message: msg}, err
		}
		return m.ask([]question{{Label: label}}, func(m *Model, a []string) (string, error) {
			return fn(m, a[0])
		})
	}
	return commands.Handlers{
		commands.TypeAdd: func(commands.Command) (commands.Result, error) {
			return m.ask([]question{
				{Label: "Student name"},
				{Label: "Cost per class"},
			}, func(m *Model, a []string) (string, error) {
				cost, err := strconv.ParseFloat(strings.TrimPrefix(a[1], "$"), 64)
				if err != nil {
					return "", fmt.Errorf("%w: %q", students.ErrInvalidCost, a[1])
				}
				e, err := m.deps.Students.Add(a[0], cost)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("added student %s (ID %s)", e.Name, e.ID), nil
			})
		},
		commands.TypeDelete: func(cmd commands.Command) (commands.Result, error) {
			return byID(cmd, "Student ID to delete", func(m *Model, id string) (string, error) {
				st, err := m.deps.Students.Delete(id)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("deleted student %s", st.Name), nil
			})
		},
		commands.TypeAttendance: func(cmd commands.Command) (commands.Result, error) {
			return byID(cmd, "Student ID to mark attendance", func(m *Model, id string) (string, error) {
				date, err := m.deps.Students.MarkAttendance(id)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("attendance marked for student %s on %s", id, date), nil
			})
		},
		commands.TypeReceipts: func(cmd commands.Command) (commands.Result, error) {
			return byID(cmd, "Student ID to generate receipt", func(m *Model, id string) (string, error) {
				path, text, err := m.deps.Students.Receipt(id)
				if err != nil {
					return "", err
				}
				m.Preview = text
				return "receipt saved to " + path, nil
			})
		},
	}
}

func (m *Model) deadlineHandlers() commands.Handlers {
	return commands.Handlers{
		commands.TypeAdd: func(commands.Command) (commands.Result, error) {
			return m.ask([]question{
				{Label: "Name of the assignment/test"},
				{Label: "Due date (e.g., August 13)"},
			}, func(m *Model, a []string) (string, error) {
				d, err := m.deps.Deadlines.Add(a[0], a[1])
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("added %q due %s", d.Name, d.DueDate), nil
			})
		},
		commands.TypeDelete: func(cmd commands.Command) (commands.Result, error) {
			return m.indexed(cmd, "Deadline ID to delete", nil, func(m *Model, index int, _ []string) (string, error) {
				d, err := m.deps.Deadlines.Delete(index)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("deleted %q", d.Name), nil
			})
		},
	}
}

// edit suspends the program and opens path in the configured editor.
func (m *Model) edit(path string) {
	c := notes.EditorCommand(m.deps.Editor, path)
	m.exec = tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{Path: path, Err: err}
	})
}

func (m *Model) finishEdit(msg editorFinishedMsg) {
	if msg.Err != nil {
		m.report("", fmt.Errorf("editor: %w", msg.Err))
		return
	}
	raw, err := os.ReadFile(msg.Path)
	if err != nil {
		m.Status = StatusBar{Text: "closed " + msg.Path}
		return
	}
	m.Preview = views.RenderMarkdown(string(raw))
	m.Status = StatusBar{Text: "saved " + msg.Path}
}
