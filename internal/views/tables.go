package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableDimStyle    = tableCellStyle.Foreground(lipgloss.Color("8"))
	tableAlertStyle  = tableCellStyle.Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("#FF69B4"))
	tableWarnStyle   = tableCellStyle.Foreground(lipgloss.Color("9"))
	tableMarkStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent).Align(lipgloss.Center)
)

func newTable(headers []string, rows [][]string, style func(row, col int) lipgloss.Style) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accent)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if style != nil && row >= 0 && row < len(rows) {
				return style(row, col)
			}
			return tableCellStyle
		})
	return t.String()
}

type EventRowData struct {
	Index      int
	Title      string
	Start      string
	End        string
	Recurrence string
	Count      int
	Completed  bool
	Past       bool
}

func RenderEventList(rows []EventRowData) string {
	if len(rows) == 0 {
		return RenderTitled("Events", "")
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := r.Recurrence
		if r.Count > 1 {
			rec = fmt.Sprintf("%s ×%d", rec, r.Count)
		}
		status := "upcoming"
		switch {
		case r.Past:
			status = "past"
		case r.Completed:
			status = "completed"
		}
		cells = append(cells, []string{strconv.Itoa(r.Index), r.Title, r.Start, r.End, rec, status})
	}
	return RenderTitled("Events", newTable(
		[]string{"ID", "Title", "Start", "End", "Recurrence", "Status"},
		cells,
		func(row, _ int) lipgloss.Style {
			if rows[row].Past {
				return tableDimStyle
			}
			return tableCellStyle
		},
	))
}

type TaskRowData struct {
	Index      int
	Title      string
	Day        string
	Minutes    int
	Status     string
	Recurrence string
}

func RenderTaskTable(rows []TaskRowData) string {
	if len(rows) == 0 {
		return RenderTitled("Tasks", "")
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{strconv.Itoa(r.Index), r.Title, r.Day, strconv.Itoa(r.Minutes), r.Status, r.Recurrence})
	}
	return RenderTitled("Tasks", newTable(
		[]string{"ID", "Task", "Day", "Time (min)", "Status", "Recurrence"},
		cells,
		func(row, _ int) lipgloss.Style {
			if rows[row].Status == "Scheduled" {
				return tableDimStyle
			}
			return tableCellStyle
		},
	))
}

type HabitRowData struct {
	Index int
	Title string
	// Done holds the completed days of month, 1-based.
	Done map[int]bool
}

func RenderHabits(rows []HabitRowData, days int) string {
	if len(rows) == 0 {
		return RenderTitled("Habits", "")
	}
	headers := []string{"ID", "Habit"}
	for d := 1; d <= days; d++ {
		headers = append(headers, strconv.Itoa(d))
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{strconv.Itoa(r.Index), r.Title}
		for d := 1; d <= days; d++ {
			mark := ""
			if r.Done[d] {
				mark = "X"
			}
			line = append(line, mark)
		}
		cells = append(cells, line)
	}
	return RenderTitled("Habits Tracker", newTable(headers, cells, func(_, col int) lipgloss.Style {
		if col >= 2 {
			return tableMarkStyle
		}
		return tableCellStyle
	}))
}

type StudentRowData struct {
	ID       string
	Name     string
	Cost     float64
	Sessions int
}

func RenderStudents(rows []StudentRowData) string {
	if len(rows) == 0 {
		return RenderTitled("Students", "")
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{r.ID, r.Name, fmt.Sprintf("$%.2f", r.Cost), strconv.Itoa(r.Sessions)})
	}
	return RenderTitled("Students", newTable([]string{"ID", "Name", "Cost per Class", "Sessions"}, cells, nil))
}

type DeadlineRowData struct {
	Index int
	Name  string
	Due   string
	// Urgency is one of overdue, today, tomorrow or later.
	Urgency string
}

func RenderDeadlines(rows []DeadlineRowData) string {
	if len(rows) == 0 {
		return RenderTitled("Deadlines", "")
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{strconv.Itoa(r.Index), r.Name, r.Due})
	}
	return RenderTitled("Deadlines", newTable([]string{"ID", "Assignment/Test", "Due Date"}, cells, func(row, _ int) lipgloss.Style {
		switch rows[row].Urgency {
		case "tomorrow":
			return tableAlertStyle
		case "overdue", "today":
			return tableWarnStyle
		}
		return tableCellStyle
	}))
}

type NoteEntryData struct {
	Name     string
	IsFolder bool
}

func RenderNotes(folder string, entries []NoteEntryData) string {
	title := "Notes"
	if folder != "" {
		title = "Notes / " + folder
	}
	var b strings.Builder
	for _, e := range entries {
		if e.IsFolder {
			b.WriteString("▸ " + e.Name + "/\n")
			continue
		}
		b.WriteString("- " + e.Name + "\n")
	}
	return RenderTitled(title, strings.TrimSuffix(b.String(), "\n"))
}

// RenderAgenda lists one day's events as "HH:MM-HH:MM title" lines.
func RenderAgenda(title string, lines []string) string {
	return RenderTitled(title, strings.Join(lines, "\n"))
}
