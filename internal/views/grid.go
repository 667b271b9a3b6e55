package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sandeepkv93/planner/internal/grid"
	"github.com/sandeepkv93/planner/internal/model"
)

const (
	gridTimeWidth = 7
	gridCellWidth = 14
)

var (
	gridHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).Align(lipgloss.Center)
	gridTodayStyle   = gridHeaderStyle.Underline(true)
	gridTimeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(gridTimeWidth)
	gridNowStyle     = gridTimeStyle.Foreground(lipgloss.Color("11")).Bold(true)
	gridEmptyStyle   = lipgloss.NewStyle().Width(gridCellWidth)
	gridBorderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	gridStatusStyles = map[model.Status]lipgloss.Style{
		model.StatusPast:      lipgloss.NewStyle().Width(gridCellWidth).Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")).Strikethrough(true),
		model.StatusCompleted: lipgloss.NewStyle().Width(gridCellWidth).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")),
		model.StatusOngoing:   lipgloss.NewStyle().Width(gridCellWidth).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Bold(true),
		model.StatusUpcoming:  lipgloss.NewStyle().Width(gridCellWidth).Foreground(lipgloss.Color("15")).Background(accent),
	}
)

// GridText is the plain text of one grid cell: the title on the first slot
// of an event and a blank on its continuation slots.
func GridText(c grid.Cell) string {
	if c.Kind == grid.KindStart {
		return truncate(c.Title, gridCellWidth-1)
	}
	return ""
}

func RenderGrid(g grid.Grid) string {
	headers := make([]string, 0, len(g.Columns)+1)
	headers = append(headers, "")
	for _, col := range g.Columns {
		headers = append(headers, col.Date.Format("Mon 02"))
	}

	rows := make([][]string, 0, len(g.Rows))
	for _, r := range g.Rows {
		line := make([]string, 0, len(r.Cells)+1)
		line = append(line, r.Label())
		for _, c := range r.Cells {
			line = append(line, GridText(c))
		}
		rows = append(rows, line)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(gridBorderStyle).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col > 0 && g.Columns[col-1].Today {
					return gridTodayStyle
				}
				return gridHeaderStyle
			}
			if row < 0 || row >= len(g.Rows) {
				return gridEmptyStyle
			}
			if col == 0 {
				if g.Rows[row].Current {
					return gridNowStyle
				}
				return gridTimeStyle
			}
			cell := g.Rows[row].Cells[col-1]
			if cell.Kind == grid.KindEmpty {
				return gridEmptyStyle
			}
			return gridStatusStyles[cell.Status]
		})
	return t.String()
}

// RenderLegend explains the cell colors of RenderGrid.
func RenderLegend() string {
	order := []model.Status{model.StatusUpcoming, model.StatusOngoing, model.StatusCompleted, model.StatusPast}
	parts := make([]string, 0, len(order))
	for _, s := range order {
		parts = append(parts, gridStatusStyles[s].Width(0).Padding(0, 1).Render(string(s)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
