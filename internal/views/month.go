package views

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sandeepkv93/planner/internal/model"
)

type MonthData struct {
	// Month is any instant within the month shown.
	Month time.Time
	Now   time.Time
	// Busy maps day-of-month to its number of events.
	Busy map[int]int
}

var (
	monthCellStyle  = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	monthTodayStyle = monthCellStyle.Bold(true).Foreground(lipgloss.Color("0")).Background(accent)
	monthBusyStyle  = monthCellStyle.Foreground(accent)
	monthHeadStyle  = monthCellStyle.Bold(true).Foreground(accent)
)

// MonthWeeks returns the day numbers of month laid out Monday first; zero
// marks padding before the first and after the last day.
func MonthWeeks(month time.Time) [][]int {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	days := first.AddDate(0, 1, -1).Day()
	lead := model.DayOf(first).Offset()

	var weeks [][]int
	week := make([]int, 7)
	col := lead
	for d := 1; d <= days; d++ {
		week[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]int, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

func RenderMonth(data MonthData) string {
	weeks := MonthWeeks(data.Month)
	isCurrent := data.Month.Year() == data.Now.Year() && data.Month.Month() == data.Now.Month()

	rows := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		line := make([]string, 7)
		for i, d := range w {
			switch {
			case d == 0:
				line[i] = ""
			case data.Busy[d] > 0:
				line[i] = fmt.Sprintf("%d•", d)
			default:
				line[i] = strconv.Itoa(d)
			}
		}
		rows = append(rows, line)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accent)).
		Headers("M", "T", "W", "T", "F", "S", "S").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return monthHeadStyle
			}
			if row < 0 || row >= len(weeks) {
				return monthCellStyle
			}
			d := weeks[row][col]
			switch {
			case d == 0:
				return monthCellStyle
			case isCurrent && d == data.Now.Day():
				return monthTodayStyle
			case data.Busy[d] > 0:
				return monthBusyStyle
			default:
				return monthCellStyle
			}
		})
	return titleStyle.Render(data.Month.Format("January 2006")) + "\n" + t.String()
}
