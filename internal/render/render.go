// Package render draws scan reports as terminal tables.
package render

import (
	"fmt"
	"strings"

	"TrendSentinel/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	positiveColor = lipgloss.Color("2")
	negativeColor = lipgloss.Color("1")
	neutralColor  = lipgloss.Color("7")

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

// ColorFor maps a polarity to its presentation colour.
func ColorFor(p model.Polarity) lipgloss.Color {
	switch p {
	case model.Positive:
		return positiveColor
	case model.Negative:
		return negativeColor
	default:
		return neutralColor
	}
}

// Headers returns the table header: the symbol, Get/Set/Go/Trend of every
// timeframe, and the weighted total.
func Headers() []string {
	headers := []string{"Symbol"}
	for _, tf := range model.Timeframes {
		for _, col := range []string{"Get", "Set", "Go", "Trend"} {
			headers = append(headers, tf.String()+" "+col)
		}
	}
	return append(headers, "Total")
}

type cell struct {
	text     string
	polarity model.Polarity
}

func rowCells(s model.SymbolAnalysis) []cell {
	cells := []cell{{text: s.Symbol}}
	for _, tf := range model.Timeframes {
		a, ok := s.Timeframes[tf]
		if !ok {
			a = model.UnavailableAnalysis()
		}
		cells = append(cells,
			cell{a.Get.Label, a.Get.Polarity},
			cell{a.Set.Label, a.Set.Polarity},
			cell{a.Go.Label, a.Go.Polarity},
			cell{a.Trend.Label, a.Trend.Polarity},
		)
	}
	return append(cells, cell{s.TotalTrend.Label, s.TotalTrend.Polarity})
}

// Table renders the report's symbols as a coloured table.
func Table(report *model.Report) string {
	grid := make([][]cell, len(report.Symbols))
	rows := make([][]string, len(report.Symbols))
	for i, s := range report.Symbols {
		grid[i] = rowCells(s)
		rows[i] = make([]string, len(grid[i]))
		for j, c := range grid[i] {
			rows[i][j] = c.text
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(neutralColor)).
		Headers(Headers()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(grid) || col >= len(grid[row]) {
				return cellStyle
			}
			if col == 0 {
				return cellStyle.Bold(true)
			}
			return cellStyle.Foreground(ColorFor(grid[row][col].polarity))
		})

	return t.Render()
}

// Summary renders a one-line count of the report's outcomes.
func Summary(report *model.Report) string {
	buy, sell, hold := report.Counts()
	return fmt.Sprintf("buy=%d sell=%d hold=%d unavailable=%d failures=%d",
		buy, sell, hold, len(report.Symbols)-buy-sell-hold, len(report.Failures))
}

// Report renders the title, table, summary and transitions of a scan.
func Report(report *model.Report) string {
	var b strings.Builder
	title := fmt.Sprintf("%s  %s", report.Portfolio, report.FinishedAt.Format("2006-01-02 15:04 MST"))
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(Table(report))
	b.WriteString("\n")
	b.WriteString(Summary(report))
	b.WriteString("\n")
	for _, tr := range report.Transitions {
		style := lipgloss.NewStyle().Foreground(ColorFor(trendPolarity(tr.To)))
		b.WriteString(style.Render(fmt.Sprintf("%s: %s -> %s", tr.Symbol, tr.From, tr.Label)))
		b.WriteString("\n")
	}
	for _, f := range report.Failures {
		b.WriteString(fmt.Sprintf("%s %s: %s\n", f.Symbol, f.Timeframe, f.Reason))
	}
	return b.String()
}

func trendPolarity(a model.Action) model.Polarity {
	switch a {
	case model.Buy:
		return model.Positive
	case model.Sell:
		return model.Negative
	default:
		return model.Neutral
	}
}
