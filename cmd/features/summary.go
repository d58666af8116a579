package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-features/internal/types"
)

var summaryHeaders = []string{"Instrument", "Rows", "Last Date", "Last Signal", "Buy", "Sell", "Hold", "Mean Spread %"}

// signalColumn is the index of "Last Signal" in summaryHeaders.
const signalColumn = 3

func summaryRows(stats []types.FeatureStats) [][]string {
	rows := make([][]string, 0, len(stats))

	for _, s := range stats {
		spread := "-"
		if s.SpreadPercent != nil {
			spread = fmt.Sprintf("%.4f", s.SpreadPercent.Mean)
		}

		rows = append(rows, []string{
			s.InstrumentID,
			strconv.Itoa(s.Rows),
			s.LastDate.Format("2006-01-02"),
			FormatSignal(s.LastSignal, s.LastSignalStrength),
			strconv.Itoa(s.SignalCounts.Buy),
			strconv.Itoa(s.SignalCounts.Sell),
			strconv.Itoa(s.SignalCounts.Hold),
			spread,
		})
	}

	return rows
}

// renderSummary draws one line per instrument with the signal of its latest row.
func renderSummary(stats []types.FeatureStats) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(summaryHeaders...).
		Rows(summaryRows(stats)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			if col == signalColumn && row >= 0 && row < len(stats) {
				if color, ok := signalColors[stats[row].LastSignal]; ok {
					return cellStyle.Foreground(color)
				}
			}

			return cellStyle
		})

	return t.Render()
}
