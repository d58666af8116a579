package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-features/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	signalColors = map[types.TradeSignal]lipgloss.Color{
		types.TradeSignalBuy:  lipgloss.Color("42"),
		types.TradeSignalSell: lipgloss.Color("203"),
		types.TradeSignalHold: lipgloss.Color("245"),
	}
)

// FormatSignal renders a trade signal with its strength, e.g. "Buy ▲ 2.12".
func FormatSignal(signal types.TradeSignal, strength *float64) string {
	label := string(signal)

	switch signal {
	case types.TradeSignalBuy:
		label += " ▲"
	case types.TradeSignalSell:
		label += " ▼"
	}

	if strength != nil {
		label += fmt.Sprintf(" %.2f", *strength)
	}

	return label
}
