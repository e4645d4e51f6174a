package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds ingestion counters for display.
type Stats struct {
	BlocksAccepted int64
	BlocksRejected int64
	TxsAccepted    int64
	TxsRejected    int64
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)

	return style.Render("STREAM") + "  " +
		fmt.Sprintf("Blocks: %s (dropped %s)  │  Txs: %s (dropped %s)",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.BlocksAccepted)),
			style.Render(fmt.Sprintf("%d", s.stats.BlocksRejected)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.TxsAccepted)),
			style.Render(fmt.Sprintf("%d", s.stats.TxsRejected)),
		)
}
