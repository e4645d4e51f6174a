package components

import (
	"github.com/charmbracelet/lipgloss"
)

// Tile is one summary box.
type Tile struct {
	Title   string
	Value   string
	Tooltip string // second line, muted
}

// RenderTiles lays tiles out in rows that fit width.
func RenderTiles(tiles []Tile, width int) string {
	if len(tiles) == 0 {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	tipStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	const tileWidth = 22
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#374151")).
		Padding(0, 1).
		Width(tileWidth)

	perRow := max(1, width/(tileWidth+4))
	var rows []string
	for start := 0; start < len(tiles); start += perRow {
		end := min(start+perRow, len(tiles))
		boxes := make([]string, 0, end-start)
		for _, t := range tiles[start:end] {
			value := t.Value
			if value == "" {
				value = "-"
			}
			content := titleStyle.Render(t.Title) + "\n" + valueStyle.Render(value)
			if t.Tooltip != "" {
				content += "\n" + tipStyle.Render(t.Tooltip)
			}
			boxes = append(boxes, box.Render(content))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
