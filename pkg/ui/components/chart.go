// Package components provides reusable TUI components.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

// Minimum drawable chart area, axis included.
const (
	MinChartWidth  = 24
	MinChartHeight = 4
)

// ErrChartTooSmall is returned when the terminal leaves no room for a chart.
var ErrChartTooSmall = apperror.New(apperror.CodeChartTooSmall)

// ChartData is one dataset: a label and a value per point.
type ChartData struct {
	Labels []string
	Values []int64
}

// RenderChart draws data as a scatter line in width x height cells plus a
// title and an x-axis. Points keep their input order left to right.
func RenderChart(title string, data ChartData, width, height int) (string, error) {
	if width < MinChartWidth || height < MinChartHeight {
		return "", ErrChartTooSmall
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	pointStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#4BC0C0"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")

	if len(data.Values) == 0 {
		sb.WriteString(dimStyle.Render("  Waiting for data..."))
		return sb.String(), nil
	}

	minV, maxV := data.Values[0], data.Values[0]
	for _, v := range data.Values[1:] {
		minV = min(minV, v)
		maxV = max(maxV, v)
	}
	top, bottom := strconv.FormatInt(maxV, 10), strconv.FormatInt(minV, 10)
	axisW := max(len(top), len(bottom))
	plotW := width - axisW - 2
	if plotW < 2 {
		return "", ErrChartTooSmall
	}

	grid := make([][]bool, height)
	for r := range grid {
		grid[r] = make([]bool, plotW)
	}
	n := len(data.Values)
	for i, v := range data.Values {
		x := 0
		if n > 1 {
			x = i * (plotW - 1) / (n - 1)
		}
		y := 0
		if maxV > minV {
			y = int((v - minV) * int64(height-1) / (maxV - minV))
		}
		grid[height-1-y][x] = true
	}

	for r, row := range grid {
		label := ""
		switch r {
		case 0:
			label = top
		case height - 1:
			label = bottom
		}
		sb.WriteString(dimStyle.Render(padLeft(label, axisW) + " │"))
		for _, on := range row {
			if on {
				sb.WriteString(pointStyle.Render("•"))
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(strings.Repeat(" ", axisW) + " └" + strings.Repeat("─", plotW)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat(" ", axisW+2) + axisLabels(data.Labels, plotW)))

	return sb.String(), nil
}

// axisLabels places the first label left and the last label right.
func axisLabels(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}
	first, last := labels[0], labels[len(labels)-1]
	if len(labels) == 1 || len(first)+len(last)+1 > width {
		return truncate(first, width)
	}
	return first + strings.Repeat(" ", width-len(first)-len(last)) + last
}

func padLeft(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return strings.Repeat(" ", w-len(s)) + s
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 1 {
		return s[:w]
	}
	return s[:w-1] + "…"
}
