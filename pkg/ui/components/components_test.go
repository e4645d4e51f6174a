package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

func TestRenderChart_TooSmall(t *testing.T) {
	_, err := RenderChart("Blocks", ChartData{Values: []int64{1}}, MinChartWidth-1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChartTooSmall))
	assert.Equal(t, apperror.CodeChartTooSmall, apperror.GetCode(err))

	_, err = RenderChart("Blocks", ChartData{Values: []int64{1}}, 80, MinChartHeight-1)
	assert.ErrorIs(t, err, ErrChartTooSmall)
}

func TestRenderChart_Empty(t *testing.T) {
	out, err := RenderChart("Daily", ChartData{}, 40, 6)
	require.NoError(t, err)
	assert.Contains(t, out, "Waiting for data")
}

func TestRenderChart_PlotsEveryPoint(t *testing.T) {
	data := ChartData{
		Labels: []string{"2024-01-01", "2024-01-02", "2024-01-03"},
		Values: []int64{1, 5, 3},
	}
	out, err := RenderChart("Daily", data, 60, 5)
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, "•"))
	assert.Contains(t, out, "5 │")
	assert.Contains(t, out, "1 │")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "2024-01-03")
}

func TestRenderChart_FlatSeries(t *testing.T) {
	out, err := RenderChart("Blocks", ChartData{Values: []int64{7, 7}}, 40, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "•"))
}

func TestAxisLabels(t *testing.T) {
	assert.Equal(t, "a   b", axisLabels([]string{"a", "x", "b"}, 5))
	assert.Equal(t, "only", axisLabels([]string{"only"}, 10))
	assert.Equal(t, "", axisLabels(nil, 10))
	assert.Equal(t, "long…", axisLabels([]string{"longlabel", "other"}, 5))
}

func TestTablesComponent_TabsAndRows(t *testing.T) {
	c := NewTablesComponent(5)
	assert.Equal(t, TabBlocks, c.Active())

	c.SetBlocks([]BlockRow{{Height: 7, Age: "1s ago", Txs: 2, Path: "/blocks/7"}})
	c.SetTxs([]TxRow{{Hash: "ABC...DEF", Success: false, Message: "MsgSend", Height: 7, Age: "now"}})
	c.SetValidators([]ValidatorRow{{Moniker: "alpha", Status: "Active", VotingPower: "1,000", Commission: "5.00%"}})

	assert.Equal(t, []table.Row{{"7", "1s ago", "2", "/blocks/7"}}, c.Rows(TabBlocks))
	assert.Equal(t, "Failed", c.Rows(TabTxs)[0][1])
	assert.Equal(t, "alpha", c.Rows(TabValidators)[0][0])

	c.Next()
	assert.Equal(t, TabTxs, c.Active())
	assert.Contains(t, c.View(), "MsgSend")

	c.Next()
	c.Next()
	assert.Equal(t, TabBlocks, c.Active())
	assert.Equal(t, "Blocks", TabBlocks.String())

	c.Update(tea.KeyMsg{Type: tea.KeyDown})
}

func TestRenderTiles(t *testing.T) {
	out := RenderTiles([]Tile{
		{Title: "Latest Block", Value: "1200", Tooltip: "2024-01-01 00:00:00"},
		{Title: "Network"},
	}, 120)

	assert.Contains(t, out, "Latest Block")
	assert.Contains(t, out, "1200")
	assert.Contains(t, out, "2024-01-01 00:00:00")
	assert.Contains(t, out, "-")
	assert.Empty(t, RenderTiles(nil, 80))
}

func TestStatsComponent(t *testing.T) {
	s := NewStatsComponent()
	s.Update(Stats{BlocksAccepted: 3, BlocksRejected: 1})
	assert.Contains(t, s.View(), "Blocks:")
}
