package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProjectDailySeries_SortsAscending(t *testing.T) {
	txs := []TransactionRecord{
		arrivedAt("2024-01-02T09:00:00Z"),
		arrivedAt("2024-01-02T10:00:00Z"),
		arrivedAt("2024-01-01T10:00:00Z"),
	}
	p := NewChartProjector(nil)

	got := p.ProjectDailySeries(Recompute(txs))

	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, got.Labels)
	assert.Equal(t, []int64{1, 2}, got.Values)
}

func TestProjectBlockSeries_KeepsWindowOrder(t *testing.T) {
	blocks := []BlockRecord{
		{Height: 7, Time: time.Date(2024, 1, 1, 12, 0, 7, 0, time.UTC)},
		{Height: 6, Time: time.Date(2024, 1, 1, 12, 0, 6, 0, time.UTC)},
		{Height: 5},
	}
	p := NewChartProjector(time.UTC)

	got := p.ProjectBlockSeries(blocks)

	assert.Equal(t, []string{"2024-01-01 12:00:07", "2024-01-01 12:00:06", ""}, got.Labels)
	assert.Equal(t, []int64{7, 6, 5}, got.Values)
	assert.Equal(t, 3, got.Len())
}

func TestProjectBlockSeries_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	blocks := []BlockRecord{{Height: 1, Time: time.Date(2024, 1, 1, 22, 30, 0, 0, time.UTC)}}

	got := NewChartProjector(loc).ProjectBlockSeries(blocks)

	assert.Equal(t, []string{"2024-01-02 00:30:00"}, got.Labels)
}

func TestProjector_PureAndRepeatable(t *testing.T) {
	series := DailySeries{"2024-03-01": 4, "2024-02-01": 2}
	before := series.Clone()
	p := NewChartProjector(nil)

	first := p.ProjectDailySeries(series)
	second := p.ProjectDailySeries(series)

	assert.Equal(t, first, second)
	assert.Equal(t, before, series)
}
