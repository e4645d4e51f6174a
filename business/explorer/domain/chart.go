package domain

import (
	"sort"
	"time"
)

// BlockLabelLayout formats block chart labels.
const BlockLabelLayout = "2006-01-02 15:04:05"

// Series is a chart dataset, replaced whole on every update.
type Series struct {
	Labels []string
	Values []int64
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Values) }

// ChartProjector maps windows and aggregates to chart datasets. It is pure.
type ChartProjector struct {
	loc *time.Location
}

// NewChartProjector formats block times in loc; nil means UTC.
func NewChartProjector(loc *time.Location) ChartProjector {
	if loc == nil {
		loc = time.UTC
	}
	return ChartProjector{loc: loc}
}

// ProjectBlockSeries keeps the window order (newest first): labels are block
// times, values heights. A block without time gets an empty label.
func (p ChartProjector) ProjectBlockSeries(blocks []BlockRecord) Series {
	s := Series{
		Labels: make([]string, len(blocks)),
		Values: make([]int64, len(blocks)),
	}
	for i, b := range blocks {
		if !b.Time.IsZero() {
			s.Labels[i] = b.Time.In(p.loc).Format(BlockLabelLayout)
		}
		s.Values[i] = b.Height
	}
	return s
}

// ProjectDailySeries returns days ascending with their counts.
func (p ChartProjector) ProjectDailySeries(series DailySeries) Series {
	days := make([]string, 0, len(series))
	for day := range series {
		days = append(days, day)
	}
	sort.Strings(days)

	values := make([]int64, len(days))
	for i, day := range days {
		values[i] = series[day]
	}
	return Series{Labels: days, Values: values}
}
