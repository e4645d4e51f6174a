package domain

import "time"

// DateLayout is the ISO calendar-day layout of DailySeries keys.
const DateLayout = "2006-01-02"

// DailySeries counts transactions per UTC calendar day.
type DailySeries map[string]int64

// DayOf returns the UTC calendar day of t.
func DayOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Recompute buckets txs by the UTC day of their arrival. The result does not
// depend on the order of txs.
func Recompute(txs []TransactionRecord) DailySeries {
	out := make(DailySeries, 1)
	for _, tx := range txs {
		out[DayOf(tx.ArrivalTimestamp)]++
	}
	return out
}

// Clone returns an independent copy.
func (s DailySeries) Clone() DailySeries {
	out := make(DailySeries, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Total sums all days.
func (s DailySeries) Total() int64 {
	var n int64
	for _, v := range s {
		n += v
	}
	return n
}

// DailyCounter keeps day counts for every transaction seen, without
// retaining the records.
type DailyCounter struct {
	counts DailySeries
}

// NewDailyCounter returns an empty counter.
func NewDailyCounter() *DailyCounter {
	return &DailyCounter{counts: make(DailySeries)}
}

// Add increments the arrival day of tx.
func (c *DailyCounter) Add(tx TransactionRecord) {
	c.counts[DayOf(tx.ArrivalTimestamp)]++
}

// Series returns a copy of the counts.
func (c *DailyCounter) Series() DailySeries {
	return c.counts.Clone()
}
