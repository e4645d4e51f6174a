package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func arrivedAt(ts string) TransactionRecord {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return TransactionRecord{ArrivalTimestamp: t}
}

func TestRecompute_IdempotentAndOrderIndependent(t *testing.T) {
	txs := []TransactionRecord{
		arrivedAt("2024-01-02T10:00:00Z"),
		arrivedAt("2024-01-01T23:59:59Z"),
		arrivedAt("2024-01-02T00:00:00Z"),
		arrivedAt("2024-01-03T08:00:00+09:00"), // 2024-01-02 in UTC
	}
	reversed := make([]TransactionRecord, len(txs))
	for i := range txs {
		reversed[len(txs)-1-i] = txs[i]
	}

	first := Recompute(txs)
	assert.Equal(t, first, Recompute(txs))
	assert.Equal(t, first, Recompute(reversed))
	assert.Equal(t, DailySeries{"2024-01-01": 1, "2024-01-02": 3}, first)
}

func TestRecompute_Empty(t *testing.T) {
	assert.Empty(t, Recompute(nil))
}

func TestDailyCounter_MatchesRecompute(t *testing.T) {
	txs := []TransactionRecord{
		arrivedAt("2024-01-02T10:00:00Z"),
		arrivedAt("2024-01-01T12:00:00Z"),
		arrivedAt("2024-01-02T11:00:00Z"),
	}
	c := NewDailyCounter()
	for _, tx := range txs {
		c.Add(tx)
	}

	assert.Equal(t, Recompute(txs), c.Series())
	assert.Equal(t, int64(3), c.Series().Total())
}

func TestDailyCounter_SeriesIsACopy(t *testing.T) {
	c := NewDailyCounter()
	c.Add(arrivedAt("2024-01-01T00:00:00Z"))

	s := c.Series()
	s["2024-01-01"] = 100

	assert.Equal(t, int64(1), c.Series()["2024-01-01"])
}
