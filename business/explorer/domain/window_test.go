package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(h int64) BlockRecord {
	return BlockRecord{Height: h, Time: time.Unix(1_700_000_000+h, 0).UTC()}
}

func tx(h int64, hash byte) TransactionRecord {
	return TransactionRecord{Height: h, Hash: []byte{hash}}
}

func heights(blocks []BlockRecord) []int64 {
	out := make([]int64, len(blocks))
	for i, b := range blocks {
		out[i] = b.Height
	}
	return out
}

func TestBlockWindow_EndToEndOrdering(t *testing.T) {
	w := NewBlockWindow(DefaultHistorySize)

	assert.True(t, w.Push(block(5)))
	assert.True(t, w.Push(block(6)))
	assert.False(t, w.Push(block(4)))
	assert.True(t, w.Push(block(7)))

	assert.Equal(t, []int64{7, 6, 5}, heights(w.Items()))
}

func TestBlockWindow_OrderingInvariant(t *testing.T) {
	deliveries := []int64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 10}
	w := NewBlockWindow(DefaultHistorySize)

	var want []int64
	var max int64 = -1
	for _, h := range deliveries {
		accepted := w.Push(block(h))
		assert.Equal(t, h > max, accepted, "height %d", h)
		if h > max {
			max = h
			want = append([]int64{h}, want...)
		}
	}

	got := heights(w.Items())
	assert.Equal(t, want, got)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i-1], got[i])
	}
}

func TestBlockWindow_CapacityInvariant(t *testing.T) {
	for _, n := range []int{15, 16, 40} {
		w := NewBlockWindow(DefaultHistorySize)
		for h := 1; h <= n; h++ {
			require.True(t, w.Push(block(int64(h))))
		}

		got := heights(w.Items())
		require.Len(t, got, DefaultHistorySize)
		assert.Equal(t, int64(n), got[0])
		assert.Equal(t, int64(n-DefaultHistorySize+1), got[DefaultHistorySize-1])
	}
}

func TestBlockWindow_DuplicateDelivery(t *testing.T) {
	w := NewBlockWindow(DefaultHistorySize)

	assert.Equal(t, Accepted, w.Admit(block(10)))
	assert.Equal(t, Duplicate, w.Admit(block(10)))
	assert.Equal(t, 1, w.Len())
}

func TestBlockWindow_StaleVerdict(t *testing.T) {
	w := NewBlockWindow(DefaultHistorySize)
	w.Push(block(10))

	assert.Equal(t, Stale, w.Check(block(9)))
	assert.Equal(t, Accepted, w.Check(block(11)))
	assert.Equal(t, 1, w.Len(), "Check does not mutate")
}

func TestTxWindow_SameBlockAdmission(t *testing.T) {
	w := NewTxWindow(DefaultHistorySize)

	assert.True(t, w.Push(tx(100, 0xa)))
	assert.True(t, w.Push(tx(100, 0xb)))
	assert.True(t, w.Push(tx(100, 0xc)))
	assert.False(t, w.Push(tx(100, 0xc)))

	require.Equal(t, 3, w.Len())
	head, ok := w.Head()
	require.True(t, ok)
	assert.Equal(t, []byte{0xc}, head.Hash)
}

func TestTxWindow_Ordering(t *testing.T) {
	w := NewTxWindow(DefaultHistorySize)
	w.Push(tx(100, 0xa))

	assert.Equal(t, Stale, w.Admit(tx(99, 0xb)))
	assert.Equal(t, Accepted, w.Admit(tx(101, 0xb)))
	// Same hash as the head is a redelivery even at a higher height.
	assert.Equal(t, Duplicate, w.Admit(tx(102, 0xb)))
}

func TestTxWindow_HeadOnlyDedup(t *testing.T) {
	w := NewTxWindow(DefaultHistorySize)
	w.Push(tx(100, 0xa))
	w.Push(tx(100, 0xb))

	// 0xa is no longer the head, so its redelivery is admitted again.
	assert.True(t, w.Push(tx(100, 0xa)))
	assert.Equal(t, 3, w.Len())
}

func TestTxWindow_HeadHashRejectedAtHigherHeight(t *testing.T) {
	w := NewTxWindow(DefaultHistorySize)
	w.Push(tx(100, 0xa))

	assert.Equal(t, Duplicate, w.Check(tx(101, 0xa)))
	assert.False(t, w.Push(tx(101, 0xa)))
	assert.Equal(t, 1, w.Len())
}

func TestHistoryWindow_ItemsIsACopy(t *testing.T) {
	w := NewBlockWindow(3)
	w.Push(block(1))

	items := w.Items()
	items[0].Height = 99

	head, _ := w.Head()
	assert.Equal(t, int64(1), head.Height)
	assert.Equal(t, 3, w.Cap())
}

func TestHistoryWindow_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultHistorySize, NewBlockWindow(0).Cap())

	_, ok := NewTxWindow(-1).Head()
	assert.False(t, ok)
}
