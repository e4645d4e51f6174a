package app

import (
	"time"

	"github.com/fd1az/cosvm-explorer/business/explorer/domain"
)

// Stats counts ingestion outcomes since start.
type Stats struct {
	BlocksAccepted int64
	BlocksRejected int64
	TxsAccepted    int64
	TxsRejected    int64
}

// Snapshot is an immutable copy of the reducer state. Slices are owned by
// the snapshot and newest first.
type Snapshot struct {
	Blocks      []domain.BlockRecord
	Txs         []domain.TransactionRecord
	BlockSeries domain.Series
	DailySeries domain.Series
	Stats       Stats
	UpdatedAt   time.Time
}

// LatestBlock returns the head of the block window.
func (s Snapshot) LatestBlock() (domain.BlockRecord, bool) {
	if len(s.Blocks) == 0 {
		return domain.BlockRecord{}, false
	}
	return s.Blocks[0], true
}
