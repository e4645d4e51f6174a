// Package domain contains the streaming reducer of the explorer context:
// history windows, day aggregation and chart projection.
package domain

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// DefaultHistorySize is the capacity of the block and transaction windows.
const DefaultHistorySize = 15

// BlockRecord is an accepted NewBlock.
type BlockRecord struct {
	Height  int64
	Time    time.Time
	AppHash []byte
	TxCount int
	ChainID string
}

// Key identifies the block.
func (b BlockRecord) Key() int64 { return b.Height }

// Order is the admission order of the block.
func (b BlockRecord) Order() int64 { return b.Height }

// TransactionRecord is an accepted transaction event. ArrivalTimestamp is
// the local receive time, not chain time.
type TransactionRecord struct {
	Hash             []byte
	Height           int64
	ResultCode       uint32
	Payload          []byte // encoded tx, decoded only for display
	Log              string
	ArrivalTimestamp time.Time
}

// Key identifies the transaction.
func (t TransactionRecord) Key() string { return hex.EncodeToString(t.Hash) }

// Order is the admission order of the transaction.
func (t TransactionRecord) Order() int64 { return t.Height }

// Succeeded reports a zero result code.
func (t TransactionRecord) Succeeded() bool { return t.ResultCode == 0 }

// HashHex returns the upper-case hex hash.
func (t TransactionRecord) HashHex() string {
	return strings.ToUpper(hex.EncodeToString(t.Hash))
}

// BlockPath is the navigation path of a block.
func BlockPath(height int64) string {
	return "/blocks/" + strconv.FormatInt(height, 10)
}

// TxPath is the navigation path of a transaction.
func TxPath(hash []byte) string {
	return "/txs/" + strings.ToUpper(hex.EncodeToString(hash))
}

// TrimHash shortens a hex hash to head...tail for table cells.
func TrimHash(h string, keep int) string {
	if keep <= 0 || len(h) <= 2*keep+3 {
		return h
	}
	return h[:keep] + "..." + h[len(h)-keep:]
}
