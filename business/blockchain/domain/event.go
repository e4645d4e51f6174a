// Package domain contains the core domain types for the blockchain context.
package domain

import "time"

// NewBlock is a block header delivered by the node's NewBlock subscription.
type NewBlock struct {
	Height  int64
	Time    time.Time
	AppHash []byte
	ChainID string
	Txs     [][]byte
}

// TxEvent is a delivered transaction result. Tx holds the raw encoded
// transaction; Data is the execution result data.
type TxEvent struct {
	Height int64
	Hash   []byte
	Code   uint32
	Data   []byte
	Tx     []byte
	Log    string
}

// Event carries exactly one of Block or Tx.
type Event struct {
	Block *NewBlock
	Tx    *TxEvent
}

// ConnectionState represents the state of the event stream connection.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
	StateClosed       ConnectionState = "closed"
)
