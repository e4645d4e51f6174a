package ui

import (
	"time"

	chain "github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	explorer "github.com/fd1az/cosvm-explorer/business/explorer/app"
	staking "github.com/fd1az/cosvm-explorer/business/staking/domain"
)

// Message types for TUI updates

// SnapshotMsg carries the reducer state after an accepted event.
type SnapshotMsg struct {
	Snapshot explorer.Snapshot
}

// NodeStatusMsg is sent when node status is refreshed.
type NodeStatusMsg struct {
	Status *chain.NodeStatus
}

// GasPriceMsg is sent when the gas price is refreshed.
type GasPriceMsg struct {
	Price *chain.GasPrice
}

// ConnectionStatusMsg is sent when the stream connection changes state.
type ConnectionStatusMsg struct {
	State chain.ConnectionState
}

// ValidatorsMsg is sent with a fresh validator page.
type ValidatorsMsg struct {
	Set *staking.ValidatorSet
}

// NoticeMsg shows a transient notification for NoticeDuration.
type NoticeMsg struct {
	Title       string
	Description string
	At          time.Time
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}
