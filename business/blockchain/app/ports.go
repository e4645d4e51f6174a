// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"

	"github.com/fd1az/cosvm-explorer/business/blockchain/domain"
)

// EventSubscriber streams NewBlock and Tx events from a node.
type EventSubscriber interface {
	// Subscribe returns a channel that is closed when the subscription ends.
	Subscribe(ctx context.Context) (<-chan domain.Event, error)

	// State returns the current connection state.
	State() domain.ConnectionState

	Close() error
}

// StatusQuerier reads node status and validator set size.
type StatusQuerier interface {
	Status(ctx context.Context) (*domain.NodeStatus, error)
}

// GasOracle defines the interface for gas price information.
type GasOracle interface {
	GasPrice(ctx context.Context) (*domain.GasPrice, error)
}
