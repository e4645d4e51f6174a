package app

import (
	"context"
	"time"

	chain "github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	stakingapp "github.com/fd1az/cosvm-explorer/business/staking/app"
	staking "github.com/fd1az/cosvm-explorer/business/staking/domain"
)

// Clock returns the current time. Injected for tests.
type Clock func() time.Time

// Reporter receives a new Snapshot after every accepted event. Publish is
// called from the ingestion goroutine and must not retain the caller's lock.
type Reporter interface {
	Publish(snap Snapshot)
}

// EventSource delivers node events until it closes the channel.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan chain.Event, error)
}

// NodeInfo is the out-of-band data shown next to the stream.
type NodeInfo interface {
	NodeStatus(ctx context.Context) (*chain.NodeStatus, error)
	HasGasOracle() bool
	GasPrice(ctx context.Context) (*chain.GasPrice, error)
	ConnectionState() chain.ConnectionState
}

// Presenter displays everything the dashboard polls. Implementations must
// be safe for use from several goroutines.
type Presenter interface {
	Reporter
	NodeStatusUpdated(st *chain.NodeStatus)
	GasPriceUpdated(gp *chain.GasPrice)
	ConnectionChanged(state chain.ConnectionState)
	ValidatorsUpdated(set *staking.ValidatorSet)
	ValidatorsFailed(err error)
	Notice(err error)
}

// ValidatorPoller refreshes the validator set until ctx is done.
type ValidatorPoller interface {
	Run(ctx context.Context, listener stakingapp.ValidatorListener)
}
