package app

import (
	"context"

	"github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

// BlockchainService is the blockchain context's public facade.
type BlockchainService struct {
	subscriber EventSubscriber
	status     StatusQuerier
	gasOracle  GasOracle
}

// NewBlockchainService creates a new BlockchainService. gasOracle may be nil
// when no EVM endpoint is configured.
func NewBlockchainService(subscriber EventSubscriber, status StatusQuerier, gasOracle GasOracle) *BlockchainService {
	return &BlockchainService{
		subscriber: subscriber,
		status:     status,
		gasOracle:  gasOracle,
	}
}

// Subscribe starts the event subscription.
func (s *BlockchainService) Subscribe(ctx context.Context) (<-chan domain.Event, error) {
	return s.subscriber.Subscribe(ctx)
}

// NodeStatus queries node status.
func (s *BlockchainService) NodeStatus(ctx context.Context) (*domain.NodeStatus, error) {
	return s.status.Status(ctx)
}

// HasGasOracle reports whether gas prices are available.
func (s *BlockchainService) HasGasOracle() bool {
	return s.gasOracle != nil
}

// GasPrice retrieves the current gas price.
func (s *BlockchainService) GasPrice(ctx context.Context) (*domain.GasPrice, error) {
	if s.gasOracle == nil {
		return nil, apperror.New(apperror.CodeConfigurationError, apperror.WithContext("node.evm_rpc_url not set"))
	}
	return s.gasOracle.GasPrice(ctx)
}

// ConnectionState returns the current connection state.
func (s *BlockchainService) ConnectionState() domain.ConnectionState {
	return s.subscriber.State()
}

// Close stops the subscription.
func (s *BlockchainService) Close() error {
	return s.subscriber.Close()
}
