// Package di contains dependency injection tokens for the blockchain context.
package di

import (
	"github.com/fd1az/cosvm-explorer/business/blockchain/app"
	"github.com/fd1az/cosvm-explorer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	BlockchainService = di.NewToken[*app.BlockchainService]("blockchain.BlockchainService")
)

// Private dependency tokens - internal to blockchain module
var (
	EventSubscriber = di.NewToken[app.EventSubscriber]("blockchain:eventSubscriber")
	StatusQuerier   = di.NewToken[app.StatusQuerier]("blockchain:statusQuerier")
	GasOracle       = di.NewToken[app.GasOracle]("blockchain:gasOracle")
)

func GetBlockchainService(c di.ServiceRegistry) *app.BlockchainService {
	return di.GetToken(c, BlockchainService)
}

func GetEventSubscriber(c di.ServiceRegistry) app.EventSubscriber {
	return di.GetToken(c, EventSubscriber)
}

func GetStatusQuerier(c di.ServiceRegistry) app.StatusQuerier {
	return di.GetToken(c, StatusQuerier)
}

// TryGetGasOracle reports false when no EVM endpoint is configured.
func TryGetGasOracle(c di.ServiceRegistry) (app.GasOracle, bool) {
	return di.TryGetToken(c, GasOracle)
}
