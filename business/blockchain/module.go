// Package blockchain implements the node-facing bounded context: event
// stream, node status and EVM gas price.
package blockchain

import (
	"context"

	"github.com/fd1az/cosvm-explorer/business/blockchain/app"
	blockchainDI "github.com/fd1az/cosvm-explorer/business/blockchain/di"
	"github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	"github.com/fd1az/cosvm-explorer/business/blockchain/infra/cometbft"
	"github.com/fd1az/cosvm-explorer/business/blockchain/infra/evm"
	"github.com/fd1az/cosvm-explorer/internal/config"
	"github.com/fd1az/cosvm-explorer/internal/di"
		"github.com/fd1az/cosvm-explorer/internal/logger"
	"github.com/fd1az/cosvm-explorer/internal/monolith"
)

// Module implements the blockchain bounded context.
type Module struct{}

// RegisterServices registers all blockchain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, blockchainDI.EventSubscriber, func(sr di.ServiceRegistry) app.EventSubscriber {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		subCfg := cometbft.DefaultSubscriberConfig(cfg.Node.WebSocketURL)
		subCfg.BufferSize = cfg.Node.EventBuffer
		subCfg.InitialBackoff = cfg.Node.InitialBackoff
		subCfg.MaxBackoff = cfg.Node.MaxBackoff
		subCfg.MaxReconnects = cfg.Node.MaxReconnects

		sub, err := cometbft.NewSubscriber(subCfg, log)
		if err != nil {
			panic("failed to create event subscriber: " + err.Error())
		}
		return sub
	})

	di.RegisterToken(c, blockchainDI.StatusQuerier, func(sr di.ServiceRegistry) app.StatusQuerier {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ctx := sr.Get("context").(context.Context)

		stCfg := cometbft.DefaultStatusClientConfig(cfg.Node.RPCURL)
		stCfg.Timeout = cfg.Node.RequestTimeout

		client, err := cometbft.NewStatusClient(ctx, stCfg, log)
		if err != nil {
			panic("failed to create status client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, blockchainDI.GasOracle, func(sr di.ServiceRegistry) app.GasOracle {
		cfg := sr.Get("config").(*config.Config)
		if cfg.Node.EVMRPCURL == "" {
			return nil
		}
		log := sr.Get("logger").(logger.LoggerInterface)
		ctx := sr.Get("context").(context.Context)

		oracle, err := evm.NewGasOracle(ctx, evm.DefaultGasOracleConfig(cfg.Node.EVMRPCURL), log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return oracle
	})

	di.RegisterToken(c, blockchainDI.BlockchainService, func(sr di.ServiceRegistry) *app.BlockchainService {
		oracle, _ := blockchainDI.TryGetGasOracle(sr)
		return app.NewBlockchainService(
			blockchainDI.GetEventSubscriber(sr),
			blockchainDI.GetStatusQuerier(sr),
			oracle,
		)
	})

	return nil
}

// Startup registers the stream health check and closers.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	svc := blockchainDI.GetBlockchainService(mono.Services())

	if hs := mono.Health(); hs != nil {
		hs.RegisterCheck("event_stream", func(context.Context) (bool, string) {
			state := svc.ConnectionState()
			return state == domain.StateConnected, string(state)
		})
	}

	mono.OnClose(svc.Close)
	if oracle, ok := blockchainDI.TryGetGasOracle(mono.Services()); ok {
		if closer, ok := oracle.(interface{ Close() error }); ok {
			mono.OnClose(closer.Close)
		}
	}

	log.Info(ctx, "blockchain module started", "gas_oracle", svc.HasGasOracle())
	return nil
}
