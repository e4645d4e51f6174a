// Package explorer implements the block and transaction dashboard context.
package explorer

import (
	"context"
	"fmt"

	blockchainDI "github.com/fd1az/cosvm-explorer/business/blockchain/di"
	"github.com/fd1az/cosvm-explorer/business/explorer/app"
	explorerDI "github.com/fd1az/cosvm-explorer/business/explorer/di"
	stakingDI "github.com/fd1az/cosvm-explorer/business/staking/di"
	"github.com/fd1az/cosvm-explorer/internal/config"
	"github.com/fd1az/cosvm-explorer/internal/di"
	"github.com/fd1az/cosvm-explorer/internal/logger"
	"github.com/fd1az/cosvm-explorer/internal/monolith"
)

// Module implements the explorer bounded context.
type Module struct{}

// RegisterServices registers all explorer services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, explorerDI.Dashboard, func(sr di.ServiceRegistry) *app.Dashboard {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		loc, err := cfg.Explorer.Location()
		if err != nil {
			panic("invalid explorer time location: " + err.Error())
		}

		chain := blockchainDI.GetBlockchainService(sr)
		return app.NewDashboard(
			app.DashboardConfig{
				Ingestor: app.IngestorConfig{
					HistorySize: cfg.Explorer.HistorySize,
					DailyScope:  cfg.Explorer.DailyScope,
					Location:    loc,
				},
				StatusInterval: cfg.Node.StatusInterval,
			},
			chain,
			chain,
			stakingDI.GetStakingService(sr),
			log,
		)
	})

	return nil
}

// Startup resolves the dashboard and registers the ingestion check.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	dash := explorerDI.GetDashboard(mono.Services())

	if hs := mono.Health(); hs != nil {
		hs.RegisterCheck("ingestion", func(context.Context) (bool, string) {
			snap, ok := dash.Snapshot()
			if !ok {
				return false, "not started"
			}
			return true, fmt.Sprintf("blocks=%d txs=%d", snap.Stats.BlocksAccepted, snap.Stats.TxsAccepted)
		})
	}

	cfg := mono.Config().Explorer
	mono.Logger().Info(ctx, "explorer module started",
		"history_size", cfg.HistorySize,
		"daily_scope", cfg.DailyScope)
	return nil
}
