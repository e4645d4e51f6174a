// Package staking implements the validator set bounded context.
package staking

import (
	"context"

	"github.com/fd1az/cosvm-explorer/business/staking/app"
	stakingDI "github.com/fd1az/cosvm-explorer/business/staking/di"
	"github.com/fd1az/cosvm-explorer/business/staking/infra/lcd"
	"github.com/fd1az/cosvm-explorer/internal/config"
	"github.com/fd1az/cosvm-explorer/internal/di"
	"github.com/fd1az/cosvm-explorer/internal/logger"
	"github.com/fd1az/cosvm-explorer/internal/monolith"
)

// Module implements the staking bounded context.
type Module struct{}

// RegisterServices registers all staking services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, stakingDI.ValidatorSource, func(sr di.ServiceRegistry) app.ValidatorSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		lcdCfg := lcd.DefaultClientConfig(cfg.Node.LCDURL)
		lcdCfg.Timeout = cfg.Node.RequestTimeout
		lcdCfg.RequestsPerMinute = cfg.Staking.RequestsPerMinute

		client, err := lcd.NewClient(lcdCfg, log)
		if err != nil {
			panic("failed to create LCD client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, stakingDI.StakingService, func(sr di.ServiceRegistry) *app.StakingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewStakingService(
			stakingDI.GetValidatorSource(sr),
			cfg.Staking.PollInterval,
			cfg.Staking.PageLimit,
			log,
		)
	})

	return nil
}

// Startup resolves the service so wiring errors surface at boot. Polling is
// started by the presentation layer, which owns the listener.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	stakingDI.GetStakingService(mono.Services())
	mono.Logger().Info(ctx, "staking module started",
		"lcd", mono.Config().Node.LCDURL,
		"poll_interval", mono.Config().Staking.PollInterval.String())
	return nil
}
