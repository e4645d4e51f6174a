// Package di contains dependency injection tokens for the staking context.
package di

import (
	"github.com/fd1az/cosvm-explorer/business/staking/app"
	"github.com/fd1az/cosvm-explorer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	StakingService = di.NewToken[*app.StakingService]("staking.StakingService")
)

// Private dependency tokens - internal to staking module
var (
	ValidatorSource = di.NewToken[app.ValidatorSource]("staking:validatorSource")
)

func GetStakingService(c di.ServiceRegistry) *app.StakingService {
	return di.GetToken(c, StakingService)
}

func GetValidatorSource(c di.ServiceRegistry) app.ValidatorSource {
	return di.GetToken(c, ValidatorSource)
}
