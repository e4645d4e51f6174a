package app

import (
	"context"

	"github.com/fd1az/cosvm-explorer/business/staking/domain"
)

// ValidatorSource fetches bonded validators from the chain.
type ValidatorSource interface {
	BondedValidators(ctx context.Context, limit int) (*domain.ValidatorSet, error)
}

// ValidatorListener receives poll results.
type ValidatorListener interface {
	ValidatorsUpdated(set *domain.ValidatorSet)
	ValidatorsFailed(err error)
}
