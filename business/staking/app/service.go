package app

import (
	"context"
	"sync"
	"time"

	"github.com/fd1az/cosvm-explorer/business/staking/domain"
	"github.com/fd1az/cosvm-explorer/internal/apperror"
	"github.com/fd1az/cosvm-explorer/internal/logger"
)

// StakingService polls the validator set on its own ticker and keeps the
// latest successful result.
type StakingService struct {
	source   ValidatorSource
	interval time.Duration
	limit    int
	log      logger.LoggerInterface

	mu     sync.RWMutex
	latest *domain.ValidatorSet
}

// NewStakingService creates a StakingService.
func NewStakingService(source ValidatorSource, interval time.Duration, limit int, log logger.LoggerInterface) *StakingService {
	return &StakingService{
		source:   source,
		interval: interval,
		limit:    limit,
		log:      log,
	}
}

// Refresh fetches the validator set once.
func (s *StakingService) Refresh(ctx context.Context) (*domain.ValidatorSet, error) {
	set, err := s.source.BondedValidators(ctx, s.limit)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.latest = set
	s.mu.Unlock()
	return set, nil
}

// Latest returns the last successful result, or nil.
func (s *StakingService) Latest() *domain.ValidatorSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Run polls immediately and then every interval until ctx is done. A failed
// poll is reported and retried on the next tick; the previous set is kept.
func (s *StakingService) Run(ctx context.Context, listener ValidatorListener) {
	s.poll(ctx, listener)
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx, listener)
		}
	}
}

func (s *StakingService) poll(ctx context.Context, listener ValidatorListener) {
	set, err := s.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Warn(ctx, "validator poll failed",
			"code", string(apperror.GetCode(err)),
			"transient", apperror.IsTransient(err),
			"error", err)
		listener.ValidatorsFailed(err)
		return
	}
	listener.ValidatorsUpdated(set)
}
