package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/cosvm-explorer/business/staking/domain"
	"github.com/fd1az/cosvm-explorer/internal/logger"
)

type scriptedSource struct {
	mu    sync.Mutex
	calls int
	fail  map[int]bool
}

func (s *scriptedSource) BondedValidators(_ context.Context, limit int) (*domain.ValidatorSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail[s.calls] {
		return nil, errors.New("lcd down")
	}
	return &domain.ValidatorSet{
		Validators: []domain.Validator{{Moniker: "alpha", Status: domain.BondStatusBonded}},
		Total:      s.calls,
	}, nil
}

type recordingListener struct {
	mu      sync.Mutex
	updates []*domain.ValidatorSet
	errs    []error
}

func (l *recordingListener) ValidatorsUpdated(set *domain.ValidatorSet) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updates = append(l.updates, set)
}

func (l *recordingListener) ValidatorsFailed(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func (l *recordingListener) counts() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.updates), len(l.errs)
}

func TestStakingService_RefreshKeepsLatest(t *testing.T) {
	src := &scriptedSource{fail: map[int]bool{2: true}}
	svc := NewStakingService(src, 0, 10, logger.NewNop())

	assert.Nil(t, svc.Latest())

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, svc.Latest())

	_, err = svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, first, svc.Latest())
}

func TestStakingService_RunReportsFailuresAndRecovers(t *testing.T) {
	src := &scriptedSource{fail: map[int]bool{2: true}}
	svc := NewStakingService(src, 10*time.Millisecond, 10, logger.NewNop())
	listener := &recordingListener{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, listener)
		close(done)
	}()

	require.Eventually(t, func() bool {
		updates, errs := listener.counts()
		return updates >= 2 && errs == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStakingService_RunOnceWithoutInterval(t *testing.T) {
	src := &scriptedSource{}
	svc := NewStakingService(src, 0, 10, logger.NewNop())
	listener := &recordingListener{}

	svc.Run(context.Background(), listener)

	updates, errs := listener.counts()
	assert.Equal(t, 1, updates)
	assert.Equal(t, 0, errs)
}
