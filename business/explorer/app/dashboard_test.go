package app

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chain "github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	stakingapp "github.com/fd1az/cosvm-explorer/business/staking/app"
	staking "github.com/fd1az/cosvm-explorer/business/staking/domain"
	"github.com/fd1az/cosvm-explorer/internal/apperror"
	"github.com/fd1az/cosvm-explorer/internal/logger"
)

type chanSource struct {
	events chan chain.Event
	err    error
}

func (s *chanSource) Subscribe(context.Context) (<-chan chain.Event, error) {
	return s.events, s.err
}

type fakeNode struct {
	statusErr error
	gas       bool
}

func (n *fakeNode) NodeStatus(context.Context) (*chain.NodeStatus, error) {
	if n.statusErr != nil {
		return nil, n.statusErr
	}
	return &chain.NodeStatus{Network: "cosvm_1-1", LatestBlockHeight: 10, ValidatorsTotal: 4}, nil
}

func (n *fakeNode) HasGasOracle() bool { return n.gas }

func (n *fakeNode) GasPrice(context.Context) (*chain.GasPrice, error) {
	return chain.NewGasPrice(big.NewInt(500_000_000_000), time.Now()), nil
}

func (n *fakeNode) ConnectionState() chain.ConnectionState { return chain.StateConnected }

type oncePoller struct{}

func (oncePoller) Run(_ context.Context, l stakingapp.ValidatorListener) {
	l.ValidatorsUpdated(&staking.ValidatorSet{Total: 1, Validators: []staking.Validator{{Moniker: "alpha"}}})
}

type recordingPresenter struct {
	recordingReporter
	mu         sync.Mutex
	status     *chain.NodeStatus
	gas        *chain.GasPrice
	states     []chain.ConnectionState
	validators *staking.ValidatorSet
	notices    []error
}

func (p *recordingPresenter) NodeStatusUpdated(st *chain.NodeStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = st
}

func (p *recordingPresenter) GasPriceUpdated(gp *chain.GasPrice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gas = gp
}

func (p *recordingPresenter) ConnectionChanged(s chain.ConnectionState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, s)
}

func (p *recordingPresenter) ValidatorsUpdated(set *staking.ValidatorSet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.validators = set
}

func (p *recordingPresenter) ValidatorsFailed(err error) { p.Notice(err) }

func (p *recordingPresenter) Notice(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, err)
}

func (p *recordingPresenter) noticeCodes() []apperror.Code {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]apperror.Code, len(p.notices))
	for i, err := range p.notices {
		out[i] = apperror.GetCode(err)
	}
	return out
}

func TestDashboard_RunFeedsPresenter(t *testing.T) {
	src := &chanSource{events: make(chan chain.Event, 4)}
	dash := NewDashboard(DashboardConfig{Ingestor: DefaultIngestorConfig(), StatusInterval: time.Hour},
		src, &fakeNode{gas: true}, oncePoller{}, logger.NewNop())
	p := &recordingPresenter{}

	_, ok := dash.Snapshot()
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- dash.Run(ctx, p) }()

	src.events <- blockEvent(1)
	src.events <- blockEvent(2)

	require.Eventually(t, func() bool {
		snap, ok := dash.Snapshot()
		return ok && len(snap.Blocks) == 2 && p.count() == 2
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.status != nil && p.gas != nil && p.validators != nil && len(p.states) > 0
	}, 2*time.Second, 5*time.Millisecond)

	p.mu.Lock()
	assert.Equal(t, "cosvm_1-1", p.status.Network)
	assert.Equal(t, "500 Gwei", p.gas.String())
	assert.Equal(t, chain.StateConnected, p.states[0])
	p.mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestDashboard_StreamClosedNotice(t *testing.T) {
	src := &chanSource{events: make(chan chain.Event)}
	close(src.events)
	dash := NewDashboard(DashboardConfig{Ingestor: DefaultIngestorConfig(), StatusInterval: time.Hour},
		src, &fakeNode{statusErr: apperror.New(apperror.CodeStatusQueryFailed)}, nil, logger.NewNop())
	p := &recordingPresenter{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- dash.Run(ctx, p) }()

	require.Eventually(t, func() bool {
		return len(p.noticeCodes()) == 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []apperror.Code{apperror.CodeStatusQueryFailed, apperror.CodeStreamClosed}, p.noticeCodes())

	cancel()
	require.NoError(t, <-done)
}

func TestDashboard_SubscribeFailure(t *testing.T) {
	src := &chanSource{err: errors.New("dial refused")}
	dash := NewDashboard(DashboardConfig{Ingestor: DefaultIngestorConfig()}, src, &fakeNode{}, nil, logger.NewNop())

	err := dash.Run(context.Background(), &recordingPresenter{})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNodeSubscribeFailed, apperror.GetCode(err))
}
