package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fd1az/cosvm-explorer/internal/apperror"
	"github.com/fd1az/cosvm-explorer/internal/logger"
)

const stateCheckInterval = time.Second

// DashboardConfig configures the Dashboard.
type DashboardConfig struct {
	Ingestor       IngestorConfig
	StatusInterval time.Duration
}

// Dashboard runs the stream reducer next to the node, gas and validator
// pollers and feeds all of them to one Presenter.
type Dashboard struct {
	cfg        DashboardConfig
	source     EventSource
	node       NodeInfo
	validators ValidatorPoller
	log        logger.LoggerInterface
	opts       []Option

	ingestor atomic.Pointer[Ingestor]
}

// NewDashboard creates a Dashboard. validators may be nil.
func NewDashboard(cfg DashboardConfig, source EventSource, node NodeInfo, validators ValidatorPoller, log logger.LoggerInterface, opts ...Option) *Dashboard {
	return &Dashboard{
		cfg:        cfg,
		source:     source,
		node:       node,
		validators: validators,
		log:        log,
		opts:       opts,
	}
}

// Run blocks until ctx is done. A closed stream is reported once and the
// retained state stays on screen.
func (d *Dashboard) Run(ctx context.Context, p Presenter) error {
	ing, err := NewIngestor(d.cfg.Ingestor, p, d.log, d.opts...)
	if err != nil {
		return err
	}
	d.ingestor.Store(ing)

	events, err := d.source.Subscribe(ctx)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeNodeSubscribeFailed, "subscribe")
	}

	var wg sync.WaitGroup
	if d.validators != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.validators.Run(ctx, p)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.pollNode(ctx, p)
	}()

	if err := ing.Run(ctx, events); err == nil {
		p.Notice(apperror.New(apperror.CodeStreamClosed))
		<-ctx.Done()
	}

	wg.Wait()
	return nil
}

// Snapshot returns the reducer state, or false before Run.
func (d *Dashboard) Snapshot() (Snapshot, bool) {
	ing := d.ingestor.Load()
	if ing == nil {
		return Snapshot{}, false
	}
	return ing.Snapshot(), true
}

func (d *Dashboard) pollNode(ctx context.Context, p Presenter) {
	d.refreshNode(ctx, p)

	interval := d.cfg.StatusInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	statusTicker := time.NewTicker(interval)
	defer statusTicker.Stop()
	stateTicker := time.NewTicker(stateCheckInterval)
	defer stateTicker.Stop()

	last := d.node.ConnectionState()
	p.ConnectionChanged(last)

	for {
		select {
		case <-ctx.Done():
			return
		case <-statusTicker.C:
			d.refreshNode(ctx, p)
		case <-stateTicker.C:
			if st := d.node.ConnectionState(); st != last {
				last = st
				p.ConnectionChanged(st)
			}
		}
	}
}

func (d *Dashboard) refreshNode(ctx context.Context, p Presenter) {
	st, err := d.node.NodeStatus(ctx)
	switch {
	case err == nil:
		p.NodeStatusUpdated(st)
	case ctx.Err() == nil:
		d.log.Warn(ctx, "node status query failed", "error", err)
		p.Notice(err)
	}

	if !d.node.HasGasOracle() {
		return
	}
	gp, err := d.node.GasPrice(ctx)
	switch {
	case err == nil:
		p.GasPriceUpdated(gp)
	case ctx.Err() == nil:
		d.log.Warn(ctx, "gas price query failed", "error", err)
	}
}
