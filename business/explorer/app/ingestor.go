package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	chain "github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	"github.com/fd1az/cosvm-explorer/business/explorer/domain"
	"github.com/fd1az/cosvm-explorer/internal/apperror"
	"github.com/fd1az/cosvm-explorer/internal/logger"
)

const meterName = "github.com/fd1az/cosvm-explorer/business/explorer/app"

// Daily aggregation scopes.
const (
	ScopeSession = "session" // every tx seen since start
	ScopeWindow  = "window"  // only the retained tx window
)

// IngestorConfig configures the reducer.
type IngestorConfig struct {
	HistorySize int
	DailyScope  string
	Location    *time.Location // chart label zone
}

// DefaultIngestorConfig returns sensible defaults.
func DefaultIngestorConfig() IngestorConfig {
	return IngestorConfig{
		HistorySize: domain.DefaultHistorySize,
		DailyScope:  ScopeSession,
		Location:    time.Local,
	}
}

// Option tunes an Ingestor.
type Option func(*Ingestor)

// WithClock replaces time.Now for arrival stamps.
func WithClock(c Clock) Option {
	return func(i *Ingestor) { i.now = c }
}

type ingestorMetrics struct {
	accepted metric.Int64Counter
	rejected metric.Int64Counter
}

// Ingestor is the streaming reducer. Run is its only writer; Snapshot may
// be called from any goroutine.
type Ingestor struct {
	cfg       IngestorConfig
	reporter  Reporter
	log       logger.LoggerInterface
	now       Clock
	projector domain.ChartProjector
	metrics   *ingestorMetrics

	mu          sync.RWMutex
	blocks      *domain.HistoryWindow[domain.BlockRecord, int64]
	txs         *domain.HistoryWindow[domain.TransactionRecord, string]
	daily       *domain.DailyCounter
	blockSeries domain.Series
	dailySeries domain.Series
	stats       Stats
	updatedAt   time.Time
}

// NewIngestor creates an Ingestor. reporter may be nil.
func NewIngestor(cfg IngestorConfig, reporter Reporter, log logger.LoggerInterface, opts ...Option) (*Ingestor, error) {
	switch cfg.DailyScope {
	case "":
		cfg.DailyScope = ScopeSession
	case ScopeSession, ScopeWindow:
	default:
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("unknown daily scope "+cfg.DailyScope))
	}

	i := &Ingestor{
		cfg:       cfg,
		reporter:  reporter,
		log:       log,
		now:       time.Now,
		projector: domain.NewChartProjector(cfg.Location),
		blocks:    domain.NewBlockWindow(cfg.HistorySize),
		txs:       domain.NewTxWindow(cfg.HistorySize),
		daily:     domain.NewDailyCounter(),
	}
	for _, opt := range opts {
		opt(i)
	}

	if err := i.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return i, nil
}

func (i *Ingestor) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error
	i.metrics = &ingestorMetrics{}

	i.metrics.accepted, err = meter.Int64Counter(
		"explorer_events_accepted_total",
		metric.WithDescription("Events admitted into a history window, by type"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	i.metrics.rejected, err = meter.Int64Counter(
		"explorer_events_rejected_total",
		metric.WithDescription("Events dropped by the admission rules, by type and reason"),
		metric.WithUnit("{event}"),
	)
	return err
}

// Run consumes events until the channel closes (returns nil) or ctx is
// done (returns ctx.Err()). State is kept after Run returns.
func (i *Ingestor) Run(ctx context.Context, events <-chan chain.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				i.log.Info(ctx, "event stream closed")
				return nil
			}
			i.Apply(ctx, ev)
		}
	}
}

// Apply routes one stream event.
func (i *Ingestor) Apply(ctx context.Context, ev chain.Event) {
	switch {
	case ev.Block != nil:
		i.OnBlock(ctx, BlockFromEvent(ev.Block))
	case ev.Tx != nil:
		i.OnTx(ctx, TxFromEvent(ev.Tx))
	}
}

// OnBlock admits a block whose height exceeds the head. It reports whether
// the block was accepted.
func (i *Ingestor) OnBlock(ctx context.Context, b domain.BlockRecord) bool {
	i.mu.Lock()
	verdict := i.blocks.Admit(b)
	if verdict == domain.Accepted {
		i.stats.BlocksAccepted++
		i.blockSeries = i.projector.ProjectBlockSeries(i.blocks.Items())
		i.updatedAt = i.now()
	} else {
		i.stats.BlocksRejected++
	}
	i.mu.Unlock()

	return i.settle(ctx, "block", verdict, "height", b.Height)
}

// OnTx stamps the arrival time and admits the transaction if its height
// exceeds the head, or equals it with a different hash.
func (i *Ingestor) OnTx(ctx context.Context, tx domain.TransactionRecord) bool {
	tx.ArrivalTimestamp = i.now()

	i.mu.Lock()
	verdict := i.txs.Admit(tx)
	if verdict == domain.Accepted {
		i.stats.TxsAccepted++
		if i.cfg.DailyScope == ScopeSession {
			i.daily.Add(tx)
		}
		i.dailySeries = i.projector.ProjectDailySeries(i.dailyLocked())
		i.updatedAt = tx.ArrivalTimestamp
	} else {
		i.stats.TxsRejected++
	}
	i.mu.Unlock()

	return i.settle(ctx, "tx", verdict, "height", tx.Height, "hash", tx.HashHex())
}

func (i *Ingestor) settle(ctx context.Context, kind string, verdict domain.Verdict, kv ...any) bool {
	if verdict != domain.Accepted {
		i.metrics.rejected.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", kind),
			attribute.String("reason", verdict.String()),
		))
		i.log.Debug(ctx, "event dropped", append([]any{"type", kind, "reason", verdict.String()}, kv...)...)
		return false
	}

	i.metrics.accepted.Add(ctx, 1, metric.WithAttributes(attribute.String("type", kind)))
	if i.reporter != nil {
		i.reporter.Publish(i.Snapshot())
	}
	return true
}

// dailyLocked returns the aggregate for the configured scope. Caller holds mu.
func (i *Ingestor) dailyLocked() domain.DailySeries {
	if i.cfg.DailyScope == ScopeWindow {
		return domain.Recompute(i.txs.Items())
	}
	return i.daily.Series()
}

// Snapshot returns a copy of the current state.
func (i *Ingestor) Snapshot() Snapshot {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return Snapshot{
		Blocks:      i.blocks.Items(),
		Txs:         i.txs.Items(),
		BlockSeries: cloneSeries(i.blockSeries),
		DailySeries: cloneSeries(i.dailySeries),
		Stats:       i.stats,
		UpdatedAt:   i.updatedAt,
	}
}

func cloneSeries(s domain.Series) domain.Series {
	return domain.Series{
		Labels: append([]string(nil), s.Labels...),
		Values: append([]int64(nil), s.Values...),
	}
}

// BlockFromEvent maps a NewBlock notification to a record.
func BlockFromEvent(b *chain.NewBlock) domain.BlockRecord {
	return domain.BlockRecord{
		Height:  b.Height,
		Time:    b.Time,
		AppHash: b.AppHash,
		TxCount: len(b.Txs),
		ChainID: b.ChainID,
	}
}

// TxFromEvent maps a Tx notification to a record. The arrival time is set
// on ingestion.
func TxFromEvent(t *chain.TxEvent) domain.TransactionRecord {
	return domain.TransactionRecord{
		Hash:       t.Hash,
		Height:     t.Height,
		ResultCode: t.Code,
		Payload:    t.Tx,
		Log:        t.Log,
	}
}
