// Package cometbft adapts a CometBFT node's websocket and RPC endpoints.
package cometbft

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	"github.com/fd1az/cosvm-explorer/internal/apperror"
	"github.com/fd1az/cosvm-explorer/internal/logger"
	"github.com/fd1az/cosvm-explorer/internal/wsconn"
)

const (
	tracerName = "github.com/fd1az/cosvm-explorer/business/blockchain/infra/cometbft"
	meterName  = "github.com/fd1az/cosvm-explorer/business/blockchain/infra/cometbft"
)

// SubscriberConfig holds configuration for the CometBFT subscriber.
type SubscriberConfig struct {
	WSURL          string
	BufferSize     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
}

// DefaultSubscriberConfig returns sensible defaults.
func DefaultSubscriberConfig(wsURL string) SubscriberConfig {
	return SubscriberConfig{
		WSURL:          wsURL,
		BufferSize:     256,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		PingInterval:   20 * time.Second,
	}
}

type subscriberMetrics struct {
	eventsReceived  metric.Int64Counter
	parseErrors     metric.Int64Counter
	subscribeErrors metric.Int64Counter
	connectionState metric.Int64Gauge
	blockLatency    metric.Float64Histogram
}

// Subscriber streams NewBlock and Tx events over a reconnecting websocket.
// Subscriptions are re-issued after every reconnect.
type Subscriber struct {
	config SubscriberConfig
	logger logger.LoggerInterface
	ws     *wsconn.Client

	events    chan domain.Event
	done      chan struct{}
	sendMu    sync.RWMutex
	closeOnce sync.Once
	started   bool
	startMu   sync.Mutex
	connected atomic.Bool // set after the first successful dial

	tracer  trace.Tracer
	metrics *subscriberMetrics
}

// NewSubscriber creates a subscriber. It does not dial until Subscribe.
func NewSubscriber(cfg SubscriberConfig, log logger.LoggerInterface) (*Subscriber, error) {
	wsCfg := wsconn.DefaultConfig(cfg.WSURL, "cometbft")
	wsCfg.InitialBackoff = cfg.InitialBackoff
	wsCfg.MaxBackoff = cfg.MaxBackoff
	wsCfg.MaxReconnects = cfg.MaxReconnects
	wsCfg.PingInterval = cfg.PingInterval

	ws, err := wsconn.New(wsCfg)
	if err != nil {
		return nil, err
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 1
	}

	s := &Subscriber{
		config: cfg,
		logger: log,
		ws:     ws,
		events: make(chan domain.Event, cfg.BufferSize),
		done:   make(chan struct{}),
		tracer: otel.Tracer(tracerName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	ws.OnMessage(s.handleFrame)
	ws.OnStateChange(s.handleState)
	return s, nil
}

func (s *Subscriber) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error
	s.metrics = &subscriberMetrics{}

	s.metrics.eventsReceived, err = meter.Int64Counter(
		"cometbft_events_received_total",
		metric.WithDescription("Events received from the node, by type"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	s.metrics.parseErrors, err = meter.Int64Counter(
		"cometbft_parse_errors_total",
		metric.WithDescription("Websocket frames that could not be decoded"),
		metric.WithUnit("{frame}"),
	)
	if err != nil {
		return err
	}

	s.metrics.subscribeErrors, err = meter.Int64Counter(
		"cometbft_subscribe_errors_total",
		metric.WithDescription("Failed subscribe requests or error responses"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	s.metrics.connectionState, err = meter.Int64Gauge(
		"cometbft_connection_state",
		metric.WithDescription("Stream state (0=disconnected, 1=connecting, 2=connected, 3=reconnecting, 4=closed)"),
		metric.WithUnit("{state}"),
	)
	if err != nil {
		return err
	}

	s.metrics.blockLatency, err = meter.Float64Histogram(
		"cometbft_block_latency_ms",
		metric.WithDescription("Latency from block time to receipt"),
		metric.WithUnit("ms"),
	)
	return err
}

// Subscribe connects in the background and returns the event channel. The
// channel is closed when ctx is done, Close is called or reconnects are
// exhausted.
func (s *Subscriber) Subscribe(ctx context.Context) (<-chan domain.Event, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	select {
	case <-s.done:
		return nil, apperror.New(apperror.CodeStreamClosed, apperror.WithContext("subscriber is closed"))
	default:
	}
	if s.started {
		return s.events, nil
	}
	s.started = true

	go func() {
		if err := s.ws.ConnectWithRetry(ctx); err != nil {
			s.logger.Error(ctx, "event stream connect failed", "url", s.config.WSURL, "error", err)
			_ = s.Close()
			return
		}
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-s.done:
		}
	}()

	return s.events, nil
}

func (s *Subscriber) handleState(state wsconn.State, err error) {
	ctx := context.Background()
	s.metrics.connectionState.Record(ctx, stateValue(state))

	switch state {
	case wsconn.StateConnected:
		s.connected.Store(true)
		s.logger.Info(ctx, "event stream connected", "url", s.config.WSURL)
		s.sendSubscriptions(ctx)
	case wsconn.StateReconnecting:
		s.logger.Warn(ctx, "event stream lost, reconnecting", "error", err)
	case wsconn.StateDisconnected:
		if err != nil && s.connected.Load() {
			// After the first dial this only happens once reconnects are exhausted.
			s.logger.Error(ctx, "event stream disconnected", "error", err)
			go s.Close()
		}
	}
}

func (s *Subscriber) sendSubscriptions(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "cometbft.subscribe")
	defer span.End()

	for i, q := range []string{queryNewBlock, queryTx} {
		if err := s.ws.SendJSON(ctx, subscribeRequest(i+1, q)); err != nil {
			s.metrics.subscribeErrors.Add(ctx, 1)
			span.RecordError(err)
			span.SetStatus(codes.Error, "subscribe failed")
			s.logger.Error(ctx, "subscribe request failed", "query", q, "error", err)
		}
	}
}

func (s *Subscriber) handleFrame(ctx context.Context, frame []byte) {
	ev, err := decodeFrame(frame)
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeNodeSubscribeFailed {
			s.metrics.subscribeErrors.Add(ctx, 1)
		} else {
			s.metrics.parseErrors.Add(ctx, 1)
		}
		s.logger.Warn(ctx, "dropping websocket frame", "error", err)
		return
	}
	if ev == nil {
		return
	}
	s.emit(ctx, *ev)
}

func (s *Subscriber) emit(ctx context.Context, ev domain.Event) {
	kind := "tx"
	if ev.Block != nil {
		kind = "block"
		s.metrics.blockLatency.Record(ctx, float64(time.Since(ev.Block.Time).Milliseconds()))
		s.logger.Debug(ctx, "block received", "height", ev.Block.Height, "txs", len(ev.Block.Txs))
	} else {
		s.logger.Debug(ctx, "tx received", "height", ev.Tx.Height, "hash", hex.EncodeToString(ev.Tx.Hash))
	}

	s.sendMu.RLock()
	defer s.sendMu.RUnlock()

	// Blocks the reader when the consumer lags rather than dropping events.
	select {
	case s.events <- ev:
		s.metrics.eventsReceived.Add(ctx, 1, metric.WithAttributes(attribute.String("type", kind)))
	case <-s.done:
	}
}

// State returns the current connection state.
func (s *Subscriber) State() domain.ConnectionState {
	return domain.ConnectionState(s.ws.State())
}

// Close stops the stream and closes the event channel.
func (s *Subscriber) Close() error {
	s.closeOnce.Do(func() {
		s.logger.Info(context.Background(), "closing event stream")
		close(s.done)
		_ = s.ws.Close()

		s.sendMu.Lock()
		close(s.events)
		s.sendMu.Unlock()
	})
	return nil
}

func stateValue(state wsconn.State) int64 {
	switch state {
	case wsconn.StateConnecting:
		return 1
	case wsconn.StateConnected:
		return 2
	case wsconn.StateReconnecting:
		return 3
	case wsconn.StateClosed:
		return 4
	default:
		return 0
	}
}
