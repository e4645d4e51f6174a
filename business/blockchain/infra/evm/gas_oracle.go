// Package evm reads gas prices from the chain's EVM JSON-RPC endpoint.
package evm

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	"github.com/fd1az/cosvm-explorer/internal/apperror"
	"github.com/fd1az/cosvm-explorer/internal/cache"
	"github.com/fd1az/cosvm-explorer/internal/circuitbreaker"
	"github.com/fd1az/cosvm-explorer/internal/logger"
)

const (
	tracerName = "github.com/fd1az/cosvm-explorer/business/blockchain/infra/evm"
	meterName  = "github.com/fd1az/cosvm-explorer/business/blockchain/infra/evm"
)

// GasOracleConfig holds configuration for the gas oracle.
type GasOracleConfig struct {
	RPCURL      string
	CacheTTL    time.Duration
	MaxGasPrice *big.Int // clamp for obviously wrong node answers
}

// DefaultGasOracleConfig returns sensible defaults.
func DefaultGasOracleConfig(rpcURL string) GasOracleConfig {
	maxGas, _ := new(big.Int).SetString("10000000000000", 10) // 10k gwei
	return GasOracleConfig{
		RPCURL:      rpcURL,
		CacheTTL:    10 * time.Second,
		MaxGasPrice: maxGas,
	}
}

type gasOracleMetrics struct {
	fetches     metric.Int64Counter
	gwei        metric.Float64Gauge
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

// GasOracle implements app.GasOracle with go-ethereum's ethclient.
type GasOracle struct {
	config GasOracleConfig
	logger logger.LoggerInterface

	client   *ethclient.Client
	clientMu sync.Mutex

	priceCache *cache.Cache[string, *domain.GasPrice]
	cb         *circuitbreaker.CircuitBreaker[*big.Int]
	now        func() time.Time

	tracer  trace.Tracer
	metrics *gasOracleMetrics
}

// NewGasOracle creates a gas oracle. The node is dialled on first use.
func NewGasOracle(ctx context.Context, cfg GasOracleConfig, log logger.LoggerInterface) (*GasOracle, error) {
	g := &GasOracle{
		config:     cfg,
		logger:     log,
		priceCache: cache.New[string, *domain.GasPrice](ctx, cfg.CacheTTL),
		now:        time.Now,
		tracer:     otel.Tracer(tracerName),
	}
	if err := g.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	cbCfg := circuitbreaker.DefaultConfig("evm-gas")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	g.cb = circuitbreaker.New[*big.Int](cbCfg)

	return g, nil
}

func (g *GasOracle) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error
	g.metrics = &gasOracleMetrics{}

	if g.metrics.fetches, err = meter.Int64Counter(
		"gas_price_fetches_total",
		metric.WithDescription("Total gas price fetch attempts"),
		metric.WithUnit("{fetch}"),
	); err != nil {
		return err
	}
	if g.metrics.gwei, err = meter.Float64Gauge(
		"gas_price_gwei",
		metric.WithDescription("Current gas price in gwei"),
		metric.WithUnit("gwei"),
	); err != nil {
		return err
	}
	if g.metrics.cacheHits, err = meter.Int64Counter(
		"gas_cache_hits_total",
		metric.WithDescription("Gas price cache hits"),
	); err != nil {
		return err
	}
	g.metrics.cacheMisses, err = meter.Int64Counter(
		"gas_cache_misses_total",
		metric.WithDescription("Gas price cache misses"),
	)
	return err
}

func (g *GasOracle) dial(ctx context.Context) (*ethclient.Client, error) {
	g.clientMu.Lock()
	defer g.clientMu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	client, err := ethclient.DialContext(ctx, g.config.RPCURL)
	if err != nil {
		return nil, apperror.External(apperror.CodeNodeConnectionFailed, "evm rpc", err)
	}
	g.client = client
	g.logger.Info(ctx, "gas oracle connected", "url", g.config.RPCURL)
	return client, nil
}

// GasPrice returns the suggested gas price, cached for CacheTTL.
func (g *GasOracle) GasPrice(ctx context.Context) (*domain.GasPrice, error) {
	ctx, span := g.tracer.Start(ctx, "gas.get_price")
	defer span.End()

	if price, ok := g.priceCache.Get("current"); ok {
		g.metrics.cacheHits.Add(ctx, 1)
		span.AddEvent("cache_hit")
		return price, nil
	}
	g.metrics.cacheMisses.Add(ctx, 1)
	g.metrics.fetches.Add(ctx, 1)

	client, err := g.dial(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return nil, err
	}

	wei, err := g.cb.Execute(ctx, func(ctx context.Context) (*big.Int, error) {
		return client.SuggestGasPrice(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, apperror.Wrap(err, apperror.CodeGasQueryFailed, "eth_gasPrice")
	}

	if g.config.MaxGasPrice != nil && wei.Cmp(g.config.MaxGasPrice) > 0 {
		g.logger.Warn(ctx, "gas price exceeds max, clamping", "wei", wei.String())
		wei = g.config.MaxGasPrice
	}

	price := domain.NewGasPrice(wei, g.now())
	g.priceCache.Set("current", price)

	gwei, _ := price.Gwei().Float64()
	g.metrics.gwei.Record(ctx, gwei)
	span.SetAttributes(attribute.Float64("gwei", gwei))

	return price, nil
}

// Close closes the RPC client.
func (g *GasOracle) Close() error {
	g.clientMu.Lock()
	defer g.clientMu.Unlock()

	if g.client != nil {
		g.client.Close()
		g.client = nil
	}
	return nil
}
