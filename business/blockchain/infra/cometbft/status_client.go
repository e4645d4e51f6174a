package cometbft

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	"github.com/fd1az/cosvm-explorer/internal/apperror"
	"github.com/fd1az/cosvm-explorer/internal/cache"
	"github.com/fd1az/cosvm-explorer/internal/circuitbreaker"
	"github.com/fd1az/cosvm-explorer/internal/httpclient"
	"github.com/fd1az/cosvm-explorer/internal/logger"
)

// StatusClientConfig configures the RPC status client.
type StatusClientConfig struct {
	RPCURL   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// DefaultStatusClientConfig returns sensible defaults.
func DefaultStatusClientConfig(rpcURL string) StatusClientConfig {
	return StatusClientConfig{
		RPCURL:   rpcURL,
		Timeout:  10 * time.Second,
		CacheTTL: 5 * time.Second,
	}
}

type statusResponse struct {
	Result struct {
		NodeInfo struct {
			Network string `json:"network"`
		} `json:"node_info"`
		SyncInfo struct {
			LatestBlockHeight string    `json:"latest_block_height"`
			LatestBlockTime   time.Time `json:"latest_block_time"`
			CatchingUp        bool      `json:"catching_up"`
		} `json:"sync_info"`
	} `json:"result"`
}

type validatorsResponse struct {
	Result struct {
		Total string `json:"total"`
	} `json:"result"`
}

// StatusClient queries /status and /validators over CometBFT's HTTP RPC.
type StatusClient struct {
	http  *httpclient.Client
	cb    *circuitbreaker.CircuitBreaker[*domain.NodeStatus]
	cache *cache.Cache[string, *domain.NodeStatus]
	log   logger.LoggerInterface
}

// NewStatusClient creates a StatusClient. The cache janitor stops with ctx.
func NewStatusClient(ctx context.Context, cfg StatusClientConfig, log logger.LoggerInterface) (*StatusClient, error) {
	hc, err := httpclient.New(
		httpclient.WithBaseURL(cfg.RPCURL),
		httpclient.WithProviderName("cometbft-rpc"),
		httpclient.WithRequestTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}

	cbCfg := circuitbreaker.DefaultConfig("cometbft-rpc")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	return &StatusClient{
		http:  hc,
		cb:    circuitbreaker.New[*domain.NodeStatus](cbCfg),
		cache: cache.New[string, *domain.NodeStatus](ctx, cfg.CacheTTL),
		log:   log,
	}, nil
}

// Status returns node status with the total validator count.
func (c *StatusClient) Status(ctx context.Context) (*domain.NodeStatus, error) {
	if st, ok := c.cache.Get("status"); ok {
		return st, nil
	}

	st, err := c.cb.Execute(ctx, c.fetch)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeStatusQueryFailed, "cometbft-rpc")
	}
	c.cache.Set("status", st)
	return st, nil
}

func (c *StatusClient) fetch(ctx context.Context) (*domain.NodeStatus, error) {
	var sr statusResponse
	if err := c.http.GetJSON(ctx, "/status", nil, &sr); err != nil {
		return nil, err
	}
	height, err := strconv.ParseInt(sr.Result.SyncInfo.LatestBlockHeight, 10, 64)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidFormat,
			apperror.WithContext("latest_block_height"), apperror.WithCause(err))
	}

	st := &domain.NodeStatus{
		Network:           sr.Result.NodeInfo.Network,
		LatestBlockHeight: height,
		LatestBlockTime:   sr.Result.SyncInfo.LatestBlockTime,
		CatchingUp:        sr.Result.SyncInfo.CatchingUp,
	}

	var vr validatorsResponse
	if err := c.http.GetJSON(ctx, "/validators", url.Values{"per_page": {"1"}}, &vr); err != nil {
		return nil, err
	}
	if st.ValidatorsTotal, err = strconv.Atoi(vr.Result.Total); err != nil {
		return nil, apperror.New(apperror.CodeInvalidFormat,
			apperror.WithContext("validators total"), apperror.WithCause(err))
	}

	return st, nil
}
