// Package lcd queries the Cosmos SDK REST gateway for staking data.
package lcd

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/cosvm-explorer/business/staking/domain"
	"github.com/fd1az/cosvm-explorer/internal/apperror"
	"github.com/fd1az/cosvm-explorer/internal/circuitbreaker"
	"github.com/fd1az/cosvm-explorer/internal/httpclient"
	"github.com/fd1az/cosvm-explorer/internal/logger"
	"github.com/fd1az/cosvm-explorer/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/cosvm-explorer/business/staking/infra/lcd"

	validatorsEndpoint = "/cosmos/staking/v1beta1/validators"
)

// ClientConfig configures the LCD client.
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int // 0 = unlimited
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:           baseURL,
		Timeout:           10 * time.Second,
		RequestsPerMinute: 30,
	}
}

type validatorsResponse struct {
	Validators []struct {
		OperatorAddress string `json:"operator_address"`
		Jailed          bool   `json:"jailed"`
		Status          string `json:"status"`
		Tokens          string `json:"tokens"`
		Description     struct {
			Moniker string `json:"moniker"`
		} `json:"description"`
		Commission struct {
			CommissionRates struct {
				Rate string `json:"rate"`
			} `json:"commission_rates"`
		} `json:"commission"`
	} `json:"validators"`
	Pagination struct {
		Total string `json:"total"`
	} `json:"pagination"`
}

// Client fetches bonded validators.
type Client struct {
	http    *httpclient.Client
	cb      *circuitbreaker.CircuitBreaker[*domain.ValidatorSet]
	limiter *ratelimit.Limiter
	log     logger.LoggerInterface
	tracer  trace.Tracer
	now     func() time.Time
}

// NewClient creates an LCD client.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	hc, err := httpclient.New(
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithProviderName("cosmos-lcd"),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
	)
	if err != nil {
		return nil, err
	}

	cbCfg := circuitbreaker.DefaultConfig("cosmos-lcd")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	return &Client{
		http:    hc,
		cb:      circuitbreaker.New[*domain.ValidatorSet](cbCfg),
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		log:     log,
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}, nil
}

// BondedValidators returns the first page of bonded validators.
func (c *Client) BondedValidators(ctx context.Context, limit int) (*domain.ValidatorSet, error) {
	ctx, span := c.tracer.Start(ctx, "lcd.bonded_validators",
		trace.WithAttributes(attribute.Int("limit", limit)))
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperror.New(apperror.CodeRateLimitExceeded, apperror.WithCause(err))
	}

	set, err := c.cb.Execute(ctx, func(ctx context.Context) (*domain.ValidatorSet, error) {
		return c.fetch(ctx, limit)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.New(apperror.CodeValidatorQueryFailed,
			apperror.WithContext("cosmos-lcd"), apperror.WithCause(err))
	}

	span.SetAttributes(attribute.Int("validators", len(set.Validators)), attribute.Int("total", set.Total))
	c.log.Debug(ctx, "fetched validators", "count", len(set.Validators), "total", set.Total)
	return set, nil
}

func (c *Client) fetch(ctx context.Context, limit int) (*domain.ValidatorSet, error) {
	query := url.Values{
		"status":                 {string(domain.BondStatusBonded)},
		"pagination.limit":       {strconv.Itoa(limit)},
		"pagination.count_total": {"true"},
	}

	var resp validatorsResponse
	if err := c.http.GetJSON(ctx, validatorsEndpoint, query, &resp); err != nil {
		return nil, err
	}

	set := &domain.ValidatorSet{
		Validators: make([]domain.Validator, 0, len(resp.Validators)),
		FetchedAt:  c.now(),
	}
	for _, v := range resp.Validators {
		tokens, err := decimal.NewFromString(v.Tokens)
		if err != nil {
			return nil, apperror.New(apperror.CodeInvalidFormat,
				apperror.WithContext("tokens of "+v.OperatorAddress), apperror.WithCause(err))
		}
		rate := decimal.Zero
		if r := v.Commission.CommissionRates.Rate; r != "" {
			if rate, err = decimal.NewFromString(r); err != nil {
				return nil, apperror.New(apperror.CodeInvalidFormat,
					apperror.WithContext("commission of "+v.OperatorAddress), apperror.WithCause(err))
			}
		}
		set.Validators = append(set.Validators, domain.Validator{
			OperatorAddress: v.OperatorAddress,
			Moniker:         v.Description.Moniker,
			Status:          domain.BondStatus(v.Status),
			Jailed:          v.Jailed,
			Tokens:          tokens,
			CommissionRate:  rate,
		})
	}

	set.Total = len(set.Validators)
	if resp.Pagination.Total != "" {
		if total, err := strconv.Atoi(resp.Pagination.Total); err == nil {
			set.Total = total
		}
	}
	return set, nil
}
