package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

const (
	defaultDialKeepAlive   = 10 * time.Second
	defaultRequestTimeout  = 10 * time.Second
	defaultMaxConnsPerHost = 5
	defaultIdleConnTimeout = 2 * time.Minute
	maxBodyBytes           = 8 << 20

	metricRequestCounter = "http_client_requests_total"
)

// Client issues JSON GET requests against a base URL.
type Client struct {
	client         *http.Client
	requestCounter metric.Int64Counter
	providerName   string
	tracer         trace.Tracer
	baseURL        string
	headers        map[string]string
}

// New creates a new instrumented HTTP client.
func New(opts ...ClientOption) (*Client, error) {
	options := newClientOptions(opts...)

	base := options.roundTripper
	if base == nil {
		base = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			MaxConnsPerHost: defaultMaxConnsPerHost,
			IdleConnTimeout: defaultIdleConnTimeout,
		}
	}

	httpClient := &http.Client{
		Timeout: options.requestTimeout,
		Transport: otelhttp.NewTransport(
			base,
			otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
				return otelhttptrace.NewClientTrace(ctx)
			}),
		),
	}

	meterProvider := options.meterProvider
	if meterProvider == nil {
		meterProvider = otel.GetMeterProvider()
	}
	meter := meterProvider.Meter(
		"instrumented_http_client",
		metric.WithInstrumentationAttributes(attribute.String("provider", options.providerName)),
	)
	requestCounter, err := meter.Int64Counter(
		metricRequestCounter,
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		client:         httpClient,
		requestCounter: requestCounter,
		providerName:   options.providerName,
		tracer:         otel.Tracer("instrumented_http_client"),
		baseURL:        strings.TrimSuffix(options.baseURL, "/"),
		headers:        options.headers,
	}, nil
}

// GetJSON fetches path (joined to the base URL) and decodes the body into out.
// Non-2xx responses become AppErrors classified by status code.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	fullURL := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "http.get",
		trace.WithAttributes(
			attribute.String("http.url", fullURL),
			attribute.String("provider", c.providerName),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		c.fail(ctx, span, err)
		return apperror.New(apperror.CodeInvalidInput, apperror.WithContext(fullURL), apperror.WithCause(err))
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.fail(ctx, span, err)
		return classifyTransportError(c.providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.fail(ctx, span, err)
		return apperror.External(apperror.CodeExternalServiceError, c.providerName, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		err := statusError(c.providerName, resp.StatusCode, body)
		c.fail(ctx, span, err)
		return err
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			c.fail(ctx, span, err)
			return apperror.New(apperror.CodeInvalidFormat,
				apperror.WithContext(c.providerName), apperror.WithCause(err))
		}
	}

	c.record(ctx, true)
	return nil
}

func (c *Client) fail(ctx context.Context, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.record(ctx, false)
}

func (c *Client) record(ctx context.Context, success bool) {
	c.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", c.providerName),
		attribute.Bool("success", success),
	))
}

func classifyTransportError(provider string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return apperror.External(apperror.CodeServiceTimeout, provider, err)
	default:
		return apperror.External(apperror.CodeServiceUnavailable, provider, err)
	}
}

func statusError(provider string, status int, body []byte) error {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 256 {
		snippet = snippet[:256]
	}
	cause := fmt.Errorf("status %d: %s", status, snippet)

	switch {
	case status == http.StatusTooManyRequests:
		return apperror.External(apperror.CodeRateLimitExceeded, provider, cause)
	case status == http.StatusNotFound:
		return apperror.New(apperror.CodeNotFound, apperror.WithContext(provider), apperror.WithCause(cause))
	case status >= http.StatusInternalServerError:
		return apperror.External(apperror.CodeServiceUnavailable, provider, cause)
	default:
		return apperror.External(apperror.CodeExternalServiceError, provider, cause)
	}
}
