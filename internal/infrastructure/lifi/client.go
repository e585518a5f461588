package lifi

import (
	"context"
	"fmt"
	"time"

	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/pkg/metrics"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config holds what the client needs to reach the aggregator.
type Config struct {
	APIBase     string
	IntentsBase string
	APIKey      string
	Timeout     time.Duration
	RateLimit   float64 // requests per second, 0 disables limiting
	RateBurst   int
}

// Client forwards requests to the LI.FI REST API and returns the raw upstream answer.
type Client struct {
	client      *fasthttp.Client
	apiBase     string
	intentsBase string
	apiKey      string
	timeout     time.Duration
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a Client. Empty bases fall back to the public LI.FI endpoints.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.IntentsBase == "" {
		cfg.IntentsBase = DefaultIntentsBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		client:      &fasthttp.Client{Name: "bridge_gateway"},
		apiBase:     cfg.APIBase,
		intentsBase: cfg.IntentsBase,
		apiKey:      cfg.APIKey,
		timeout:     cfg.Timeout,
		limiter:     limiter,
		logger:      logger.Named("LiFiClient"),
	}
}

// Forward sends req upstream. Any HTTP status is returned as a response;
// only transport failures produce an error.
func (c *Client) Forward(ctx context.Context, req entity.ForwardRequest) (*entity.UpstreamResponse, error) {
	base := c.apiBase
	if req.Upstream == entity.UpstreamIntents {
		base = c.intentsBase
	}

	requestURL, err := ForwardURL(base, req.Path, req.RawQuery)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", req.Path, err)
	}

	method := req.Method
	if method == "" {
		method = fasthttp.MethodGet
	}

	httpReq := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(httpReq)
	httpReq.SetRequestURI(requestURL)
	httpReq.Header.SetMethod(method)
	httpReq.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set(APIKeyHeader, c.apiKey)
	}
	if method == fasthttp.MethodPost {
		httpReq.Header.SetContentType("application/json")
		httpReq.SetBody(req.Body)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Forwarding request to LI.FI", zap.String("method", method), zap.String("url", requestURL))

	start := time.Now()
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(httpReq, resp, deadline)
	} else {
		err = c.client.DoTimeout(httpReq, resp, c.timeout)
	}
	if err != nil {
		metrics.ObserveUpstream(req.Path, 0, time.Since(start))
		c.logger.Error("LI.FI request failed", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("request to %s failed: %w", requestURL, err)
	}
	metrics.ObserveUpstream(req.Path, resp.StatusCode(), time.Since(start))

	if resp.StatusCode() >= fasthttp.StatusBadRequest {
		c.logger.Warn("LI.FI returned an error status",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()),
		)
	}

	return &entity.UpstreamResponse{
		StatusCode:  resp.StatusCode(),
		ContentType: string(resp.Header.ContentType()),
		Body:        append([]byte(nil), resp.Body()...),
	}, nil
}
