package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bridge_gateway/internal/app/port"
	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/pkg/metrics"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Upstream paths, relative to the configured base URLs.
const (
	PathChains       = "chains"
	PathTokens       = "tokens"
	PathIntegrators  = "integrators"
	PathQuote        = "quote"
	PathRoutes       = "advanced/routes"
	PathIntentStatus = "status"
)

// DefaultRevalidateWindows returns how long a successful GET answer may be served from cache, by path.
// Paths without an entry are never cached.
func DefaultRevalidateWindows() map[string]time.Duration {
	return map[string]time.Duration{
		PathChains:      60 * time.Second,
		PathTokens:      60 * time.Second,
		PathIntegrators: 300 * time.Second,
	}
}

// ProxyService forwards requests to the aggregator, serving cacheable GETs from memory
// for their revalidate window. Concurrent identical misses share one upstream call.
type ProxyService struct {
	upstream port.Forwarder
	windows  map[string]time.Duration
	cache    *cache.Cache
	group    singleflight.Group
	logger   port.Logger
}

// NewProxyService creates a ProxyService. A nil windows map uses DefaultRevalidateWindows.
func NewProxyService(upstream port.Forwarder, windows map[string]time.Duration, l port.Logger) *ProxyService {
	if windows == nil {
		windows = DefaultRevalidateWindows()
	}
	return &ProxyService{
		upstream: upstream,
		windows:  windows,
		cache:    cache.New(cache.NoExpiration, time.Minute),
		logger:   l,
	}
}

// Forward implements port.Forwarder.
func (s *ProxyService) Forward(ctx context.Context, req entity.ForwardRequest) (*entity.UpstreamResponse, error) {
	ttl, cacheable := s.windows[req.Path]
	if req.Method != "" && req.Method != http.MethodGet {
		cacheable = false
	}
	if !cacheable || ttl <= 0 {
		return s.upstream.Forward(ctx, req)
	}

	key := req.CacheKey()
	if v, ok := s.cache.Get(key); ok {
		metrics.CacheLookup(req.Path, true)
		return v.(*entity.UpstreamResponse), nil
	}
	metrics.CacheLookup(req.Path, false)

	// The shared call outlives any single caller; the client applies its own timeout.
	ch := s.group.DoChan(key, func() (any, error) {
		resp, err := s.upstream.Forward(context.WithoutCancel(ctx), req)
		if err != nil {
			return nil, err
		}
		if resp.OK() {
			s.cache.Set(key, resp, ttl)
		}
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			s.logger.Debug("Upstream response shared between concurrent requests", "key", key)
		}
		return r.Val.(*entity.UpstreamResponse), nil
	}
}

// Chains forwards a chain list request.
func (s *ProxyService) Chains(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error) {
	return s.Forward(ctx, entity.ForwardRequest{Method: http.MethodGet, Path: PathChains, RawQuery: rawQuery})
}

// Tokens forwards a token list request.
func (s *ProxyService) Tokens(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error) {
	return s.Forward(ctx, entity.ForwardRequest{Method: http.MethodGet, Path: PathTokens, RawQuery: rawQuery})
}

// Integrators forwards the bridges and exchanges listing.
func (s *ProxyService) Integrators(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error) {
	return s.Forward(ctx, entity.ForwardRequest{Method: http.MethodGet, Path: PathIntegrators, RawQuery: rawQuery})
}

// Quote forwards a quote request.
func (s *ProxyService) Quote(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error) {
	return s.Forward(ctx, entity.ForwardRequest{Method: http.MethodGet, Path: PathQuote, RawQuery: rawQuery})
}

// Routes forwards an advanced routes request body.
func (s *ProxyService) Routes(ctx context.Context, body []byte) (*entity.UpstreamResponse, error) {
	return s.Forward(ctx, entity.ForwardRequest{Method: http.MethodPost, Path: PathRoutes, Body: body})
}

// IntentStatus forwards an intent status lookup to the intents API.
func (s *ProxyService) IntentStatus(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error) {
	return s.Forward(ctx, entity.ForwardRequest{
		Upstream: entity.UpstreamIntents,
		Method:   http.MethodGet,
		Path:     PathIntentStatus,
		RawQuery: rawQuery,
	})
}

// Purge drops every cached response.
func (s *ProxyService) Purge() {
	s.cache.Flush()
}

// UpstreamStatusError reports a non-2xx answer where the caller needed a successful one.
type UpstreamStatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d: %s", e.Path, e.StatusCode, e.Body)
}

func requireOK(path string, resp *entity.UpstreamResponse) error {
	if resp.OK() {
		return nil
	}
	body := string(resp.Body)
	if len(body) > 512 {
		body = body[:512]
	}
	return &UpstreamStatusError{Path: path, StatusCode: resp.StatusCode, Body: body}
}
