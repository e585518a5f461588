package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bridge_gateway/internal/app/port"
	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/pkg/metrics"
	"bridge_gateway/internal/pkg/normalize"
)

// CatalogService serves normalized chain and token lists.
type CatalogService struct {
	upstream port.Forwarder
	logger   port.Logger
}

// NewCatalogService creates a CatalogService. upstream is normally the caching ProxyService.
func NewCatalogService(upstream port.Forwarder, l port.Logger) *CatalogService {
	return &CatalogService{upstream: upstream, logger: l}
}

// Chains returns the supported chains in upstream order.
func (s *CatalogService) Chains(ctx context.Context) ([]entity.Chain, error) {
	resp, err := s.upstream.Forward(ctx, entity.ForwardRequest{Method: http.MethodGet, Path: PathChains})
	if err != nil {
		return nil, fmt.Errorf("fetch chains: %w", err)
	}
	if err := requireOK(PathChains, resp); err != nil {
		return nil, err
	}

	chains := normalize.NormalizeChains(resp.Body)
	metrics.NormalizedItems.WithLabelValues("chains").Observe(float64(len(chains)))
	if len(chains) == 0 {
		s.logger.Warn("Chain list normalized to an empty result", "bytes", len(resp.Body))
	}
	return chains, nil
}

// Tokens returns the popular tokens of chainID.
func (s *CatalogService) Tokens(ctx context.Context, chainID int64) ([]entity.Token, error) {
	q := url.Values{}
	q.Set("chains", strconv.FormatInt(chainID, 10))
	q.Set("include", "popular")

	resp, err := s.upstream.Forward(ctx, entity.ForwardRequest{Method: http.MethodGet, Path: PathTokens, RawQuery: q.Encode()})
	if err != nil {
		return nil, fmt.Errorf("fetch tokens for chain %d: %w", chainID, err)
	}
	if err := requireOK(PathTokens, resp); err != nil {
		return nil, err
	}

	tokens := normalize.NormalizeTokens(resp.Body, chainID)
	metrics.NormalizedItems.WithLabelValues("tokens").Observe(float64(len(tokens)))
	s.logger.Debug("Tokens normalized", "chainId", chainID, "count", len(tokens))
	return tokens, nil
}

// FindToken looks up a token of chainID by address, ignoring address case.
func (s *CatalogService) FindToken(ctx context.Context, chainID int64, address string) (entity.Token, bool, error) {
	tokens, err := s.Tokens(ctx, chainID)
	if err != nil {
		return entity.Token{}, false, err
	}
	for _, t := range tokens {
		if t.Is(chainID, address) {
			return t, true, nil
		}
	}
	return entity.Token{}, false, nil
}

// FindTokenBySymbol returns the first token of chainID whose symbol matches, ignoring case.
// Used by the CLI, where users type symbols rather than addresses.
func (s *CatalogService) FindTokenBySymbol(ctx context.Context, chainID int64, symbol string) (entity.Token, bool, error) {
	tokens, err := s.Tokens(ctx, chainID)
	if err != nil {
		return entity.Token{}, false, err
	}
	for _, t := range tokens {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, true, nil
		}
	}
	return entity.Token{}, false, nil
}
