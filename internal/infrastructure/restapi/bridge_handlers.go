package restapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"bridge_gateway/internal/app/bridge"
	"bridge_gateway/internal/app/port"
	"bridge_gateway/internal/app/service"
	"bridge_gateway/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// CatalogService serves normalized chain and token lists.
type CatalogService interface {
	Chains(ctx context.Context) ([]entity.Chain, error)
	Tokens(ctx context.Context, chainID int64) ([]entity.Token, error)
	FindToken(ctx context.Context, chainID int64, address string) (entity.Token, bool, error)
}

// QuoteService fetches and summarizes quotes.
type QuoteService interface {
	ForState(ctx context.Context, st bridge.State) (*entity.Quote, entity.QuoteSummary, error)
}

// APIQuoteResponse is returned by GET /api/v1/quote.
type APIQuoteResponse struct {
	Quote   *entity.Quote       `json:"quote"`
	Summary entity.QuoteSummary `json:"summary"`
}

// BridgeHandler serves the normalized /api/v1 endpoints.
type BridgeHandler struct {
	catalog CatalogService
	quotes  QuoteService
	logger  port.Logger
}

// NewBridgeHandler creates a new BridgeHandler.
func NewBridgeHandler(catalog CatalogService, quotes QuoteService, l port.Logger) *BridgeHandler {
	return &BridgeHandler{catalog: catalog, quotes: quotes, logger: l}
}

// GetChainsHandler handles GET /api/v1/chains.
func (h *BridgeHandler) GetChainsHandler(c *gin.Context) {
	chains, err := h.catalog.Chains(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chains": chains})
}

// GetTokensHandler handles GET /api/v1/chains/:chainId/tokens.
func (h *BridgeHandler) GetTokensHandler(c *gin.Context) {
	chainID, err := strconv.ParseInt(c.Param("chainId"), 10, 64)
	if err != nil || chainID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chainId must be a positive integer"})
		return
	}

	tokens, err := h.catalog.Tokens(c.Request.Context(), chainID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// GetQuoteHandler handles GET /api/v1/quote.
// Query: fromChain, toChain, fromToken, toToken (addresses), amount (human units), slippage (percent), fromAddress.
func (h *BridgeHandler) GetQuoteHandler(c *gin.Context) {
	ctx := c.Request.Context()

	fromChain, err1 := strconv.ParseInt(c.Query("fromChain"), 10, 64)
	toChain, err2 := strconv.ParseInt(c.Query("toChain"), 10, 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromChain and toChain must be integers"})
		return
	}

	st := bridge.NewState()
	st = bridge.Reduce(st, bridge.SetFromChain{ChainID: fromChain})
	st = bridge.Reduce(st, bridge.SetToChain{ChainID: toChain})
	st = bridge.Reduce(st, bridge.SetAmount{Amount: c.Query("amount")})
	st = bridge.Reduce(st, bridge.SetAddresses{From: c.Query("fromAddress"), To: c.Query("toAddress")})
	if raw := c.Query("slippage"); raw != "" {
		pct, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slippage must be a number"})
			return
		}
		st = bridge.Reduce(st, bridge.SetSlippage{Pct: pct})
	}

	fromToken, ok, err := h.catalog.FindToken(ctx, fromChain, c.Query("fromToken"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if ok {
		st = bridge.Reduce(st, bridge.SetFromToken{Token: &fromToken})
	}
	toToken, ok, err := h.catalog.FindToken(ctx, toChain, c.Query("toToken"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if ok {
		st = bridge.Reduce(st, bridge.SetToToken{Token: &toToken})
	}

	q, summary, err := h.quotes.ForState(ctx, st)
	if errors.Is(err, bridge.ErrIncompleteSelection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown token or missing amount"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIQuoteResponse{Quote: q, Summary: summary})
}

// fail answers with the upstream status when the aggregator rejected the request, 500 otherwise.
func (h *BridgeHandler) fail(c *gin.Context, err error) {
	if statusErr, ok := service.IsUpstreamStatus(err); ok {
		h.logger.Warn("Upstream rejected request", "path", c.FullPath(), "status", statusErr.StatusCode)
		c.JSON(statusErr.StatusCode, gin.H{"error": statusErr.Error()})
		return
	}
	h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
