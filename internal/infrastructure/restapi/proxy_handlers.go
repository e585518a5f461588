package restapi

import (
	"context"
	"io"
	"net/http"

	"bridge_gateway/internal/app/port"
	"bridge_gateway/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

const maxRoutesBody = 1 << 20

// ProxyService is the caching forwarder behind the /api/lifi routes.
type ProxyService interface {
	Chains(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error)
	Tokens(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error)
	Integrators(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error)
	Quote(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error)
	Routes(ctx context.Context, body []byte) (*entity.UpstreamResponse, error)
	IntentStatus(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error)
}

// ProxyHandler passes aggregator answers through unmodified.
type ProxyHandler struct {
	proxy  ProxyService
	logger port.Logger
}

// NewProxyHandler creates a new ProxyHandler.
func NewProxyHandler(proxy ProxyService, l port.Logger) *ProxyHandler {
	return &ProxyHandler{proxy: proxy, logger: l}
}

type queryForwarder func(ctx context.Context, rawQuery string) (*entity.UpstreamResponse, error)

func (h *ProxyHandler) forwardQuery(fn queryForwarder) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := fn(c.Request.Context(), c.Request.URL.RawQuery)
		h.write(c, resp, err)
	}
}

// Chains handles GET /api/lifi/chains.
func (h *ProxyHandler) Chains(c *gin.Context) { h.forwardQuery(h.proxy.Chains)(c) }

// Tokens handles GET /api/lifi/tokens.
func (h *ProxyHandler) Tokens(c *gin.Context) { h.forwardQuery(h.proxy.Tokens)(c) }

// BridgesExchanges handles GET /api/lifi/bridges-exchanges.
func (h *ProxyHandler) BridgesExchanges(c *gin.Context) { h.forwardQuery(h.proxy.Integrators)(c) }

// Quote handles GET /api/lifi/quote.
func (h *ProxyHandler) Quote(c *gin.Context) { h.forwardQuery(h.proxy.Quote)(c) }

// IntentStatus handles GET /api/lifi/intents/status.
func (h *ProxyHandler) IntentStatus(c *gin.Context) { h.forwardQuery(h.proxy.IntentStatus)(c) }

// Routes handles POST /api/lifi/routes.
func (h *ProxyHandler) Routes(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRoutesBody+1))
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(body) > maxRoutesBody {
		h.logger.Warn("Routes request body too large", "limit", maxRoutesBody)
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	resp, err := h.proxy.Routes(c.Request.Context(), body)
	h.write(c, resp, err)
}

func (h *ProxyHandler) write(c *gin.Context, resp *entity.UpstreamResponse, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}

func (h *ProxyHandler) fail(c *gin.Context, err error) {
	h.logger.Error("Proxy request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
