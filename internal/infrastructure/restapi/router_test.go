package restapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bridge_gateway/internal/app/bridge"
	"bridge_gateway/internal/app/service"
	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeProxy struct {
	lastQuery string
	lastBody  string
	resp      *entity.UpstreamResponse
	err       error
}

func (f *fakeProxy) answer(rawQuery string) (*entity.UpstreamResponse, error) {
	f.lastQuery = rawQuery
	return f.resp, f.err
}

func (f *fakeProxy) Chains(_ context.Context, q string) (*entity.UpstreamResponse, error) {
	return f.answer(q)
}

func (f *fakeProxy) Tokens(_ context.Context, q string) (*entity.UpstreamResponse, error) {
	return f.answer(q)
}

func (f *fakeProxy) Integrators(_ context.Context, q string) (*entity.UpstreamResponse, error) {
	return f.answer(q)
}

func (f *fakeProxy) Quote(_ context.Context, q string) (*entity.UpstreamResponse, error) {
	return f.answer(q)
}

func (f *fakeProxy) IntentStatus(_ context.Context, q string) (*entity.UpstreamResponse, error) {
	return f.answer(q)
}

func (f *fakeProxy) Routes(_ context.Context, body []byte) (*entity.UpstreamResponse, error) {
	f.lastBody = string(body)
	return f.resp, f.err
}

type fakeCatalog struct {
	chains []entity.Chain
	tokens map[int64][]entity.Token
	err    error
}

func (f *fakeCatalog) Chains(context.Context) ([]entity.Chain, error) { return f.chains, f.err }

func (f *fakeCatalog) Tokens(_ context.Context, chainID int64) ([]entity.Token, error) {
	return f.tokens[chainID], f.err
}

func (f *fakeCatalog) FindToken(_ context.Context, chainID int64, address string) (entity.Token, bool, error) {
	for _, t := range f.tokens[chainID] {
		if t.Is(chainID, address) {
			return t, true, f.err
		}
	}
	return entity.Token{}, false, f.err
}

type fakeQuotes struct {
	state bridge.State
	err   error
}

func (f *fakeQuotes) ForState(_ context.Context, st bridge.State) (*entity.Quote, entity.QuoteSummary, error) {
	f.state = st
	if f.err != nil {
		return nil, entity.QuoteSummary{}, f.err
	}
	if !st.Complete() {
		return nil, entity.QuoteSummary{}, bridge.ErrIncompleteSelection
	}
	return &entity.Quote{ID: "q1"}, entity.QuoteSummary{FeeDisplay: "-", TimeDisplay: "1 min", MinReceived: "0.99 USDC"}, nil
}

func newTestRouter(p *fakeProxy, c *fakeCatalog, q *fakeQuotes) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(NewProxyHandler(p, logger.Nop()), NewBridgeHandler(c, q, logger.Nop()), RouterOptions{})
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, reader))
	return w
}

func TestProxyRoutesPassThrough(t *testing.T) {
	p := &fakeProxy{resp: &entity.UpstreamResponse{StatusCode: http.StatusTeapot, ContentType: "application/json", Body: []byte(`{"message":"upstream says no"}`)}}
	r := newTestRouter(p, &fakeCatalog{}, &fakeQuotes{})

	for _, target := range []string{
		"/api/lifi/chains?chainTypes=EVM",
		"/api/lifi/tokens?chains=137&include=popular",
		"/api/lifi/quote?fromChain=1&toChain=137",
		"/api/lifi/bridges-exchanges",
		"/api/lifi/intents/status?txHash=0x1",
	} {
		w := do(r, http.MethodGet, target, "")
		require.Equal(t, http.StatusTeapot, w.Code, target)
		require.JSONEq(t, `{"message":"upstream says no"}`, w.Body.String(), target)
	}
	require.Equal(t, "txHash=0x1", p.lastQuery)

	w := do(r, http.MethodPost, "/api/lifi/routes", `{"fromChainId":1}`)
	require.Equal(t, http.StatusTeapot, w.Code)
	require.Equal(t, `{"fromChainId":1}`, p.lastBody)
}

func TestProxyRoutesRejectsOversizedBody(t *testing.T) {
	p := &fakeProxy{resp: &entity.UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`[]`)}}
	r := newTestRouter(p, &fakeCatalog{}, &fakeQuotes{})

	w := do(r, http.MethodPost, "/api/lifi/routes", strings.Repeat("x", maxRoutesBody+1))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	require.Empty(t, p.lastBody)

	atLimit := `"` + strings.Repeat("x", maxRoutesBody-2) + `"`
	w = do(r, http.MethodPost, "/api/lifi/routes", atLimit)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, p.lastBody, maxRoutesBody)
}

func TestProxyRoutesNetworkFailure(t *testing.T) {
	p := &fakeProxy{err: errors.New("dial tcp: connection refused")}
	r := newTestRouter(p, &fakeCatalog{}, &fakeQuotes{})

	w := do(r, http.MethodGet, "/api/lifi/chains", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"dial tcp: connection refused"}`, w.Body.String())
}

var catalog = &fakeCatalog{
	chains: []entity.Chain{{ID: 1, Name: "Ethereum"}, {ID: 137, Name: "Polygon"}},
	tokens: map[int64][]entity.Token{
		1:   {{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", ChainID: 1, Symbol: "USDC", Decimals: 6}},
		137: {{Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", ChainID: 137, Symbol: "USDC", Decimals: 6}},
	},
}

func TestCatalogRoutes(t *testing.T) {
	r := newTestRouter(&fakeProxy{}, catalog, &fakeQuotes{})

	w := do(r, http.MethodGet, "/api/v1/chains", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"chains":[{"id":1,"name":"Ethereum"},{"id":137,"name":"Polygon"}]}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/chains/137/tokens", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"symbol":"USDC"`)

	w = do(r, http.MethodGet, "/api/v1/chains/abc/tokens", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCatalogRoutesUpstreamStatus(t *testing.T) {
	failing := &fakeCatalog{err: &service.UpstreamStatusError{Path: "chains", StatusCode: http.StatusTooManyRequests}}
	r := newTestRouter(&fakeProxy{}, failing, &fakeQuotes{})

	w := do(r, http.MethodGet, "/api/v1/chains", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestQuoteRoute(t *testing.T) {
	q := &fakeQuotes{}
	r := newTestRouter(&fakeProxy{}, catalog, q)

	w := do(r, http.MethodGet, "/api/v1/quote?fromChain=1&toChain=137&fromToken=0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48&toToken=0x3c499c542cef5e3811e1192ce70d8cc03d5c3359&amount=2.5&slippage=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"minReceived":"0.99 USDC"`)
	require.Equal(t, "2500000", q.state.BaseAmount())
	require.Equal(t, 1.0, q.state.Slippage)

	w = do(r, http.MethodGet, "/api/v1/quote?fromChain=1&toChain=137&fromToken=0xdead&toToken=0x3c499c542cef5e3811e1192ce70d8cc03d5c3359&amount=1", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/quote?fromChain=x", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/quote?fromChain=1&toChain=137&slippage=lots", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
