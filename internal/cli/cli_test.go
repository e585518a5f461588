package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"bridge_gateway/internal/domain/entity"
	networkdefinition "bridge_gateway/internal/infrastructure/network/definition"
	"bridge_gateway/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

const chainsBody = `{"chains": [
  {"id": 1, "key": "eth", "name": "Ethereum", "chainType": "EVM",
   "nativeToken": {"address": "0x0000000000000000000000000000000000000000", "chainId": 1, "symbol": "ETH", "decimals": 18}},
  {"id": 137, "key": "pol", "name": "Polygon", "chainType": "EVM",
   "nativeToken": {"address": "0x0000000000000000000000000000000000000000", "chainId": 137, "symbol": "POL", "decimals": 18}}
]}`

const tokensBody = `{"tokens": {
  "1": [
    {"address": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "chainId": 1, "symbol": "USDC", "name": "USD Coin", "decimals": 6, "priceUSD": "1.00"},
    {"address": "0x0000000000000000000000000000000000000000", "chainId": 1, "symbol": "ETH", "name": "Ether", "decimals": 18}
  ],
  "137": [
    {"address": "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", "chainId": 137, "symbol": "USDC", "name": "USD Coin", "decimals": 6}
  ]
}}`

const quoteBody = `{
  "id": "q-cli",
  "tool": "stargate",
  "action": {
    "fromChainId": 1, "toChainId": 137,
    "toToken": {"address": "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", "chainId": 137, "symbol": "USDC", "decimals": 6}
  },
  "estimate": {
    "approvalAddress": "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE",
    "toAmount": "24990000",
    "toAmountMin": "24865050",
    "executionDuration": 95,
    "feeCosts": [{"name": "LI.FI fee", "amount": "62500",
      "token": {"address": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "chainId": 1, "symbol": "USDC", "decimals": 6}}]
  },
  "transactionRequest": {"to": "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE", "data": "0x01", "value": "0x0", "chainId": 1}
}`

const statusBody = `{"status": "DONE", "substatus": "COMPLETED", "tool": "stargate",
  "receiving": {"txHash": "0xdef", "chainId": 137, "amount": "24900000",
    "token": {"address": "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", "chainId": 137, "symbol": "USDC", "decimals": 6}}}`

// fakeLiFi serves canned aggregator answers and records the queries it saw.
type fakeLiFi struct {
	mu      sync.Mutex
	queries map[string]url.Values
}

func (f *fakeLiFi) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.queries[r.URL.Path] = r.URL.Query()
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/chains":
		_, _ = w.Write([]byte(chainsBody))
	case "/tokens":
		_, _ = w.Write([]byte(tokensBody))
	case "/quote":
		_, _ = w.Write([]byte(quoteBody))
	case "/status":
		_, _ = w.Write([]byte(statusBody))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}
}

func (f *fakeLiFi) query(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[path]
}

func newFakeLiFi(t *testing.T) (*fakeLiFi, string) {
	t.Helper()
	f := &fakeLiFi{queries: map[string]url.Values{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	t.Setenv("BRIDGE_INTENTS_BASE", srv.URL)
	t.Setenv("BRIDGE_WALLET_KEY", "")
	t.Setenv("BRIDGE_WALLET_PRIVATE_KEY", "")
	return f, srv.URL
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewBufferString("n\n"))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestChainsCommandJSON(t *testing.T) {
	_, base := newFakeLiFi(t)

	out, err := runCLI(t, "chains", "--json", "--api-base", base)
	require.NoError(t, err)

	var chains []entity.Chain
	require.NoError(t, json.Unmarshal([]byte(out), &chains))
	require.Len(t, chains, 2)
	require.Equal(t, "Polygon", chains[1].Name)
	require.Equal(t, "POL", chains[1].NativeToken.Symbol)
}

func TestTokensCommandResolvesChainKey(t *testing.T) {
	fake, base := newFakeLiFi(t)

	out, err := runCLI(t, "tokens", "--chain", "pol", "--json", "--api-base", base)
	require.NoError(t, err)
	require.Equal(t, "137", fake.query("/tokens").Get("chains"))

	var tokens []entity.Token
	require.NoError(t, json.Unmarshal([]byte(out), &tokens))
	require.Len(t, tokens, 1)
	require.Equal(t, "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", tokens[0].Address)
}

func TestTokensCommandSymbolFilterAndText(t *testing.T) {
	_, base := newFakeLiFi(t)

	out, err := runCLI(t, "tokens", "--chain", "1", "--symbol", "usd", "--api-base", base)
	require.NoError(t, err)
	require.Contains(t, out, "SUPPORTED TOKENS")
	require.Contains(t, out, "ETHEREUM")
	require.Contains(t, out, "Total: 1 tokens")
}

func TestTokensCommandUnknownChain(t *testing.T) {
	_, base := newFakeLiFi(t)

	_, err := runCLI(t, "tokens", "--chain", "999", "--api-base", base)
	require.ErrorContains(t, err, "chain 999 is not supported")

	_, err = runCLI(t, "tokens", "--chain", "solana", "--api-base", base)
	require.ErrorContains(t, err, "unknown chain")
}

func TestQuoteCommandJSON(t *testing.T) {
	fake, base := newFakeLiFi(t)

	out, err := runCLI(t, "quote", "--from-token", "USDC", "--to-token", "usdc", "--amount", "25", "--json", "--api-base", base)
	require.NoError(t, err)

	q := fake.query("/quote")
	require.Equal(t, "1", q.Get("fromChain"))
	require.Equal(t, "137", q.Get("toChain"))
	require.Equal(t, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", q.Get("fromToken"))
	require.Equal(t, "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", q.Get("toToken"))
	require.Equal(t, "25000000", q.Get("fromAmount"))
	require.Equal(t, "0.005", q.Get("slippage"))

	var got quoteOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "q-cli", got.Quote.ID)
	require.Equal(t, "24.99 USDC", got.Summary.ToAmount)
	require.Equal(t, "24.86505 USDC", got.Summary.MinReceived)
	require.Equal(t, "24865050", got.Summary.MinReceivedRaw)
	require.Equal(t, "0.0625 USDC", got.Summary.FeeDisplay)
	require.Equal(t, "2 min", got.Summary.TimeDisplay)
	require.Nil(t, got.Execution)
}

func TestQuoteCommandText(t *testing.T) {
	_, base := newFakeLiFi(t)

	out, err := runCLI(t, "quote",
		"--from-chain", "ethereum", "--to-chain", "137",
		"--from-token", "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", "--to-token", "USDC",
		"--amount", "25", "--slippage", "1", "--to-address", "0x00000000000000000000000000000000000000aa",
		"--api-base", base)
	require.NoError(t, err)
	require.Contains(t, out, "BRIDGE QUOTE")
	require.Contains(t, out, "Ethereum -> Polygon via stargate")
	require.Contains(t, out, "24.86505 USDC")
	require.Contains(t, out, "Slippage:       1%")
	require.Contains(t, out, "0x00000000000000000000000000000000000000aa")
}

func TestQuoteCommandRejectsBadSelection(t *testing.T) {
	_, base := newFakeLiFi(t)

	_, err := runCLI(t, "quote", "--from-token", "USDC", "--to-token", "USDC", "--amount", "0", "--api-base", base)
	require.ErrorContains(t, err, "not a positive USDC amount")

	_, err = runCLI(t, "quote", "--from-token", "DAI", "--to-token", "USDC", "--amount", "1", "--api-base", base)
	require.ErrorContains(t, err, `token "DAI" not found on chain 1`)

	_, err = runCLI(t, "quote", "--from-token", "USDC", "--to-token", "USDC", "--amount", "1", "--execute", "--watch", "--api-base", base)
	require.ErrorContains(t, err, "cannot be combined")
}

func TestQuoteCommandExecuteNeedsKey(t *testing.T) {
	_, base := newFakeLiFi(t)

	_, err := runCLI(t, "quote", "--from-token", "USDC", "--to-token", "USDC", "--amount", "1", "--execute", "--api-base", base)
	require.ErrorContains(t, err, "no signing key configured")
}

func TestStatusCommand(t *testing.T) {
	fake, base := newFakeLiFi(t)

	out, err := runCLI(t, "status", "0xabc", "--from-chain", "1", "--bridge", "stargate", "--json", "--api-base", base)
	require.NoError(t, err)
	require.JSONEq(t, statusBody, out)

	q := fake.query("/status")
	require.Equal(t, "0xabc", q.Get("txHash"))
	require.Equal(t, "1", q.Get("fromChain"))
	require.Equal(t, "stargate", q.Get("bridge"))
	require.Empty(t, q.Get("toChain"))

	out, err = runCLI(t, "status", "0xabc", "--api-base", base)
	require.NoError(t, err)
	require.Contains(t, out, "TRANSFER STATUS")
	require.Contains(t, out, "DONE")
	require.Contains(t, out, "24.9 USDC")
}

func TestStatusDone(t *testing.T) {
	require.True(t, transferStatus{Status: "DONE"}.Done())
	require.True(t, transferStatus{Status: "failed"}.Done())
	require.False(t, transferStatus{Status: "PENDING"}.Done())
	require.False(t, transferStatus{}.Done())
}

func TestResolveChain(t *testing.T) {
	chains := []entity.Chain{{ID: 1, Key: "eth", Name: "Ethereum"}, {ID: 10, Key: "opt", Name: "OP Mainnet"}}

	id, err := resolveChain(chains, "")
	require.NoError(t, err)
	require.Zero(t, id)

	for _, ref := range []string{"10", "opt", "OP MAINNET", " op mainnet "} {
		id, err := resolveChain(chains, ref)
		require.NoError(t, err, ref)
		require.Equal(t, int64(10), id, ref)
	}

	_, err = resolveChain(chains, "137")
	require.Error(t, err)
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	require.True(t, confirm(bytes.NewBufferString("y\n"), &out))
	require.True(t, confirm(bytes.NewBufferString("YES"), &out))
	require.False(t, confirm(bytes.NewBufferString("\n"), &out))
	require.False(t, confirm(bytes.NewBufferString(""), &out))
}

func TestInitialChain(t *testing.T) {
	networks := networkdefinition.NewNetworkDefinitionProvider(logger.Nop(), nil)

	id, err := initialChain(networks, "Polygon")
	require.NoError(t, err)
	require.Equal(t, int64(137), id)

	id, err = initialChain(networks, "42161")
	require.NoError(t, err)
	require.Equal(t, int64(42161), id)

	_, err = initialChain(networks, "fantom")
	require.ErrorContains(t, err, "unknown signing network")
}
