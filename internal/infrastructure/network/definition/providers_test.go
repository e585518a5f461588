package networkdefinition

import (
	"testing"

	"bridge_gateway/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestNetworkDefinitionProvider(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.Nop(), map[int64][]string{
		137:  {"http://localhost:8545", "http://localhost:8546"},
		9999: {"http://ignored"},
	})

	all := p.GetAllNetworkDefinitions()
	require.Len(t, all, 7)
	require.Equal(t, int64(1), all[0].ChainID)
	require.Equal(t, int64(43114), all[len(all)-1].ChainID)

	pol, ok := p.GetNetworkDefinitionByChainID(137)
	require.True(t, ok)
	require.Equal(t, []string{"http://localhost:8545", "http://localhost:8546"}, pol.RPCURLs())
	require.Equal(t, "https://polygon-rpc.com/", Polygon.PrimaryRPCURL)

	_, ok = p.GetNetworkDefinitionByChainID(9999)
	require.False(t, ok)

	op, ok := p.GetNetworkDefinitionByName("optimism")
	require.True(t, ok)
	require.Equal(t, int64(10), op.ChainID)

	var nilProvider *NetworkDefinitionProvider
	require.Empty(t, nilProvider.GetAllNetworkDefinitions())
}
