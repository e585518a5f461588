package networkdefinition

import (
	"fmt"
	"sort"

	"bridge_gateway/internal/app/port"
	"bridge_gateway/internal/domain/entity"
)

// NetworkDefinitionProvider provides the RPC configuration of the chains the wallet can sign on.
type NetworkDefinitionProvider struct {
	logger port.Logger
	defs   map[int64]entity.NetworkDefinition
}

// Chains the bridge UI offers a wallet connection for.
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL: "https://etherscan.io",
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       "polygon",
		NativeSymbol:     "POL",
		Decimals:         18,
		PrimaryRPCURL:    "https://polygon-rpc.com/",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/polygon", "https://polygon.publicnode.com"},
		BlockExplorerURL: "https://polygonscan.com",
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:          42161,
		Name:             "Arbitrum One",
		Identifier:       "arbitrum",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://arb1.arbitrum.io/rpc",
		FallbackRPCURLs:  []string{"https://arbitrum.llamarpc.com", "https://arbitrum.publicnode.com"},
		BlockExplorerURL: "https://arbiscan.io",
	}
	Optimism = entity.NetworkDefinition{
		ChainID:          10,
		Name:             "OP Mainnet",
		Identifier:       "optimism",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://mainnet.optimism.io",
		FallbackRPCURLs:  []string{"https://optimism.publicnode.com", "https://rpc.ankr.com/optimism"},
		BlockExplorerURL: "https://optimistic.etherscan.io",
	}
	Base = entity.NetworkDefinition{
		ChainID:          8453,
		Name:             "Base Mainnet",
		Identifier:       "base",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://1rpc.io/base",
		FallbackRPCURLs:  []string{"https://base.publicnode.com", "https://base.llamarpc.com"},
		BlockExplorerURL: "https://basescan.org",
	}
	BSC = entity.NetworkDefinition{
		ChainID:          56,
		Name:             "BNB Smart Chain",
		Identifier:       "bsc",
		NativeSymbol:     "BNB",
		Decimals:         18,
		PrimaryRPCURL:    "https://1rpc.io/bnb",
		FallbackRPCURLs:  []string{"https://bsc-dataseed2.binance.org/", "https://bsc.publicnode.com"},
		BlockExplorerURL: "https://bscscan.com",
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:          43114,
		Name:             "Avalanche C-Chain",
		Identifier:       "avalanche",
		NativeSymbol:     "AVAX",
		Decimals:         18,
		PrimaryRPCURL:    "https://api.avax.network/ext/bc/C/rpc",
		FallbackRPCURLs:  []string{"https://avalanche.public-rpc.com", "https://rpc.ankr.com/avalanche"},
		BlockExplorerURL: "https://snowtrace.io",
	}

	allKnownDefinitions = []entity.NetworkDefinition{Ethereum, Polygon, Arbitrum, Optimism, Base, BSC, Avalanche}
)

// NewNetworkDefinitionProvider builds the registry. rpcOverrides replaces the RPC URLs of a chain;
// the first URL becomes primary. Overrides for unknown chains are ignored with a warning.
func NewNetworkDefinitionProvider(log port.Logger, rpcOverrides map[int64][]string) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger: log,
		defs:   make(map[int64]entity.NetworkDefinition, len(allKnownDefinitions)),
	}
	for _, def := range allKnownDefinitions {
		def.FallbackRPCURLs = append([]string(nil), def.FallbackRPCURLs...)
		p.defs[def.ChainID] = def
	}

	for chainID, urls := range rpcOverrides {
		def, ok := p.defs[chainID]
		if !ok {
			p.logger.Warn(fmt.Sprintf("RPC override for unknown chain %d. Skipping.", chainID))
			continue
		}
		if len(urls) == 0 {
			continue
		}
		def.PrimaryRPCURL = urls[0]
		def.FallbackRPCURLs = append([]string(nil), urls[1:]...)
		p.defs[chainID] = def
		p.logger.Debug(fmt.Sprintf("RPC endpoints of '%s' overridden", def.Name), "primary", def.PrimaryRPCURL)
	}

	p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized with %d networks", len(p.defs)))
	return p
}

// GetAllNetworkDefinitions returns the definitions ordered by chain ID.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.defs))
	for _, def := range p.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}

// GetNetworkDefinitionByChainID implements port.NetworkDefinitionProvider.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID int64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.defs[chainID]
	return def, ok
}

// GetNetworkDefinitionByName looks a definition up by its identifier, e.g. "polygon".
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.defs {
		if def.Identifier == identifier {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}
