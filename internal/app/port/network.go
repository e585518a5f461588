package port

import "bridge_gateway/internal/domain/entity"

// NetworkDefinitionProvider resolves the RPC configuration of the chains a wallet can sign on.
type NetworkDefinitionProvider interface {
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByChainID returns the definition and true if the chain is known.
	GetNetworkDefinitionByChainID(chainID int64) (entity.NetworkDefinition, bool)
}
