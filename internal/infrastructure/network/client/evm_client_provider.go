package client

import (
	"fmt"
	"sync"
	"time"

	"bridge_gateway/internal/app/port"
)

const defaultProviderConnectionTimeout = 10 * time.Second

// EVMClientProvider dials and caches one EVMClient per chain.
type EVMClientProvider struct {
	networks          port.NetworkDefinitionProvider
	clients           map[int64]*EVMClient
	mu                sync.Mutex
	logger            port.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
}

// NewEVMClientProvider creates an EVMClientProvider.
func NewEVMClientProvider(networks port.NetworkDefinitionProvider, rpcCallTimeout time.Duration, l port.Logger) *EVMClientProvider {
	if rpcCallTimeout <= 0 {
		rpcCallTimeout = 10 * time.Second
	}
	return &EVMClientProvider{
		networks:          networks,
		clients:           make(map[int64]*EVMClient),
		logger:            l,
		connectionTimeout: defaultProviderConnectionTimeout,
		rpcCallTimeout:    rpcCallTimeout,
	}
}

// Supports reports whether chainID has a network definition.
func (p *EVMClientProvider) Supports(chainID int64) bool {
	_, ok := p.networks.GetNetworkDefinitionByChainID(chainID)
	return ok
}

// GetClient returns the cached client of chainID, dialing it on first use.
func (p *EVMClientProvider) GetClient(chainID int64) (*EVMClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[chainID]; exists {
		return client, nil
	}

	netDef, ok := p.networks.GetNetworkDefinitionByChainID(chainID)
	if !ok {
		return nil, fmt.Errorf("no network definition for chain %d", chainID)
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "rpc_primary", netDef.PrimaryRPCURL)
	newClient, err := NewEVMClient(netDef, p.connectionTimeout, p.rpcCallTimeout)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[chainID] = newClient
	return newClient, nil
}

// Close closes every cached client.
func (p *EVMClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		c.Close()
		delete(p.clients, id)
	}
}
