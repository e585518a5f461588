package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"bridge_gateway/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EVMClient is an RPC connection to one EVM chain.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
}

// NewEVMClient dials the primary RPC URL of netDef, falling back to the others in order.
// An endpoint that reports a different chain ID is skipped.
func NewEVMClient(netDef entity.NetworkDefinition, connectionTimeout, rpcCallTimeout time.Duration) (*EVMClient, error) {
	var lastErr error

	for _, rpcURL := range netDef.RPCURLs() {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		client, err := ethclient.DialContext(ctx, rpcURL)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
			continue
		}

		remoteID, err := client.ChainID(ctx)
		cancel()
		if err != nil {
			client.Close()
			lastErr = fmt.Errorf("failed to verify chainID for %s: %w", rpcURL, err)
			continue
		}
		if remoteID.Int64() != netDef.ChainID {
			client.Close()
			lastErr = fmt.Errorf("chainID mismatch for %s: expected %d, got %s", rpcURL, netDef.ChainID, remoteID)
			continue
		}

		return &EVMClient{ethClient: client, netDef: netDef, rpcCallTimeout: rpcCallTimeout}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no RPC URL configured")
	}
	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Call executes a read-only contract call against the latest block.
func (c *EVMClient) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	out, err := c.ethClient.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_call to %s on %s: %w", to.Hex(), c.netDef.Name, err)
	}
	return out, nil
}

// TxParams are the caller-supplied fields of a transaction. Zero gas values are filled from the node.
type TxParams struct {
	From     common.Address
	To       common.Address
	Value    *big.Int
	Data     []byte
	GasLimit uint64
	GasPrice *big.Int
}

// BuildTx returns an unsigned legacy transaction with nonce, gas limit and gas price resolved.
func (c *EVMClient) BuildTx(ctx context.Context, p TxParams) (*types.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	value := p.Value
	if value == nil {
		value = big.NewInt(0)
	}

	nonce, err := c.ethClient.PendingNonceAt(ctx, p.From)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice := p.GasPrice
	if gasPrice == nil || gasPrice.Sign() == 0 {
		gasPrice, err = c.ethClient.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get gas price: %w", err)
		}
	}

	gasLimit := p.GasLimit
	if gasLimit == 0 {
		estimated, err := c.ethClient.EstimateGas(ctx, ethereum.CallMsg{From: p.From, To: &p.To, Value: value, Data: p.Data})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
		gasLimit = estimated * 120 / 100
	}

	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &p.To,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     p.Data,
	}), nil
}

// Send broadcasts a signed transaction.
func (c *EVMClient) Send(ctx context.Context, tx *types.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if err := c.ethClient.SendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("failed to send transaction on %s: %w", c.netDef.Name, err)
	}
	return nil
}

// WaitMined blocks until the transaction is included in a block. A reverted
// transaction is returned with an error.
func (c *EVMClient) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	tx, _, err := c.ethClient.TransactionByHash(lookupCtx, hash)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to look up transaction %s on %s: %w", hash.Hex(), c.netDef.Name, err)
	}

	receipt, err := bind.WaitMined(ctx, c.ethClient, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s on %s: %w", hash.Hex(), c.netDef.Name, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("transaction %s reverted on %s", hash.Hex(), c.netDef.Name)
	}
	return receipt, nil
}

// Close releases the RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}
