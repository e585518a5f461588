package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/infrastructure/network/client"
	"bridge_gateway/internal/pkg/erc20"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// ChainClients hands out RPC clients by chain ID.
type ChainClients interface {
	Supports(chainID int64) bool
	GetClient(chainID int64) (*client.EVMClient, error)
}

// EVMWallet signs with a local private key and submits through the chain's RPC client.
// It implements port.Wallet and bridge.AllowanceReader.
type EVMWallet struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	clients    ChainClients
	logger     *zap.Logger

	mu      sync.Mutex
	chainID int64
}

// NewEVMWallet parses hexKey (with or without 0x) and starts on initialChainID.
func NewEVMWallet(hexKey string, initialChainID int64, clients ChainClients, logger *zap.Logger) (*EVMWallet, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	if !clients.Supports(initialChainID) {
		return nil, fmt.Errorf("unsupported initial chain %d", initialChainID)
	}

	return &EVMWallet{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		clients:    clients,
		logger:     logger.Named("EVMWallet"),
		chainID:    initialChainID,
	}, nil
}

// Account returns the checksummed signer address.
func (w *EVMWallet) Account(context.Context) (string, error) {
	return w.address.Hex(), nil
}

// ChainID returns the chain transactions are currently sent on.
func (w *EVMWallet) ChainID(context.Context) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chainID, nil
}

// SwitchChain selects the chain later transactions are sent on.
func (w *EVMWallet) SwitchChain(_ context.Context, chainID int64) error {
	if !w.clients.Supports(chainID) {
		return fmt.Errorf("chain %d is not configured", chainID)
	}
	w.mu.Lock()
	w.chainID = chainID
	w.mu.Unlock()
	w.logger.Info("Switched chain", zap.Int64("chainId", chainID))
	return nil
}

// WriteContract signs and sends a zero-value call to call.To.
func (w *EVMWallet) WriteContract(ctx context.Context, call entity.ContractCall) (string, error) {
	if !common.IsHexAddress(call.To) {
		return "", fmt.Errorf("invalid contract address %q", call.To)
	}
	return w.submit(ctx, call.ChainID, client.TxParams{
		To:   common.HexToAddress(call.To),
		Data: call.Data,
	})
}

// SendTransaction signs and sends a transaction request as returned with a quote.
func (w *EVMWallet) SendTransaction(ctx context.Context, req entity.TransactionRequest) (string, error) {
	params, err := txParams(req)
	if err != nil {
		return "", err
	}
	return w.submit(ctx, req.ChainID, params)
}

// WaitForReceipt blocks until hash is mined on chainID. A zero chainID means the current chain.
func (w *EVMWallet) WaitForReceipt(ctx context.Context, chainID int64, hash string) error {
	raw, err := hexutil.Decode(hash)
	if err != nil || len(raw) != common.HashLength {
		return fmt.Errorf("invalid transaction hash %q", hash)
	}
	if chainID == 0 {
		chainID, _ = w.ChainID(ctx)
	}
	c, err := w.clients.GetClient(chainID)
	if err != nil {
		return err
	}

	receipt, err := c.WaitMined(ctx, common.BytesToHash(raw))
	if err != nil {
		return err
	}
	w.logger.Info("Transaction mined",
		zap.Int64("chainId", chainID),
		zap.String("hash", hash),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
	)
	return nil
}

// Allowance reads the ERC-20 allowance owner granted spender on token.
func (w *EVMWallet) Allowance(ctx context.Context, chainID int64, token, owner, spender string) (*big.Int, error) {
	data, err := erc20.PackAllowance(owner, spender)
	if err != nil {
		return nil, err
	}
	c, err := w.clients.GetClient(chainID)
	if err != nil {
		return nil, err
	}
	out, err := c.Call(ctx, common.HexToAddress(token), data)
	if err != nil {
		return nil, err
	}
	return erc20.UnpackAllowance(out)
}

func (w *EVMWallet) submit(ctx context.Context, chainID int64, p client.TxParams) (string, error) {
	if chainID == 0 {
		chainID, _ = w.ChainID(ctx)
	}
	c, err := w.clients.GetClient(chainID)
	if err != nil {
		return "", err
	}

	p.From = w.address
	tx, err := c.BuildTx(ctx, p)
	if err != nil {
		return "", err
	}

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(chainID)), w.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := c.Send(ctx, signedTx); err != nil {
		return "", err
	}

	hash := signedTx.Hash().Hex()
	w.logger.Info("Transaction sent",
		zap.Int64("chainId", chainID),
		zap.String("to", p.To.Hex()),
		zap.String("hash", hash),
	)
	return hash, nil
}

// txParams decodes the hex fields of a quote transaction request.
func txParams(req entity.TransactionRequest) (client.TxParams, error) {
	var p client.TxParams
	if !common.IsHexAddress(req.To) {
		return p, fmt.Errorf("invalid transaction target %q", req.To)
	}
	p.To = common.HexToAddress(req.To)

	if req.Data != "" {
		data, err := hexutil.Decode(req.Data)
		if err != nil {
			return p, fmt.Errorf("invalid transaction data: %w", err)
		}
		p.Data = data
	}

	var err error
	if p.Value, err = decodeBig(req.Value); err != nil {
		return p, fmt.Errorf("invalid transaction value: %w", err)
	}
	if p.GasPrice, err = decodeBig(req.GasPrice); err != nil {
		return p, fmt.Errorf("invalid gas price: %w", err)
	}
	gasLimit, err := decodeBig(req.GasLimit)
	if err != nil {
		return p, fmt.Errorf("invalid gas limit: %w", err)
	}
	if gasLimit != nil {
		if !gasLimit.IsUint64() {
			return p, fmt.Errorf("gas limit %s out of range", gasLimit)
		}
		p.GasLimit = gasLimit.Uint64()
	}
	return p, nil
}

// decodeBig accepts 0x-prefixed hex or decimal. Empty input yields nil.
func decodeBig(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return nil, fmt.Errorf("malformed hex quantity %q", s)
		}
		return v, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("malformed quantity %q", s)
	}
	return v, nil
}
