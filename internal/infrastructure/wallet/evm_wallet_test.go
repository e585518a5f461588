package wallet

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/infrastructure/network/client"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Well-known development key (hardhat account #0).
const (
	devKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

type fakeClients map[int64]bool

func (f fakeClients) Supports(chainID int64) bool { return f[chainID] }

func (f fakeClients) GetClient(chainID int64) (*client.EVMClient, error) {
	return nil, errors.New("no rpc in tests")
}

func TestNewEVMWallet(t *testing.T) {
	w, err := NewEVMWallet(devKey, 1, fakeClients{1: true, 137: true}, zap.NewNop())
	require.NoError(t, err)

	account, err := w.Account(context.Background())
	require.NoError(t, err)
	require.Equal(t, devAddress, account)

	chainID, _ := w.ChainID(context.Background())
	require.Equal(t, int64(1), chainID)

	require.NoError(t, w.SwitchChain(context.Background(), 137))
	chainID, _ = w.ChainID(context.Background())
	require.Equal(t, int64(137), chainID)

	require.Error(t, w.SwitchChain(context.Background(), 250))
	chainID, _ = w.ChainID(context.Background())
	require.Equal(t, int64(137), chainID)
}

func TestNewEVMWalletRejectsBadInput(t *testing.T) {
	_, err := NewEVMWallet("0x1234", 1, fakeClients{1: true}, zap.NewNop())
	require.Error(t, err)

	_, err = NewEVMWallet(devKey, 250, fakeClients{1: true}, zap.NewNop())
	require.Error(t, err)
}

func TestSendTransactionSurfacesClientErrors(t *testing.T) {
	w, err := NewEVMWallet(devKey, 1, fakeClients{1: true}, zap.NewNop())
	require.NoError(t, err)

	_, err = w.SendTransaction(context.Background(), entity.TransactionRequest{To: "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE", Data: "0x01"})
	require.ErrorContains(t, err, "no rpc in tests")

	_, err = w.WriteContract(context.Background(), entity.ContractCall{To: "nope"})
	require.Error(t, err)
}

func TestWaitForReceipt(t *testing.T) {
	w, err := NewEVMWallet(devKey, 1, fakeClients{1: true}, zap.NewNop())
	require.NoError(t, err)

	for _, bad := range []string{"", "0xapprove", "0x1234"} {
		require.ErrorContains(t, w.WaitForReceipt(context.Background(), 1, bad), "invalid transaction hash")
	}

	hash := "0x" + strings.Repeat("ab", 32)
	require.ErrorContains(t, w.WaitForReceipt(context.Background(), 0, hash), "no rpc in tests")
}

func TestTxParams(t *testing.T) {
	p, err := txParams(entity.TransactionRequest{
		To:       "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE",
		Data:     "0xdeadbeef",
		Value:    "0x0de0b6b3a7640000",
		GasLimit: "0x5208",
		GasPrice: "1000000000",
	})
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, p.Data)
	require.Equal(t, "1000000000000000000", p.Value.String())
	require.Equal(t, uint64(21000), p.GasLimit)
	require.Equal(t, 0, p.GasPrice.Cmp(big.NewInt(1_000_000_000)))

	p, err = txParams(entity.TransactionRequest{To: "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE"})
	require.NoError(t, err)
	require.Nil(t, p.Value)
	require.Zero(t, p.GasLimit)

	for _, bad := range []entity.TransactionRequest{
		{To: "0x12"},
		{To: "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE", Data: "zz"},
		{To: "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE", Value: "0xzz"},
		{To: "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE", GasLimit: "0x1ffffffffffffffff"},
	} {
		_, err := txParams(bad)
		require.Error(t, err, "%+v", bad)
	}
}
