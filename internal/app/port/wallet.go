package port

import (
	"context"

	"bridge_gateway/internal/domain/entity"
)

// Wallet is the signing wallet the bridge executor drives.
// Every call may block on the user or the network and returns a transaction hash where one exists.
type Wallet interface {
	Account(ctx context.Context) (string, error)
	ChainID(ctx context.Context) (int64, error)
	SwitchChain(ctx context.Context, chainID int64) error
	WriteContract(ctx context.Context, call entity.ContractCall) (string, error)
	SendTransaction(ctx context.Context, tx entity.TransactionRequest) (string, error)
	WaitForReceipt(ctx context.Context, chainID int64, hash string) error
}
