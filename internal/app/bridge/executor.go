package bridge

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"

	"bridge_gateway/internal/app/port"
	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/pkg/erc20"
	"bridge_gateway/internal/pkg/metrics"
)

var (
	ErrBusy                 = errors.New("a bridge execution is already in progress")
	ErrIncompleteSelection  = errors.New("bridge selection is incomplete")
	ErrNoTransactionRequest = errors.New("quote carries no transaction request")
)

// AllowanceReader is implemented by wallets that can read ERC-20 allowances.
// When available the executor skips approvals that are already in place.
type AllowanceReader interface {
	Allowance(ctx context.Context, chainID int64, token, owner, spender string) (*big.Int, error)
}

// Result holds the hashes of the submitted transactions. ApprovalHash is empty when no approval was sent.
type Result struct {
	ApprovalHash string `json:"approvalHash,omitempty"`
	BridgeHash   string `json:"bridgeHash"`
}

// Executor submits the approval and bridge transactions of a quote through a wallet.
// One execution runs at a time; failures are returned and never retried.
type Executor struct {
	wallet port.Wallet
	logger port.Logger
	busy   atomic.Bool
}

// NewExecutor creates an Executor bound to wallet.
func NewExecutor(wallet port.Wallet, l port.Logger) *Executor {
	return &Executor{wallet: wallet, logger: l}
}

// Busy reports whether an execution is in progress.
func (e *Executor) Busy() bool {
	return e.busy.Load()
}

// Execute switches the wallet to the source chain, approves the source token
// for the quote's spender unless it is the native currency, waits for the
// approval to be mined, then sends the bridge transaction.
func (e *Executor) Execute(ctx context.Context, s State, q *entity.Quote) (Result, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer e.busy.Store(false)

	if !s.Complete() {
		return Result{}, ErrIncompleteSelection
	}
	if q == nil || q.TransactionRequest == nil || q.TransactionRequest.To == "" {
		return Result{}, ErrNoTransactionRequest
	}

	var res Result

	if err := e.ensureChain(ctx, s.FromChainID); err != nil {
		return res, err
	}

	if !s.FromToken.IsNative() {
		if spender := q.ApprovalAddress(); spender != "" {
			hash, err := e.approve(ctx, s, spender)
			if err != nil {
				metrics.WalletTransactions.WithLabelValues("approve", "error").Inc()
				e.logger.Error("Token approval failed", "token", s.FromToken.Address, "spender", spender, "error", err)
				return res, fmt.Errorf("approve %s: %w", s.FromToken.Symbol, err)
			}
			res.ApprovalHash = hash
			if hash != "" {
				e.logger.Info("Approval submitted", "hash", hash, "token", s.FromToken.Symbol)
				if err := e.wallet.WaitForReceipt(ctx, s.FromChainID, hash); err != nil {
					metrics.WalletTransactions.WithLabelValues("approve", "error").Inc()
					e.logger.Error("Approval not confirmed", "hash", hash, "error", err)
					return res, fmt.Errorf("confirm approval %s: %w", hash, err)
				}
				metrics.WalletTransactions.WithLabelValues("approve", "ok").Inc()
			}
		}
	}

	tx := *q.TransactionRequest
	if tx.ChainID == 0 {
		tx.ChainID = s.FromChainID
	}
	hash, err := e.wallet.SendTransaction(ctx, tx)
	if err != nil {
		metrics.WalletTransactions.WithLabelValues("bridge", "error").Inc()
		e.logger.Error("Bridge transaction failed", "to", tx.To, "error", err)
		return res, fmt.Errorf("send bridge transaction: %w", err)
	}
	metrics.WalletTransactions.WithLabelValues("bridge", "ok").Inc()
	e.logger.Info("Bridge transaction submitted", "hash", hash, "fromChainId", s.FromChainID, "toChainId", s.ToChainID)

	res.BridgeHash = hash
	return res, nil
}

func (e *Executor) ensureChain(ctx context.Context, chainID int64) error {
	current, err := e.wallet.ChainID(ctx)
	if err != nil {
		e.logger.Error("Failed to read wallet chain", "error", err)
		return fmt.Errorf("read wallet chain: %w", err)
	}
	if current == chainID {
		return nil
	}

	e.logger.Info("Switching wallet chain", "from", current, "to", chainID)
	if err := e.wallet.SwitchChain(ctx, chainID); err != nil {
		e.logger.Error("Failed to switch wallet chain", "chainId", chainID, "error", err)
		return fmt.Errorf("switch to chain %d: %w", chainID, err)
	}
	return nil
}

// approve returns an empty hash when the existing allowance already covers the amount.
func (e *Executor) approve(ctx context.Context, s State, spender string) (string, error) {
	amount := s.BaseAmount()

	if reader, ok := e.wallet.(AllowanceReader); ok {
		owner, err := e.wallet.Account(ctx)
		if err == nil {
			allowance, err := reader.Allowance(ctx, s.FromChainID, s.FromToken.Address, owner, spender)
			want, _ := new(big.Int).SetString(amount, 10)
			if err == nil && want != nil && allowance.Cmp(want) >= 0 {
				e.logger.Debug("Allowance already sufficient", "token", s.FromToken.Symbol, "allowance", allowance.String())
				return "", nil
			}
			if err != nil {
				e.logger.Warn("Allowance lookup failed, approving anyway", "error", err)
			}
		}
	}

	data, err := erc20.PackApprove(spender, amount)
	if err != nil {
		return "", err
	}
	return e.wallet.WriteContract(ctx, entity.ContractCall{
		ChainID: s.FromChainID,
		To:      s.FromToken.Address,
		Data:    data,
	})
}
