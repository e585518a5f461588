// Package erc20 packs the ERC-20 calls the bridge flow needs.
package erc20

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20ABI = `[
{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

var (
	parsedABI  abi.ABI
	parseOnce  sync.Once
	parseError error
)

func contractABI() (abi.ABI, error) {
	parseOnce.Do(func() {
		parsedABI, parseError = abi.JSON(strings.NewReader(erc20ABI))
	})
	return parsedABI, parseError
}

// PackApprove returns the calldata of approve(spender, amount). amount is a base-unit digit string.
func PackApprove(spender, amount string) ([]byte, error) {
	if !common.IsHexAddress(spender) {
		return nil, fmt.Errorf("invalid spender address %q", spender)
	}
	value, ok := new(big.Int).SetString(amount, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid approval amount %q", amount)
	}

	parsed, err := contractABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return parsed.Pack("approve", common.HexToAddress(spender), value)
}

// PackAllowance returns the calldata of allowance(owner, spender).
func PackAllowance(owner, spender string) ([]byte, error) {
	if !common.IsHexAddress(owner) || !common.IsHexAddress(spender) {
		return nil, fmt.Errorf("invalid allowance addresses %q, %q", owner, spender)
	}
	parsed, err := contractABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return parsed.Pack("allowance", common.HexToAddress(owner), common.HexToAddress(spender))
}

// UnpackAllowance decodes the result of an allowance call.
func UnpackAllowance(data []byte) (*big.Int, error) {
	if len(data) == 0 {
		return big.NewInt(0), nil
	}
	parsed, err := contractABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	out, err := parsed.Unpack("allowance", data)
	if err != nil {
		return nil, fmt.Errorf("unpack allowance: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("unpack allowance: empty result")
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unpack allowance: unexpected type %T", out[0])
	}
	return v, nil
}
