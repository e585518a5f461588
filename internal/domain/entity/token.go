package entity

import "strings"

// NativeTokenAddress is the address LI.FI uses for a chain's native currency.
const NativeTokenAddress = "0x0000000000000000000000000000000000000000"

// Token describes a bridgeable token as returned by the aggregator.
// Identity is (ChainID, Address); addresses compare case-insensitively.
type Token struct {
	Address  string `json:"address" yaml:"address"`
	ChainID  int64  `json:"chainId" yaml:"chainId"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Name     string `json:"name" yaml:"name"`
	Decimals int    `json:"decimals" yaml:"decimals"`
	LogoURI  string `json:"logoURI,omitempty" yaml:"logoURI,omitempty"`
	PriceUSD string `json:"priceUSD,omitempty" yaml:"priceUSD,omitempty"`
}

// Is reports whether t identifies the token at address on chainID.
func (t Token) Is(chainID int64, address string) bool {
	return t.ChainID == chainID && strings.EqualFold(t.Address, address)
}

// IsNative reports whether t is the chain's native currency.
func (t Token) IsNative() bool {
	return strings.EqualFold(t.Address, NativeTokenAddress)
}

// Chain describes a chain supported by the aggregator.
type Chain struct {
	ID          int64  `json:"id" yaml:"id"`
	Key         string `json:"key,omitempty" yaml:"key,omitempty"`
	Name        string `json:"name" yaml:"name"`
	ChainType   string `json:"chainType,omitempty" yaml:"chainType,omitempty"`
	NativeToken *Token `json:"nativeToken,omitempty" yaml:"nativeToken,omitempty"`
}
