package bridge

import (
	"net/url"
	"strconv"

	"bridge_gateway/internal/pkg/amount"
)

// Complete reports whether s holds everything a quote needs: both chains,
// both tokens and an amount that converts to a positive base-unit value.
func (s State) Complete() bool {
	if s.FromChainID == 0 || s.ToChainID == 0 || s.FromToken == nil || s.ToToken == nil {
		return false
	}
	return s.BaseAmount() != "0"
}

// BaseAmount is the typed amount in source token base units, "0" when nothing usable is typed.
func (s State) BaseAmount() string {
	if s.FromToken == nil {
		return "0"
	}
	return amount.ToBaseUnits(s.Amount, s.FromToken.Decimals)
}

// QuoteParams builds the aggregator quote query for s. ok is false while the selection is incomplete.
// Slippage is sent as a fraction, the form the quote endpoint expects.
func QuoteParams(s State) (params url.Values, ok bool) {
	if !s.Complete() {
		return nil, false
	}

	params = url.Values{}
	params.Set("fromChain", strconv.FormatInt(s.FromChainID, 10))
	params.Set("toChain", strconv.FormatInt(s.ToChainID, 10))
	params.Set("fromToken", s.FromToken.Address)
	params.Set("toToken", s.ToToken.Address)
	params.Set("fromAmount", s.BaseAmount())
	params.Set("slippage", strconv.FormatFloat(s.Slippage/100, 'f', -1, 64))
	if s.FromAddress != "" {
		params.Set("fromAddress", s.FromAddress)
	}
	if s.ToAddress != "" {
		params.Set("toAddress", s.ToAddress)
	}
	return params, true
}
