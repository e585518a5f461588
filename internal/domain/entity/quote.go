package entity

// FeeCost is a single fee line of a quote estimate.
type FeeCost struct {
	Name      string `json:"name,omitempty"`
	Amount    string `json:"amount,omitempty"`
	AmountUSD string `json:"amountUSD,omitempty"`
	Token     *Token `json:"token,omitempty"`
	Included  bool   `json:"included,omitempty"`
}

// GasCost is the gas component of a quote estimate.
type GasCost struct {
	Type      string `json:"type,omitempty"`
	Amount    string `json:"amount,omitempty"`
	AmountUSD string `json:"amountUSD,omitempty"`
	Token     *Token `json:"token,omitempty"`
}

// Estimate is the upstream estimate attached to a quote. Amounts are base units.
type Estimate struct {
	Tool              string    `json:"tool,omitempty"`
	ApprovalAddress   string    `json:"approvalAddress,omitempty"`
	FromAmount        string    `json:"fromAmount,omitempty"`
	ToAmount          string    `json:"toAmount,omitempty"`
	ToAmountMin       string    `json:"toAmountMin,omitempty"`
	FeeCosts          []FeeCost `json:"feeCosts,omitempty"`
	GasCosts          []GasCost `json:"gasCosts,omitempty"`
	ExecutionDuration float64   `json:"executionDuration,omitempty"`
}

// TransactionRequest is the ready-to-sign bridge transaction returned with a quote.
// Numeric fields are hex strings as sent by the aggregator.
type TransactionRequest struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to"`
	Data     string `json:"data,omitempty"`
	Value    string `json:"value,omitempty"`
	GasLimit string `json:"gasLimit,omitempty"`
	GasPrice string `json:"gasPrice,omitempty"`
	ChainID  int64  `json:"chainId,omitempty"`
}

// Action carries the tokens a quote bridges between.
type Action struct {
	FromChainID int64   `json:"fromChainId,omitempty"`
	ToChainID   int64   `json:"toChainId,omitempty"`
	FromToken   *Token  `json:"fromToken,omitempty"`
	ToToken     *Token  `json:"toToken,omitempty"`
	FromAmount  string  `json:"fromAmount,omitempty"`
	Slippage    float64 `json:"slippage,omitempty"`
}

// Quote is an aggregator quote. It is re-fetched on every parameter change and never stored.
// Top-level amounts take precedence over the ones nested in Estimate.
type Quote struct {
	ID                 string              `json:"id,omitempty"`
	Type               string              `json:"type,omitempty"`
	Tool               string              `json:"tool,omitempty"`
	Action             *Action             `json:"action,omitempty"`
	Estimate           *Estimate           `json:"estimate,omitempty"`
	FromAmount         string              `json:"fromAmount,omitempty"`
	ToAmount           string              `json:"toAmount,omitempty"`
	ToAmountMin        string              `json:"toAmountMin,omitempty"`
	ToToken            *Token              `json:"toToken,omitempty"`
	TransactionRequest *TransactionRequest `json:"transactionRequest,omitempty"`
}

// ResolvedToAmount returns the expected output in base units, or "" when unknown.
func (q *Quote) ResolvedToAmount() string {
	if q.ToAmount != "" {
		return q.ToAmount
	}
	if q.Estimate != nil {
		return q.Estimate.ToAmount
	}
	return ""
}

// ResolvedToAmountMin returns the guaranteed minimum in base units, or "" when unknown.
func (q *Quote) ResolvedToAmountMin() string {
	if q.ToAmountMin != "" {
		return q.ToAmountMin
	}
	if q.Estimate != nil {
		return q.Estimate.ToAmountMin
	}
	return ""
}

// ApprovalAddress returns the spender the source token must be approved for.
func (q *Quote) ApprovalAddress() string {
	if q.Estimate == nil {
		return ""
	}
	return q.Estimate.ApprovalAddress
}

// QuoteSummary holds the values derived from a quote for display.
type QuoteSummary struct {
	FeeDisplay     string  `json:"feeDisplay"`
	TimeDisplay    string  `json:"timeDisplay"`
	MinReceived    string  `json:"minReceived"`
	MinReceivedRaw string  `json:"minReceivedRaw,omitempty"`
	MinReceivedNum float64 `json:"minReceivedNum,omitempty"`
	ToAmount       string  `json:"toAmount,omitempty"`
}

// ContractCall is a state-changing call the wallet signs and submits, e.g. an ERC-20 approve.
type ContractCall struct {
	ChainID int64
	To      string
	Data    []byte
}
