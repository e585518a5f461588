// Package bridge holds the user's bridge selections and drives a bridge transfer
// from quote to submitted transactions.
package bridge

import (
	"strings"

	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/pkg/amount"
)

// State is the set of selections a quote is requested for.
// Zero chain IDs and nil tokens mean "not selected".
type State struct {
	FromChainID int64         `json:"fromChainId,omitempty"`
	ToChainID   int64         `json:"toChainId,omitempty"`
	FromToken   *entity.Token `json:"fromToken,omitempty"`
	ToToken     *entity.Token `json:"toToken,omitempty"`
	Amount      string        `json:"amount"`
	Slippage    float64       `json:"slippage"` // percent
	FromAddress string        `json:"fromAddress,omitempty"`
	ToAddress   string        `json:"toAddress,omitempty"`
}

// NewState returns an empty selection with the default slippage.
func NewState() State {
	return State{Slippage: amount.DefaultSlippagePct}
}

// Action is a state transition applied by Reduce.
type Action interface {
	apply(State) State
}

type (
	SetFromChain       struct{ ChainID int64 }
	SetToChain         struct{ ChainID int64 }
	SetFromToken       struct{ Token *entity.Token }
	SetToToken         struct{ Token *entity.Token }
	SetAmount          struct{ Amount string }
	SetSlippage        struct{ Pct float64 }
	SetAddresses       struct{ From, To string }
	Reset              struct{}
	ApplyDefaultChains struct{ Chains []entity.Chain }
)

// Reduce returns the state that results from applying a to s. s is not modified.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

func (a SetFromChain) apply(s State) State {
	if s.FromChainID != a.ChainID {
		s.FromToken = nil
	}
	s.FromChainID = a.ChainID
	return s
}

func (a SetToChain) apply(s State) State {
	if s.ToChainID != a.ChainID {
		s.ToToken = nil
	}
	s.ToChainID = a.ChainID
	return s
}

func (a SetFromToken) apply(s State) State {
	s.FromToken = cloneToken(a.Token)
	return s
}

func (a SetToToken) apply(s State) State {
	s.ToToken = cloneToken(a.Token)
	return s
}

func (a SetAmount) apply(s State) State {
	s.Amount = a.Amount
	return s
}

func (a SetSlippage) apply(s State) State {
	if a.Pct < 0 {
		a.Pct = 0
	}
	s.Slippage = a.Pct
	return s
}

func (a SetAddresses) apply(s State) State {
	s.FromAddress = a.From
	s.ToAddress = a.To
	return s
}

func (Reset) apply(State) State {
	return NewState()
}

// apply fills unset chains: the source prefers a chain named like Ethereum, the
// destination one named like Polygon, falling back to the first and second chain.
// A lone chain serves as both ends.
func (a ApplyDefaultChains) apply(s State) State {
	if len(a.Chains) == 0 {
		return s
	}
	if s.FromChainID == 0 {
		if id := pickChain(a.Chains, "ethereum", 0); id != 0 {
			s = SetFromChain{ChainID: id}.apply(s)
		}
	}
	if s.ToChainID == 0 {
		if id := pickChain(a.Chains, "polygon", 1, 0); id != 0 {
			s = SetToChain{ChainID: id}.apply(s)
		}
	}
	return s
}

func pickChain(chains []entity.Chain, nameHint string, fallbacks ...int) int64 {
	for _, c := range chains {
		if strings.Contains(strings.ToLower(c.Name), nameHint) {
			return c.ID
		}
	}
	for _, i := range fallbacks {
		if i < len(chains) {
			return chains[i].ID
		}
	}
	return 0
}

func cloneToken(t *entity.Token) *entity.Token {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
