package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"bridge_gateway/internal/app/bridge"
	"bridge_gateway/internal/app/port"
	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/pkg/amount"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const noValue = "-"

// QuoteService fetches quotes and derives the values shown next to them.
type QuoteService struct {
	upstream port.Forwarder
	logger   port.Logger
}

// NewQuoteService creates a QuoteService. Quotes are never cached, so upstream may be the proxy or the raw client.
func NewQuoteService(upstream port.Forwarder, l port.Logger) *QuoteService {
	return &QuoteService{upstream: upstream, logger: l}
}

// Fetch requests a quote for params.
func (s *QuoteService) Fetch(ctx context.Context, params url.Values) (*entity.Quote, error) {
	resp, err := s.upstream.Forward(ctx, entity.ForwardRequest{
		Method:   http.MethodGet,
		Path:     PathQuote,
		RawQuery: params.Encode(),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	if err := requireOK(PathQuote, resp); err != nil {
		return nil, err
	}

	var q entity.Quote
	if err := json.Unmarshal(resp.Body, &q); err != nil {
		s.logger.Warn("Quote body could not be decoded", "error", err, "bytes", len(resp.Body))
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return &q, nil
}

// ForState fetches the quote for a complete selection and summarizes it.
func (s *QuoteService) ForState(ctx context.Context, st bridge.State) (*entity.Quote, entity.QuoteSummary, error) {
	params, ok := bridge.QuoteParams(st)
	if !ok {
		return nil, entity.QuoteSummary{}, bridge.ErrIncompleteSelection
	}

	q, err := s.Fetch(ctx, params)
	if err != nil {
		return nil, entity.QuoteSummary{}, err
	}
	slippage := st.Slippage
	return q, Summarize(q, st.ToToken, &slippage), nil
}

// Summarize derives the display values of q. toToken is used when the quote
// does not name its destination token. Values that cannot be computed are "-".
func Summarize(q *entity.Quote, toToken *entity.Token, slippagePct *float64) entity.QuoteSummary {
	sum := entity.QuoteSummary{FeeDisplay: noValue, TimeDisplay: noValue, MinReceived: noValue}
	if q == nil {
		return sum
	}

	if q.Action != nil && q.Action.ToToken != nil {
		toToken = q.Action.ToToken
	} else if q.ToToken != nil {
		toToken = q.ToToken
	}

	if q.Estimate != nil {
		sum.FeeDisplay = feeDisplay(q.Estimate.FeeCosts)
		sum.TimeDisplay = timeDisplay(q.Estimate.ExecutionDuration)
	}

	if toToken == nil {
		return sum
	}

	decimals := toToken.Decimals
	toAmount, toAmountMin := q.ResolvedToAmount(), q.ResolvedToAmountMin()
	if toAmount != "" {
		sum.ToAmount = amount.FormatNumber(amount.FromBaseUnits(toAmount, decimals), amount.DefaultMaxFractionDigits) + " " + toToken.Symbol
	}
	if mr := amount.CalcMinReceived(&toAmount, &toAmountMin, &decimals, slippagePct); mr != nil {
		sum.MinReceived = amount.FormatNumber(mr.Min, amount.DefaultMaxFractionDigits) + " " + toToken.Symbol
		sum.MinReceivedRaw = mr.MinRaw
		sum.MinReceivedNum = mr.Min
	}
	return sum
}

// feeDisplay renders the first fee that carries an amount.
func feeDisplay(fees []entity.FeeCost) string {
	for _, f := range fees {
		if f.Amount == "" {
			continue
		}
		if f.Token == nil {
			return f.Amount
		}
		human := amount.FormatNumber(amount.FromBaseUnits(f.Amount, f.Token.Decimals), amount.DefaultMaxFractionDigits)
		return human + " " + f.Token.Symbol
	}
	return noValue
}

func timeDisplay(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return noValue
	}
	return strconv.Itoa(int(math.Ceil(seconds/60))) + " min"
}

// IsUpstreamStatus reports whether err carries a non-2xx upstream answer, returning it.
func IsUpstreamStatus(err error) (*UpstreamStatusError, bool) {
	var statusErr *UpstreamStatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
