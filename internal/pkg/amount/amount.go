package amount

import (
	"math"
	"strconv"
	"strings"
)

// DefaultSlippagePct is applied by CalcMinReceived when the caller has no slippage preference.
const DefaultSlippagePct = 0.5

// MinReceived holds the minimum amount a bridge transfer is expected to deliver.
type MinReceived struct {
	MinRaw string  `json:"minRaw"`
	Min    float64 `json:"min"`
}

// ToBaseUnits converts a user typed decimal string into an integer base-unit string.
// Non-digit characters are dropped, the fraction is truncated (never rounded) to decimals digits.
// Example: ToBaseUnits("1.23456789", 4) => "12345"
func ToBaseUnits(human string, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}

	intRaw, fracRaw, _ := strings.Cut(strings.TrimSpace(human), ".")
	intPart := digitsOnly(intRaw)
	fracPart := digitsOnly(fracRaw)
	if len(fracPart) > decimals {
		fracPart = fracPart[:decimals]
	}
	if pad := decimals - len(fracPart); pad > 0 {
		fracPart += strings.Repeat("0", pad)
	}

	base := strings.TrimLeft(intPart+fracPart, "0")
	if base == "" {
		return "0"
	}
	return base
}

// FromBaseUnits converts a base-unit string back into a float64 for display.
// The result is lossy. Malformed input yields 0.
func FromBaseUnits(base string, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}

	neg := strings.HasPrefix(base, "-")
	s := strings.TrimPrefix(base, "-")
	if pad := decimals + 1 - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}

	intPart := s[:len(s)-decimals]
	if intPart == "" {
		intPart = "0"
	}
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(intPart)
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}

	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0
	}
	return n
}

// CalcMinReceived derives the minimum received amount of a quote.
// toAmountMin, when present, is authoritative and slippage is ignored.
// Otherwise slippage (DefaultSlippagePct when nil) is applied to toAmount.
// Returns nil when decimals is unknown or there is nothing to derive from.
func CalcMinReceived(toAmount, toAmountMin *string, decimals *int, slippagePct *float64) *MinReceived {
	if decimals == nil {
		return nil
	}
	if toAmountMin != nil && *toAmountMin != "" {
		return &MinReceived{
			MinRaw: *toAmountMin,
			Min:    FromBaseUnits(*toAmountMin, *decimals),
		}
	}
	if toAmount == nil || *toAmount == "" {
		return nil
	}

	sl := DefaultSlippagePct
	if slippagePct != nil {
		sl = *slippagePct
	}

	toAmountNum := FromBaseUnits(*toAmount, *decimals)
	minimum := toAmountNum * (1 - sl/100)

	// The float is re-encoded through string truncation, which can shave one more base unit.
	minRaw := ToBaseUnits(strconv.FormatFloat(minimum, 'f', -1, 64), *decimals)
	return &MinReceived{MinRaw: minRaw, Min: minimum}
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
