package amount

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultMaxFractionDigits is the fraction precision used for amounts shown to users.
const DefaultMaxFractionDigits = 6

var displayPrinter = message.NewPrinter(language.English)

// FormatNumber renders n with digit grouping and at most maxFrac fractional digits.
// Example: FormatNumber(1234.5678, 2) => "1,234.57"
func FormatNumber(n float64, maxFrac int) string {
	if maxFrac < 0 {
		maxFrac = DefaultMaxFractionDigits
	}
	return displayPrinter.Sprint(number.Decimal(n,
		number.MinFractionDigits(0),
		number.MaxFractionDigits(maxFrac),
	))
}
