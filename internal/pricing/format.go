package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var displayPrinter = message.NewPrinter(language.MustParse("es-AR"))

// FormatMoney renders an amount for people: rounded to cents with es-AR separators, e.g. "$ 1.250,50".
// Only use it at the output boundary; stored and computed values stay exact.
func FormatMoney(amount decimal.Decimal) string {
	return "$ " + formatFixed(amount, 2)
}

// FormatNumber renders a value rounded to a whole number with es-AR grouping, e.g. "1.000.000".
func FormatNumber(v decimal.Decimal) string {
	return formatFixed(v, 0)
}

// formatFixed rounds through the decimal string so cents never go through a float.
func formatFixed(v decimal.Decimal, places int32) string {
	fixed := v.StringFixed(places)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	// Integer parts beyond int64 are left ungrouped.
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = displayPrinter.Sprintf("%d", n)
	}

	if frac == "" {
		return sign + whole
	}
	return sign + whole + "," + frac
}
