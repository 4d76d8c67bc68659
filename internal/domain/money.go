package domain

import (
	"fmt"
	"strings"
)

// All money amounts in this package are integer minor units (paise, cents)
// paired with an ISO currency code. Formatting into a display string happens
// only here, at the presentation boundary; display strings are never parsed
// back into numbers.

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatMinor renders a minor-unit amount as a display string with the
// currency symbol, thousands separators and two decimals, e.g. 123400 INR
// becomes "₹1,234.00".
func FormatMinor(amount int64, currency string) string {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}
	negative := amount < 0
	if negative {
		amount = -amount
	}
	major := amount / 100
	minor := amount % 100

	digits := fmt.Sprintf("%d", major)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, b.String(), minor)
}
