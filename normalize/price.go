package normalize

import (
	"strconv"
	"strings"
)

// currencySymbols are stripped before numeric parsing.
const currencySymbols = "€$£¥"

// ParsePrice converts listing price text into a non-negative decimal value.
//
// European-style text uses the comma as the decimal separator and the dot
// for thousands ("€1.299,00"); dot-decimal text uses the comma for
// thousands ("1,299.50"). The currency symbol decides which convention
// applies; without a symbol the text is assumed dot-decimal.
//
// Unparseable, negative, or absent text yields 0.0. That is a data-quality
// condition for the caller to log, not an error.
func ParsePrice(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	euroStyle := strings.ContainsRune(s, '€')

	// Strip currency symbols and interior whitespace
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(currencySymbols, r) || r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, s)

	if euroStyle {
		// "1.299,00" -> "1299.00"
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		// "1,299.50" -> "1299.50"
		s = strings.ReplaceAll(s, ",", "")
	}

	price, err := strconv.ParseFloat(s, 64)
	if err != nil || price < 0 {
		return 0, false
	}
	return price, true
}
