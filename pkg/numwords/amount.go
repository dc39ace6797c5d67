package numwords

import (
	"strconv"
	"strings"
)

var amountReplacer = strings.NewReplacer(",", "", " ", "", "₹", "", "/-", "")

// ParseAmount extracts a whole rupee amount from values such as "25,000",
// "Rs. 5,00,000/-" or "₹1200". Paise are dropped. It reports false when the
// value is not a plain amount (ranges, words, placeholders).
func ParseAmount(raw string) (int64, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	lower := strings.ToLower(value)
	for _, prefix := range []string{"rs.", "rs", "inr"} {
		if strings.HasPrefix(lower, prefix) {
			value = value[len(prefix):]
			break
		}
	}
	value = amountReplacer.Replace(value)
	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		fraction := value[dot+1:]
		if fraction != "" && strings.Trim(fraction, "0123456789") != "" {
			return 0, false
		}
		value = value[:dot]
	}
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// AmountInWords returns "Rupees <words> Only" when raw parses as an amount
// within range. Otherwise it returns raw unchanged so placeholders and free
// text flow through documents untouched.
func AmountInWords(raw string) string {
	n, ok := ParseAmount(raw)
	if !ok {
		return raw
	}
	words, err := Rupees(n)
	if err != nil {
		return raw
	}
	return words
}
