// Package numwords spells out non-negative integers using the Indian numbering
// convention (thousand, lakh, crore, arab, kharab) as written in legal
// instruments, e.g. "Rupees Twenty Five Thousand Only".
package numwords

import (
	"errors"
	"fmt"
	"strings"
)

// MaxValue is the largest value ToWords accepts (10^12 - 1, i.e. nine kharab
// ninety nine arab ... nine hundred ninety nine).
const MaxValue int64 = 999_999_999_999

// ErrOutOfRange reports a negative input or one above MaxValue.
var ErrOutOfRange = errors.New("numwords: value out of range")

// RangeError carries the rejected value. It matches ErrOutOfRange with
// errors.Is.
type RangeError struct {
	Value int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("numwords: %d is outside the supported range 0..%d", e.Value, MaxValue)
}

// Unwrap exposes ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

var units = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// scale describes one two-digit group above the hundreds group. Groups are
// peeled right to left in this order.
type scale struct {
	name    string
	divisor int64
}

var scales = []scale{
	{name: "Thousand", divisor: 100},
	{name: "Lakh", divisor: 100},
	{name: "Crore", divisor: 100},
	{name: "Arab", divisor: 100},
	{name: "Kharab", divisor: 100},
}

// ToWords converts n into title-cased English words using Indian grouping.
// Zero yields "Zero". Values below zero or above MaxValue return a
// *RangeError instead of a truncated result.
func ToWords(n int64) (string, error) {
	if n < 0 || n > MaxValue {
		return "", &RangeError{Value: n}
	}
	if n == 0 {
		return "Zero", nil
	}

	var groups []string

	hundreds := n % 1000
	n /= 1000
	if hundreds > 0 {
		groups = append(groups, belowThousand(int(hundreds)))
	}

	for _, sc := range scales {
		if n == 0 {
			break
		}
		group := n % sc.divisor
		n /= sc.divisor
		if group == 0 {
			continue
		}
		groups = append(groups, belowHundred(int(group))+" "+sc.name)
	}

	// groups were collected least significant first
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return strings.Join(groups, " "), nil
}

// MustToWords is ToWords for values already known to be in range.
func MustToWords(n int64) string {
	words, err := ToWords(n)
	if err != nil {
		panic(err)
	}
	return words
}

// Rupees renders n as "Rupees <words> Only".
func Rupees(n int64) (string, error) {
	words, err := ToWords(n)
	if err != nil {
		return "", err
	}
	return "Rupees " + words + " Only", nil
}

func belowHundred(n int) string {
	if n < 20 {
		return units[n]
	}
	word := tens[n/10]
	if rest := n % 10; rest > 0 {
		word += " " + units[rest]
	}
	return word
}

func belowThousand(n int) string {
	if n < 100 {
		return belowHundred(n)
	}
	word := units[n/100] + " Hundred"
	if rest := n % 100; rest > 0 {
		word += " " + belowHundred(rest)
	}
	return word
}
