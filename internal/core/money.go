// Package core holds the pure domain: the transaction model, category
// resolution, filtering, formatting and the aggregation engine. Nothing in
// this package performs I/O; date-dependent functions take the reference
// time as a parameter.
package core

import (
	"strconv"
	"strings"
)

// FormatRWF renders a whole-franc magnitude grouped by thousands with a
// space separator, e.g. "20 000 RWF". Compact mode renders magnitudes of
// 1000 and above as rounded thousands, e.g. "5K RWF". The sign of the
// input is discarded.
func FormatRWF(amount int64, compact bool) string {
	abs := absInt64(amount)
	if compact && abs >= 1000 {
		return strconv.FormatInt((abs+500)/1000, 10) + "K RWF"
	}
	return groupThousands(abs) + " RWF"
}

// FormatRWFWithSign prefixes the formatted magnitude with "+" for amounts
// of zero and above, "-" otherwise.
func FormatRWFWithSign(amount int64, compact bool) string {
	sign := "+"
	if amount < 0 {
		sign = "-"
	}
	return sign + FormatRWF(amount, compact)
}

// ParseRWF converts a user- or SMS-supplied amount string to whole francs.
// Group separators (spaces and commas) are ignored and an optional
// fractional part is rounded half-up. The result must be positive.
//
//	ParseRWF("12,500")    -> 12500
//	ParseRWF("65.00")     -> 65
//	ParseRWF("99.50")     -> 100
func ParseRWF(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart = s[:dot]
		fracPart = s[dot+1:]
		if strings.ContainsRune(fracPart, '.') {
			return 0, ErrInvalidAmount
		}
	}
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return 0, ErrInvalidAmount
	}

	v, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if len(fracPart) > 0 && fracPart[0] >= '5' {
		v++
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

func groupThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
