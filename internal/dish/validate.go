package dish

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	timeFormatRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9]):([0-5][0-9])$`)

	// Unanchored: any text containing a digit passes the pattern. The
	// numeric comparison rejects the rest.
	positiveNumberRe = regexp.MustCompile(`-?\d*\.?\d{1,2}`)

	decimalPrefixRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	integerPrefixRe = regexp.MustCompile(`^[+-]?\d+`)
)

// IsNotEmpty reports whether s has content after trimming whitespace.
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsTimeFormat reports whether s is HH:MM:SS with hours 00-23 and
// minutes and seconds 00-59, all zero-padded.
func IsTimeFormat(s string) bool {
	return timeFormatRe.MatchString(s)
}

// IsPositiveNumber reports whether s looks like a decimal number and its
// value is strictly greater than zero.
func IsPositiveNumber(s string) bool {
	if !positiveNumberRe.MatchString(strings.ToLower(s)) {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false
	}
	return v > 0
}

// IsPreparationTime reports whether s is a usable preparation time: a
// well-formed HH:MM:SS that is not the zero duration.
func IsPreparationTime(s string) bool {
	return IsNotEmpty(s) && IsTimeFormat(s) && s != ZeroPreparationTime
}

// ParseAttribute converts raw input for key into a Number. Decimal fields
// take the longest leading decimal, integer fields the leading integer, so
// "4.7" is 4 slices. Input with no numeric prefix yields NaN.
func ParseAttribute(key, raw string) Number {
	s := strings.TrimSpace(raw)
	if IsDecimalField(key) {
		m := decimalPrefixRe.FindString(s)
		if m == "" {
			return NaN()
		}
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return NaN()
		}
		return Number(v)
	}

	m := integerPrefixRe.FindString(s)
	if m == "" {
		return NaN()
	}
	v, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return NaN()
	}
	return Number(v)
}
