// Copyright 2023 The Dhall Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package literal converts the source text of Dhall literals to values.
//
// Naturals and integers are arbitrary precision: conversion never truncates,
// whatever the digit count. Doubles are IEEE 754 binary64 and must be finite
// unless spelled Infinity.
package literal

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

var errSyntax = errors.New("invalid syntax")

// ParseNatural converts a natural literal: a nonempty run of decimal digits,
// leading zeros permitted.
func ParseNatural(s string) (*apd.BigInt, error) {
	if !isDigits(s) {
		return nil, fmt.Errorf("invalid natural literal %q: %w", s, errSyntax)
	}
	i := new(apd.BigInt)
	if _, ok := i.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid natural literal %q: %w", s, errSyntax)
	}
	return i, nil
}

// ParseInteger converts an integer literal: a mandatory "+" or "-" sign
// followed by a natural literal.
func ParseInteger(s string) (*apd.BigInt, error) {
	if len(s) < 2 || s[0] != '+' && s[0] != '-' || !isDigits(s[1:]) {
		return nil, fmt.Errorf("invalid integer literal %q: %w", s, errSyntax)
	}
	i := new(apd.BigInt)
	if _, ok := i.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid integer literal %q: %w", s, errSyntax)
	}
	return i, nil
}

// ParseDouble converts a double literal: one of the words Infinity,
// -Infinity, and NaN, or an optionally signed digit run carrying a fraction,
// an exponent, or both. A literal whose magnitude rounds beyond the largest
// finite binary64 value is rejected; one that underflows converts to zero.
func ParseDouble(s string) (float64, error) {
	switch s {
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}
	if !validNumericDouble(s) {
		return 0, fmt.Errorf("invalid double literal %q: %w", s, errSyntax)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && ne.Err == strconv.ErrRange {
			if math.IsInf(f, 0) {
				return 0, fmt.Errorf("double literal %q overflows binary64", s)
			}
			// Underflow rounds to zero, which is representable.
			return f, nil
		}
		return 0, fmt.Errorf("invalid double literal %q: %w", s, errSyntax)
	}
	return f, nil
}

// validNumericDouble reports whether s matches the numeric double grammar:
// an optional sign, an integer digit run, and at least one of a fractional
// part and an exponent. The exponent marker is case-insensitive.
func validNumericDouble(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return false
	}
	marked := false
	if i < len(s) && s[i] == '.' {
		i++
		start = i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
		marked = true
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start = i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
		marked = true
	}
	return marked && i == len(s)
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
