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

package ast

import "strings"

// Keywords are the reserved words with dedicated grammar rules. A bare
// word matching a keyword can never be a variable or record label, though
// a longer label may begin with one (e.g. "lettuce").
var keywords = map[string]bool{
	"if":       true,
	"then":     true,
	"else":     true,
	"let":      true,
	"in":       true,
	"using":    true,
	"missing":  true,
	"as":       true,
	"Infinity": true,
	"NaN":      true,
	"merge":    true,
	"Some":     true,
	"toMap":    true,
	"forall":   true,
}

// Builtins are the reserved non-keyword identifiers. A bare word matching
// one parses as a [Builtin] node and may not carry a variable index.
// Infinity and NaN are absent: they parse as double literals.
var builtins = map[string]bool{
	"Bool":              true,
	"True":              true,
	"False":             true,
	"Natural":           true,
	"Integer":           true,
	"Double":            true,
	"Text":              true,
	"List":              true,
	"Optional":          true,
	"None":              true,
	"Type":              true,
	"Kind":              true,
	"Sort":              true,
	"Natural/fold":      true,
	"Natural/build":     true,
	"Natural/isZero":    true,
	"Natural/even":      true,
	"Natural/odd":       true,
	"Natural/toInteger": true,
	"Natural/show":      true,
	"Natural/subtract":  true,
	"Integer/toDouble":  true,
	"Integer/show":      true,
	"Double/show":       true,
	"List/build":        true,
	"List/fold":         true,
	"List/length":       true,
	"List/head":         true,
	"List/last":         true,
	"List/indexed":      true,
	"List/reverse":      true,
	"Optional/fold":     true,
	"Optional/build":    true,
	"Text/show":         true,
}

// IsKeyword reports whether name is a reserved keyword.
func IsKeyword(name string) bool { return keywords[name] }

// IsBuiltin reports whether name is a reserved builtin identifier.
func IsBuiltin(name string) bool { return builtins[name] }

// IsReserved reports whether name is reserved, as a keyword or a builtin.
func IsReserved(name string) bool { return keywords[name] || builtins[name] }

// IsSimpleLabelFirst reports whether r may start an unquoted label.
func IsSimpleLabelFirst(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// IsSimpleLabelNext reports whether r may continue an unquoted label.
func IsSimpleLabelNext(r rune) bool {
	return IsSimpleLabelFirst(r) || '0' <= r && r <= '9' || r == '-' || r == '/'
}

// IsQuotedLabelChar reports whether r may appear in a backtick-quoted
// label: any printable ASCII character except the backtick itself.
func IsQuotedLabelChar(r rune) bool {
	return 0x20 <= r && r <= 0x5F || 0x61 <= r && r <= 0x7E
}

// IsSimpleLabel reports whether s can be written as a label without
// backtick quoting: it must match the unquoted character classes and not
// collide with a keyword. A label may begin with a keyword as long as it
// is longer than the keyword itself, so only a whole-string match
// disqualifies. Builtin names are spellable as labels; whether one is
// accepted in binding position is a parser concern.
func IsSimpleLabel(s string) bool {
	if s == "" || IsKeyword(s) {
		return false
	}
	for i, r := range s {
		if i == 0 && !IsSimpleLabelFirst(r) || i > 0 && !IsSimpleLabelNext(r) {
			return false
		}
	}
	return true
}

// QuoteLabel returns s in a form that re-parses as the same label:
// verbatim when [IsSimpleLabel] allows it, backtick-quoted otherwise.
func QuoteLabel(s string) string {
	if IsSimpleLabel(s) {
		return s
	}
	return "`" + s + "`"
}

// IsValidLabel reports whether s is expressible as a label at all, in
// either the unquoted or the quoted form.
func IsValidLabel(s string) bool {
	if IsSimpleLabel(s) {
		return true
	}
	if s == "" || strings.ContainsRune(s, '`') {
		return false
	}
	for _, r := range s {
		if !IsQuotedLabelChar(r) {
			return false
		}
	}
	return true
}
