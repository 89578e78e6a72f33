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

package parser

import (
	"strings"

	"dhall-lang.org/go/dhall/token"
)

// A SyntaxError reports that no grammar alternative matched. Pos is the
// furthest position any alternative reached, which is usually far more
// informative than the position of the first alternative tried. Expected
// lists the token and rule descriptions that failed there, deduplicated
// in attempt order, and Rules the grammar rules that were active.
type SyntaxError struct {
	Pos      token.Position
	Expected []string
	Rules    []string
}

func (e *SyntaxError) Position() token.Position { return e.Pos }

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	sb.WriteString("expected ")
	sb.WriteString(humanList(e.Expected))
	if len(e.Rules) > 0 {
		sb.WriteString(" while parsing ")
		sb.WriteString(e.Rules[len(e.Rules)-1])
	}
	return sb.String()
}

// humanList joins alternatives as "a", "a or b", or "a, b, or c".
func humanList(elems []string) string {
	switch len(elems) {
	case 0:
		return "a complete expression"
	case 1:
		return elems[0]
	case 2:
		return elems[0] + " or " + elems[1]
	}
	return strings.Join(elems[:len(elems)-1], ", ") + ", or " + elems[len(elems)-1]
}

// An IntegrityFormatError reports a malformed "sha256:" integrity hash:
// a digit count other than 64 or a non-hex character. It is a hard error;
// the parser does not reinterpret a malformed hash as anything else.
type IntegrityFormatError struct {
	Pos    token.Position
	Digits string // the hex digits found, possibly empty
}

func (e *IntegrityFormatError) Position() token.Position { return e.Pos }

func (e *IntegrityFormatError) Error() string {
	return "malformed sha256 integrity hash: want exactly 64 hex digits, found " + quoteFew(e.Digits)
}

func quoteFew(s string) string {
	if len(s) > 16 {
		s = s[:16] + "…"
	}
	return `"` + s + `"`
}

// An EscapeError reports an invalid \u escape in a text literal: an empty
// braced form, a payload longer than six digits, or a codepoint outside
// the Unicode scalar range. It is a hard error.
type EscapeError struct {
	Pos token.Position
	Err error
}

func (e *EscapeError) Position() token.Position { return e.Pos }
func (e *EscapeError) Error() string            { return e.Err.Error() }
func (e *EscapeError) Unwrap() error            { return e.Err }

// A TrailingInputError reports that a complete expression parsed
// successfully but input remains. Pos locates the first unconsumed
// codepoint.
type TrailingInputError struct {
	Pos token.Position
}

func (e *TrailingInputError) Position() token.Position { return e.Pos }

func (e *TrailingInputError) Error() string {
	return "unparsed input after a complete expression"
}

// A DepthError reports that expression nesting exceeded the parser's
// fixed limit. Surfacing it as an ordinary error keeps adversarially
// nested input from exhausting the call stack.
type DepthError struct {
	Pos token.Position
}

func (e *DepthError) Position() token.Position { return e.Pos }

func (e *DepthError) Error() string {
	return "expression nesting exceeds the supported depth"
}
