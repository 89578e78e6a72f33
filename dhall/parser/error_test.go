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
	"testing"

	"github.com/go-quicktest/qt"

	"dhall-lang.org/go/dhall/errors"
)

func TestSyntaxErrorFurthestPosition(t *testing.T) {
	// The error points at the ")" inside the parentheses, the furthest
	// position any alternative reached, not at "let" where the outermost
	// alternative gave up.
	_, err := ParseExpr("t", "let x = (1 + ) in x")
	qt.Assert(t, qt.IsNotNil(err))

	var serr *SyntaxError
	qt.Assert(t, qt.IsTrue(errors.As(err, &serr)))
	qt.Assert(t, qt.Equals(serr.Pos.Line, 1))
	qt.Assert(t, qt.Equals(serr.Pos.Column, 14))
	qt.Assert(t, qt.IsTrue(len(serr.Expected) > 0))
	qt.Assert(t, qt.IsTrue(strings.HasPrefix(serr.Error(), "expected ")))
}

func TestSyntaxErrorEmptyInput(t *testing.T) {
	_, err := ParseExpr("t", "")
	qt.Assert(t, qt.IsNotNil(err))

	var serr *SyntaxError
	qt.Assert(t, qt.IsTrue(errors.As(err, &serr)))
}

func TestUnterminatedBlockComment(t *testing.T) {
	for _, in := range []string{"{- open", "{- outer {- inner -}", "1 + {-"} {
		_, err := ParseExpr("t", in)
		qt.Assert(t, qt.IsNotNil(err), qt.Commentf("input %q", in))

		var serr *SyntaxError
		qt.Assert(t, qt.IsTrue(errors.As(err, &serr)), qt.Commentf("input %q", in))
		qt.Assert(t, qt.DeepEquals(serr.Expected, []string{`closing "-}"`}))
	}
}

func TestIntegrityFormatError(t *testing.T) {
	// Once "sha256:" is spelled out, a malformed digest is never
	// reinterpreted as an application argument.
	_, err := ParseExpr("t", "./pkg sha256:abc")
	qt.Assert(t, qt.IsNotNil(err))

	var ierr *IntegrityFormatError
	qt.Assert(t, qt.IsTrue(errors.As(err, &ierr)))
	qt.Assert(t, qt.Equals(ierr.Digits, "abc"))
	qt.Assert(t, qt.IsTrue(strings.Contains(ierr.Error(), "64 hex digits")))

	// 63 digits is as malformed as 3.
	_, err = ParseExpr("t", "./pkg sha256:"+strings.Repeat("a", 63))
	qt.Assert(t, qt.IsTrue(errors.As(err, &ierr)))

	// A word that merely starts with "s" is an ordinary argument.
	e, err := ParseExpr("t", "./pkg second")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(debugStr(e), "(./pkg second)"))
}

func TestEscapeError(t *testing.T) {
	// A lone surrogate, an empty braced payload, and a codepoint beyond
	// the last scalar value.
	for _, in := range []string{`"\uD800"`, `"\u{}"`, `"\u{110000}"`} {
		_, err := ParseExpr("t", in)
		qt.Assert(t, qt.IsNotNil(err), qt.Commentf("input %q", in))

		var eerr *EscapeError
		qt.Assert(t, qt.IsTrue(errors.As(err, &eerr)), qt.Commentf("input %q", in))
		qt.Assert(t, qt.Equals(eerr.Pos.Column, 2), qt.Commentf("input %q", in))
	}
}

func TestTrailingInputError(t *testing.T) {
	_, err := ParseExpr("t", "1 )")
	qt.Assert(t, qt.IsNotNil(err))

	var terr *TrailingInputError
	qt.Assert(t, qt.IsTrue(errors.As(err, &terr)))
	qt.Assert(t, qt.Equals(terr.Pos.Column, 3))
}

func TestOverflowingExponentLeavesTrailingInput(t *testing.T) {
	// 1e999 overflows binary64, so the double alternative fails and the
	// leading digit re-parses as a natural with "e999" left over.
	_, err := ParseExpr("t", "1e999")
	qt.Assert(t, qt.IsNotNil(err))

	var terr *TrailingInputError
	qt.Assert(t, qt.IsTrue(errors.As(err, &terr)))
	qt.Assert(t, qt.Equals(terr.Pos.Column, 2))
}

func TestDepthError(t *testing.T) {
	const depth = 6000
	in := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth)
	_, err := ParseExpr("t", in)
	qt.Assert(t, qt.IsNotNil(err))

	var derr *DepthError
	qt.Assert(t, qt.IsTrue(errors.As(err, &derr)))
}

func TestFlatChainsDoNotCountAsDepth(t *testing.T) {
	// Operator and application chains fold iteratively; a long flat chain
	// parses no matter its length.
	in := "1" + strings.Repeat(" + 1", 20000)
	e, err := ParseExpr("t", in)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNotNil(e))
}
