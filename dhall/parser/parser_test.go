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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestParseExpr(t *testing.T) {
	type testCase struct {
		desc    string
		in, out string
	}
	testCases := []testCase{
		{
			desc: "natural",
			in:   "123",
			out:  "123",
		},
		{
			desc: "natural with leading zeros",
			in:   "007",
			out:  "7",
		},
		{
			desc: "integers",
			in:   "[+5, -12, +0]",
			out:  "[+5, -12, +0]",
		},
		{
			desc: "doubles",
			in:   "[3.14, -0.5, 1e6, 2.0E-3, Infinity, -Infinity, NaN]",
			out:  "[3.14, -0.5, 1e6, 2.0E-3, Infinity, -Infinity, NaN]",
		},
		{
			desc: "double wins over natural plus selector",
			in:   "2.5",
			out:  "2.5",
		},
		{
			desc: "dot without fraction digit is a selector",
			in:   "2.e5",
			out:  "2.e5",
		},
		{
			desc: "times binds tighter than plus",
			in:   "1 + 2 * 3",
			out:  "(1 + (2 * 3))",
		},
		{
			desc: "plus chain associates left",
			in:   "1 + 2 + 3",
			out:  "((1 + 2) + 3)",
		},
		{
			desc: "list append chain associates left",
			in:   "[1] # [2] # [3]",
			out:  "(([1] # [2]) # [3])",
		},
		{
			desc: "and binds tighter than or",
			in:   "a && b || c",
			out:  "((a && b) || c)",
		},
		{
			desc: "not-equal binds tighter than equal",
			in:   "x == y != z",
			out:  "(x == (y != z))",
		},
		{
			desc: "ascii combine is the unicode operator",
			in:   `a /\ b`,
			out:  "(a ∧ b)",
		},
		{
			desc: "ascii prefer",
			in:   "a // b",
			out:  "(a ⫽ b)",
		},
		{
			desc: "ascii combine-types wins over prefer",
			in:   `a //\\ b`,
			out:  "(a ⩓ b)",
		},
		{
			desc: "unicode operators",
			in:   "a ∧ b ⫽ c ⩓ d",
			out:  "(a ∧ (b ⫽ (c ⩓ d)))",
		},
		{
			desc: "text append",
			in:   `"a" ++ "b"`,
			out:  `("a" ++ "b")`,
		},
		{
			desc: "import alternative",
			in:   "missing ? ./fallback",
			out:  "(missing ? ./fallback)",
		},
		{
			desc: "plus without trailing space is application",
			in:   "f +2",
			out:  "(f +2)",
		},
		{
			desc: "application associates left",
			in:   "f a b",
			out:  "((f a) b)",
		},
		{
			desc: "builtin application",
			in:   "Natural/even 2",
			out:  "(Natural/even 2)",
		},
		{
			desc: "lambda",
			in:   "λ(x : Natural) → x + 1",
			out:  "λ(x : Natural) → (x + 1)",
		},
		{
			desc: "ascii lambda",
			in:   `\(x : Natural) -> x`,
			out:  "λ(x : Natural) → x",
		},
		{
			desc: "forall",
			in:   "∀(a : Type) → a",
			out:  "∀(a : Type) → a",
		},
		{
			desc: "forall keyword",
			in:   "forall (a : Type) -> List a",
			out:  "∀(a : Type) → (List a)",
		},
		{
			desc: "function type",
			in:   "Natural → Natural",
			out:  "(Natural → Natural)",
		},
		{
			desc: "function type arrow associates right",
			in:   "Natural -> Bool -> Text",
			out:  "(Natural → (Bool → Text))",
		},
		{
			desc: "if",
			in:   "if True then 1 else 2",
			out:  "if True then 1 else 2",
		},
		{
			desc: "let",
			in:   "let x = 1 in x",
			out:  "let x = 1 in x",
		},
		{
			desc: "let with annotation",
			in:   "let x : Natural = 1 in x",
			out:  "let x : Natural = 1 in x",
		},
		{
			desc: "chained lets share one in",
			in:   "let a = 1 let b = 2 in a + b",
			out:  "let a = 1 let b = 2 in (a + b)",
		},
		{
			desc: "keyword prefixes are plain labels",
			in:   "let lettuce = 1 in lettuce",
			out:  "let lettuce = 1 in lettuce",
		},
		{
			desc: "iffy is not if",
			in:   "iffy",
			out:  "iffy",
		},
		{
			desc: "annotation",
			in:   "1 : Natural",
			out:  "(1 : Natural)",
		},
		{
			desc: "variable with index",
			in:   "x@2",
			out:  "x@2",
		},
		{
			desc: "index zero is not rendered",
			in:   "x@0",
			out:  "x",
		},
		{
			desc: "quoted keyword label is a variable",
			in:   "`let`",
			out:  "`let`",
		},
		{
			desc: "empty record literal",
			in:   "{}",
			out:  "{=}",
		},
		{
			desc: "explicit empty record literal",
			in:   "{=}",
			out:  "{=}",
		},
		{
			desc: "record literal",
			in:   "{ a = 1, b = 2 }",
			out:  "{ a = 1, b = 2 }",
		},
		{
			desc: "record type",
			in:   "{ port : Natural, host : Text }",
			out:  "{ port : Natural, host : Text }",
		},
		{
			desc: "record with quoted label",
			in:   "{ `let` = 1 }",
			out:  "{ `let` = 1 }",
		},
		{
			desc: "empty union type",
			in:   "<>",
			out:  "<>",
		},
		{
			desc: "union type",
			in:   "< Left : Natural | Right >",
			out:  "< Left : Natural | Right >",
		},
		{
			desc: "list literal",
			in:   "[1, 2, 3]",
			out:  "[1, 2, 3]",
		},
		{
			desc: "empty list needs its type",
			in:   "[] : List Natural",
			out:  "([] : List Natural)",
		},
		{
			desc: "empty list of imported type",
			in:   "[] : List ./MyType",
			out:  "([] : List ./MyType)",
		},
		{
			desc: "some",
			in:   "Some 1",
			out:  "(Some 1)",
		},
		{
			desc: "some of application keeps grouping",
			in:   "Some (f x)",
			out:  "(Some (f x))",
		},
		{
			desc: "merge",
			in:   "merge handlers union",
			out:  "(merge handlers union)",
		},
		{
			desc: "merge with annotation",
			in:   "merge handlers union : Text",
			out:  "(merge handlers union : Text)",
		},
		{
			desc: "toMap",
			in:   "toMap record",
			out:  "(toMap record)",
		},
		{
			desc: "toMap with annotation",
			in:   "toMap record : List { mapKey : Text, mapValue : Natural }",
			out:  "(toMap record : (List { mapKey : Text, mapValue : Natural }))",
		},
		{
			desc: "selector chain",
			in:   "r.x.y",
			out:  "r.x.y",
		},
		{
			desc: "selection from a record literal",
			in:   "{ a = { b = 1 } }.a.b",
			out:  "{ a = { b = 1 } }.a.b",
		},
		{
			desc: "projection",
			in:   "r.{ x, y }",
			out:  "r.{x, y}",
		},
		{
			desc: "empty projection",
			in:   "r.{}",
			out:  "r.{}",
		},
		{
			desc: "projection by type",
			in:   "r.(T)",
			out:  "r.(T)",
		},
		{
			desc: "unclaimed dot falls back to application",
			in:   "List ./MyType",
			out:  "(List ./MyType)",
		},
		{
			desc: "parentheses group without a node",
			in:   "(1 + 2) * 3",
			out:  "((1 + 2) * 3)",
		},
		{
			desc: "comments are whitespace",
			in:   "1 {- block {- nested -} -} + -- line\n 2",
			out:  "(1 + 2)",
		},
		{
			desc: "double-quoted text",
			in:   `"abc"`,
			out:  `"abc"`,
		},
		{
			desc: "text escapes round-trip",
			in:   `"a\nb\"c\\d\tz"`,
			out:  `"a\nb\"c\\d\tz"`,
		},
		{
			desc: "unicode escapes decode",
			in:   `"A\u{1F600}"`,
			out:  "\"A\U0001F600\"",
		},
		{
			desc: "bare dollar is plain text",
			in:   `"$100"`,
			out:  `"$100"`,
		},
		{
			desc: "interpolation",
			in:   `"Hello, ${name}!"`,
			out:  `"Hello, ${name}!"`,
		},
		{
			desc: "failed interpolation falls back to characters",
			in:   `"${ }"`,
			out:  `"\${ }"`,
		},
		{
			desc: "single-quoted text",
			in:   "''\nfoo\n''",
			out:  `"foo\n"`,
		},
		{
			desc: "single-quote escape for a quote pair",
			in:   "''\na''' ''",
			out:  `"a'' "`,
		},
		{
			desc: "single-quote escape for an interpolation opener",
			in:   "''\n''${x}''",
			out:  `"\${x}"`,
		},
		{
			desc: "single-quote interpolation",
			in:   "''\nABC${\"'\"}''",
			out:  `"ABC${"'"}"`,
		},
		{
			desc: "annotated import",
			in:   "./config : { port : Natural }",
			out:  "(./config : { port : Natural })",
		},
		{
			desc: "keywords bound the lambda body",
			in:   "let f = λ(x : Bool) → x in f True",
			out:  "let f = λ(x : Bool) → x in (f True)",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			e, err := ParseExpr("test", tc.in)
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.Equals(debugStr(e), tc.out))
		})
	}
}

func TestParseFileShebang(t *testing.T) {
	e, err := ParseFile("run.dhall", "#!/usr/bin/env dhall\n#!second line\n{ n = 1 }")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(debugStr(e), "{ n = 1 }"))

	// ParseExpr does not accept shebangs.
	_, err = ParseExpr("run.dhall", "#!/usr/bin/env dhall\n1")
	qt.Assert(t, qt.IsNotNil(err))
}

func TestParseFileFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.dhall")
	err := os.WriteFile(path, []byte("{ version = 3 }"), 0o666)
	qt.Assert(t, qt.IsNil(err))

	e, err := ParseFile(path, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(debugStr(e), "{ version = 3 }"))
}

func TestParseExprReader(t *testing.T) {
	e, err := ParseExpr("r", strings.NewReader("1 + 2"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(debugStr(e), "(1 + 2)"))
}

func TestParsePrefix(t *testing.T) {
	// The trailing input starts right after the consumed whitespace.
	e, n, err := ParsePrefix("p", "1 }")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(debugStr(e), "1"))
	qt.Assert(t, qt.Equals(n, 2))
}

func TestParsePrefixResegmentsSingleQuote(t *testing.T) {
	// The trailing quote forces the literal to end at the quote pair that
	// was first read as the "'''" escape.
	e, n, err := ParsePrefix("p", "''\nfoo'''")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(debugStr(e), `"foo"`))
	qt.Assert(t, qt.Equals(n, 8))
}

func TestAllowPartial(t *testing.T) {
	_, err := ParseExpr("p", "1 ]")
	qt.Assert(t, qt.IsNotNil(err))

	e, err := ParseExpr("p", "1 ]", AllowPartial)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(debugStr(e), "1"))
}

func TestTrace(t *testing.T) {
	var sb strings.Builder
	_, err := ParseExpr("t", "1 + 2", TraceTo(&sb))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(strings.Contains(sb.String(), "Expression")))
}

func TestPositions(t *testing.T) {
	e, err := ParseExpr("pos.dhall", "let x = 10\nin x + 1")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Pos().Offset(), 0))
	qt.Assert(t, qt.Equals(e.End().Offset(), 19))
	qt.Assert(t, qt.Equals(e.Pos().Filename(), "pos.dhall"))

	pos := e.End().Position()
	qt.Assert(t, qt.Equals(pos.Line, 2))
	qt.Assert(t, qt.Equals(pos.Column, 9))
}

func TestInvalidUTF8(t *testing.T) {
	_, err := ParseExpr("bad", []byte{'1', 0xFF})
	qt.Assert(t, qt.IsNotNil(err))
}
