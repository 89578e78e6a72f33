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
	"fmt"
	"io"
	"os"
	"slices"
	"unicode/utf8"

	"dhall-lang.org/go/dhall/ast"
	"dhall-lang.org/go/dhall/errors"
	"dhall-lang.org/go/dhall/scanner"
	"dhall-lang.org/go/dhall/token"
)

// errNoMatch signals ordinary rule failure. Ordered-choice call sites
// consume it by restoring their checkpoint and trying the next
// alternative; every other error propagates without backtracking.
var errNoMatch = errors.New("no match")

// maxDepth bounds true expression nesting (parentheses, binder bodies,
// interpolations). Operator, application, and selector chains fold
// iteratively and do not count against it.
const maxDepth = 5000

// Rules re-parsed at the same position by ordered-choice fallbacks are
// memoized: operator expressions (re-tried when the function-type arrow
// alternative fails) and import expressions (re-tried when merge/toMap
// annotation forms fall through). Memoization is safe because rules are
// pure functions of the input position.
const (
	memoOperator = iota
	memoImport
)

type memoKey struct {
	rule int8
	off  int
}

type memoEntry struct {
	expr ast.Expr
	end  int
}

type parser struct {
	s    scanner.Scanner
	file *token.File

	trace        bool // print a trace of attempted productions
	allowPartial bool // permit input past a complete expression
	traceOut     io.Writer

	indent int // trace indentation
	depth  int // current expression nesting

	rules []string // active rule names, innermost last

	// Furthest-failure bookkeeping. failOff is -1 until the first
	// failure; failExpected and failRules accumulate, deduplicated, the
	// expectations and active rules recorded at failOff.
	failOff      int
	failExpected []string
	failRules    []string

	memo map[memoKey]memoEntry
}

func (p *parser) init(filename string, src []byte, opts []Option) error {
	p.traceOut = os.Stderr
	p.failOff = -1
	for _, opt := range opts {
		opt(p)
	}
	p.file = token.NewFile(filename, utf8.RuneCount(src))
	return p.s.Init(p.file, src)
}

// parseTop parses whsp expression whsp and verifies consumption to the
// end of the input unless the AllowPartial option was given. It returns
// the expression and the count of codepoints consumed.
func (p *parser) parseTop(shebangs bool) (ast.Expr, int, error) {
	if shebangs {
		for p.s.Shebang() {
		}
	}
	e, err := p.completeExpression()
	if err != nil {
		if isNoMatch(err) {
			return nil, 0, p.syntaxError()
		}
		return nil, 0, err
	}
	consumed := p.s.Offset()
	if !p.s.Done() && !p.allowPartial {
		return nil, 0, &TrailingInputError{Pos: p.position()}
	}
	return e, consumed, nil
}

func isNoMatch(err error) bool { return err == errNoMatch }

// position returns the printable form of the current scanner position.
func (p *parser) position() token.Position {
	return p.file.Position(p.s.Pos())
}

// fail records a failed expectation at the current offset and returns
// errNoMatch.
func (p *parser) fail(expected string) error {
	return p.failAt(p.s.Offset(), expected)
}

func (p *parser) failAt(off int, expected string) error {
	switch {
	case off > p.failOff:
		p.failOff = off
		p.failExpected = append(p.failExpected[:0], expected)
		p.failRules = append(p.failRules[:0], p.rules...)
	case off == p.failOff:
		if !slices.Contains(p.failExpected, expected) {
			p.failExpected = append(p.failExpected, expected)
		}
		for _, r := range p.rules {
			if !slices.Contains(p.failRules, r) {
				p.failRules = append(p.failRules, r)
			}
		}
	}
	return errNoMatch
}

// syntaxError converts the furthest-failure state into the error
// surfaced once every top-level alternative has failed.
func (p *parser) syntaxError() error {
	off := p.failOff
	if off < 0 {
		off = p.s.Offset()
	}
	return &SyntaxError{
		Pos:      p.file.Position(p.file.Pos(off)),
		Expected: slices.Clone(p.failExpected),
		Rules:    slices.Clone(p.failRules),
	}
}

// ws consumes optional whitespace and comments. Its only failure mode is
// a malformed block comment, surfaced as a SyntaxError expecting the
// closing delimiter.
func (p *parser) ws() error {
	if err := p.s.Whitespace(); err != nil {
		pos := token.Position{}
		var e errors.Error
		if errors.As(err, &e) {
			pos = e.Position()
		}
		return &SyntaxError{
			Pos:      pos,
			Expected: []string{`closing "-}"`},
			Rules:    slices.Clone(p.rules),
		}
	}
	return nil
}

// ws1 consumes mandatory whitespace: at least one codepoint. The
// grammar requires it where adjacent tokens would otherwise merge.
func (p *parser) ws1() error {
	before := p.s.Offset()
	if err := p.ws(); err != nil {
		return err
	}
	if p.s.Offset() == before {
		return p.fail("whitespace")
	}
	return nil
}

// eat consumes the literal and returns its position, or fails without
// consuming anything.
func (p *parser) eat(lit string) (token.Pos, error) {
	pos := p.s.Pos()
	if !p.s.EatString(lit) {
		return token.NoPos, p.fail(fmt.Sprintf("%q", lit))
	}
	return pos, nil
}

// keyword consumes word only when the source does not continue with a
// label character, so that "lettuce" never sheds a "let" prefix.
func (p *parser) keyword(word string) (token.Pos, error) {
	c := p.s.Checkpoint()
	pos := p.s.Pos()
	if !p.s.EatString(word) {
		return token.NoPos, p.fail(fmt.Sprintf("%q", word))
	}
	if ast.IsSimpleLabelNext(p.s.Peek()) {
		err := p.fail(fmt.Sprintf("%q", word))
		p.s.Restore(c)
		return token.NoPos, err
	}
	return pos, nil
}

// arrowToken consumes "->" or "→".
func (p *parser) arrowToken() error {
	if !p.s.EatString("->") && !p.s.Eat('→') {
		return p.fail(`"->"`)
	}
	return nil
}

func (p *parser) memoized(rule int8, parse func() (ast.Expr, error)) (ast.Expr, error) {
	key := memoKey{rule, p.s.Offset()}
	if ent, ok := p.memo[key]; ok {
		p.s.Restore(scanner.Checkpoint(ent.end))
		return ent.expr, nil
	}
	e, err := parse()
	if err == nil {
		if p.memo == nil {
			p.memo = make(map[memoKey]memoEntry)
		}
		p.memo[key] = memoEntry{e, p.s.Offset()}
	}
	return e, err
}

// Parsing support: the production trace enabled by the Trace option,
// following the indentation format of go/parser.

func (p *parser) printTrace(a ...any) {
	const dots = ". . . . . . . . . . . . . . . . "
	pos := p.position()
	fmt.Fprintf(p.traceOut, "%5d:%3d: ", pos.Line, pos.Column)
	i := 2 * p.indent
	for i > len(dots) {
		fmt.Fprint(p.traceOut, dots)
		i -= len(dots)
	}
	fmt.Fprint(p.traceOut, dots[0:i])
	fmt.Fprintln(p.traceOut, a...)
}

func trace(p *parser, msg string) *parser {
	p.rules = append(p.rules, msg)
	if p.trace {
		p.printTrace(msg, "(")
		p.indent++
	}
	return p
}

// Usage pattern: defer un(trace(p, "RuleName")).
func un(p *parser) {
	p.rules = p.rules[:len(p.rules)-1]
	if p.trace {
		p.indent--
		p.printTrace(")")
	}
}
