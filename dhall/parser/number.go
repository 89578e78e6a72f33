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
	"dhall-lang.org/go/dhall/ast"
	"dhall-lang.org/go/dhall/literal"
)

// numberLiteral parses a numeric literal, trying the double form first:
// 2.0 and 2 share a leading digit run, and the ordered choice mandates
// that the double interpretation win whenever a fraction or exponent
// follows. Naturals are bare digit runs; integers carry a mandatory sign.
func (p *parser) numberLiteral() (ast.Expr, error) {
	if e, err := p.doubleLiteral(); !isNoMatch(err) {
		return e, err
	}
	if e, err := p.naturalLiteral(); !isNoMatch(err) {
		return e, err
	}
	return p.integerLiteral()
}

// doubleLiteral parses Infinity, -Infinity, NaN, or a signed digit run
// carrying a fraction, an exponent, or both. A magnitude beyond the
// largest finite binary64 value fails the rule, letting the digits
// re-parse as a natural followed by whatever trails them.
func (p *parser) doubleLiteral() (ast.Expr, error) {
	pos := p.s.Pos()
	for _, word := range []string{"-Infinity", "Infinity", "NaN"} {
		if _, err := p.keyword(word); err == nil {
			v, _ := literal.ParseDouble(word)
			return &ast.DoubleLit{ValuePos: pos, Text: word, Value: v}, nil
		}
	}

	c := p.s.Checkpoint()
	if r := p.s.Peek(); r == '+' || r == '-' {
		p.s.Next()
	}
	if !p.digits() {
		p.s.Restore(c)
		return nil, p.fail("a double literal")
	}
	marked := false
	if p.s.Peek() == '.' && isDigit(p.s.PeekAt(1)) {
		p.s.Next()
		p.digits()
		marked = true
	}
	if r := p.s.Peek(); r == 'e' || r == 'E' {
		e := p.s.Checkpoint()
		p.s.Next()
		if r := p.s.Peek(); r == '+' || r == '-' {
			p.s.Next()
		}
		if p.digits() {
			marked = true
		} else {
			p.s.Restore(e)
		}
	}
	if !marked {
		err := p.fail("a fraction or exponent")
		p.s.Restore(c)
		return nil, err
	}
	text := p.s.Text(c)
	v, err := literal.ParseDouble(text)
	if err != nil {
		err := p.failAt(p.s.Offset(), "a finite double literal")
		p.s.Restore(c)
		return nil, err
	}
	return &ast.DoubleLit{ValuePos: pos, Text: text, Value: v}, nil
}

func (p *parser) naturalLiteral() (ast.Expr, error) {
	c := p.s.Checkpoint()
	pos := p.s.Pos()
	if !p.digits() {
		return nil, p.fail("a natural literal")
	}
	text := p.s.Text(c)
	v, err := literal.ParseNatural(text)
	if err != nil {
		p.s.Restore(c)
		return nil, p.fail("a natural literal")
	}
	return &ast.NaturalLit{ValuePos: pos, Text: text, Value: v}, nil
}

func (p *parser) integerLiteral() (ast.Expr, error) {
	c := p.s.Checkpoint()
	pos := p.s.Pos()
	if r := p.s.Peek(); r != '+' && r != '-' {
		return nil, p.fail("an integer literal")
	}
	p.s.Next()
	if !p.digits() {
		err := p.fail("an integer literal")
		p.s.Restore(c)
		return nil, err
	}
	text := p.s.Text(c)
	v, err := literal.ParseInteger(text)
	if err != nil {
		p.s.Restore(c)
		return nil, p.fail("an integer literal")
	}
	return &ast.IntegerLit{ValuePos: pos, Text: text, Value: v}, nil
}

// digits consumes a run of decimal digits and reports whether at least
// one was present.
func (p *parser) digits() bool {
	if !isDigit(p.s.Peek()) {
		return false
	}
	for isDigit(p.s.Peek()) {
		p.s.Next()
	}
	return true
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }
