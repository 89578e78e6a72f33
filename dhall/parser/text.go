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

	"dhall-lang.org/go/dhall/ast"
	"dhall-lang.org/go/dhall/literal"
	"dhall-lang.org/go/dhall/scanner"
	"dhall-lang.org/go/dhall/token"
)

// textLiteral parses a double-quoted or single-quoted text literal.
func (p *parser) textLiteral() (ast.Expr, error) {
	defer un(trace(p, "TextLiteral"))
	if e, err := p.doubleQuoteLiteral(); !isNoMatch(err) {
		return e, err
	}
	return p.singleQuoteLiteral()
}

// validNonASCII mirrors the grammar's valid-non-ascii rule: all
// codepoints above ASCII except surrogates and the final two codepoints
// of every plane.
func validNonASCII(r rune) bool {
	switch {
	case 0x80 <= r && r <= 0xD7FF:
		return true
	case 0xE000 <= r && r <= 0xFFFD:
		return true
	case 0x10000 <= r && r <= 0x10FFFF:
		return r&0xFFFF <= 0xFFFD
	}
	return false
}

// validDoubleQuoteChar reports whether r may appear unescaped inside a
// double-quoted literal. The double quote and backslash are excluded; a
// bare $ is an ordinary character unless it opens an interpolation.
func validDoubleQuoteChar(r rune) bool {
	switch {
	case 0x20 <= r && r <= 0x21:
		return true
	case 0x23 <= r && r <= 0x5B:
		return true
	case 0x5D <= r && r <= 0x7F:
		return true
	}
	return validNonASCII(r)
}

// validSingleQuoteChar reports whether r may appear inside a
// single-quoted literal. Line endings are permitted; a bare carriage
// return is not, so the caller treats "\r\n" as a unit.
func validSingleQuoteChar(r rune) bool {
	return r == '\t' || r == '\n' || 0x20 <= r && r <= 0x7F || validNonASCII(r)
}

// interpolation parses "${" complete-expression "}".
func (p *parser) interpolation() (ast.Expr, error) {
	defer un(trace(p, "Interpolation"))
	c := p.s.Checkpoint()
	if !p.s.EatString("${") {
		return nil, p.fail(`"${"`)
	}
	e, err := p.completeExpression()
	if err != nil {
		if isNoMatch(err) {
			p.s.Restore(c)
		}
		return nil, err
	}
	if !p.s.Eat('}') {
		err := p.fail(`"}"`)
		p.s.Restore(c)
		return nil, err
	}
	return e, nil
}

func (p *parser) doubleQuoteLiteral() (ast.Expr, error) {
	c := p.s.Checkpoint()
	pos := p.s.Pos()
	if !p.s.Eat('"') {
		return nil, p.fail(`'"'`)
	}
	var chunks []ast.TextChunk
	var b strings.Builder
	for {
		switch r := p.s.Peek(); {
		case r == '"':
			p.s.Next()
			return &ast.TextLit{Lquote: pos, Chunks: chunks, Suffix: b.String(), EndPos: p.s.Pos()}, nil

		case r == '$' && p.s.PeekAt(1) == '{':
			save := p.s.Checkpoint()
			e, err := p.interpolation()
			if err != nil {
				if !isNoMatch(err) {
					return nil, err
				}
				// Not an interpolation after all; the $ is an ordinary
				// character and the brace re-parses behind it.
				p.s.Restore(save)
				b.WriteByte('$')
				p.s.Next()
				continue
			}
			chunks = append(chunks, ast.TextChunk{Text: b.String(), Interp: e})
			b.Reset()

		case r == '\\':
			if err := p.doubleQuoteEscape(&b); err != nil {
				if isNoMatch(err) {
					p.s.Restore(c)
				}
				return nil, err
			}

		case validDoubleQuoteChar(r):
			b.WriteRune(r)
			p.s.Next()

		default:
			err := p.fail(`a text character or closing '"'`)
			p.s.Restore(c)
			return nil, err
		}
	}
}

// doubleQuoteEscape decodes one backslash escape into b. Unknown escape
// characters fail the rule; a structurally valid \u escape whose payload
// is not a Unicode scalar is a hard EscapeError.
func (p *parser) doubleQuoteEscape(b *strings.Builder) error {
	start := p.s.Pos()
	p.s.Next() // the backslash
	switch r := p.s.Next(); r {
	case '"', '$', '\\', '/':
		b.WriteRune(r)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, err := p.unicodeEscape(start)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	default:
		return p.failAt(p.s.Offset()-1, "an escape character")
	}
	return nil
}

// unicodeEscape parses the payload of a \u escape: either exactly four
// hex digits or a braced run of one to six. start positions any
// EscapeError at the backslash.
func (p *parser) unicodeEscape(start token.Pos) (rune, error) {
	if p.s.Eat('{') {
		c := p.s.Checkpoint()
		for isHexDigit(p.s.Peek()) {
			p.s.Next()
		}
		digits := p.s.Text(c)
		if !p.s.Eat('}') {
			return 0, p.fail(`hex digits and "}"`)
		}
		r, err := literal.ParseUnicodeEscape(digits)
		if err != nil {
			return 0, &EscapeError{Pos: p.file.Position(start), Err: err}
		}
		return r, nil
	}
	c := p.s.Checkpoint()
	for i := 0; i < 4; i++ {
		if !isHexDigit(p.s.Peek()) {
			return 0, p.fail("four hex digits")
		}
		p.s.Next()
	}
	r, err := literal.ParseUnicodeEscape(p.s.Text(c))
	if err != nil {
		return 0, &EscapeError{Pos: p.file.Position(start), Err: err}
	}
	return r, nil
}

func isHexDigit(r rune) bool {
	return '0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

// quoteChoice records a spot where a quote run was read as an escape
// ("'''" or "''${") in preference to the "''" terminator, so that an
// unterminated tail can re-segment the literal there, exactly as ordered
// choice with backtracking would.
type quoteChoice struct {
	at      scanner.Checkpoint
	chunks  int
	pending string
}

// singleQuoteLiteral parses a raw text literal: "''", a discarded line
// ending, then content up to a bare "''". The escapes "'''" (a literal
// quote pair) and "''${" (a literal interpolation opener) are tried
// before the terminator, per the grammar's alternative order.
func (p *parser) singleQuoteLiteral() (ast.Expr, error) {
	c := p.s.Checkpoint()
	pos := p.s.Pos()
	if !p.s.EatString("''") {
		return nil, p.fail(`"''"`)
	}
	if !p.s.Eat('\n') && !p.s.EatString("\r\n") {
		err := p.fail(`a line ending after "''"`)
		p.s.Restore(c)
		return nil, err
	}

	var chunks []ast.TextChunk
	var b strings.Builder
	var choices []quoteChoice
	for {
		r := p.s.Peek()
		if r == '\'' && p.s.PeekAt(1) == '\'' {
			if p.s.PeekAt(2) == '\'' {
				choices = append(choices, quoteChoice{p.s.Checkpoint(), len(chunks), b.String()})
				p.s.EatString("'''")
				b.WriteString("''")
				continue
			}
			if p.s.PeekAt(2) == '$' && p.s.PeekAt(3) == '{' {
				choices = append(choices, quoteChoice{p.s.Checkpoint(), len(chunks), b.String()})
				p.s.EatString("''${")
				b.WriteString("${")
				continue
			}
			p.s.EatString("''")
			return &ast.TextLit{Lquote: pos, Chunks: chunks, Suffix: b.String(), EndPos: p.s.Pos()}, nil
		}
		if r == '$' && p.s.PeekAt(1) == '{' {
			save := p.s.Checkpoint()
			e, err := p.interpolation()
			if err != nil {
				if !isNoMatch(err) {
					return nil, err
				}
				p.s.Restore(save)
				b.WriteByte('$')
				p.s.Next()
				continue
			}
			chunks = append(chunks, ast.TextChunk{Text: b.String(), Interp: e})
			b.Reset()
			continue
		}
		if r == '\r' && p.s.PeekAt(1) == '\n' {
			b.WriteString("\r\n")
			p.s.EatString("\r\n")
			continue
		}
		if validSingleQuoteChar(r) {
			b.WriteRune(r)
			p.s.Next()
			continue
		}

		// Dead end: end of input or an invalid codepoint with the
		// literal still open. Re-segment at the most recent escape
		// decision, taking the "''" there as the terminator after all.
		if n := len(choices); n > 0 {
			ch := choices[n-1]
			p.s.Restore(ch.at)
			p.s.EatString("''")
			chunks = chunks[:ch.chunks]
			b.Reset()
			b.WriteString(ch.pending)
			return &ast.TextLit{Lquote: pos, Chunks: chunks, Suffix: b.String(), EndPos: p.s.Pos()}, nil
		}
		err := p.fail(`single-quoted text or a closing "''"`)
		p.s.Restore(c)
		return nil, err
	}
}
