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

// Package parser implements a parser for Dhall source text, producing the
// syntax tree defined by the ast package.
//
// The grammar is parsed with recursive descent over ordered alternatives:
// the first alternative that matches wins, and failed alternatives restore
// the input position exactly. Parsing performs no I/O beyond loading the
// source, holds no state between calls, and returns structured errors as
// ordinary values.
package parser // import "dhall-lang.org/go/dhall/parser"

import (
	"io"

	"dhall-lang.org/go/dhall/ast"
	"dhall-lang.org/go/internal/source"
)

// An Option configures the parser.
type Option func(p *parser)

// Trace causes parsing to print a trace of attempted productions to
// standard error.
func Trace(p *parser) { p.trace = true }

// TraceTo is like [Trace] with the output directed to w.
func TraceTo(w io.Writer) Option {
	return func(p *parser) {
		p.trace = true
		p.traceOut = w
	}
}

// AllowPartial permits input to continue past a complete expression
// instead of failing with a [TrailingInputError].
func AllowPartial(p *parser) { p.allowPartial = true }

// ParseFile parses the source of a Dhall file and returns its expression.
//
// If src != nil, ParseFile parses the source from src (a string, []byte,
// or io.Reader) and the filename is only used when recording positions;
// otherwise it reads the file named by filename. The source must be valid
// UTF-8.
//
// Shebang lines at the very start of the file are consumed and discarded.
// Surrounding whitespace and comments belong to the expression; input
// remaining after them is an error.
func ParseFile(filename string, src any, opts ...Option) (ast.Expr, error) {
	b, err := source.ReadAll(filename, src)
	if err != nil {
		return nil, err
	}
	var p parser
	if err := p.init(filename, b, opts); err != nil {
		return nil, err
	}
	e, _, err := p.parseTop(true)
	return e, err
}

// ParseExpr is like [ParseFile] but does not permit shebang lines.
func ParseExpr(filename string, src any, opts ...Option) (ast.Expr, error) {
	b, err := source.ReadAll(filename, src)
	if err != nil {
		return nil, err
	}
	var p parser
	if err := p.init(filename, b, opts); err != nil {
		return nil, err
	}
	e, _, err := p.parseTop(false)
	return e, err
}

// ParsePrefix parses the longest expression (with its surrounding
// whitespace) at the start of the source and returns it together with
// the count of codepoints consumed. Input past the consumed prefix is
// not an error; callers that require full consumption compare the count
// against the source length.
func ParsePrefix(filename string, src any, opts ...Option) (ast.Expr, int, error) {
	b, err := source.ReadAll(filename, src)
	if err != nil {
		return nil, 0, err
	}
	var p parser
	if err := p.init(filename, b, opts); err != nil {
		return nil, 0, err
	}
	p.allowPartial = true
	return p.parseTop(false)
}
