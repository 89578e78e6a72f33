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
	"github.com/cockroachdb/apd/v3"

	"dhall-lang.org/go/dhall/ast"
	"dhall-lang.org/go/dhall/token"
)

// anyLabel parses a record, union, or selector label: either a backtick-
// quoted run of printable non-backtick characters or an unquoted run from
// the restricted label character class. An unquoted label may not be a
// bare keyword, but may begin with one. The quoted flag reports which
// form was found; quoted labels bypass all reserved-word checks.
func (p *parser) anyLabel() (l *ast.Label, quoted bool, err error) {
	c := p.s.Checkpoint()
	pos := p.s.Pos()
	if p.s.Eat('`') {
		start := p.s.Checkpoint()
		for ast.IsQuotedLabelChar(p.s.Peek()) {
			p.s.Next()
		}
		name := p.s.Text(start)
		if name == "" || !p.s.Eat('`') {
			err := p.fail("a quoted label")
			p.s.Restore(c)
			return nil, false, err
		}
		return &ast.Label{LabelPos: pos, Name: name, EndPos: p.s.Pos()}, true, nil
	}
	if !ast.IsSimpleLabelFirst(p.s.Peek()) {
		return nil, false, p.fail("a label")
	}
	start := p.s.Checkpoint()
	p.s.Next()
	for ast.IsSimpleLabelNext(p.s.Peek()) {
		p.s.Next()
	}
	name := p.s.Text(start)
	if ast.IsKeyword(name) {
		err := p.failAt(p.s.Offset(), "a non-keyword label")
		p.s.Restore(c)
		return nil, false, err
	}
	return &ast.Label{LabelPos: pos, Name: name, EndPos: p.s.Pos()}, false, nil
}

// nonreservedLabel parses a label usable as a binding name: any label
// whose unquoted spelling is not a builtin. Quoting defeats the
// restriction, so `List` is a fine variable name while List is not.
func (p *parser) nonreservedLabel() (*ast.Label, error) {
	c := p.s.Checkpoint()
	l, quoted, err := p.anyLabel()
	if err != nil {
		return nil, err
	}
	if !quoted && ast.IsBuiltin(l.Name) {
		err := p.failAt(p.s.Offset(), "a non-reserved label")
		p.s.Restore(c)
		return nil, err
	}
	return l, nil
}

// identifier parses a builtin or a variable. A bare word matching the
// builtin table is always the builtin: it cannot carry an @index, so
// List@0 fails here and, with no other alternative claiming it, surfaces
// as a syntax error rather than a variable named List.
func (p *parser) identifier() (ast.Expr, error) {
	defer un(trace(p, "Identifier"))
	l, quoted, err := p.anyLabel()
	if err != nil {
		return nil, err
	}
	if !quoted && ast.IsBuiltin(l.Name) {
		return &ast.Builtin{NamePos: l.LabelPos, Name: l.Name}, nil
	}

	index := new(apd.BigInt)
	end := l.EndPos
	c := p.s.Checkpoint()
	if idx, idxEnd, err := p.variableIndex(); err == nil {
		index = idx
		end = idxEnd
	} else if !isNoMatch(err) {
		return nil, err
	} else {
		p.s.Restore(c)
	}
	return &ast.Var{NamePos: l.LabelPos, Name: l.Name, Index: index, EndPos: end}, nil
}

// variableIndex parses the optional whsp "@" whsp natural-literal suffix
// of a variable.
func (p *parser) variableIndex() (*apd.BigInt, token.Pos, error) {
	if err := p.ws(); err != nil {
		return nil, token.NoPos, err
	}
	if !p.s.Eat('@') {
		return nil, token.NoPos, p.fail(`"@"`)
	}
	if err := p.ws(); err != nil {
		return nil, token.NoPos, err
	}
	lit, err := p.naturalLiteral()
	if err != nil {
		return nil, token.NoPos, err
	}
	return lit.(*ast.NaturalLit).Value, p.s.Pos(), nil
}
