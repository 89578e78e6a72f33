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
	"dhall-lang.org/go/dhall/token"
)

// completeExpression parses whsp expression whsp.
func (p *parser) completeExpression() (ast.Expr, error) {
	if err := p.ws(); err != nil {
		return nil, err
	}
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	return e, nil
}

// expression parses a full expression by trying the keyword-led forms in
// their fixed priority order and falling through to the operator
// cascade. Each failed alternative restores the input position exactly
// before the next is tried.
func (p *parser) expression() (ast.Expr, error) {
	defer un(trace(p, "Expression"))
	if p.depth >= maxDepth {
		return nil, &DepthError{Pos: p.position()}
	}
	p.depth++
	defer func() { p.depth-- }()

	c := p.s.Checkpoint()
	if e, err := p.lambda(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.ifExpression(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.letExpression(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.forallExpression(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.functionType(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.annotatedMerge(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.emptyListLiteral(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.annotatedToMap(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	return p.annotatedExpression()
}

// lambda parses λ(label : type) -> body.
func (p *parser) lambda() (ast.Expr, error) {
	defer un(trace(p, "Lambda"))
	pos := p.s.Pos()
	if !p.s.Eat('λ') && !p.s.Eat('\\') {
		return nil, p.fail(`"λ"`)
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.eat("("); err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	param, err := p.nonreservedLabel()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.eat(":"); err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	paramType, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.eat(")"); err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if err := p.arrowToken(); err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{LambdaPos: pos, Param: param, ParamType: paramType, Body: body}, nil
}

// ifExpression parses if cond then a else b.
func (p *parser) ifExpression() (ast.Expr, error) {
	defer un(trace(p, "If"))
	pos, err := p.keyword("if")
	if err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.keyword("then"); err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.keyword("else"); err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	els, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.If{IfPos: pos, Cond: cond, Then: then, Else: els}, nil
}

// letExpression parses one or more chained let bindings terminated by a
// single in.
func (p *parser) letExpression() (ast.Expr, error) {
	defer un(trace(p, "Let"))
	var bindings []*ast.LetBinding
	for {
		c := p.s.Checkpoint()
		b, err := p.letBinding()
		if err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
			p.s.Restore(c)
			break
		}
		bindings = append(bindings, b)
	}
	if len(bindings) == 0 {
		return nil, p.fail(`"let"`)
	}
	if _, err := p.keyword("in"); err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Let{Bindings: bindings, Body: body}, nil
}

// letBinding parses let label [: type] = value, consuming its trailing
// whitespace.
func (p *parser) letBinding() (*ast.LetBinding, error) {
	pos, err := p.keyword("let")
	if err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	label, err := p.nonreservedLabel()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	var typ ast.Expr
	if p.s.Eat(':') {
		if err := p.ws1(); err != nil {
			return nil, err
		}
		typ, err = p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.ws(); err != nil {
			return nil, err
		}
	}
	if _, err := p.eat("="); err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	return &ast.LetBinding{LetPos: pos, Label: label, Type: typ, Value: value}, nil
}

// forallExpression parses ∀(label : type) -> body.
func (p *parser) forallExpression() (ast.Expr, error) {
	defer un(trace(p, "Forall"))
	pos := p.s.Pos()
	if !p.s.Eat('∀') {
		var err error
		if pos, err = p.keyword("forall"); err != nil {
			return nil, err
		}
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.eat("("); err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	param, err := p.nonreservedLabel()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.eat(":"); err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	paramType, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.eat(")"); err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if err := p.arrowToken(); err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Pi{ForallPos: pos, Param: param, ParamType: paramType, Body: body}, nil
}

// functionType parses A -> B by first parsing a full operator expression
// and then requiring an arrow; without one the whole alternative is
// abandoned. The result is a Pi binding the placeholder parameter "_".
func (p *parser) functionType() (ast.Expr, error) {
	defer un(trace(p, "FunctionType"))
	pos := p.s.Pos()
	a, err := p.operatorExpression()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if err := p.arrowToken(); err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	b, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Pi{ForallPos: pos, Param: &ast.Label{Name: "_"}, ParamType: a, Body: b}, nil
}

// annotatedMerge parses merge a b : T. The unannotated form lives at the
// application level; this alternative fails without the annotation and
// the ordered choice falls through to it.
func (p *parser) annotatedMerge() (ast.Expr, error) {
	defer un(trace(p, "Merge"))
	pos, err := p.keyword("merge")
	if err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	handler, err := p.importExpression()
	if err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	union, err := p.importExpression()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.eat(":"); err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	typ, err := p.applicationExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Merge{MergePos: pos, Handler: handler, Union: union, Type: typ}, nil
}

// emptyListLiteral parses [] : List T, where T is the element type.
func (p *parser) emptyListLiteral() (ast.Expr, error) {
	defer un(trace(p, "EmptyList"))
	pos, err := p.eat("[")
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.eat("]"); err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.eat(":"); err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	if _, err := p.keyword("List"); err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	typ, err := p.importExpression()
	if err != nil {
		return nil, err
	}
	return &ast.EmptyList{Lbrack: pos, Type: typ}, nil
}

// annotatedToMap parses toMap x : T, with the same fallthrough rule as
// the annotated merge.
func (p *parser) annotatedToMap() (ast.Expr, error) {
	defer un(trace(p, "ToMap"))
	pos, err := p.keyword("toMap")
	if err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	x, err := p.importExpression()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if _, err := p.eat(":"); err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	typ, err := p.applicationExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ToMap{ToMapPos: pos, X: x, Type: typ}, nil
}

// annotatedExpression parses an operator expression with an optional
// : type annotation.
func (p *parser) annotatedExpression() (ast.Expr, error) {
	defer un(trace(p, "Annotated"))
	e, err := p.operatorExpression()
	if err != nil {
		return nil, err
	}
	c := p.s.Checkpoint()
	if err := p.ws(); err != nil {
		return nil, err
	}
	if !p.s.Eat(':') {
		p.s.Restore(c)
		return e, nil
	}
	if err := p.ws1(); err != nil {
		if !isNoMatch(err) {
			return nil, err
		}
		p.s.Restore(c)
		return e, nil
	}
	typ, err := p.expression()
	if err != nil {
		if !isNoMatch(err) {
			return nil, err
		}
		p.s.Restore(c)
		return e, nil
	}
	return &ast.Annot{X: e, Type: typ}, nil
}

// The binary operator cascade, loosest binding first. Levels marked
// wsAfter require whitespace after the operator token, separating ? from
// URL query text and + from a positive integer literal.
var opLevels = []struct {
	op      ast.Op
	tokens  []string
	wsAfter bool
}{
	{ast.OpImportAlt, []string{"?"}, true},
	{ast.OpOr, []string{"||"}, false},
	{ast.OpPlus, []string{"+"}, true},
	{ast.OpTextAppend, []string{"++"}, false},
	{ast.OpListAppend, []string{"#"}, false},
	{ast.OpAnd, []string{"&&"}, false},
	{ast.OpCombine, []string{"∧", `/\`}, false},
	{ast.OpPrefer, []string{"⫽", "//"}, false},
	{ast.OpCombineTypes, []string{"⩓", `//\\`}, false},
	{ast.OpTimes, []string{"*"}, false},
	{ast.OpEqual, []string{"=="}, false},
	{ast.OpNotEqual, []string{"!="}, false},
}

func (p *parser) operatorExpression() (ast.Expr, error) {
	return p.memoized(memoOperator, func() (ast.Expr, error) {
		return p.binaryExpression(0)
	})
}

// binaryExpression parses one precedence level as an iterative left
// fold: tighter operand, then zero or more (operator, operand) pairs.
// All levels associate left; a chain never nests right.
func (p *parser) binaryExpression(level int) (ast.Expr, error) {
	if level == len(opLevels) {
		return p.applicationExpression()
	}
	lv := &opLevels[level]
	x, err := p.binaryExpression(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		c := p.s.Checkpoint()
		if err := p.ws(); err != nil {
			return nil, err
		}
		opPos := p.s.Pos()
		matched := false
		for _, tok := range lv.tokens {
			if p.s.EatString(tok) {
				matched = true
				break
			}
		}
		if !matched {
			p.s.Restore(c)
			return x, nil
		}
		var werr error
		if lv.wsAfter {
			werr = p.ws1()
		} else {
			werr = p.ws()
		}
		if werr != nil {
			if !isNoMatch(werr) {
				return nil, werr
			}
			p.s.Restore(c)
			return x, nil
		}
		y, err := p.binaryExpression(level + 1)
		if err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
			p.s.Restore(c)
			return x, nil
		}
		x = &ast.BinaryExpr{X: x, OpPos: opPos, Op: lv.op, Y: y}
	}
}

// applicationExpression parses juxtaposed application: a head form
// followed by zero or more whitespace-separated import expressions,
// folded left.
func (p *parser) applicationExpression() (ast.Expr, error) {
	defer un(trace(p, "Application"))
	f, err := p.firstApplicationExpression()
	if err != nil {
		return nil, err
	}
	for {
		c := p.s.Checkpoint()
		if err := p.ws1(); err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
			p.s.Restore(c)
			return f, nil
		}
		arg, err := p.importExpression()
		if err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
			p.s.Restore(c)
			return f, nil
		}
		f = &ast.App{Fn: f, Arg: arg}
	}
}

// firstApplicationExpression parses the head of an application chain:
// an unannotated merge, a Some, an unannotated toMap, or a bare import
// expression.
func (p *parser) firstApplicationExpression() (ast.Expr, error) {
	c := p.s.Checkpoint()
	if pos, err := p.keyword("merge"); err == nil {
		m, err := p.bareMerge(pos)
		if !isNoMatch(err) {
			return m, err
		}
	} else if !isNoMatch(err) {
		return nil, err
	}
	p.s.Restore(c)
	if pos, err := p.keyword("Some"); err == nil {
		if err := p.ws1(); err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
		} else if val, err := p.importExpression(); err == nil {
			return &ast.Some{SomePos: pos, Val: val}, nil
		} else if !isNoMatch(err) {
			return nil, err
		}
	} else if !isNoMatch(err) {
		return nil, err
	}
	p.s.Restore(c)
	if pos, err := p.keyword("toMap"); err == nil {
		if err := p.ws1(); err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
		} else if x, err := p.importExpression(); err == nil {
			return &ast.ToMap{ToMapPos: pos, X: x}, nil
		} else if !isNoMatch(err) {
			return nil, err
		}
	} else if !isNoMatch(err) {
		return nil, err
	}
	p.s.Restore(c)
	return p.importExpression()
}

func (p *parser) bareMerge(pos token.Pos) (ast.Expr, error) {
	if err := p.ws1(); err != nil {
		return nil, err
	}
	handler, err := p.importExpression()
	if err != nil {
		return nil, err
	}
	if err := p.ws1(); err != nil {
		return nil, err
	}
	union, err := p.importExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Merge{MergePos: pos, Handler: handler, Union: union}, nil
}

// importExpression parses an import or falls through to a selector
// expression.
func (p *parser) importExpression() (ast.Expr, error) {
	return p.memoized(memoImport, func() (ast.Expr, error) {
		c := p.s.Checkpoint()
		if e, err := p.importLiteral(); !isNoMatch(err) {
			return e, err
		}
		p.s.Restore(c)
		return p.selectorExpression()
	})
}

// selectorExpression parses a primitive expression followed by a chain
// of selectors: .label, .{ labels }, or .( type ). A dot that no
// selector claims ends the chain and is left for the caller, which is
// how List ./MyType backtracks from field selection into application of
// a relative-path import.
func (p *parser) selectorExpression() (ast.Expr, error) {
	defer un(trace(p, "Selector"))
	e, err := p.primitiveExpression()
	if err != nil {
		return nil, err
	}
	for {
		c := p.s.Checkpoint()
		if err := p.ws(); err != nil {
			return nil, err
		}
		if !p.s.Eat('.') {
			p.s.Restore(c)
			return e, nil
		}
		if err := p.ws(); err != nil {
			return nil, err
		}
		sel, err := p.selector(e)
		if err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
			p.s.Restore(c)
			return e, nil
		}
		e = sel
	}
}

// selector parses the part after a selection dot.
func (p *parser) selector(x ast.Expr) (ast.Expr, error) {
	if l, _, err := p.anyLabel(); err == nil {
		return &ast.SelectorExpr{X: x, Sel: l}, nil
	} else if !isNoMatch(err) {
		return nil, err
	}
	if p.s.Peek() == '{' {
		return p.projection(x)
	}
	if p.s.Peek() == '(' {
		return p.typeProjection(x)
	}
	return nil, p.fail("a selector")
}

// projection parses .{ a, b, c }; the label set may be empty.
func (p *parser) projection(x ast.Expr) (ast.Expr, error) {
	c := p.s.Checkpoint()
	p.s.Eat('{')
	if err := p.ws(); err != nil {
		return nil, err
	}
	var labels []*ast.Label
	if l, _, err := p.anyLabel(); err == nil {
		labels = append(labels, l)
		for {
			c2 := p.s.Checkpoint()
			if err := p.ws(); err != nil {
				return nil, err
			}
			if !p.s.Eat(',') {
				p.s.Restore(c2)
				break
			}
			if err := p.ws(); err != nil {
				return nil, err
			}
			l, _, err := p.anyLabel()
			if err != nil {
				if !isNoMatch(err) {
					return nil, err
				}
				p.s.Restore(c2)
				break
			}
			labels = append(labels, l)
		}
		if err := p.ws(); err != nil {
			return nil, err
		}
	} else if !isNoMatch(err) {
		return nil, err
	}
	rbrace := p.s.Pos()
	if !p.s.Eat('}') {
		err := p.fail(`"}"`)
		p.s.Restore(c)
		return nil, err
	}
	return &ast.Project{X: x, Labels: labels, Rbrace: rbrace}, nil
}

// typeProjection parses .( type ).
func (p *parser) typeProjection(x ast.Expr) (ast.Expr, error) {
	c := p.s.Checkpoint()
	p.s.Eat('(')
	typ, err := p.completeExpression()
	if err != nil {
		if isNoMatch(err) {
			p.s.Restore(c)
		}
		return nil, err
	}
	rparen := p.s.Pos()
	if !p.s.Eat(')') {
		err := p.fail(`")"`)
		p.s.Restore(c)
		return nil, err
	}
	return &ast.ProjectType{X: x, Type: typ, Rparen: rparen}, nil
}

// primitiveExpression parses the tightest-binding forms, in the
// grammar's alternative order. Numeric literals come first so that the
// double interpretation of a shared digit run wins; identifiers come
// after the bracketed forms.
func (p *parser) primitiveExpression() (ast.Expr, error) {
	defer un(trace(p, "Primitive"))
	c := p.s.Checkpoint()
	if e, err := p.numberLiteral(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.textLiteral(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.recordExpression(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.unionExpression(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.listLiteral(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	if e, err := p.identifier(); !isNoMatch(err) {
		return e, err
	}
	p.s.Restore(c)
	return p.parenExpression()
}

// recordExpression parses { ... }: the empty literal spellings {} and
// {=}, or a non-empty record whose first label's separator decides
// between the literal (=) and type (:) forms.
func (p *parser) recordExpression() (ast.Expr, error) {
	defer un(trace(p, "Record"))
	c := p.s.Checkpoint()
	lbrace, err := p.eat("{")
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if p.s.Eat('=') {
		if err := p.ws(); err != nil {
			return nil, err
		}
		rbrace := p.s.Pos()
		if !p.s.Eat('}') {
			err := p.fail(`"}"`)
			p.s.Restore(c)
			return nil, err
		}
		return &ast.RecordLit{Lbrace: lbrace, Rbrace: rbrace}, nil
	}
	if rbrace := p.s.Pos(); p.s.Eat('}') {
		return &ast.RecordLit{Lbrace: lbrace, Rbrace: rbrace}, nil
	}

	label, _, err := p.anyLabel()
	if err != nil {
		if isNoMatch(err) {
			p.s.Restore(c)
		}
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	var (
		fields []*ast.Field
		sep    rune
	)
	switch {
	case p.s.Eat('='):
		sep = '='
		if err := p.ws(); err != nil {
			return nil, err
		}
	case p.s.Eat(':'):
		sep = ':'
		if err := p.ws1(); err != nil {
			if isNoMatch(err) {
				p.s.Restore(c)
			}
			return nil, err
		}
	default:
		err := p.fail(`"=" or ":"`)
		p.s.Restore(c)
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		if isNoMatch(err) {
			p.s.Restore(c)
		}
		return nil, err
	}
	fields = append(fields, &ast.Field{Label: label, Value: value})

	for {
		c2 := p.s.Checkpoint()
		if err := p.ws(); err != nil {
			return nil, err
		}
		if !p.s.Eat(',') {
			p.s.Restore(c2)
			break
		}
		if err := p.ws(); err != nil {
			return nil, err
		}
		f, err := p.recordField(sep)
		if err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
			p.s.Restore(c2)
			break
		}
		fields = append(fields, f)
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	rbrace := p.s.Pos()
	if !p.s.Eat('}') {
		err := p.fail(`"}"`)
		p.s.Restore(c)
		return nil, err
	}
	if sep == '=' {
		return &ast.RecordLit{Lbrace: lbrace, Fields: fields, Rbrace: rbrace}, nil
	}
	return &ast.RecordType{Lbrace: lbrace, Fields: fields, Rbrace: rbrace}, nil
}

// recordField parses label = expr or label : expr, matching the form of
// the record's first field: a record cannot mix the two.
func (p *parser) recordField(sep rune) (*ast.Field, error) {
	label, _, err := p.anyLabel()
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	if !p.s.Eat(sep) {
		return nil, p.fail(string(sep))
	}
	if sep == ':' {
		if err := p.ws1(); err != nil {
			return nil, err
		}
	} else if err := p.ws(); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Field{Label: label, Value: value}, nil
}

// unionExpression parses < a : T | b | c : U >, possibly empty.
func (p *parser) unionExpression() (ast.Expr, error) {
	defer un(trace(p, "Union"))
	c := p.s.Checkpoint()
	langle, err := p.eat("<")
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	var alts []*ast.Alt
	if rangle := p.s.Pos(); p.s.Eat('>') {
		return &ast.UnionType{Langle: langle, Rangle: rangle}, nil
	}
	alt, err := p.unionAlt()
	if err != nil {
		if isNoMatch(err) {
			p.s.Restore(c)
		}
		return nil, err
	}
	alts = append(alts, alt)
	for {
		c2 := p.s.Checkpoint()
		if err := p.ws(); err != nil {
			return nil, err
		}
		if !p.s.Eat('|') {
			p.s.Restore(c2)
			break
		}
		if err := p.ws(); err != nil {
			return nil, err
		}
		alt, err := p.unionAlt()
		if err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
			p.s.Restore(c2)
			break
		}
		alts = append(alts, alt)
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	rangle := p.s.Pos()
	if !p.s.Eat('>') {
		err := p.fail(`">"`)
		p.s.Restore(c)
		return nil, err
	}
	return &ast.UnionType{Langle: langle, Alts: alts, Rangle: rangle}, nil
}

// unionAlt parses label [: type].
func (p *parser) unionAlt() (*ast.Alt, error) {
	label, _, err := p.anyLabel()
	if err != nil {
		return nil, err
	}
	c := p.s.Checkpoint()
	if err := p.ws(); err != nil {
		return nil, err
	}
	if !p.s.Eat(':') {
		p.s.Restore(c)
		return &ast.Alt{Label: label}, nil
	}
	if err := p.ws1(); err != nil {
		if !isNoMatch(err) {
			return nil, err
		}
		p.s.Restore(c)
		return &ast.Alt{Label: label}, nil
	}
	typ, err := p.expression()
	if err != nil {
		if !isNoMatch(err) {
			return nil, err
		}
		p.s.Restore(c)
		return &ast.Alt{Label: label}, nil
	}
	return &ast.Alt{Label: label, Value: typ}, nil
}

// listLiteral parses a list with at least one element; the typed empty
// list is an expression-level alternative.
func (p *parser) listLiteral() (ast.Expr, error) {
	defer un(trace(p, "List"))
	c := p.s.Checkpoint()
	lbrack, err := p.eat("[")
	if err != nil {
		return nil, err
	}
	if err := p.ws(); err != nil {
		return nil, err
	}
	e, err := p.expression()
	if err != nil {
		if isNoMatch(err) {
			p.s.Restore(c)
		}
		return nil, err
	}
	elts := []ast.Expr{e}
	for {
		if err := p.ws(); err != nil {
			return nil, err
		}
		if rbrack := p.s.Pos(); p.s.Eat(']') {
			return &ast.ListLit{Lbrack: lbrack, Elts: elts, Rbrack: rbrack}, nil
		}
		if !p.s.Eat(',') {
			err := p.fail(`"," or "]"`)
			p.s.Restore(c)
			return nil, err
		}
		if err := p.ws(); err != nil {
			return nil, err
		}
		e, err := p.expression()
		if err != nil {
			if isNoMatch(err) {
				p.s.Restore(c)
			}
			return nil, err
		}
		elts = append(elts, e)
	}
}

// parenExpression parses ( complete-expression ). There is no
// parenthesis node: grouping affects only the shape of the tree.
func (p *parser) parenExpression() (ast.Expr, error) {
	c := p.s.Checkpoint()
	if _, err := p.eat("("); err != nil {
		return nil, err
	}
	e, err := p.completeExpression()
	if err != nil {
		if isNoMatch(err) {
			p.s.Restore(c)
		}
		return nil, err
	}
	if !p.s.Eat(')') {
		err := p.fail(`")"`)
		p.s.Restore(c)
		return nil, err
	}
	return e, nil
}
