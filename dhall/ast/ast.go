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

// Package ast declares the types used to represent syntax trees for Dhall
// expressions.
//
// The parser produces trees bottom-up in a single pass and hands them to
// the caller whole; nodes are not modified afterwards. Ownership is strictly
// tree-shaped: no node is shared between parents and no cycles exist, so
// consumers may traverse without cycle detection.
package ast // import "dhall-lang.org/go/dhall/ast"

import (
	"github.com/cockroachdb/apd/v3"

	"dhall-lang.org/go/dhall/token"
)

// A Node is any syntactic element with a source extent. The positions
// delimit the node's own text: Pos is the position of its first codepoint
// and End the position immediately after its last.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// An Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// A Label names a bound variable, record field, union alternative, or
// selected field. Name holds the exact label text, with quoting backticks
// stripped but all interior characters preserved.
type Label struct {
	LabelPos token.Pos
	Name     string
	EndPos   token.Pos
}

func (l *Label) Pos() token.Pos { return l.LabelPos }
func (l *Label) End() token.Pos { return l.EndPos }

// A Var refers to a bound variable. Index counts how many enclosing
// same-named bindings are skipped; it is recorded verbatim from the source
// (zero when unwritten) and not validated against any environment.
type Var struct {
	NamePos token.Pos
	Name    string
	Index   *apd.BigInt
	EndPos  token.Pos
}

// A Builtin is one of the reserved non-keyword identifiers, such as
// Natural, List/fold, or True. See [IsBuiltin] for the full table.
type Builtin struct {
	NamePos token.Pos
	Name    string
}

// A Lambda is an anonymous function λ(param : type) -> body.
type Lambda struct {
	LambdaPos token.Pos // position of "λ" or "\"
	Param     *Label
	ParamType Expr
	Body      Expr
}

// A Pi is a function type ∀(param : type) -> body. The arrow shorthand
// A -> B produces a Pi with parameter "_" whose label carries no position.
type Pi struct {
	ForallPos token.Pos // position of "∀" or "forall"; the expression start for the arrow form
	Param     *Label
	ParamType Expr
	Body      Expr
}

// An App is a function application. Chains of juxtaposed arguments nest
// left: f a b is App{App{f, a}, b}.
type App struct {
	Fn  Expr
	Arg Expr
}

// A LetBinding is a single "let label [: type] = value" clause.
// Type is nil when no annotation was written.
type LetBinding struct {
	LetPos token.Pos
	Label  *Label
	Type   Expr
	Value  Expr
}

// A Let is one or more let bindings sharing a single "in" body.
type Let struct {
	Bindings []*LetBinding // len(Bindings) > 0
	Body     Expr
}

// An If is the conditional if cond then t else f.
type If struct {
	IfPos token.Pos
	Cond  Expr
	Then  Expr
	Else  Expr
}

// An Annot is a type annotation x : type.
type Annot struct {
	X    Expr
	Type Expr
}

// An Op identifies one of the binary operators. The Op value fixes both
// the precedence tier and the (always left) associativity of its operator.
type Op int

// Operators, loosest-binding first.
const (
	NoOp Op = iota
	OpImportAlt
	OpOr
	OpPlus
	OpTextAppend
	OpListAppend
	OpAnd
	OpCombine
	OpPrefer
	OpCombineTypes
	OpTimes
	OpEqual
	OpNotEqual
)

var opStrings = [...]string{
	NoOp:           "<invalid op>",
	OpImportAlt:    "?",
	OpOr:           "||",
	OpPlus:         "+",
	OpTextAppend:   "++",
	OpListAppend:   "#",
	OpAnd:          "&&",
	OpCombine:      "∧",
	OpPrefer:       "⫽",
	OpCombineTypes: "⩓",
	OpTimes:        "*",
	OpEqual:        "==",
	OpNotEqual:     "!=",
}

// String returns the canonical spelling of the operator, preferring the
// Unicode form where one exists.
func (op Op) String() string {
	if op < 0 || int(op) >= len(opStrings) {
		return "<invalid op>"
	}
	return opStrings[op]
}

// A BinaryExpr is a binary operator application. Chains of the same
// operator nest left: a + b + c is BinaryExpr{BinaryExpr{a, b}, c}.
type BinaryExpr struct {
	X     Expr
	OpPos token.Pos
	Op    Op
	Y     Expr
}

// A Merge is merge handler union, optionally annotated with a result type.
type Merge struct {
	MergePos token.Pos
	Handler  Expr
	Union    Expr
	Type     Expr // or nil
}

// A ToMap is toMap x, optionally annotated with a result type.
type ToMap struct {
	ToMapPos token.Pos
	X        Expr
	Type     Expr // or nil
}

// An EmptyList is the typed empty list [] : List Type. Type is the element
// type, not the list type.
type EmptyList struct {
	Lbrack token.Pos
	Type   Expr
}

// A ListLit is a list literal with at least one element.
type ListLit struct {
	Lbrack token.Pos
	Elts   []Expr // len(Elts) > 0
	Rbrack token.Pos
}

// A Some wraps a value into an Optional.
type Some struct {
	SomePos token.Pos
	Val     Expr
}

// A Field is a single record entry: label : type in a record type,
// label = value in a record literal.
type Field struct {
	Label *Label
	Value Expr
}

// A RecordType is a record type { a : T, b : U }. The parser never
// produces an empty RecordType: {} is the empty record literal.
type RecordType struct {
	Lbrace token.Pos
	Fields []*Field
	Rbrace token.Pos
}

// A RecordLit is a record literal { a = x, b = y }, or one of the empty
// spellings {} and {=}. Duplicate labels are not a syntax error; detecting
// them is left to semantic layers.
type RecordLit struct {
	Lbrace token.Pos
	Fields []*Field
	Rbrace token.Pos
}

// An Alt is a single union alternative. Value is nil for a bare
// alternative without a type annotation.
type Alt struct {
	Label *Label
	Value Expr
}

// A UnionType is a union type < a : T | b >, possibly empty.
type UnionType struct {
	Langle token.Pos
	Alts   []*Alt
	Rangle token.Pos
}

// A SelectorExpr selects a single field: x.label.
type SelectorExpr struct {
	X   Expr
	Sel *Label
}

// A Project restricts a record to a set of labels: x.{ a, b }. The label
// set may be empty.
type Project struct {
	X      Expr
	Labels []*Label
	Rbrace token.Pos
}

// A ProjectType restricts a record to the fields of a record type:
// x.(Type).
type ProjectType struct {
	X      Expr
	Type   Expr
	Rparen token.Pos
}

// A TextChunk is a run of literal text followed by one interpolated
// expression. Interp is never nil; the literal text trailing the final
// interpolation lives in [TextLit.Suffix].
type TextChunk struct {
	Text   string
	Interp Expr
}

// A TextLit is a text literal, double- or single-quoted in the source.
// Escape sequences are decoded and single-quoted literals keep their
// verbatim content (leading line ending stripped); the two forms are
// indistinguishable in the tree. Chunks followed by Suffix realize the
// alternation of (possibly empty) literal text and interpolated
// expressions, which always ends on literal text.
type TextLit struct {
	Lquote token.Pos
	Chunks []TextChunk
	Suffix string
	EndPos token.Pos
}

// A DoubleLit is a double literal. Text preserves the source spelling,
// including Infinity, -Infinity, and NaN.
type DoubleLit struct {
	ValuePos token.Pos
	Text     string
	Value    float64
}

// A NaturalLit is a natural number literal. Value is exact whatever the
// digit count.
type NaturalLit struct {
	ValuePos token.Pos
	Text     string
	Value    *apd.BigInt
}

// An IntegerLit is an integer literal with its mandatory sign. Value is
// exact whatever the digit count.
type IntegerLit struct {
	ValuePos token.Pos
	Text     string
	Value    *apd.BigInt
}

// An ImportMode selects how the content of an import is interpreted.
type ImportMode int

const (
	Code     ImportMode = iota // interpret as a Dhall expression
	RawText                    // "as Text": the raw content as a text value
	Location                   // "as Location": the import location itself
)

func (m ImportMode) String() string {
	switch m {
	case Code:
		return "Code"
	case RawText:
		return "RawText"
	case Location:
		return "Location"
	}
	return "<invalid import mode>"
}

// An ImportKind is the location part of an import: one of [*Missing],
// [*Local], [*Remote], and [*Env].
type ImportKind interface {
	Node
	importKind()
}

// An Import references an external expression. Hash is nil or a 32-byte
// SHA-256 digest for the resolver to verify; the syntax layer records it
// without checking anything beyond its spelling.
type Import struct {
	Kind   ImportKind
	Hash   []byte
	Mode   ImportMode
	EndPos token.Pos
}

// A Missing is the "missing" import, which always fails to resolve. It is
// useful on the left of the ? operator.
type Missing struct {
	MissingPos token.Pos
}

// A PathAnchor says what a local import path is relative to.
type PathAnchor int

const (
	Absolute PathAnchor = iota // "/..."
	Here                       // "./..."
	Parent                     // "../..."
	Home                       // "~/..."
)

func (a PathAnchor) String() string {
	switch a {
	case Absolute:
		return ""
	case Here:
		return "."
	case Parent:
		return ".."
	case Home:
		return "~"
	}
	return "<invalid path anchor>"
}

// A Local is a filesystem import. Components holds the /-separated path
// components with quoting stripped but interior characters preserved.
type Local struct {
	AnchorPos  token.Pos
	Anchor     PathAnchor
	Components []string // len(Components) > 0
	EndPos     token.Pos
}

// A Remote is an http or https import. Userinfo, Port, and Query are nil
// when absent, which is distinct from present-but-empty. Using, if
// non-nil, is the import expression supplying request headers.
type Remote struct {
	SchemePos  token.Pos
	Scheme     string // "http" or "https"
	Userinfo   *string
	Host       string
	Port       *string
	Components []string // raw URL path components, possibly empty
	Query      *string
	Using      Expr
	EndPos     token.Pos
}

// An Env imports the value of an environment variable. Name is the
// decoded variable name; the quoted POSIX form may contain characters a
// bare name cannot.
type Env struct {
	EnvPos token.Pos
	Name   string
	EndPos token.Pos
}

// Pos implementations. Nodes whose extent starts at a child delegate to it.

func (x *Var) Pos() token.Pos          { return x.NamePos }
func (x *Builtin) Pos() token.Pos      { return x.NamePos }
func (x *Lambda) Pos() token.Pos       { return x.LambdaPos }
func (x *Pi) Pos() token.Pos           { return x.ForallPos }
func (x *App) Pos() token.Pos          { return x.Fn.Pos() }
func (x *LetBinding) Pos() token.Pos   { return x.LetPos }
func (x *Let) Pos() token.Pos          { return x.Bindings[0].Pos() }
func (x *If) Pos() token.Pos           { return x.IfPos }
func (x *Annot) Pos() token.Pos        { return x.X.Pos() }
func (x *BinaryExpr) Pos() token.Pos   { return x.X.Pos() }
func (x *Merge) Pos() token.Pos        { return x.MergePos }
func (x *ToMap) Pos() token.Pos        { return x.ToMapPos }
func (x *EmptyList) Pos() token.Pos    { return x.Lbrack }
func (x *ListLit) Pos() token.Pos      { return x.Lbrack }
func (x *Some) Pos() token.Pos         { return x.SomePos }
func (x *Field) Pos() token.Pos        { return x.Label.Pos() }
func (x *RecordType) Pos() token.Pos   { return x.Lbrace }
func (x *RecordLit) Pos() token.Pos    { return x.Lbrace }
func (x *Alt) Pos() token.Pos          { return x.Label.Pos() }
func (x *UnionType) Pos() token.Pos    { return x.Langle }
func (x *SelectorExpr) Pos() token.Pos { return x.X.Pos() }
func (x *Project) Pos() token.Pos      { return x.X.Pos() }
func (x *ProjectType) Pos() token.Pos  { return x.X.Pos() }
func (x *TextLit) Pos() token.Pos      { return x.Lquote }
func (x *DoubleLit) Pos() token.Pos    { return x.ValuePos }
func (x *NaturalLit) Pos() token.Pos   { return x.ValuePos }
func (x *IntegerLit) Pos() token.Pos   { return x.ValuePos }
func (x *Import) Pos() token.Pos       { return x.Kind.Pos() }
func (x *Missing) Pos() token.Pos      { return x.MissingPos }
func (x *Local) Pos() token.Pos        { return x.AnchorPos }
func (x *Remote) Pos() token.Pos       { return x.SchemePos }
func (x *Env) Pos() token.Pos          { return x.EnvPos }

func (x *Var) End() token.Pos          { return x.EndPos }
func (x *Builtin) End() token.Pos      { return x.NamePos.Add(len(x.Name)) }
func (x *Lambda) End() token.Pos       { return x.Body.End() }
func (x *Pi) End() token.Pos           { return x.Body.End() }
func (x *App) End() token.Pos          { return x.Arg.End() }
func (x *LetBinding) End() token.Pos   { return x.Value.End() }
func (x *Let) End() token.Pos          { return x.Body.End() }
func (x *If) End() token.Pos           { return x.Else.End() }
func (x *Annot) End() token.Pos        { return x.Type.End() }
func (x *BinaryExpr) End() token.Pos   { return x.Y.End() }
func (x *Merge) End() token.Pos        { return endOr(x.Type, x.Union) }
func (x *ToMap) End() token.Pos        { return endOr(x.Type, x.X) }
func (x *EmptyList) End() token.Pos    { return x.Type.End() }
func (x *ListLit) End() token.Pos      { return x.Rbrack.Add(1) }
func (x *Some) End() token.Pos         { return x.Val.End() }
func (x *Field) End() token.Pos        { return x.Value.End() }
func (x *RecordType) End() token.Pos   { return x.Rbrace.Add(1) }
func (x *RecordLit) End() token.Pos    { return x.Rbrace.Add(1) }
func (x *Alt) End() token.Pos          { return endOr(x.Value, x.Label) }
func (x *UnionType) End() token.Pos    { return x.Rangle.Add(1) }
func (x *SelectorExpr) End() token.Pos { return x.Sel.End() }
func (x *Project) End() token.Pos      { return x.Rbrace.Add(1) }
func (x *ProjectType) End() token.Pos  { return x.Rparen.Add(1) }
func (x *TextLit) End() token.Pos      { return x.EndPos }
func (x *DoubleLit) End() token.Pos    { return x.ValuePos.Add(len(x.Text)) }
func (x *NaturalLit) End() token.Pos   { return x.ValuePos.Add(len(x.Text)) }
func (x *IntegerLit) End() token.Pos   { return x.ValuePos.Add(len(x.Text)) }
func (x *Import) End() token.Pos       { return x.EndPos }
func (x *Missing) End() token.Pos      { return x.MissingPos.Add(len("missing")) }
func (x *Local) End() token.Pos        { return x.EndPos }
func (x *Remote) End() token.Pos       { return x.EndPos }
func (x *Env) End() token.Pos          { return x.EndPos }

func endOr(opt Expr, base Node) token.Pos {
	if opt != nil {
		return opt.End()
	}
	return base.End()
}

// exprNode() ensures that only expression nodes can be assigned to an Expr.

func (*Var) exprNode()          {}
func (*Builtin) exprNode()      {}
func (*Lambda) exprNode()       {}
func (*Pi) exprNode()           {}
func (*App) exprNode()          {}
func (*Let) exprNode()          {}
func (*If) exprNode()           {}
func (*Annot) exprNode()        {}
func (*BinaryExpr) exprNode()   {}
func (*Merge) exprNode()        {}
func (*ToMap) exprNode()        {}
func (*EmptyList) exprNode()    {}
func (*ListLit) exprNode()      {}
func (*Some) exprNode()         {}
func (*RecordType) exprNode()   {}
func (*RecordLit) exprNode()    {}
func (*UnionType) exprNode()    {}
func (*SelectorExpr) exprNode() {}
func (*Project) exprNode()      {}
func (*ProjectType) exprNode()  {}
func (*TextLit) exprNode()      {}
func (*DoubleLit) exprNode()    {}
func (*NaturalLit) exprNode()   {}
func (*IntegerLit) exprNode()   {}
func (*Import) exprNode()       {}

func (*Missing) importKind() {}
func (*Local) importKind()   {}
func (*Remote) importKind()  {}
func (*Env) importKind()     {}
