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

package ast

import "fmt"

// Walk traverses an AST in depth-first order: it starts by calling
// before(node); node must not be nil. If before returns true, Walk invokes
// walk recursively for each of the non-nil children of node, followed by a
// call of after. Both functions may be nil. If before is nil, it is
// assumed to always return true.
func Walk(node Node, before func(Node) bool, after func(Node)) {
	if before == nil {
		before = func(Node) bool { return true }
	}
	walk(node, before, after)
}

// walkOpt walks an optional child, which is nil when the source carried
// no annotation.
func walkOpt(node Expr, before func(Node) bool, after func(Node)) {
	if node == nil {
		return
	}
	walk(node, before, after)
}

func walk(node Node, before func(Node) bool, after func(Node)) {
	if !before(node) {
		return
	}

	switch n := node.(type) {
	case *Label, *Var, *Builtin, *DoubleLit, *NaturalLit, *IntegerLit,
		*Missing, *Local, *Remote, *Env:
		// leaves (a Remote's using-import is walked from its Import)

	case *Lambda:
		walk(n.Param, before, after)
		walk(n.ParamType, before, after)
		walk(n.Body, before, after)

	case *Pi:
		walk(n.Param, before, after)
		walk(n.ParamType, before, after)
		walk(n.Body, before, after)

	case *App:
		walk(n.Fn, before, after)
		walk(n.Arg, before, after)

	case *Let:
		for _, b := range n.Bindings {
			walk(b, before, after)
		}
		walk(n.Body, before, after)

	case *LetBinding:
		walk(n.Label, before, after)
		walkOpt(n.Type, before, after)
		walk(n.Value, before, after)

	case *If:
		walk(n.Cond, before, after)
		walk(n.Then, before, after)
		walk(n.Else, before, after)

	case *Annot:
		walk(n.X, before, after)
		walk(n.Type, before, after)

	case *BinaryExpr:
		walk(n.X, before, after)
		walk(n.Y, before, after)

	case *Merge:
		walk(n.Handler, before, after)
		walk(n.Union, before, after)
		walkOpt(n.Type, before, after)

	case *ToMap:
		walk(n.X, before, after)
		walkOpt(n.Type, before, after)

	case *EmptyList:
		walk(n.Type, before, after)

	case *ListLit:
		for _, e := range n.Elts {
			walk(e, before, after)
		}

	case *Some:
		walk(n.Val, before, after)

	case *RecordType:
		for _, f := range n.Fields {
			walk(f, before, after)
		}

	case *RecordLit:
		for _, f := range n.Fields {
			walk(f, before, after)
		}

	case *Field:
		walk(n.Label, before, after)
		walk(n.Value, before, after)

	case *UnionType:
		for _, a := range n.Alts {
			walk(a, before, after)
		}

	case *Alt:
		walk(n.Label, before, after)
		walkOpt(n.Value, before, after)

	case *SelectorExpr:
		walk(n.X, before, after)
		walk(n.Sel, before, after)

	case *Project:
		walk(n.X, before, after)
		for _, l := range n.Labels {
			walk(l, before, after)
		}

	case *ProjectType:
		walk(n.X, before, after)
		walk(n.Type, before, after)

	case *TextLit:
		for _, c := range n.Chunks {
			walk(c.Interp, before, after)
		}

	case *Import:
		walk(n.Kind, before, after)
		if r, ok := n.Kind.(*Remote); ok && r.Using != nil {
			walk(r.Using, before, after)
		}

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	if after != nil {
		after(node)
	}
}
