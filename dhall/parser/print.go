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
	"encoding/hex"
	"fmt"
	"strings"

	"dhall-lang.org/go/dhall/ast"
	"dhall-lang.org/go/dhall/token"
)

// debugStr renders a syntax tree in a compact single-line form for tests.
// Every non-atomic node is parenthesized or otherwise delimited, so the
// rendering pins down the exact tree shape: associativity, precedence,
// and grouping are all visible.
func debugStr(x any) string {
	switch v := x.(type) {
	case nil:
		return "<nil>"

	case *ast.Label:
		return ast.QuoteLabel(v.Name)

	case *ast.Var:
		if v.Index != nil && v.Index.Sign() != 0 {
			return fmt.Sprintf("%s@%s", ast.QuoteLabel(v.Name), v.Index.String())
		}
		return ast.QuoteLabel(v.Name)

	case *ast.Builtin:
		return v.Name

	case *ast.Lambda:
		return fmt.Sprintf("λ(%s : %s) → %s",
			debugStr(v.Param), debugStr(v.ParamType), debugStr(v.Body))

	case *ast.Pi:
		if v.Param.Name == "_" && v.Param.LabelPos == token.NoPos {
			return fmt.Sprintf("(%s → %s)", debugStr(v.ParamType), debugStr(v.Body))
		}
		return fmt.Sprintf("∀(%s : %s) → %s",
			debugStr(v.Param), debugStr(v.ParamType), debugStr(v.Body))

	case *ast.App:
		return fmt.Sprintf("(%s %s)", debugStr(v.Fn), debugStr(v.Arg))

	case *ast.Let:
		var b strings.Builder
		for _, bind := range v.Bindings {
			b.WriteString(debugStr(bind))
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "in %s", debugStr(v.Body))
		return b.String()

	case *ast.LetBinding:
		if v.Type != nil {
			return fmt.Sprintf("let %s : %s = %s",
				debugStr(v.Label), debugStr(v.Type), debugStr(v.Value))
		}
		return fmt.Sprintf("let %s = %s", debugStr(v.Label), debugStr(v.Value))

	case *ast.If:
		return fmt.Sprintf("if %s then %s else %s",
			debugStr(v.Cond), debugStr(v.Then), debugStr(v.Else))

	case *ast.Annot:
		return fmt.Sprintf("(%s : %s)", debugStr(v.X), debugStr(v.Type))

	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", debugStr(v.X), v.Op, debugStr(v.Y))

	case *ast.Merge:
		if v.Type != nil {
			return fmt.Sprintf("(merge %s %s : %s)",
				debugStr(v.Handler), debugStr(v.Union), debugStr(v.Type))
		}
		return fmt.Sprintf("(merge %s %s)", debugStr(v.Handler), debugStr(v.Union))

	case *ast.ToMap:
		if v.Type != nil {
			return fmt.Sprintf("(toMap %s : %s)", debugStr(v.X), debugStr(v.Type))
		}
		return fmt.Sprintf("(toMap %s)", debugStr(v.X))

	case *ast.EmptyList:
		return fmt.Sprintf("([] : List %s)", debugStr(v.Type))

	case *ast.ListLit:
		elts := make([]string, len(v.Elts))
		for i, e := range v.Elts {
			elts[i] = debugStr(e)
		}
		return "[" + strings.Join(elts, ", ") + "]"

	case *ast.Some:
		return fmt.Sprintf("(Some %s)", debugStr(v.Val))

	case *ast.Field:
		return debugStr(v.Label) + " " + debugStr(v.Value)

	case *ast.RecordType:
		var parts []string
		for _, f := range v.Fields {
			parts = append(parts, fmt.Sprintf("%s : %s", debugStr(f.Label), debugStr(f.Value)))
		}
		return "{ " + strings.Join(parts, ", ") + " }"

	case *ast.RecordLit:
		if len(v.Fields) == 0 {
			return "{=}"
		}
		var parts []string
		for _, f := range v.Fields {
			parts = append(parts, fmt.Sprintf("%s = %s", debugStr(f.Label), debugStr(f.Value)))
		}
		return "{ " + strings.Join(parts, ", ") + " }"

	case *ast.UnionType:
		if len(v.Alts) == 0 {
			return "<>"
		}
		var parts []string
		for _, a := range v.Alts {
			if a.Value != nil {
				parts = append(parts, fmt.Sprintf("%s : %s", debugStr(a.Label), debugStr(a.Value)))
			} else {
				parts = append(parts, debugStr(a.Label))
			}
		}
		return "< " + strings.Join(parts, " | ") + " >"

	case *ast.SelectorExpr:
		return debugStr(v.X) + "." + debugStr(v.Sel)

	case *ast.Project:
		labels := make([]string, len(v.Labels))
		for i, l := range v.Labels {
			labels[i] = debugStr(l)
		}
		return debugStr(v.X) + ".{" + strings.Join(labels, ", ") + "}"

	case *ast.ProjectType:
		return debugStr(v.X) + ".(" + debugStr(v.Type) + ")"

	case *ast.TextLit:
		var b strings.Builder
		b.WriteByte('"')
		for _, ch := range v.Chunks {
			writeEscapedText(&b, ch.Text)
			b.WriteString("${")
			b.WriteString(debugStr(ch.Interp))
			b.WriteString("}")
		}
		writeEscapedText(&b, v.Suffix)
		b.WriteByte('"')
		return b.String()

	case *ast.DoubleLit:
		return v.Text

	case *ast.NaturalLit:
		return v.Value.String()

	case *ast.IntegerLit:
		if v.Value.Sign() >= 0 {
			return "+" + v.Value.String()
		}
		return v.Value.String()

	case *ast.Import:
		out := debugStr(v.Kind)
		if v.Hash != nil {
			out += " sha256:" + hex.EncodeToString(v.Hash)
		}
		switch v.Mode {
		case ast.RawText:
			out += " as Text"
		case ast.Location:
			out += " as Location"
		}
		return out

	case *ast.Missing:
		return "missing"

	case *ast.Local:
		var b strings.Builder
		b.WriteString(v.Anchor.String())
		for _, comp := range v.Components {
			b.WriteByte('/')
			b.WriteString(quotePathComponent(comp))
		}
		return b.String()

	case *ast.Remote:
		var b strings.Builder
		b.WriteString(v.Scheme)
		b.WriteString("://")
		if v.Userinfo != nil {
			b.WriteString(*v.Userinfo)
			b.WriteByte('@')
		}
		b.WriteString(v.Host)
		if v.Port != nil {
			b.WriteByte(':')
			b.WriteString(*v.Port)
		}
		for _, comp := range v.Components {
			b.WriteByte('/')
			b.WriteString(comp)
		}
		if v.Query != nil {
			b.WriteByte('?')
			b.WriteString(*v.Query)
		}
		if v.Using != nil {
			b.WriteString(" using ")
			b.WriteString(debugStr(v.Using))
		}
		return b.String()

	case *ast.Env:
		for _, r := range v.Name {
			if !isAlnum(r) && r != '_' {
				return fmt.Sprintf("env:%q", v.Name)
			}
		}
		return "env:" + v.Name
	}
	return fmt.Sprintf("<%T>", x)
}

// writeEscapedText writes s as double-quoted literal content: the escapes
// the lexer decodes are re-encoded, and an interpolation opener is
// escaped so the output re-parses to the same chunks.
func writeEscapedText(b *strings.Builder, s string) {
	for i, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '$':
			if strings.HasPrefix(s[i:], "${") {
				b.WriteString(`\$`)
			} else {
				b.WriteByte('$')
			}
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
}

func quotePathComponent(comp string) string {
	for _, r := range comp {
		if !pathChar(r) {
			return `"` + comp + `"`
		}
	}
	return comp
}
