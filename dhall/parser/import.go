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
	"strings"

	"dhall-lang.org/go/dhall/ast"
	"dhall-lang.org/go/dhall/token"
)

// importLiteral parses a full import: the location, an optional
// "sha256:" integrity hash, and an optional "as Text" / "as Location"
// interpretation clause.
func (p *parser) importLiteral() (ast.Expr, error) {
	defer un(trace(p, "Import"))
	kind, err := p.importType()
	if err != nil {
		return nil, err
	}
	imp := &ast.Import{Kind: kind, Mode: ast.Code, EndPos: p.s.Pos()}

	// [ whsp1 hash ]
	c := p.s.Checkpoint()
	if err := p.ws1(); err == nil && p.s.Peek() == 's' {
		hash, err := p.integrityHash()
		if err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
			p.s.Restore(c)
		} else {
			imp.Hash = hash
			imp.EndPos = p.s.Pos()
		}
	} else if err != nil && !isNoMatch(err) {
		return nil, err
	} else {
		p.s.Restore(c)
	}

	// [ whsp "as" whsp1 ("Text" / "Location") ]
	c = p.s.Checkpoint()
	mode, err := p.importMode()
	if err != nil {
		if !isNoMatch(err) {
			return nil, err
		}
		p.s.Restore(c)
	} else {
		imp.Mode = mode
		imp.EndPos = p.s.Pos()
	}
	return imp, nil
}

// integrityHash parses "sha256:" followed by exactly 64 hex digits. Once
// the scheme prefix is present, a malformed digest is a hard
// IntegrityFormatError: it is never reinterpreted as something else.
func (p *parser) integrityHash() ([]byte, error) {
	pos := p.s.Pos()
	if !p.s.EatString("sha256:") {
		return nil, p.fail(`"sha256:"`)
	}
	c := p.s.Checkpoint()
	for isHexDigit(p.s.Peek()) {
		p.s.Next()
	}
	digits := p.s.Text(c)
	if len(digits) != 64 {
		return nil, &IntegrityFormatError{Pos: p.file.Position(pos), Digits: digits}
	}
	hash, err := hex.DecodeString(digits)
	if err != nil {
		return nil, &IntegrityFormatError{Pos: p.file.Position(pos), Digits: digits}
	}
	return hash, nil
}

func (p *parser) importMode() (ast.ImportMode, error) {
	if err := p.ws(); err != nil {
		return ast.Code, err
	}
	if _, err := p.keyword("as"); err != nil {
		return ast.Code, err
	}
	if err := p.ws1(); err != nil {
		return ast.Code, err
	}
	if _, err := p.keyword("Text"); err == nil {
		return ast.RawText, nil
	} else if !isNoMatch(err) {
		return ast.Code, err
	}
	if _, err := p.keyword("Location"); err == nil {
		return ast.Location, nil
	} else if !isNoMatch(err) {
		return ast.Code, err
	}
	return ast.Code, p.fail(`"Text" or "Location"`)
}

// importType parses the location of an import, trying the alternatives
// in grammar order: missing, a local path, a URL, an environment
// variable.
func (p *parser) importType() (ast.ImportKind, error) {
	pos := p.s.Pos()
	if mpos, err := p.keyword("missing"); err == nil {
		return &ast.Missing{MissingPos: mpos}, nil
	} else if !isNoMatch(err) {
		return nil, err
	}

	c := p.s.Checkpoint()
	if k, err := p.localImport(pos); !isNoMatch(err) {
		return k, err
	}
	p.s.Restore(c)
	if k, err := p.remoteImport(pos); !isNoMatch(err) {
		return k, err
	}
	p.s.Restore(c)
	return p.envImport(pos)
}

// Local paths.

// pathChar reports whether r may appear in an unquoted path component.
func pathChar(r rune) bool {
	switch {
	case r == 0x21:
		return true
	case 0x24 <= r && r <= 0x27:
		return true
	case 0x2A <= r && r <= 0x2B:
		return true
	case 0x2D <= r && r <= 0x2E:
		return true
	case 0x30 <= r && r <= 0x3B:
		return true
	case r == 0x3D:
		return true
	case 0x40 <= r && r <= 0x5A:
		return true
	case 0x5E <= r && r <= 0x7A:
		return true
	case r == 0x7C || r == 0x7E:
		return true
	}
	return false
}

// quotedPathChar reports whether r may appear in a double-quoted path
// component: nearly anything printable except the quote itself.
func quotedPathChar(r rune) bool {
	switch {
	case 0x20 <= r && r <= 0x21:
		return true
	case 0x23 <= r && r <= 0x2E:
		return true
	case 0x30 <= r && r <= 0x7F:
		return true
	}
	return validNonASCII(r)
}

// localImport parses a filesystem path. The anchor prefix decides what
// the path is relative to; a path with no prefix before its first slash
// is absolute. A leading slash that is not followed by a valid component
// fails the rule, which lets "//"-style operators reclaim the text.
func (p *parser) localImport(pos token.Pos) (ast.ImportKind, error) {
	var anchor ast.PathAnchor
	switch {
	case p.s.EatString(".."):
		anchor = ast.Parent
	case p.s.Eat('.'):
		anchor = ast.Here
	case p.s.Eat('~'):
		anchor = ast.Home
	default:
		anchor = ast.Absolute
	}
	comps, err := p.pathComponents()
	if err != nil {
		return nil, err
	}
	return &ast.Local{AnchorPos: pos, Anchor: anchor, Components: comps, EndPos: p.s.Pos()}, nil
}

// pathComponents parses one or more "/"-separated components, each an
// unquoted run of path characters or a double-quoted run.
func (p *parser) pathComponents() ([]string, error) {
	var comps []string
	for {
		c := p.s.Checkpoint()
		if !p.s.Eat('/') {
			break
		}
		comp, err := p.pathComponent()
		if err != nil {
			if !isNoMatch(err) {
				return nil, err
			}
			p.s.Restore(c)
			break
		}
		comps = append(comps, comp)
	}
	if len(comps) == 0 {
		return nil, p.fail("a path component")
	}
	return comps, nil
}

func (p *parser) pathComponent() (string, error) {
	if p.s.Eat('"') {
		c := p.s.Checkpoint()
		for quotedPathChar(p.s.Peek()) {
			p.s.Next()
		}
		comp := p.s.Text(c)
		if comp == "" || !p.s.Eat('"') {
			return "", p.fail("a quoted path component")
		}
		return comp, nil
	}
	c := p.s.Checkpoint()
	for pathChar(p.s.Peek()) {
		p.s.Next()
	}
	comp := p.s.Text(c)
	if comp == "" {
		return "", p.fail("a path component")
	}
	return comp, nil
}

// Remote imports.

func isAlpha(r rune) bool { return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' }
func isAlnum(r rune) bool { return isAlpha(r) || isDigit(r) }
func unreserved(r rune) bool {
	return isAlnum(r) || r == '-' || r == '.' || r == '_' || r == '~'
}
func subDelim(r rune) bool {
	switch r {
	case '!', '$', '&', '\'', '*', '+', ';', '=':
		return true
	}
	return false
}

// pctEncoded consumes a %XX escape and reports whether one was present.
func (p *parser) pctEncoded() bool {
	if p.s.Peek() != '%' || !isHexDigit(p.s.PeekAt(1)) || !isHexDigit(p.s.PeekAt(2)) {
		return false
	}
	p.s.Next()
	p.s.Next()
	p.s.Next()
	return true
}

// uriChars consumes a run of codepoints matching ok or %XX escapes and
// returns the consumed text, possibly empty.
func (p *parser) uriChars(ok func(rune) bool) string {
	c := p.s.Checkpoint()
	for {
		if ok(p.s.Peek()) {
			p.s.Next()
			continue
		}
		if !p.pctEncoded() {
			break
		}
	}
	return p.s.Text(c)
}

// remoteImport parses an http or https URL with its authority, path,
// optional query, and optional "using" clause supplying request headers
// as a secondary import.
func (p *parser) remoteImport(pos token.Pos) (ast.ImportKind, error) {
	scheme := ""
	switch {
	case p.s.EatString("https"):
		scheme = "https"
	case p.s.EatString("http"):
		scheme = "http"
	default:
		return nil, p.fail("a URL")
	}
	if !p.s.EatString("://") {
		return nil, p.fail(`"://"`)
	}

	r := &ast.Remote{SchemePos: pos, Scheme: scheme}

	// [ userinfo "@" ]
	c := p.s.Checkpoint()
	ui := p.uriChars(func(r rune) bool { return unreserved(r) || subDelim(r) || r == ':' })
	if p.s.Eat('@') {
		r.Userinfo = &ui
	} else {
		p.s.Restore(c)
	}

	host, err := p.uriHost()
	if err != nil {
		return nil, err
	}
	r.Host = host

	if p.s.Eat(':') {
		port := p.uriChars(isDigit)
		r.Port = &port
	}

	// url-path: path components mixed with raw URL segments.
	for {
		c := p.s.Checkpoint()
		if !p.s.Eat('/') {
			break
		}
		comp, err := p.pathComponent()
		if err == nil {
			r.Components = append(r.Components, comp)
			continue
		}
		if !isNoMatch(err) {
			return nil, err
		}
		p.s.Restore(c)
		p.s.Eat('/')
		seg := p.uriChars(func(r rune) bool {
			return unreserved(r) || subDelim(r) || r == ':' || r == '@'
		})
		r.Components = append(r.Components, seg)
	}

	if p.s.Eat('?') {
		q := p.uriChars(func(r rune) bool {
			return unreserved(r) || subDelim(r) || r == ':' || r == '@' || r == '/' || r == '?'
		})
		r.Query = &q
	}
	r.EndPos = p.s.Pos()

	// [ whsp "using" whsp1 import-expression ]
	c = p.s.Checkpoint()
	if err := p.usingClause(r); err != nil {
		if !isNoMatch(err) {
			return nil, err
		}
		p.s.Restore(c)
	}
	return r, nil
}

func (p *parser) usingClause(r *ast.Remote) error {
	if err := p.ws(); err != nil {
		return err
	}
	if _, err := p.keyword("using"); err != nil {
		return err
	}
	if err := p.ws1(); err != nil {
		return err
	}
	hdr, err := p.importExpression()
	if err != nil {
		return err
	}
	r.Using = hdr
	r.EndPos = p.s.Pos()
	return nil
}

// uriHost parses a bracketed IP literal, an IPv4 address, or a domain
// name. Domains are labels of letters, digits, and interior hyphens,
// joined by dots, with an optional trailing dot; all-digit labels cover
// the IPv4 form.
func (p *parser) uriHost() (string, error) {
	if p.s.Peek() == '[' {
		return p.ipLiteral()
	}
	c := p.s.Checkpoint()
	for {
		if !p.domainLabel() {
			break
		}
		if !p.s.Eat('.') {
			break
		}
	}
	host := p.s.Text(c)
	if host == "" {
		return "", p.fail("a host")
	}
	return host, nil
}

// domainLabel consumes one domain label and reports whether a valid one
// was present. A label starts and ends with a letter or digit and may
// contain interior hyphen runs.
func (p *parser) domainLabel() bool {
	c := p.s.Checkpoint()
	if !isAlnum(p.s.Peek()) {
		return false
	}
	for isAlnum(p.s.Peek()) {
		p.s.Next()
	}
	for p.s.Peek() == '-' {
		h := p.s.Checkpoint()
		for p.s.Peek() == '-' {
			p.s.Next()
		}
		if !isAlnum(p.s.Peek()) {
			p.s.Restore(h)
			break
		}
		for isAlnum(p.s.Peek()) {
			p.s.Next()
		}
	}
	return p.s.Offset() > int(c)
}

// ipLiteral parses "[" host "]" where host is an IPv6 address or an
// IPvFuture form.
func (p *parser) ipLiteral() (string, error) {
	c := p.s.Checkpoint()
	p.s.Eat('[')
	if p.s.Eat('v') || p.s.Eat('V') {
		if p.uriChars(isHexDigit) == "" || !p.s.Eat('.') {
			p.s.Restore(c)
			return "", p.fail("an IPvFuture literal")
		}
		body := p.uriChars(func(r rune) bool {
			return unreserved(r) || subDelim(r) || r == ':'
		})
		if body == "" || !p.s.Eat(']') {
			p.s.Restore(c)
			return "", p.fail("an IPvFuture literal")
		}
		return p.s.Text(c), nil
	}
	body := p.uriChars(func(r rune) bool {
		return isHexDigit(r) || r == ':' || r == '.'
	})
	if body == "" || !strings.Contains(body, ":") || !p.s.Eat(']') {
		p.s.Restore(c)
		return "", p.fail("an IPv6 literal")
	}
	return p.s.Text(c), nil
}

// Environment variables.

func posixEnvChar(r rune) bool {
	switch {
	case 0x20 <= r && r <= 0x21:
		return true
	case 0x23 <= r && r <= 0x3C:
		return true
	case 0x3E <= r && r <= 0x5B:
		return true
	case 0x5D <= r && r <= 0x7E:
		return true
	}
	return false
}

// envImport parses env:NAME with a Bash-style name, or env:"NAME" with
// the wider POSIX character set and its own escape table.
func (p *parser) envImport(pos token.Pos) (ast.ImportKind, error) {
	c := p.s.Checkpoint()
	if !p.s.EatString("env:") {
		return nil, p.fail("an import")
	}
	if p.s.Eat('"') {
		var b strings.Builder
		for {
			r := p.s.Peek()
			if r == '\\' {
				p.s.Next()
				esc, ok := posixEscape(p.s.Next())
				if !ok {
					err := p.failAt(p.s.Offset()-1, "a POSIX escape character")
					p.s.Restore(c)
					return nil, err
				}
				b.WriteByte(esc)
				continue
			}
			if posixEnvChar(r) {
				b.WriteRune(r)
				p.s.Next()
				continue
			}
			break
		}
		name := b.String()
		if name == "" || !p.s.Eat('"') {
			err := p.fail("a quoted environment variable name")
			p.s.Restore(c)
			return nil, err
		}
		return &ast.Env{EnvPos: pos, Name: name, EndPos: p.s.Pos()}, nil
	}
	start := p.s.Checkpoint()
	if r := p.s.Peek(); !isAlpha(r) && r != '_' {
		err := p.fail("an environment variable name")
		p.s.Restore(c)
		return nil, err
	}
	p.s.Next()
	for {
		r := p.s.Peek()
		if !isAlnum(r) && r != '_' {
			break
		}
		p.s.Next()
	}
	return &ast.Env{EnvPos: pos, Name: p.s.Text(start), EndPos: p.s.Pos()}, nil
}

// posixEscape maps the character after a backslash in a quoted POSIX
// environment variable name to the byte it denotes.
func posixEscape(r rune) (byte, bool) {
	switch r {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case 'a':
		return '\a', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case 'v':
		return '\v', true
	}
	return 0, false
}
