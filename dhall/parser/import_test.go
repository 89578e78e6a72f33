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
	"testing"

	"github.com/go-quicktest/qt"

	"dhall-lang.org/go/dhall/ast"
)

func TestParseImports(t *testing.T) {
	type testCase struct {
		desc    string
		in, out string
	}
	testCases := []testCase{
		{
			desc: "missing",
			in:   "missing",
			out:  "missing",
		},
		{
			desc: "relative path",
			in:   "./foo/bar",
			out:  "./foo/bar",
		},
		{
			desc: "parent path",
			in:   "../sibling.dhall",
			out:  "../sibling.dhall",
		},
		{
			desc: "home path",
			in:   "~/config",
			out:  "~/config",
		},
		{
			desc: "absolute path",
			in:   "/etc/dhall/common",
			out:  "/etc/dhall/common",
		},
		{
			desc: "quoted path component",
			in:   `./"weird name"/file`,
			out:  `./"weird name"/file`,
		},
		{
			desc: "bash environment variable",
			in:   "env:HOME",
			out:  "env:HOME",
		},
		{
			desc: "quoted environment variable",
			in:   `env:"FOO BAR"`,
			out:  `env:"FOO BAR"`,
		},
		{
			desc: "environment variable escapes",
			in:   `env:"A\"B\\C"`,
			out:  `env:"A\"B\\C"`,
		},
		{
			desc: "https URL",
			in:   "https://example.com/pkg.dhall",
			out:  "https://example.com/pkg.dhall",
		},
		{
			desc: "http URL with port and query",
			in:   "http://localhost:8080/a/b?k=v",
			out:  "http://localhost:8080/a/b?k=v",
		},
		{
			desc: "URL with userinfo",
			in:   "https://user:pw@example.com/x",
			out:  "https://user:pw@example.com/x",
		},
		{
			desc: "URL with IPv6 host",
			in:   "http://[2001:db8::1]/x",
			out:  "http://[2001:db8::1]/x",
		},
		{
			desc: "URL with using clause",
			in:   "https://example.com/a using ./headers.dhall",
			out:  "https://example.com/a using ./headers.dhall",
		},
		{
			desc: "import as Text",
			in:   "./data.csv as Text",
			out:  "./data.csv as Text",
		},
		{
			desc: "import as Location",
			in:   "./somewhere as Location",
			out:  "./somewhere as Location",
		},
		{
			desc: "missing as Location",
			in:   "missing as Location",
			out:  "missing as Location",
		},
		{
			desc: "environment variable as Text",
			in:   "env:CONTENT as Text",
			out:  "env:CONTENT as Text",
		},
		{
			desc: "integrity hash",
			in:   "./pkg sha256:" + strings.Repeat("ab", 32),
			out:  "./pkg sha256:" + strings.Repeat("ab", 32),
		},
		{
			desc: "integrity hash then as Text",
			in:   "./pkg sha256:" + strings.Repeat("12", 32) + " as Text",
			out:  "./pkg sha256:" + strings.Repeat("12", 32) + " as Text",
		},
		{
			desc: "path stops before an operator",
			in:   "./a ? ./b",
			out:  "(./a ? ./b)",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			e, err := ParseExpr("test", tc.in)
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.Equals(debugStr(e), tc.out))
		})
	}
}

func TestImportNodeDetails(t *testing.T) {
	e, err := ParseExpr("t", "./pkg sha256:"+strings.Repeat("ff", 32)+" as Text")
	qt.Assert(t, qt.IsNil(err))

	imp, ok := e.(*ast.Import)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(imp.Mode, ast.RawText))
	qt.Assert(t, qt.Equals(len(imp.Hash), 32))
	qt.Assert(t, qt.Equals(imp.Hash[0], byte(0xFF)))

	local, ok := imp.Kind.(*ast.Local)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(local.Anchor, ast.Here))
	qt.Assert(t, qt.DeepEquals(local.Components, []string{"pkg"}))
}

func TestRemoteNodeDetails(t *testing.T) {
	e, err := ParseExpr("t", "https://user@example.com:8443/v1/schema.dhall?ref=main using ./hdrs")
	qt.Assert(t, qt.IsNil(err))

	imp, ok := e.(*ast.Import)
	qt.Assert(t, qt.IsTrue(ok))
	r, ok := imp.Kind.(*ast.Remote)
	qt.Assert(t, qt.IsTrue(ok))

	qt.Assert(t, qt.Equals(r.Scheme, "https"))
	qt.Assert(t, qt.Equals(*r.Userinfo, "user"))
	qt.Assert(t, qt.Equals(r.Host, "example.com"))
	qt.Assert(t, qt.Equals(*r.Port, "8443"))
	qt.Assert(t, qt.DeepEquals(r.Components, []string{"v1", "schema.dhall"}))
	qt.Assert(t, qt.Equals(*r.Query, "ref=main"))
	qt.Assert(t, qt.IsNotNil(r.Using))
}

func TestDoubleSlashIsPreferNotAPath(t *testing.T) {
	// A slash with no valid component after it fails the path rule, so
	// a // b parses as the prefer operator rather than a stray import.
	e, err := ParseExpr("t", "a // b")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(debugStr(e), "(a ⫽ b)"))
}
