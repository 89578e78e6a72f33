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

package scanner

import (
	"strings"
	"testing"
	"unicode/utf8"

	"dhall-lang.org/go/dhall/errors"
	"dhall-lang.org/go/dhall/token"
)

func initScanner(t *testing.T, src string) *Scanner {
	t.Helper()
	var s Scanner
	f := token.NewFile("test", utf8.RuneCountInString(src))
	if err := s.Init(f, []byte(src)); err != nil {
		t.Fatalf("Init(%q): %v", src, err)
	}
	return &s
}

func TestWhitespace(t *testing.T) {
	testCases := []struct {
		src  string
		want int // codepoints consumed
	}{
		{"", 0},
		{"x", 0},
		{"   x", 3},
		{" \t\n x", 4},
		{"\r\nx", 2},
		{"\rx", 0}, // a bare CR is not a line ending
		{"- x", 0},
		{"-- comment", 10},
		{"-- comment\nx", 11},
		{"--\n--\n x", 7},
		{"--·\n", 4}, // non-ASCII comment content
		{"{--}x", 4},
		{"{- inner -} x", 12},
		{"{-{-{--}-}-}x", 12},
		{"{- a {- b -} c -}{--}x", 21},
		{"{- ' \" \n -}x", 11},
		{"{x", 0},
		{"-- a\x01b\nx", 0},   // invalid codepoint rejects the comment
		{"{- a\x01b -}x", 0},  // same for block comments
		{"{- a \r b -}x", 0}, // bare CR is invalid inside comments
	}
	for _, tc := range testCases {
		s := initScanner(t, tc.src)
		if err := s.Whitespace(); err != nil {
			t.Errorf("%q: unexpected error: %v", tc.src, err)
			continue
		}
		if got := s.Offset(); got != tc.want {
			t.Errorf("%q: consumed %d codepoints; want %d", tc.src, got, tc.want)
		}
	}
}

func TestWhitespaceUnterminated(t *testing.T) {
	testCases := []struct {
		src     string
		wantCol int // column of the outermost "{-"
	}{
		{"{-", 1},
		{"{- {- -}", 1},
		{"  {- {-", 3},
		{"{- almost -", 1},
	}
	for _, tc := range testCases {
		s := initScanner(t, tc.src)
		err := s.Whitespace()
		if err == nil {
			t.Errorf("%q: expected error, got none (offset %d)", tc.src, s.Offset())
			continue
		}
		e, ok := err.(errors.Error)
		if !ok {
			t.Errorf("%q: error does not carry a position: %v", tc.src, err)
			continue
		}
		if !strings.Contains(err.Error(), "unterminated block comment") {
			t.Errorf("%q: error = %q; want unterminated block comment", tc.src, err)
		}
		if got := e.Position().Column; got != tc.wantCol {
			t.Errorf("%q: error column %d; want %d", tc.src, got, tc.wantCol)
		}
	}
}

func TestDeepCommentNesting(t *testing.T) {
	const depth = 10000
	src := strings.Repeat("{-", depth) + strings.Repeat("-}", depth) + "x"
	s := initScanner(t, src)
	if err := s.Whitespace(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := s.Offset(), 4*depth; got != want {
		t.Errorf("consumed %d codepoints; want %d", got, want)
	}
}

func TestCheckpoint(t *testing.T) {
	s := initScanner(t, "let α = 1")
	if got := s.Peek(); got != 'l' {
		t.Fatalf("Peek = %q; want 'l'", got)
	}
	c := s.Checkpoint()
	for range "let" {
		s.Next()
	}
	if got := s.Text(c); got != "let" {
		t.Errorf("Text = %q; want %q", got, "let")
	}
	mid := s.Checkpoint()
	if !s.Eat(' ') || !s.Eat('α') {
		t.Fatalf("Eat sequence failed at offset %d", s.Offset())
	}
	if got := s.Offset(); got != 5 {
		t.Errorf("offset = %d; want 5 (codepoints, not bytes)", got)
	}
	s.Restore(mid)
	if got := s.Offset(); got != 3 {
		t.Errorf("offset after Restore = %d; want 3", got)
	}
	s.Restore(c)
	if !s.EatString("let α") {
		t.Errorf("EatString after Restore failed")
	}
	if s.EatString("= 1") {
		t.Errorf("EatString matched despite missing leading space")
	}
	if !s.EatString(" = 1") {
		t.Errorf("EatString for remainder failed")
	}
	if !s.Done() {
		t.Errorf("scanner not done at offset %d of %d", s.Offset(), s.Len())
	}
	if got := s.Next(); got != EOF {
		t.Errorf("Next at end = %q; want EOF", got)
	}
}

func TestInitInvalidUTF8(t *testing.T) {
	testCases := []struct {
		src        []byte
		wantOffset int
		wantLine   int
		wantCol    int
	}{
		{[]byte{0xFF}, 0, 1, 1},
		{[]byte("ab\xc3"), 2, 1, 3},
		{[]byte("a\n\x80b"), 2, 2, 1},
	}
	for _, tc := range testCases {
		var s Scanner
		f := token.NewFile("bad", len(tc.src))
		err := s.Init(f, tc.src)
		if err == nil {
			t.Errorf("%q: Init succeeded; want error", tc.src)
			continue
		}
		e, ok := err.(errors.Error)
		if !ok {
			t.Errorf("%q: error does not carry a position: %v", tc.src, err)
			continue
		}
		pos := e.Position()
		if pos.Offset != tc.wantOffset || pos.Line != tc.wantLine || pos.Column != tc.wantCol {
			t.Errorf("%q: error at %d:%d offset %d; want %d:%d offset %d",
				tc.src, pos.Line, pos.Column, pos.Offset, tc.wantLine, tc.wantCol, tc.wantOffset)
		}
	}
}

func TestLineTable(t *testing.T) {
	s := initScanner(t, "a\nbc\r\nd·e\nf")
	pos := s.PosAt(6).Position() // 'd'
	if pos.Line != 3 || pos.Column != 1 {
		t.Errorf("position of 'd' = %d:%d; want 3:1", pos.Line, pos.Column)
	}
	pos = s.PosAt(8).Position() // 'e', after a 2-byte codepoint
	if pos.Line != 3 || pos.Column != 3 {
		t.Errorf("position of 'e' = %d:%d; want 3:3", pos.Line, pos.Column)
	}
	pos = s.PosAt(10).Position() // 'f'
	if pos.Line != 4 || pos.Column != 1 {
		t.Errorf("position of 'f' = %d:%d; want 4:1", pos.Line, pos.Column)
	}
}

func TestShebang(t *testing.T) {
	s := initScanner(t, "#!/usr/bin/env dhall\n2")
	if !s.Shebang() {
		t.Fatalf("Shebang not consumed")
	}
	if got := s.Peek(); got != '2' {
		t.Errorf("Peek after shebang = %q; want '2'", got)
	}
	if s.Shebang() {
		t.Errorf("second Shebang consumed unexpectedly")
	}

	// A shebang without a line ending is not consumed.
	s = initScanner(t, "#!x")
	if s.Shebang() {
		t.Errorf("unterminated shebang consumed")
	}
	if got := s.Offset(); got != 0 {
		t.Errorf("offset after failed Shebang = %d; want 0", got)
	}
}
