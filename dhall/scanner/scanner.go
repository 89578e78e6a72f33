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

// Package scanner implements a cursor over Dhall source text.
//
// The scanner decodes the source into a codepoint sequence once, then
// serves single-codepoint reads, multi-codepoint literal matches, and O(1)
// checkpoint/restore over that sequence. It also consumes the insignificant
// separators of the grammar: whitespace, line comments, and recursively
// nested block comments.
package scanner // import "dhall-lang.org/go/dhall/scanner"

import (
	"unicode/utf8"

	"dhall-lang.org/go/dhall/errors"
	"dhall-lang.org/go/dhall/token"
)

// EOF is the codepoint returned by [Scanner.Peek] and [Scanner.Next] at the
// end of the source.
const EOF rune = -1

// A Checkpoint records a scanner position for later restoration. Restoring
// is a plain integer reset; no scanner state beyond the position exists.
type Checkpoint int

// A Scanner holds the decoded source and the current read position.
// Scanners must be initialized with [Scanner.Init] before use. A Scanner is
// not safe for concurrent use; parse the same source with separate Scanners
// instead.
type Scanner struct {
	file *token.File // source file handle for position information
	src  []rune      // decoded source

	offset int // reading offset in codepoints
}

// Init prepares the scanner s to read the source src, decoding it strictly
// as UTF-8. The file must have been created with a size of
// utf8.RuneCount(src); its line table is populated by Init.
//
// Invalid UTF-8 input yields an error positioned at the offending codepoint
// and leaves the scanner unusable.
func (s *Scanner) Init(file *token.File, src []byte) error {
	runes := make([]rune, 0, len(src))
	var lines []int
	line, lineStart := 1, 0 // 1-based line, codepoint offset of its start
	pending := 0            // codepoint offset of a line start not yet recorded
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size <= 1 {
			pos := token.Position{
				Filename: file.Name(),
				Offset:   len(runes),
				Line:     line,
				Column:   len(runes) - lineStart + 1,
			}
			return errors.Newf(pos, "invalid UTF-8 encoding")
		}
		if pending >= 0 {
			lines = append(lines, pending)
			pending = -1
		}
		if r == '\n' {
			line++
			lineStart = len(runes) + 1
			pending = lineStart
		}
		runes = append(runes, r)
		i += size
	}
	s.file = file
	s.src = runes
	s.offset = 0
	file.SetLines(lines)
	return nil
}

// File returns the file handle the scanner was initialized with.
func (s *Scanner) File() *token.File { return s.file }

// Len returns the source length in codepoints.
func (s *Scanner) Len() int { return len(s.src) }

// Offset returns the current codepoint offset.
func (s *Scanner) Offset() int { return s.offset }

// Pos returns the position of the current codepoint.
func (s *Scanner) Pos() token.Pos { return s.file.Pos(s.offset) }

// PosAt returns the position of the given codepoint offset.
func (s *Scanner) PosAt(offset int) token.Pos { return s.file.Pos(offset) }

// Done reports whether the scanner has consumed all input.
func (s *Scanner) Done() bool { return s.offset >= len(s.src) }

// Peek returns the codepoint at the current position without consuming it,
// or [EOF] at the end of the source.
func (s *Scanner) Peek() rune {
	if s.offset >= len(s.src) {
		return EOF
	}
	return s.src[s.offset]
}

// PeekAt returns the codepoint n positions past the current one without
// consuming anything, or [EOF] past the end of the source.
func (s *Scanner) PeekAt(n int) rune {
	if s.offset+n >= len(s.src) {
		return EOF
	}
	return s.src[s.offset+n]
}

// Next consumes and returns the codepoint at the current position, or [EOF]
// at the end of the source.
func (s *Scanner) Next() rune {
	if s.offset >= len(s.src) {
		return EOF
	}
	r := s.src[s.offset]
	s.offset++
	return r
}

// Eat consumes the current codepoint if it equals r and reports whether it
// did.
func (s *Scanner) Eat(r rune) bool {
	if s.offset < len(s.src) && s.src[s.offset] == r {
		s.offset++
		return true
	}
	return false
}

// EatString consumes the given literal if the source continues with it and
// reports whether it did. The match is exact, codepoint for codepoint.
func (s *Scanner) EatString(lit string) bool {
	off := s.offset
	for _, r := range lit {
		if off >= len(s.src) || s.src[off] != r {
			return false
		}
		off++
	}
	s.offset = off
	return true
}

// Checkpoint returns the current position for a later [Scanner.Restore].
func (s *Scanner) Checkpoint() Checkpoint { return Checkpoint(s.offset) }

// Restore resets the scanner to a position previously returned by
// [Scanner.Checkpoint].
func (s *Scanner) Restore(c Checkpoint) { s.offset = int(c) }

// Text returns the source text consumed since the given checkpoint.
func (s *Scanner) Text(from Checkpoint) string {
	return string(s.src[int(from):s.offset])
}

// validNonASCII reports whether r may appear, unescaped, outside of the
// ASCII range. The grammar excludes surrogates and the final two codepoints
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

// validCommentRune reports whether r may appear inside a comment.
func validCommentRune(r rune) bool {
	return r == '\t' || 0x20 <= r && r <= 0x7F || validNonASCII(r)
}

// Whitespace consumes zero or more whitespace chunks: spaces, tabs, line
// endings, line comments, and block comments. It stops before the first
// codepoint that cannot begin a chunk, or before a comment opening whose
// body is malformed.
//
// A block comment left unterminated by the end of the source is a hard
// error, positioned at the outermost opening delimiter.
func (s *Scanner) Whitespace() error {
	for {
		switch s.Peek() {
		case ' ', '\t', '\n':
			s.offset++
		case '\r':
			if s.PeekAt(1) != '\n' {
				return nil
			}
			s.offset += 2
		case '-':
			if s.PeekAt(1) != '-' || !s.lineComment() {
				return nil
			}
		case '{':
			if s.PeekAt(1) != '-' {
				return nil
			}
			before := s.offset
			if err := s.blockComment(); err != nil {
				return err
			}
			if s.offset == before {
				return nil
			}
		default:
			return nil
		}
	}
}

// lineComment consumes a line comment, excluding its terminating line
// ending, and reports whether it was well formed. A malformed comment is
// not consumed at all.
func (s *Scanner) lineComment() bool {
	c := s.Checkpoint()
	s.offset += 2 // "--"
	for {
		r := s.Peek()
		if r == EOF || r == '\n' || r == '\r' && s.PeekAt(1) == '\n' {
			return true
		}
		if !validCommentRune(r) {
			s.Restore(c)
			return false
		}
		s.offset++
	}
}

// blockComment consumes a block comment, tracking the nesting depth of
// interior "{-" openings. A comment containing an invalid codepoint is not
// consumed at all; a comment unterminated at the end of the source is a
// hard error at the outermost opening.
func (s *Scanner) blockComment() error {
	c := s.Checkpoint()
	open := s.Pos()
	s.offset += 2 // "{-"
	depth := 1
	for depth > 0 {
		switch r := s.Peek(); {
		case r == EOF:
			return errors.Newf(open.Position(), "unterminated block comment")
		case r == '-' && s.PeekAt(1) == '}':
			depth--
			s.offset += 2
		case r == '{' && s.PeekAt(1) == '-':
			depth++
			s.offset += 2
		case r == '\n':
			s.offset++
		case r == '\r' && s.PeekAt(1) == '\n':
			s.offset += 2
		case validCommentRune(r):
			s.offset++
		default:
			s.Restore(c)
			return nil
		}
	}
	return nil
}

// Shebang consumes a single "#!" line, including its terminating line
// ending, and reports whether one was present. Shebang lines are only valid
// at the very start of a file; the caller enforces that.
func (s *Scanner) Shebang() bool {
	c := s.Checkpoint()
	if !s.EatString("#!") {
		return false
	}
	for {
		switch r := s.Peek(); {
		case r == '\n':
			s.offset++
			return true
		case r == '\r' && s.PeekAt(1) == '\n':
			s.offset += 2
			return true
		case r == EOF || !validCommentRune(r):
			s.Restore(c)
			return false
		default:
			s.offset++
		}
	}
}
