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

// Package token defines positions within Dhall source text.
//
// All offsets count Unicode codepoints, not bytes: the grammar operates on
// a decoded codepoint sequence, and every position reported by the parser
// refers to an index in that sequence.
package token

import (
	"cmp"
	"fmt"
	"sync"
)

// -----------------------------------------------------------------------------
// Positions

// Position describes an arbitrary and printable source position within a
// file, including offset, line, and column location.
//
// A Position is valid if the line number is > 0.
type Position struct {
	Filename string // filename, if any
	Offset   int    // codepoint offset, starting at 0
	Line     int    // line number, starting at 1
	Column   int    // column number, starting at 1 (codepoint count)
}

// IsValid reports whether the position is valid.
func (pos *Position) IsValid() bool { return pos.Line > 0 }

// String returns a human-readable form of a position in one of several forms:
//
//	file:line:column    valid position with file name
//	line:column         valid position without file name
//	file                invalid position with file name
//	-                   invalid position without file name
func (pos Position) String() string {
	s := pos.Filename
	if pos.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// Pos is a compact encoding of a source position. Use [Pos.Position] to
// obtain the printable form.
type Pos struct {
	file   *File
	offset index
}

// NoPos is the zero value for [Pos]; there is no file and line information
// associated with it, and [Pos.IsValid] is false.
//
// NoPos is always larger than any valid [Pos] value. The corresponding
// [Position] value for NoPos is the zero value.
var NoPos = Pos{}

// File returns the file that contains the position p, or nil if there is no
// such file (for instance for p == [NoPos]).
func (p Pos) File() *File {
	if p.offset == 0 {
		return nil
	}
	return p.file
}

// IsValid reports whether the position carries file and offset information.
func (p Pos) IsValid() bool {
	return p != NoPos
}

// Line returns the position's line number, starting at 1.
func (p Pos) Line() int {
	return p.Position().Line
}

// Column returns the position's column number counting in codepoints,
// starting at 1.
func (p Pos) Column() int {
	return p.Position().Column
}

// Filename returns the name of the file that this position belongs to.
func (p Pos) Filename() string {
	// Avoid calling [Pos.Position] as it also unpacks line and column info.
	if p.file == nil {
		return ""
	}
	return p.file.name
}

// Offset reports the codepoint offset relative to the file.
func (p Pos) Offset() int {
	if p.file == nil {
		return 0
	}
	return p.file.Offset(p)
}

// Add creates a new position relative to the p offset by n codepoints.
func (p Pos) Add(n int) Pos {
	if p.file == nil {
		return p
	}
	return Pos{p.file, p.offset + index(n)}
}

// Position unpacks the position information into a flat struct.
func (p Pos) Position() Position {
	if p.file == nil {
		return Position{}
	}
	return p.file.Position(p)
}

// String returns a human-readable form of the position.
func (p Pos) String() string {
	return p.Position().String()
}

// Compare returns an integer comparing two positions. The result will be 0
// if p == p2, -1 if p < p2, and +1 if p > p2. Note that [NoPos] is always
// larger than any valid position.
func (p Pos) Compare(p2 Pos) int {
	if p == p2 {
		return 0
	} else if p == NoPos {
		return +1
	} else if p2 == NoPos {
		return -1
	}
	if c := cmp.Compare(p.Filename(), p2.Filename()); c != 0 {
		return c
	}
	return cmp.Compare(p.Offset(), p2.Offset())
}

// -----------------------------------------------------------------------------
// File

// index represents an offset into the file. It is 1-based rather than
// zero-based so that the zero Pos can be distinguished from a Pos that just
// has a zero offset.
type index int

// A File has a name, size, and line offset table. All offsets are codepoint
// counts. It is safe for concurrent position queries.
type File struct {
	mutex sync.RWMutex
	name  string // file name as provided to NewFile
	size  index  // file size in codepoints as provided to NewFile

	// lines contains the offset of the first codepoint for each line
	// (the first entry is always 0).
	lines []index
}

// NewFile returns a new file with the given name. The size is the length of
// the file in codepoints.
func NewFile(filename string, size int) *File {
	return &File{
		name:  filename,
		size:  index(size),
		lines: []index{0},
	}
}

// fixOffset fixes an out-of-bounds offset such that 0 <= offset <= f.size.
func (f *File) fixOffset(offset index) index {
	switch {
	case offset < 0:
		return 0
	case offset > f.size:
		return f.size
	default:
		return offset
	}
}

// Name returns the file name of file f as registered with NewFile.
func (f *File) Name() string {
	return f.name
}

// Size returns the size of file f as passed to NewFile.
func (f *File) Size() int {
	return int(f.size)
}

// LineCount returns the number of lines in file f.
func (f *File) LineCount() int {
	f.mutex.RLock()
	n := len(f.lines)
	f.mutex.RUnlock()
	return n
}

// AddLine adds the line offset for a new line.
// The line offset must be larger than the offset for the previous line
// and smaller than the file size; otherwise the line offset is ignored.
func (f *File) AddLine(offset int) {
	x := index(offset)
	f.mutex.Lock()
	if i := len(f.lines); (i == 0 || f.lines[i-1] < x) && x < f.size {
		f.lines = append(f.lines, x)
	}
	f.mutex.Unlock()
}

// Lines returns the effective line offset table of the form described by
// [File.SetLines]. Callers must not mutate the result.
func (f *File) Lines() []int {
	var lines []int
	f.mutex.RLock()
	for _, line := range f.lines {
		lines = append(lines, int(line))
	}
	f.mutex.RUnlock()
	return lines
}

// SetLines sets the line offsets for a file and reports whether it
// succeeded. The line offsets are the offsets of the first codepoint of each
// line; for instance for the content "ab\nc\n" the line offsets are {0, 3}.
// An empty file has an empty line offset table.
// Each line offset must be larger than the offset for the previous line
// and smaller than the file size; otherwise SetLines fails and returns
// false.
func (f *File) SetLines(lines []int) bool {
	size := f.size
	for i, offset := range lines {
		if i > 0 && offset <= lines[i-1] || size <= index(offset) {
			return false
		}
	}

	f.mutex.Lock()
	f.lines = f.lines[:0]
	for _, l := range lines {
		f.lines = append(f.lines, index(l))
	}
	f.mutex.Unlock()
	return true
}

// Pos returns the Pos value for the given file offset.
//
// If offset is negative, the result is the file's start position; if the
// offset is too large, the result is the file's end position.
//
// The following invariant, though not true for Pos values in general, holds
// for the result p: f.Pos(f.Offset(p)) == p.
func (f *File) Pos(offset int) Pos {
	return Pos{f, 1 + f.fixOffset(index(offset))}
}

// Offset returns the offset for the given file position p.
//
// If p is before the file's start position (or if p is NoPos), the result is
// 0; if p is past the file's end position, the result is the file size.
func (f *File) Offset(p Pos) int {
	return int(f.fixOffset(p.offset - 1))
}

// Line returns the line number for the given file position p; p must be a
// Pos value in that file or NoPos.
func (f *File) Line(p Pos) int {
	return f.Position(p).Line
}

// Position returns the Position value for the given file position p.
// If p is out of bounds, it is adjusted to match the File.Offset behavior.
func (f *File) Position(p Pos) (pos Position) {
	if p == NoPos {
		return pos
	}
	offset := f.Offset(p)
	pos.Offset = offset
	pos.Filename = f.name
	f.mutex.RLock()
	if i := searchInts(f.lines, index(offset)); i >= 0 {
		pos.Line, pos.Column = i+1, int(index(offset)-f.lines[i]+1)
	}
	f.mutex.RUnlock()
	return pos
}

// -----------------------------------------------------------------------------
// Helper functions

func searchInts(a []index, x index) int {
	// Binary search for the rightmost entry <= x; equivalent to
	// sort.Search(len(a), func(i int) bool { return a[i] > x }) - 1
	// without the closure allocation on this hot path.
	i, j := 0, len(a)
	for i < j {
		h := i + (j-i)/2 // avoid overflow when computing h
		if a[h] <= x {
			i = h + 1
		} else {
			j = h
		}
	}
	return i - 1
}
