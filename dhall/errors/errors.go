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

// Package errors defines shared types for handling Dhall errors.
//
// Errors produced by the syntax packages carry a [token.Position] locating
// the offending source text. Parsing stops at the first error, so functions
// return a single error value rather than a collection.
package errors // import "dhall-lang.org/go/dhall/errors"

import (
	"errors"
	"fmt"
	"io"

	"dhall-lang.org/go/dhall/token"
)

// New is a convenience wrapper for errors.New in the standard library.
func New(msg string) error {
	return errors.New(msg)
}

// As is a convenience wrapper for errors.As in the standard library.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Error is the common error interface of the syntax packages.
type Error interface {
	// Position reports the position of the offending source text.
	Position() token.Position

	// Error reports the error message without position information.
	Error() string
}

// A posError is an error associated with a source position.
type posError struct {
	pos token.Position
	msg string

	// The underlying error that triggered this one, if any.
	err error
}

// Newf creates an [Error] with the given position and formatted message.
func Newf(pos token.Position, format string, args ...any) Error {
	return &posError{pos: pos, msg: fmt.Sprintf(format, args...)}
}

// Wrapf creates an [Error] with the given position and formatted message
// that wraps err.
func Wrapf(err error, pos token.Position, format string, args ...any) Error {
	return &posError{pos: pos, msg: fmt.Sprintf(format, args...), err: err}
}

// Promote returns err as an [Error], attaching pos if err does not already
// carry a position.
func Promote(err error, pos token.Position) Error {
	if e, ok := err.(Error); ok {
		return e
	}
	return &posError{pos: pos, msg: err.Error(), err: err}
}

func (e *posError) Position() token.Position {
	return e.pos
}

func (e *posError) Error() string { return e.msg }

func (e *posError) Unwrap() error { return e.err }

// Print writes err to w in the form
//
//	msg:
//	    file:line:col
//
// using the position carried by err if it implements [Error]. Errors that
// carry no position print as a plain message line.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%v:\n", err)
	var e Error
	if errors.As(err, &e) {
		if pos := e.Position(); pos.IsValid() || pos.Filename != "" {
			fmt.Fprintf(w, "    %s\n", pos)
		}
	}
}

// Details returns the result of [Print] as a string.
func Details(err error) string {
	var b bytesWriter
	Print(&b, err)
	return string(b)
}

type bytesWriter []byte

func (b *bytesWriter) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}
