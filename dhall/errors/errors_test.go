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

package errors_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"dhall-lang.org/go/dhall/errors"
	"dhall-lang.org/go/dhall/token"
)

var testPos = token.Position{Filename: "a.dhall", Offset: 5, Line: 2, Column: 3}

func TestNewf(t *testing.T) {
	err := errors.Newf(testPos, "unexpected %q", "x")
	qt.Assert(t, qt.Equals(err.Error(), `unexpected "x"`))
	qt.Assert(t, qt.Equals(err.Position(), testPos))
}

func TestWrapfUnwrapsToCause(t *testing.T) {
	cause := errors.New("boom")
	err := errors.Wrapf(cause, testPos, "while reading")

	var e errors.Error
	qt.Assert(t, qt.IsTrue(errors.As(err, &e)))
	qt.Assert(t, qt.Equals(e.Position(), testPos))
	qt.Assert(t, qt.ErrorIs(err, cause))
}

func TestPromote(t *testing.T) {
	// A plain error gains the given position.
	err := errors.Promote(errors.New("plain"), testPos)
	qt.Assert(t, qt.Equals(err.Position(), testPos))

	// An error already carrying a position keeps its own.
	other := token.Position{Filename: "b.dhall", Line: 9, Column: 1}
	err = errors.Promote(errors.Newf(other, "placed"), testPos)
	qt.Assert(t, qt.Equals(err.Position(), other))
}

func TestDetails(t *testing.T) {
	err := errors.Newf(testPos, "unexpected end of input")
	qt.Assert(t, qt.Equals(errors.Details(err),
		"unexpected end of input:\n    a.dhall:2:3\n"))

	// No position line for a plain error.
	qt.Assert(t, qt.Equals(errors.Details(errors.New("plain")), "plain:\n"))
	qt.Assert(t, qt.Equals(errors.Details(nil), ""))
}
