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
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/rogpeppe/go-internal/txtar"
)

// TestGolden parses the corpus in testdata: pairs of a source file and
// the expected debug rendering of its tree.
func TestGolden(t *testing.T) {
	ar, err := txtar.ParseFile(filepath.Join("testdata", "exprs.txtar"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(len(ar.Files) > 0))
	qt.Assert(t, qt.Equals(len(ar.Files)%2, 0))

	for i := 0; i < len(ar.Files); i += 2 {
		src, want := ar.Files[i], ar.Files[i+1]
		t.Run(src.Name, func(t *testing.T) {
			e, err := ParseFile(src.Name, src.Data)
			qt.Assert(t, qt.IsNil(err))
			got := debugStr(e)
			qt.Assert(t, qt.Equals(got, strings.TrimSuffix(string(want.Data), "\n")))
		})
	}
}
