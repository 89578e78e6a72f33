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

package literal

import (
	"fmt"
	"strconv"
)

// ParseUnicodeEscape converts the hex-digit payload of a "\uXXXX" or
// "\u{X...X}" escape to the codepoint it denotes. The payload must be
// nonempty, at most six hex digits long, and denote a Unicode scalar value:
// surrogate codepoints and values above U+10FFFF are rejected.
func ParseUnicodeEscape(digits string) (rune, error) {
	if digits == "" {
		return 0, fmt.Errorf("empty unicode escape: %w", errSyntax)
	}
	if len(digits) > 6 {
		return 0, fmt.Errorf("unicode escape %q exceeds six digits: %w", digits, errSyntax)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid unicode escape %q: %w", digits, errSyntax)
	}
	r := rune(v)
	if 0xD800 <= r && r <= 0xDFFF {
		return 0, fmt.Errorf("unicode escape %q denotes a surrogate codepoint", digits)
	}
	if r > 0x10FFFF {
		return 0, fmt.Errorf("unicode escape %q is beyond U+10FFFF", digits)
	}
	return r, nil
}
