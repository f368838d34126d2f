// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edc

import (
	"strconv"
	"strings"
)

// parseUint normalizes EDC numeric literals: 0x hexadecimal, 0b
// binary, otherwise decimal.
func parseUint(s string) (uint64, error) {
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		return strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		return strconv.ParseUint(s[2:], 2, 64)
	default:
		return strconv.ParseUint(s, 10, 64)
	}
}

// parseMclr decodes a reset-value bit string. Unimplemented (-),
// undefined (x) and unchanged (u) bits read as 0.
func parseMclr(s string) (uint64, error) {
	r := strings.NewReplacer("-", "0", "x", "0", "u", "0")
	return strconv.ParseUint(r.Replace(s), 2, 64)
}
