// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edc

import "github.com/pic32go/edc2svd/hdm"

// DefaultAccessTokens returns the built-in EDC access-token table.
// The token set was enumerated from representative EDC documents for
// the covered family; unknown tokens fail the conversion instead of
// being guessed. A rules file may extend or override the table.
func DefaultAccessTokens() map[string]hdm.Access {
	return map[string]hdm.Access{
		"rw":  hdm.AccessReadWrite,
		"r":   hdm.AccessReadOnly,
		"ro":  hdm.AccessReadOnly,
		"w":   hdm.AccessWriteOnly,
		"wo":  hdm.AccessWriteOnly,
		"rc":  hdm.AccessReadWriteClearOnRead,
		"r-c": hdm.AccessReadWriteClearOnRead,
		"roc": hdm.AccessReadOnlyClearOnRead,
		"wv":  hdm.AccessWriteOnlyVolatile,
		"w-v": hdm.AccessWriteOnlyVolatile,
	}
}
