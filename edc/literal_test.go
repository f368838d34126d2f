// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUint(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]uint64{
		"0":          0,
		"42":         42,
		"0x1F800000": 0x1f800000,
		"0X10":       16,
		"0b1011":     11,
		"0B11":       3,
	} {
		v, err := parseUint(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v, in)
	}
	for _, in := range []string{"", "0x", "0xZZ", "-1", "1.5"} {
		_, err := parseUint(in)
		assert.Error(t, err, in)
	}
}

func TestParseMclr(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]uint64{
		"0":        0,
		"1111":     0xf,
		"1--1":     0x9,
		"xx10":     2,
		"uuuu1uuu": 8,
	} {
		v, err := parseMclr(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v, in)
	}
	_, err := parseMclr("12")
	assert.Error(t, err)
}
