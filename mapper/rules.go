// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapper

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pic32go/edc2svd/hdm"
)

// Rules is the optional YAML rules file. It extends the built-in
// access-token table for document families that use additional
// tokens, configures how strictly derivation detection matches and
// whether addresses are remapped into the KSEG1 segment:
//
//	access-tokens:
//	  rw1c: read-write-clear-on-read
//	derive:
//	  compare-resets: false
//	kseg1: true
type Rules struct {
	AccessTokens map[string]string `yaml:"access-tokens"`
	Derive       struct {
		CompareResets *bool `yaml:"compare-resets"`
	} `yaml:"derive"`
	Kseg1 bool `yaml:"kseg1"`
}

// KSEG1 reports whether register addresses are remapped into the
// uncached MIPS segment.
func (r *Rules) KSEG1() bool {
	return r != nil && r.Kseg1
}

// LoadRules reads and decodes a rules file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := new(Rules)
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return r, nil
}

// Options returns the mapping options the rules select.
func (r *Rules) Options() Options {
	o := DefaultOptions()
	if r != nil && r.Derive.CompareResets != nil {
		o.CompareResets = *r.Derive.CompareResets
	}
	return o
}

// TokenTable overlays the rules' token mappings on the base table.
func (r *Rules) TokenTable(base map[string]hdm.Access) (map[string]hdm.Access, error) {
	out := make(map[string]hdm.Access, len(base))
	for k, v := range base {
		out[k] = v
	}
	if r == nil {
		return out, nil
	}
	for tok, name := range r.AccessTokens {
		a, err := parseAccessName(name)
		if err != nil {
			return nil, err
		}
		out[tok] = a
	}
	return out, nil
}

func parseAccessName(s string) (hdm.Access, error) {
	switch s {
	case "read-write":
		return hdm.AccessReadWrite, nil
	case "read-only":
		return hdm.AccessReadOnly, nil
	case "write-only":
		return hdm.AccessWriteOnly, nil
	case "read-write-clear-on-read":
		return hdm.AccessReadWriteClearOnRead, nil
	case "read-only-clear-on-read":
		return hdm.AccessReadOnlyClearOnRead, nil
	case "write-only-volatile":
		return hdm.AccessWriteOnlyVolatile, nil
	}
	return 0, fmt.Errorf("unknown access mode %q in rules file", s)
}
