// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mapper reconciles a parsed hardware description with the
// conventions of the SVD output schema. Map mutates the tree in
// place, running a fixed sequence of passes: identifier sanitization,
// derivation detection, access-mode translation, enumerated-value
// extraction and reset-value propagation.
package mapper

import (
	"fmt"

	"github.com/pic32go/edc2svd/hdm"
)

// Options controls mapping behavior.
type Options struct {
	// CompareResets makes derivation detection require equal reset
	// values, i.e. exact structural equality of the register layout.
	CompareResets bool
}

// DefaultOptions returns the strict defaults.
func DefaultOptions() Options {
	return Options{CompareResets: true}
}

// NameCollisionError reports two distinct entities in one scope whose
// names cannot be told apart after sanitization.
type NameCollisionError struct {
	Scope string
	Name  string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("unresolvable name collision in %s: %q", e.Scope, e.Name)
}

// Map applies the mapping passes to dev in order. symtab supplies the
// symbolic-constant tables the enumerated-value pass inlines; it is
// not needed afterwards.
func Map(dev *hdm.Device, symtab hdm.SymbolTable, opts Options) error {
	if err := sanitize(dev); err != nil {
		return err
	}
	derive(dev, opts.CompareResets)
	translateAccess(dev)
	extractEnums(dev, symtab)
	propagateResets(dev)
	return nil
}
