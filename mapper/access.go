// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapper

import "github.com/pic32go/edc2svd/hdm"

// translateAccess collapses the rich canonical access modes onto the
// three-way SVD set. The read/write side effects the SVD schema has
// no slot for survive as a description suffix. The translation is
// lossy and deterministic.
func translateAccess(dev *hdm.Device) {
	dev.Access, _ = collapse(dev.Access)
	for _, p := range dev.Peripherals {
		for _, r := range p.Registers {
			accessReg(r)
		}
		for _, c := range p.Clusters {
			for _, r := range c.Registers {
				accessReg(r)
			}
		}
	}
}

func accessReg(r *hdm.Register) {
	var note string
	r.Access, note = collapse(r.Access)
	r.Description = addNote(r.Description, note)
	for _, f := range r.Fields {
		f.Access, note = collapse(f.Access)
		f.Description = addNote(f.Description, note)
	}
}

func addNote(desc, note string) string {
	if note == "" {
		return desc
	}
	if desc == "" {
		return note
	}
	return desc + " (" + note + ")"
}

func collapse(a hdm.Access) (hdm.Access, string) {
	switch a {
	case hdm.AccessReadWriteClearOnRead:
		return hdm.AccessReadWrite, "cleared on read"
	case hdm.AccessReadOnlyClearOnRead:
		return hdm.AccessReadOnly, "cleared on read"
	case hdm.AccessWriteOnlyVolatile:
		return hdm.AccessWriteOnly, "write has side effects"
	}
	return a, ""
}
