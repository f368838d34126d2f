// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapper

import (
	"fmt"
	"strings"

	"github.com/pic32go/edc2svd/hdm"
)

// derive marks peripherals that repeat the register layout of an
// earlier one as derived from it and drops their own copy of the
// layout. The omitted subtree stays recoverable through the name
// reference, as SVD consumers expect. Register and field names
// participate in the comparison: a derived peripheral inherits the
// base peripheral's names verbatim.
func derive(dev *hdm.Device, compareResets bool) {
	seen := make(map[string]*hdm.Peripheral)
	for _, p := range dev.Peripherals {
		if p.DerivedFrom != "" || len(p.Registers) == 0 && len(p.Clusters) == 0 {
			continue
		}
		sig := layoutSig(p, compareResets)
		if base, ok := seen[sig]; ok {
			p.DerivedFrom = base.Name
			p.Registers = nil
			p.Clusters = nil
		} else {
			seen[sig] = p
		}
	}
}

// layoutSig is a structural signature of a peripheral's register
// layout, independent of its name and base address.
func layoutSig(p *hdm.Peripheral, resets bool) string {
	var b strings.Builder
	for _, r := range p.Registers {
		b.WriteString(regSig(r, resets))
	}
	for _, c := range p.Clusters {
		b.WriteString(clusterSig(c, resets))
	}
	return b.String()
}

func clusterSig(c *hdm.Cluster, resets bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "c:%s@%#x{", c.Name, c.Offset)
	for _, r := range c.Registers {
		b.WriteString(regSig(r, resets))
	}
	b.WriteString("}")
	return b.String()
}

func regSig(r *hdm.Register, resets bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "r:%s@%#x/%d/%d", r.Name, r.Offset, r.Size, r.Access)
	if resets && r.HasReset {
		fmt.Fprintf(&b, "=%#x", r.Reset)
	}
	b.WriteString("{")
	for _, f := range r.Fields {
		b.WriteString(fieldSig(f))
	}
	b.WriteString("};")
	return b.String()
}

func fieldSig(f *hdm.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "f:%s@%d+%d/%d/%s(", f.Name, f.Offset, f.Width, f.Access, f.EnumRef)
	for _, ev := range f.Enums {
		fmt.Fprintf(&b, "%s=%#x,", ev.Name, ev.Value)
	}
	b.WriteString(")")
	return b.String()
}
