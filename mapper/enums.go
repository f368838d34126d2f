// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapper

import (
	"fmt"

	"github.com/pic32go/edc2svd/hdm"
)

// extractEnums inlines symbolic-constant tables as enumerated values
// on the fields that reference them. The parser has already verified
// every reference resolves and fits. Inlined names arrive from the
// source vocabulary, so they are sanitized here; the identifier pass
// ran before this one and never saw them.
func extractEnums(dev *hdm.Device, symtab hdm.SymbolTable) {
	for _, p := range dev.Peripherals {
		for _, r := range p.Registers {
			enumReg(p.Name, r, symtab)
		}
		for _, c := range p.Clusters {
			for _, r := range c.Registers {
				enumReg(p.Name+"/"+c.Name, r, symtab)
			}
		}
	}
}

func enumReg(parent string, r *hdm.Register, symtab hdm.SymbolTable) {
	for _, f := range r.Fields {
		if f.EnumRef == "" {
			continue
		}
		evs := symtab[f.EnumRef]
		f.EnumRef = ""
		if len(evs) == 0 {
			continue
		}
		es := newScope("field " + parent + "/" + r.Name + "/" + f.Name)
		for _, ev := range evs {
			// Tables are shared between fields; inline a copy.
			c := *ev
			n, dup, err := es.put(c.Name, fmt.Sprintf("%#x", c.Value))
			if err != nil || dup {
				continue
			}
			c.Name = n
			f.Enums = append(f.Enums, &c)
		}
	}
}
