// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapper

import "github.com/pic32go/edc2svd/hdm"

// propagateResets gives every register an explicit reset value. The
// output schema requires one; a register the source left silent
// resets to 0.
func propagateResets(dev *hdm.Device) {
	for _, p := range dev.Peripherals {
		for _, r := range p.Registers {
			resetReg(r)
		}
		for _, c := range p.Clusters {
			for _, r := range c.Registers {
				resetReg(r)
			}
		}
	}
}

func resetReg(r *hdm.Register) {
	if !r.HasReset {
		r.Reset = 0
		r.HasReset = true
	}
}
