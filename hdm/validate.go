// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hdm

import "fmt"

// InvariantError reports the first model invariant violated by a
// device tree, with the path of the offending entity.
type InvariantError struct {
	Path string
	Msg  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Validate checks the structural invariants of a device tree: field
// bit ranges must not overlap and must fit the register size,
// enumerated values must fit the field width and have unique names,
// and no two peripherals may share a base address unless one derives
// from the other.
func Validate(dev *Device) error {
	bases := make(map[uint64]*Peripheral)
	for _, p := range dev.Peripherals {
		path := dev.Name + "/" + p.Name
		if prev, ok := bases[p.Base]; ok {
			if p.DerivedFrom != prev.Name && prev.DerivedFrom != p.Name {
				return &InvariantError{path, fmt.Sprintf(
					"base address %#x already used by %s", p.Base, prev.Name,
				)}
			}
		} else {
			bases[p.Base] = p
		}
		if p.DerivedFrom != "" {
			if len(p.Registers) != 0 || len(p.Clusters) != 0 {
				return &InvariantError{path, "derived peripheral owns registers"}
			}
			continue
		}
		for _, r := range p.Registers {
			if err := validateReg(path, r); err != nil {
				return err
			}
		}
		for _, c := range p.Clusters {
			for _, r := range c.Registers {
				if err := validateReg(path+"/"+c.Name, r); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateReg(parent string, r *Register) error {
	path := parent + "/" + r.Name
	if r.Size == 0 || r.Size > 64 {
		return &InvariantError{path, fmt.Sprintf("bad register size %d", r.Size)}
	}
	var used uint64
	for _, f := range r.Fields {
		fpath := path + "/" + f.Name
		if f.Width == 0 {
			return &InvariantError{fpath, "zero-width field"}
		}
		if f.Offset+f.Width > r.Size {
			return &InvariantError{fpath, fmt.Sprintf(
				"bits [%d:%d] exceed register size %d",
				f.Offset+f.Width-1, f.Offset, r.Size,
			)}
		}
		var mask uint64
		if f.Width == 64 {
			mask = ^uint64(0)
		} else {
			mask = (1<<f.Width - 1) << f.Offset
		}
		if used&mask != 0 {
			return &InvariantError{fpath, fmt.Sprintf(
				"bits [%d:%d] overlap a sibling field",
				f.Offset+f.Width-1, f.Offset,
			)}
		}
		used |= mask
		names := make(map[string]bool, len(f.Enums))
		for _, ev := range f.Enums {
			if names[ev.Name] {
				return &InvariantError{fpath, "duplicate enumerated value " + ev.Name}
			}
			names[ev.Name] = true
			if f.Width < 64 && ev.Value > 1<<f.Width-1 {
				return &InvariantError{fpath, fmt.Sprintf(
					"value %#x of %s does not fit in %d bits",
					ev.Value, ev.Name, f.Width,
				)}
			}
		}
	}
	return nil
}
