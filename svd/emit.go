// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/pic32go/edc2svd/hdm"
)

// UnrepresentableError reports a post-mapping invariant violation
// caught before emission. It indicates an internal logic fault: a
// correctly mapped tree never triggers it.
type UnrepresentableError struct {
	Path string
	Msg  string
}

func (e *UnrepresentableError) Error() string {
	return fmt.Sprintf("model not representable at %s: %s", e.Path, e.Msg)
}

// Emit serializes a fully mapped device tree into an SVD document.
// It re-verifies the model invariants first and fails instead of
// emitting a document that would silently corrupt generated
// register-access code. Output is byte-identical for identical input.
func Emit(dev *hdm.Device) ([]byte, error) {
	if err := check(dev); err != nil {
		return nil, err
	}
	doc := &Device{
		SchemaVersion:   "1.1",
		Name:            dev.Name,
		Version:         "1.0",
		Description:     dev.Description,
		AddressUnitBits: 8,
		Width:           dev.Width,
		Size:            dev.Size,
		Access:          accessString(dev.Access),
		ResetValue:      0,
		ResetMask:       mask(dev.Size),
	}
	for _, p := range dev.Peripherals {
		sp := &Peripheral{
			DerivedFrom: p.DerivedFrom,
			Name:        p.Name,
			Description: p.Description,
			BaseAddress: Hex32(p.Base),
		}
		for _, r := range p.Registers {
			sp.Registers = append(sp.Registers, emitReg(r))
		}
		for _, c := range p.Clusters {
			sc := &Cluster{
				Name:          c.Name,
				Description:   c.Description,
				AddressOffset: Hex32(c.Offset),
			}
			for _, r := range c.Registers {
				sc.Registers = append(sc.Registers, emitReg(r))
			}
			sp.Clusters = append(sp.Clusters, sc)
		}
		doc.Peripherals = append(doc.Peripherals, sp)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, &UnrepresentableError{dev.Name, err.Error()}
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func emitReg(r *hdm.Register) *Register {
	sr := &Register{
		Name:          r.Name,
		Description:   r.Description,
		AddressOffset: Hex32(r.Offset),
		Size:          r.Size,
		Access:        accessString(r.Access),
		ResetValue:    Hex32(r.Reset),
	}
	for _, f := range r.Fields {
		sf := &Field{
			Name:        f.Name,
			Description: f.Description,
			BitOffset:   f.Offset,
			BitWidth:    f.Width,
		}
		if f.Access != hdm.AccessDefault {
			sf.Access = accessString(f.Access)
		}
		for _, ev := range f.Enums {
			sf.Enums = append(sf.Enums, &EnumeratedValue{
				Name:        ev.Name,
				Description: ev.Description,
				Value:       Hex(ev.Value),
			})
		}
		sr.Fields = append(sr.Fields, sf)
	}
	return sr
}

func mask(bits uint) Hex32 {
	if bits >= 64 {
		return ^Hex32(0)
	}
	return Hex32(1)<<bits - 1
}

func accessString(a hdm.Access) string {
	switch a {
	case hdm.AccessReadWrite:
		return "read-write"
	case hdm.AccessReadOnly:
		return "read-only"
	case hdm.AccessWriteOnly:
		return "write-only"
	}
	return ""
}

// check is the defensive pre-emission verification: model invariants
// plus the conditions the mapper passes establish (translated access
// modes, explicit reset values, resolvable derivation references).
func check(dev *hdm.Device) error {
	if err := hdm.Validate(dev); err != nil {
		ie := err.(*hdm.InvariantError)
		return &UnrepresentableError{ie.Path, ie.Msg}
	}
	if accessString(dev.Access) == "" {
		return &UnrepresentableError{dev.Name, "untranslated device access mode"}
	}
	names := make(map[string]bool, len(dev.Peripherals))
	for _, p := range dev.Peripherals {
		names[p.Name] = true
	}
	for _, p := range dev.Peripherals {
		path := dev.Name + "/" + p.Name
		if p.DerivedFrom != "" && !names[p.DerivedFrom] {
			return &UnrepresentableError{path, "dangling derivedFrom: " + p.DerivedFrom}
		}
		for _, r := range p.Registers {
			if err := checkReg(path, r); err != nil {
				return err
			}
		}
		for _, c := range p.Clusters {
			for _, r := range c.Registers {
				if err := checkReg(path+"/"+c.Name, r); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkReg(parent string, r *hdm.Register) error {
	path := parent + "/" + r.Name
	if accessString(r.Access) == "" {
		return &UnrepresentableError{path, "untranslated access mode"}
	}
	if !r.HasReset {
		return &UnrepresentableError{path, "no reset value"}
	}
	for _, f := range r.Fields {
		if f.Access != hdm.AccessDefault && accessString(f.Access) == "" {
			return &UnrepresentableError{path + "/" + f.Name, "untranslated access mode"}
		}
		if f.EnumRef != "" {
			return &UnrepresentableError{path + "/" + f.Name, "unresolved option list: " + f.EnumRef}
		}
	}
	return nil
}
