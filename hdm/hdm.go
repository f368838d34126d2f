// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hdm defines the Hardware Description Model: the canonical
// in-memory form of a device that the converter pipeline passes from
// the EDC parser through the mapping passes to the SVD emitter. The
// model is deliberately independent of both schema vocabularies.
package hdm

// Access describes how a register or field may be accessed. The set
// is richer than the three-way SVD enumeration because the source
// format distinguishes read/write side effects; the mapper collapses
// the extra modes before emission.
type Access int

const (
	AccessDefault Access = iota // inherit from the enclosing scope
	AccessReadWrite
	AccessReadOnly
	AccessWriteOnly
	AccessReadWriteClearOnRead // reading returns and clears the value
	AccessReadOnlyClearOnRead
	AccessWriteOnlyVolatile // writing triggers a hardware side effect
)

func (a Access) String() string {
	switch a {
	case AccessDefault:
		return "default"
	case AccessReadWrite:
		return "read-write"
	case AccessReadOnly:
		return "read-only"
	case AccessWriteOnly:
		return "write-only"
	case AccessReadWriteClearOnRead:
		return "read-write clear-on-read"
	case AccessReadOnlyClearOnRead:
		return "read-only clear-on-read"
	case AccessWriteOnlyVolatile:
		return "write-only volatile"
	}
	return "unknown"
}

// Device is the root of the model. Peripherals keep their input
// order; the emitter preserves it.
type Device struct {
	Name        string
	Description string
	Width       uint // bus width in bits
	Size        uint // default register size in bits
	Access      Access
	Peripherals []*Peripheral
}

// Peripheral is one memory-mapped block. A non-empty DerivedFrom
// names a sibling peripheral whose register layout this one shares;
// in that case Registers and Clusters are nil.
type Peripheral struct {
	Name        string
	Description string
	Base        uint64
	DerivedFrom string
	Registers   []*Register
	Clusters    []*Cluster
}

// Cluster is a named group of registers at a common offset within a
// peripheral.
type Cluster struct {
	Name        string
	Description string
	Offset      uint64
	Registers   []*Register
}

type Register struct {
	Name        string
	Description string
	Offset      uint64 // relative to the peripheral base
	Size        uint   // bits
	Access      Access
	Reset       uint64
	HasReset    bool
	Fields      []*Field
}

// Field is a bit range within a register. EnumRef optionally names a
// symbolic-constant table; the mapper resolves it into Enums and
// clears it.
type Field struct {
	Name        string
	Description string
	Offset      uint
	Width       uint
	Access      Access
	EnumRef     string
	Enums       []*EnumValue
}

type EnumValue struct {
	Name        string
	Description string
	Value       uint64
}

// SymbolTable holds the symbolic-constant tables referenced by
// Field.EnumRef. It is built by the parser and consumed by the
// enumerated-value mapping pass.
type SymbolTable map[string][]*EnumValue
