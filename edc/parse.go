// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package edc parses EDC register-description documents into the
// canonical hardware description model.
package edc

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pic32go/edc2svd/hdm"
)

// kseg1 maps physical register addresses into the uncached virtual
// segment MIPS cores access peripherals through.
const kseg1 = 0xA000_0000

// Options controls parsing. The zero value uses the built-in access
// token table, keeps physical addresses and discards the conversion
// trace.
type Options struct {
	AccessTokens map[string]hdm.Access
	KSEG1        bool // remap physical addresses into KSEG1
	Log          *slog.Logger
}

// sfrdefs whose _modsrc identifies a module that carries no
// peripheral attribution of its own.
var modsrcPeriph = map[string]string{
	"DOS-01618_RPINRx.Module":                  "PPS",
	"DOS-01618_RPORx.Module":                   "PPS",
	"DOS-01423_RPINRx.Module":                  "PPS",
	"DOS-01423_RPORx.Module":                   "PPS",
	"DOS-01475_lpwr_deep_sleep_ctrl_v2.Module": "DSCTRL",
}

type parser struct {
	tokens map[string]hdm.Access
	kseg1  bool
	log    *slog.Logger
	dev    *hdm.Device
	pmap   map[string]*hdm.Peripheral
	symtab hdm.SymbolTable
}

// Parse reads an EDC document and returns the device tree together
// with the symbolic-constant table referenced by its fields. The
// returned tree satisfies the model invariants; any violation present
// in the source is reported as a *MalformedError.
func Parse(r io.Reader, opts *Options) (*hdm.Device, hdm.SymbolTable, error) {
	if opts == nil {
		opts = new(Options)
	}
	p := &parser{
		tokens: opts.AccessTokens,
		kseg1:  opts.KSEG1,
		log:    opts.Log,
		pmap:   make(map[string]*hdm.Peripheral),
		symtab: make(hdm.SymbolTable),
	}
	if p.tokens == nil {
		p.tokens = DefaultAccessTokens()
	}
	if p.log == nil {
		p.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	root, err := parseTree(r)
	if err != nil {
		return nil, nil, err
	}
	if root.Name != "PIC" {
		return nil, nil, &MalformedError{root.Path(), "root element is not PIC"}
	}
	name, ok := root.Get("name")
	if !ok || name == "" {
		return nil, nil, &MissingAttributeError{root.Path(), "name"}
	}
	p.dev = &hdm.Device{
		Name:        name,
		Description: attrOr(root, "desc", name+" device"),
		Width:       32,
		Size:        32,
		Access:      hdm.AccessReadWrite,
	}

	phys := root.Find("PhysicalSpace")
	if phys == nil {
		return nil, nil, &MalformedError{root.Path(), "PhysicalSpace element missing"}
	}
	for _, sec := range phys.Children {
		rid, _ := sec.Get("regionid")
		if sec.Name != "SFRDataSector" || !strings.HasPrefix(rid, "periph") {
			continue
		}
		if err := p.sector(sec); err != nil {
			return nil, nil, err
		}
	}
	if err := p.optionLists(root); err != nil {
		return nil, nil, err
	}
	if err := p.checkEnumRefs(); err != nil {
		return nil, nil, err
	}
	if err := hdm.Validate(p.dev); err != nil {
		ie := err.(*hdm.InvariantError)
		return nil, nil, &MalformedError{ie.Path, ie.Msg}
	}
	return p.dev, p.symtab, nil
}

func (p *parser) sector(sec *Element) error {
	// Sector-level defaults sit between the device defaults and the
	// per-register attributes.
	size := p.dev.Size
	if s, ok := sec.Get("nzwidth"); ok {
		v, err := parseUint(s)
		if err != nil {
			return &MalformedError{sec.Path(), "bad nzwidth: " + s}
		}
		size = uint(v)
	}
	access := p.dev.Access
	if tok, ok := sec.Get("access"); ok {
		a, ok := p.tokens[tok]
		if !ok {
			return &MalformedError{sec.Path(), "unknown access token: " + tok}
		}
		access = a
	}
	for _, e := range sec.Children {
		if e.Name != "SFRDef" {
			continue
		}
		if err := p.sfr(e, size, access); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) sfr(e *Element, defSize uint, defAccess hdm.Access) error {
	addrStr, ok := e.Get("_addr")
	if !ok {
		return &MissingAttributeError{e.Path(), "_addr"}
	}
	addr, err := parseUint(addrStr)
	if err != nil {
		return &MalformedError{e.Path(), "bad _addr: " + addrStr}
	}
	if p.kseg1 {
		addr |= kseg1
	}

	name, ok := e.Get("cname")
	if !ok {
		name, ok = e.Get("name")
	}
	if !ok || name == "" {
		return &MissingAttributeError{e.Path(), "cname"}
	}
	if n, ok := e.Get("name"); ok && n != name {
		p.log.Warn("cname differs from name", "cname", name, "name", n)
	}

	reg := &hdm.Register{
		Name:        name,
		Description: attrOr(e, "desc", name+" register"),
		Size:        defSize,
		Access:      defAccess,
	}
	if s, ok := e.Get("nzwidth"); ok {
		v, err := parseUint(s)
		if err != nil {
			return &MalformedError{e.Path(), "bad nzwidth: " + s}
		}
		reg.Size = uint(v)
	}
	if tok, ok := e.Get("access"); ok {
		a, ok := p.tokens[tok]
		if !ok {
			return &MalformedError{e.Path(), "unknown access token: " + tok}
		}
		reg.Access = a
	}
	if s, ok := e.Get("mclr"); ok {
		v, err := parseMclr(s)
		if err != nil {
			return &MalformedError{e.Path(), "bad mclr bit string: " + s}
		}
		reg.Reset = v
		reg.HasReset = true
	}

	clr, set, inv, err := p.portals(e)
	if err != nil {
		return err
	}

	if ml := e.Find("SFRModeList"); ml != nil {
		mode := ml.Find("SFRMode")
		if mode == nil {
			return &MalformedError{ml.Path(), "SFRModeList without SFRMode"}
		}
		if err := p.fields(reg, mode); err != nil {
			return err
		}
	}

	periph, err := p.peripheralFor(e, name, addr)
	if err != nil {
		return err
	}
	if addr < periph.Base {
		return &MalformedError{e.Path(), "register address below peripheral base"}
	}
	reg.Offset = addr - periph.Base
	periph.Registers = append(periph.Registers, reg)
	p.log.Info("register", "name", name, "periph", periph.Name,
		"offset", reg.Offset, "reset", reg.Reset)

	// CLR/SET/INV portals become companion write-only registers with
	// the parent's field layout. Reads from them are undefined, so
	// their reset value is 0.
	for _, c := range []struct {
		on     bool
		suffix string
		off    uint64
	}{{clr, "CLR", 4}, {set, "SET", 8}, {inv, "INV", 12}} {
		if !c.on {
			continue
		}
		periph.Registers = append(periph.Registers, &hdm.Register{
			Name:        name + c.suffix,
			Description: attrOr(e, "desc", name+" register") + " " + strings.ToLower(c.suffix) + " portal",
			Offset:      reg.Offset + c.off,
			Size:        reg.Size,
			Access:      hdm.AccessWriteOnly,
			HasReset:    true,
			Fields:      cloneFields(reg.Fields),
		})
	}
	return nil
}

func (p *parser) portals(e *Element) (clr, set, inv bool, err error) {
	s, ok := e.Get("portals")
	if !ok {
		return false, false, false, nil
	}
	switch s {
	case "CLR SET INV":
		return true, true, true, nil
	case "CLR - -":
		return true, false, false, nil
	case "- - -":
		return false, false, false, nil
	}
	return false, false, false, &MalformedError{e.Path(), "unexpected portals attribute: " + s}
}

// peripheralFor resolves the peripheral an SFRDef belongs to. The
// attribution is spread over several attributes; first match wins.
func (p *parser) peripheralFor(e *Element, reg string, addr uint64) (*hdm.Peripheral, error) {
	var name string
	if v, ok := e.Get("baseofperipheral"); ok && v != "" {
		name = v
	} else if v, ok := e.Get("memberofperipheral"); ok && v != "" {
		name = v
	} else if v, ok := e.Get("grp"); ok && v != "" {
		name = v
	} else if v, ok := e.Get("_modsrc"); ok {
		name = modsrcPeriph[v]
	}
	// Only the first word counts: memberofperipheral may carry a
	// whole list of register names.
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return nil, &MalformedError{e.Path(), "missing peripheral for " + reg}
	}
	periph := p.pmap[name]
	if periph == nil {
		periph = &hdm.Peripheral{
			Name:        name,
			Description: name + " peripheral",
			Base:        addr,
		}
		p.pmap[name] = periph
		p.dev.Peripherals = append(p.dev.Peripherals, periph)
		p.log.Info("peripheral", "name", name, "base", addr)
	}
	return periph, nil
}

// fields decodes an SFRMode: an ordered run of field definitions and
// adjust points, each advancing the running bit position.
func (p *parser) fields(reg *hdm.Register, mode *Element) error {
	bitpos := uint(0)
	for _, el := range mode.Children {
		switch el.Name {
		case "SFRFieldDef":
			name, ok := el.Get("cname")
			if !ok {
				name, ok = el.Get("name")
			}
			if !ok || name == "" {
				return &MissingAttributeError{el.Path(), "cname"}
			}
			ws, ok := el.Get("nzwidth")
			if !ok {
				return &MissingAttributeError{el.Path(), "nzwidth"}
			}
			w, err := parseUint(ws)
			if err != nil || w == 0 {
				return &MalformedError{el.Path(), "bad nzwidth: " + ws}
			}
			f := &hdm.Field{
				Name:        name,
				Description: attrOr(el, "desc", ""),
				Offset:      bitpos,
				Width:       uint(w),
			}
			if tok, ok := el.Get("access"); ok {
				a, ok := p.tokens[tok]
				if !ok {
					return &MalformedError{el.Path(), "unknown access token: " + tok}
				}
				f.Access = a
			}
			if ref, ok := el.Get("optionlist"); ok {
				f.EnumRef = ref
			}
			reg.Fields = append(reg.Fields, f)
			bitpos += uint(w)
		case "AdjustPoint":
			s, ok := el.Get("offset")
			if !ok {
				return &MissingAttributeError{el.Path(), "offset"}
			}
			v, err := parseUint(s)
			if err != nil {
				return &MalformedError{el.Path(), "bad offset: " + s}
			}
			bitpos += uint(v)
		default:
			return &MalformedError{el.Path(), "unexpected element in field definition"}
		}
	}
	return nil
}

// optionLists collects every symbolic-constant table in the document
// into the symbol table consumed by the enumerated-value mapping
// pass.
func (p *parser) optionLists(e *Element) error {
	if e.Name == "OptionList" {
		name, ok := e.Get("name")
		if !ok || name == "" {
			return &MissingAttributeError{e.Path(), "name"}
		}
		vals := make(map[string]uint64)
		for _, o := range e.Children {
			if o.Name != "Option" {
				return &MalformedError{o.Path(), "unexpected element in option list"}
			}
			cname, ok := o.Get("cname")
			if !ok || cname == "" {
				return &MissingAttributeError{o.Path(), "cname"}
			}
			vs, ok := o.Get("value")
			if !ok {
				return &MissingAttributeError{o.Path(), "value"}
			}
			v, err := parseUint(vs)
			if err != nil {
				return &MalformedError{o.Path(), "bad value: " + vs}
			}
			if prev, ok := vals[cname]; ok && prev != v {
				return &MalformedError{o.Path(), "conflicting values for option " + cname}
			}
			vals[cname] = v
			p.symtab[name] = append(p.symtab[name], &hdm.EnumValue{
				Name:        cname,
				Description: attrOr(o, "desc", ""),
				Value:       v,
			})
		}
		return nil
	}
	for _, c := range e.Children {
		if err := p.optionLists(c); err != nil {
			return err
		}
	}
	return nil
}

// checkEnumRefs verifies that every symbolic-constant reference
// resolves and that the referenced values fit the field. The mapping
// pass that inlines the values can then never fail.
func (p *parser) checkEnumRefs() error {
	for _, periph := range p.dev.Peripherals {
		for _, r := range periph.Registers {
			for _, f := range r.Fields {
				if f.EnumRef == "" {
					continue
				}
				path := p.dev.Name + "/" + periph.Name + "/" + r.Name + "/" + f.Name
				evs, ok := p.symtab[f.EnumRef]
				if !ok {
					return &MalformedError{path, "unknown option list: " + f.EnumRef}
				}
				for _, ev := range evs {
					if f.Width < 64 && ev.Value > 1<<f.Width-1 {
						return &MalformedError{path, fmt.Sprintf(
							"option %s value %#x does not fit in %d bits",
							ev.Name, ev.Value, f.Width,
						)}
					}
				}
			}
		}
	}
	return nil
}

func attrOr(e *Element, name, def string) string {
	if v, ok := e.Get(name); ok && v != "" {
		return v
	}
	return def
}

func cloneFields(fs []*hdm.Field) []*hdm.Field {
	if fs == nil {
		return nil
	}
	out := make([]*hdm.Field, len(fs))
	for i, f := range fs {
		c := *f
		if f.Enums != nil {
			c.Enums = make([]*hdm.EnumValue, len(f.Enums))
			for k, ev := range f.Enums {
				e := *ev
				c.Enums[k] = &e
			}
		}
		out[i] = &c
	}
	return out
}
