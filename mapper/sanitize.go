// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapper

import (
	"fmt"
	"strings"

	"github.com/pic32go/edc2svd/hdm"
)

// Ident rewrites s into a valid SVD identifier: it must start with a
// letter or underscore and may contain only alphanumerics and
// underscores.
func Ident(s string) string {
	if s == "" {
		return "_"
	}
	b := []byte(s)
	for i, c := range b {
		ok := c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			c >= '0' && c <= '9'
		if !ok {
			b[i] = '_'
		}
	}
	if c := b[0]; c >= '0' && c <= '9' {
		return "_" + string(b)
	}
	return string(b)
}

// scope assigns unique sanitized names within one naming scope.
// Distinct originals that sanitize to the same identifier get _1, _2
// suffixes in first-seen order. Uniqueness is case-insensitive: SVD
// consumers commonly fold identifier case, so names that differ only
// in letter case count as colliding. A repeated original either marks
// an exact duplicate of an earlier entity (dup, caller drops it) or a
// true collision.
type scope struct {
	name  string
	taken map[string]bool   // case-folded
	seq   map[string]int    // case-folded
	sigs  map[string]string // original name -> structural signature
}

func newScope(name string) *scope {
	return &scope{
		name:  name,
		taken: make(map[string]bool),
		seq:   make(map[string]int),
		sigs:  make(map[string]string),
	}
}

func (s *scope) put(orig, sig string) (name string, dup bool, err error) {
	if prev, ok := s.sigs[orig]; ok {
		if prev == sig {
			return "", true, nil
		}
		return "", false, &NameCollisionError{s.name, orig}
	}
	s.sigs[orig] = sig
	base := Ident(orig)
	fold := strings.ToUpper(base)
	name = base
	for s.taken[strings.ToUpper(name)] {
		s.seq[fold]++
		name = fmt.Sprintf("%s_%d", base, s.seq[fold])
	}
	s.taken[strings.ToUpper(name)] = true
	return name, false, nil
}

func sanitize(dev *hdm.Device) error {
	dev.Name = Ident(dev.Name)
	ds := newScope("device " + dev.Name)
	renamed := make(map[string]string, len(dev.Peripherals))
	keep := dev.Peripherals[:0]
	for _, p := range dev.Peripherals {
		n, dup, err := ds.put(p.Name, fmt.Sprintf("%#x|%s", p.Base, layoutSig(p, true)))
		if err != nil {
			return err
		}
		if dup {
			continue
		}
		renamed[p.Name] = n
		p.Name = n
		if err := sanitizeRegs(p); err != nil {
			return err
		}
		keep = append(keep, p)
	}
	dev.Peripherals = keep
	// Derivation references are name links; follow the renames.
	for _, p := range dev.Peripherals {
		if p.DerivedFrom != "" {
			if n, ok := renamed[p.DerivedFrom]; ok {
				p.DerivedFrom = n
			}
		}
	}
	return nil
}

// sanitizeRegs handles the register scope of one peripheral; clusters
// share the scope with registers.
func sanitizeRegs(p *hdm.Peripheral) error {
	rs := newScope("peripheral " + p.Name)
	regs := p.Registers[:0]
	for _, r := range p.Registers {
		n, dup, err := rs.put(r.Name, regSig(r, true))
		if err != nil {
			return err
		}
		if dup {
			continue
		}
		r.Name = n
		if err := sanitizeFields(p.Name, r); err != nil {
			return err
		}
		regs = append(regs, r)
	}
	p.Registers = regs
	cls := p.Clusters[:0]
	for _, c := range p.Clusters {
		n, dup, err := rs.put(c.Name, clusterSig(c, true))
		if err != nil {
			return err
		}
		if dup {
			continue
		}
		c.Name = n
		// Cluster members name a nested scope of their own.
		crs := newScope("cluster " + p.Name + "/" + c.Name)
		members := c.Registers[:0]
		for _, r := range c.Registers {
			n, dup, err := crs.put(r.Name, regSig(r, true))
			if err != nil {
				return err
			}
			if dup {
				continue
			}
			r.Name = n
			if err := sanitizeFields(p.Name+"/"+c.Name, r); err != nil {
				return err
			}
			members = append(members, r)
		}
		c.Registers = members
		cls = append(cls, c)
	}
	p.Clusters = cls
	return nil
}

func sanitizeFields(parent string, r *hdm.Register) error {
	fs := newScope("register " + parent + "/" + r.Name)
	fields := r.Fields[:0]
	for _, f := range r.Fields {
		n, dup, err := fs.put(f.Name, fieldSig(f))
		if err != nil {
			return err
		}
		if dup {
			continue
		}
		f.Name = n
		if err := sanitizeEnums(parent+"/"+r.Name, f); err != nil {
			return err
		}
		fields = append(fields, f)
	}
	r.Fields = fields
	return nil
}

func sanitizeEnums(parent string, f *hdm.Field) error {
	es := newScope("field " + parent + "/" + f.Name)
	enums := f.Enums[:0]
	for _, ev := range f.Enums {
		n, dup, err := es.put(ev.Name, fmt.Sprintf("%#x", ev.Value))
		if err != nil {
			return err
		}
		if dup {
			continue
		}
		ev.Name = n
		enums = append(enums, ev)
	}
	f.Enums = enums
	return nil
}
