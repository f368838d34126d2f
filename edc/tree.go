// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edc

import (
	"encoding/xml"
	"io"
	"strconv"
)

// Element is a node of the generic markup tree the parser walks. EDC
// documents qualify every element and attribute with an edc: prefix;
// the tree keeps local names only so lookups do not depend on the
// prefix a particular document chose.
type Element struct {
	Name     string
	Attr     map[string]string
	Text     string
	Children []*Element

	path string
}

// Path identifies the element for diagnostics, e.g.
// /PIC/PhysicalSpace/SFRDataSector[1]/SFRDef[3].
func (e *Element) Path() string { return e.path }

// Get returns the value of the named attribute and whether it is
// present.
func (e *Element) Get(name string) (string, bool) {
	v, ok := e.Attr[name]
	return v, ok
}

// Find returns the first child with the given local name, or nil.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// parseTree decodes a document into an Element tree.
func parseTree(r io.Reader) (*Element, error) {
	d := xml.NewDecoder(r)
	var root *Element
	var stack []*Element
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			path := "/"
			if n := len(stack); n > 0 {
				path = stack[n-1].path
			}
			return nil, &MalformedError{path, err.Error()}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			e := &Element{
				Name: t.Name.Local,
				Attr: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				e.Attr[a.Name.Local] = a.Value
			}
			if n := len(stack); n == 0 {
				e.path = "/" + e.Name
				root = e
			} else {
				p := stack[n-1]
				e.path = p.path + "/" + e.Name +
					"[" + strconv.Itoa(childIndex(p, e.Name)) + "]"
				p.Children = append(p.Children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if n := len(stack); n > 0 {
				stack[n-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, &MalformedError{"/", "empty document"}
	}
	return root, nil
}

func childIndex(p *Element, name string) int {
	n := 1
	for _, c := range p.Children {
		if c.Name == name {
			n++
		}
	}
	return n
}
