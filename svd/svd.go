// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svd serializes a mapped hardware description into an SVD
// document.
package svd

import (
	"encoding/xml"
	"fmt"
)

// Hex32 marshals as fixed-width hexadecimal with the 0x prefix, the
// form downstream SVD consumers expect for addresses and reset
// values.
type Hex32 uint64

func (h Hex32) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return e.EncodeElement(fmt.Sprintf("0x%08X", uint64(h)), start)
}

// Hex marshals as minimal-width 0x hexadecimal.
type Hex uint64

func (h Hex) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return e.EncodeElement(fmt.Sprintf("%#x", uint64(h)), start)
}

type Device struct {
	XMLName         xml.Name      `xml:"device"`
	SchemaVersion   string        `xml:"schemaVersion,attr"`
	Name            string        `xml:"name"`
	Version         string        `xml:"version"`
	Description     string        `xml:"description"`
	AddressUnitBits uint          `xml:"addressUnitBits"`
	Width           uint          `xml:"width"`
	Size            uint          `xml:"size"`
	Access          string        `xml:"access"`
	ResetValue      Hex32         `xml:"resetValue"`
	ResetMask       Hex32         `xml:"resetMask"`
	Peripherals     []*Peripheral `xml:"peripherals>peripheral"`
}

type Peripheral struct {
	DerivedFrom string      `xml:"derivedFrom,attr,omitempty"`
	Name        string      `xml:"name"`
	Description string      `xml:"description,omitempty"`
	BaseAddress Hex32       `xml:"baseAddress"`
	Registers   []*Register `xml:"registers>register"`
	Clusters    []*Cluster  `xml:"registers>cluster"`
}

type Cluster struct {
	Name          string      `xml:"name"`
	Description   string      `xml:"description,omitempty"`
	AddressOffset Hex32       `xml:"addressOffset"`
	Registers     []*Register `xml:"register"`
}

type Register struct {
	Name          string   `xml:"name"`
	Description   string   `xml:"description,omitempty"`
	AddressOffset Hex32    `xml:"addressOffset"`
	Size          uint     `xml:"size"`
	Access        string   `xml:"access"`
	ResetValue    Hex32    `xml:"resetValue"`
	Fields        []*Field `xml:"fields>field"`
}

type Field struct {
	Name        string             `xml:"name"`
	Description string             `xml:"description,omitempty"`
	BitOffset   uint               `xml:"bitOffset"`
	BitWidth    uint               `xml:"bitWidth"`
	Access      string             `xml:"access,omitempty"`
	Enums       []*EnumeratedValue `xml:"enumeratedValues>enumeratedValue"`
}

type EnumeratedValue struct {
	Name        string `xml:"name"`
	Description string `xml:"description,omitempty"`
	Value       Hex    `xml:"value"`
}
