// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package convert runs the whole EDC to SVD pipeline: parse, map,
// emit. Each conversion is a pure function of its input document; the
// package holds no state between calls, so independent conversions
// may run concurrently.
package convert

import (
	"bytes"
	"log/slog"
	"os"

	"github.com/pic32go/edc2svd/edc"
	"github.com/pic32go/edc2svd/hdm"
	"github.com/pic32go/edc2svd/mapper"
	"github.com/pic32go/edc2svd/svd"
)

// Options configures a conversion. The zero value converts with the
// built-in rules and no trace output.
type Options struct {
	Rules *mapper.Rules // optional rules file content
	Log   *slog.Logger  // optional conversion trace
}

// Mapped parses src and applies the mapping passes, returning the
// mapped device tree. Most callers want Bytes or File; this entry
// point exists for inspecting the intermediate model.
func Mapped(src []byte, opts *Options) (*hdm.Device, error) {
	if opts == nil {
		opts = new(Options)
	}
	tokens, err := opts.Rules.TokenTable(edc.DefaultAccessTokens())
	if err != nil {
		return nil, err
	}
	dev, symtab, err := edc.Parse(bytes.NewReader(src), &edc.Options{
		AccessTokens: tokens,
		KSEG1:        opts.Rules.KSEG1(),
		Log:          opts.Log,
	})
	if err != nil {
		return nil, err
	}
	if err := mapper.Map(dev, symtab, opts.Rules.Options()); err != nil {
		return nil, err
	}
	return dev, nil
}

// Bytes converts one EDC document into an SVD document.
func Bytes(src []byte, opts *Options) ([]byte, error) {
	dev, err := Mapped(src, opts)
	if err != nil {
		return nil, err
	}
	return svd.Emit(dev)
}

// File converts the document at in and writes the result to out. The
// output file is created only after the whole conversion succeeded; a
// failing conversion leaves no partial file behind.
func File(in, out string, opts *Options) error {
	src, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	data, err := Bytes(src, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(out, data, 0644)
}
