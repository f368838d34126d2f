// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Edc2svd converts MCU register descriptions from the EDC format to
// the SVD format.
//
// Usage:
//
//	edc2svd [options] INPUT.edc OUTPUT.svd
//	edc2svd [options] -outdir DIR INPUT.edc...
//
// In the second form every input is converted concurrently and the
// output name is the input base name with the .svd extension.
// Diagnostics go to stderr; the exit code is non-zero on any failed
// conversion.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"

	"github.com/pic32go/edc2svd/convert"
	"github.com/pic32go/edc2svd/mapper"
	"github.com/pic32go/edc2svd/svd"
)

var (
	verbose = flag.Bool("v", false, "trace peripherals and registers while converting")
	rules   = flag.String("rules", "", "YAML rules `file` (access tokens, derivation matching)")
	dump    = flag.Bool("dump", false, "dump the mapped model to stderr")
	outdir  = flag.String("outdir", "", "convert all inputs into `dir`")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: edc2svd [options] INPUT.edc OUTPUT.svd")
		fmt.Fprintln(os.Stderr, "       edc2svd [options] -outdir DIR INPUT.edc...")
		flag.PrintDefaults()
	}
	flag.Parse()

	opts := &convert.Options{Log: logger()}
	if *rules != "" {
		r, err := mapper.LoadRules(*rules)
		if err != nil {
			die(err)
		}
		opts.Rules = r
	}

	args := flag.Args()
	switch {
	case *outdir != "":
		if len(args) == 0 {
			flag.Usage()
			os.Exit(1)
		}
		g := new(errgroup.Group)
		for _, in := range args {
			in := in
			g.Go(func() error {
				out := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
				return convertOne(in, filepath.Join(*outdir, out+".svd"), opts)
			})
		}
		if err := g.Wait(); err != nil {
			die(err)
		}
	case len(args) == 2:
		if err := convertOne(args[0], args[1], opts); err != nil {
			die(err)
		}
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func convertOne(in, out string, opts *convert.Options) error {
	if !*dump {
		return convert.File(in, out, opts)
	}
	src, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	dev, err := convert.Mapped(src, opts)
	if err != nil {
		return err
	}
	spew.Fdump(os.Stderr, dev)
	data, err := svd.Emit(dev)
	if err != nil {
		return err
	}
	return os.WriteFile(out, data, 0644)
}

func logger() *slog.Logger {
	if *verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func die(err error) {
	fmt.Fprintln(os.Stderr, "edc2svd:", err)
	os.Exit(1)
}
