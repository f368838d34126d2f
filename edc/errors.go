// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edc

import "fmt"

// MalformedError reports source input that is not well-formed EDC or
// is missing a required structural element.
type MalformedError struct {
	Path string // element path of the offending node
	Msg  string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed source at %s: %s", e.Path, e.Msg)
}

// MissingAttributeError reports a required attribute that is absent
// and has no defaulting rule.
type MissingAttributeError struct {
	Path string
	Attr string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: required attribute %q is missing", e.Path, e.Attr)
}
