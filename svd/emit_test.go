// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pic32go/edc2svd/hdm"
	"github.com/pic32go/edc2svd/svd"
)

func mappedDevice() *hdm.Device {
	return &hdm.Device{
		Name: "P32", Description: "P32 device",
		Width: 32, Size: 32, Access: hdm.AccessReadWrite,
		Peripherals: []*hdm.Peripheral{
			{
				Name: "UART1", Description: "UART1 peripheral", Base: 0x1f806000,
				Registers: []*hdm.Register{{
					Name: "MODE", Description: "MODE register",
					Offset: 0, Size: 32, Access: hdm.AccessReadWrite, HasReset: true,
					Fields: []*hdm.Field{{
						Name: "ON", Offset: 15, Width: 1,
						Enums: []*hdm.EnumValue{
							{Name: "OFF", Value: 0, Description: "disabled"},
							{Name: "RUN", Value: 1},
						},
					}},
				}},
			},
			{
				Name: "UART2", Description: "UART2 peripheral", Base: 0x1f806200,
				DerivedFrom: "UART1",
			},
		},
	}
}

func TestEmit(t *testing.T) {
	t.Parallel()
	out, err := svd.Emit(mappedDevice())
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, s, `<device schemaVersion="1.1">`)
	assert.Contains(t, s, "<addressUnitBits>8</addressUnitBits>")
	assert.Contains(t, s, "<resetMask>0xFFFFFFFF</resetMask>")
	assert.Contains(t, s, "<baseAddress>0x1F806000</baseAddress>")
	assert.Contains(t, s, "<addressOffset>0x00000000</addressOffset>")
	assert.Contains(t, s, "<access>read-write</access>")
	assert.Contains(t, s, "<bitOffset>15</bitOffset>")
	assert.Contains(t, s, "<bitWidth>1</bitWidth>")
	assert.Contains(t, s, "<enumeratedValue>")
	assert.Contains(t, s, "<value>0x1</value>")
	assert.Contains(t, s, `<peripheral derivedFrom="UART1">`)
	assert.NotContains(t, s, "<registers></registers>",
		"derived peripheral carries no register collection")
}

func TestEmitCluster(t *testing.T) {
	t.Parallel()
	dev := mappedDevice()
	dev.Peripherals[0].Clusters = []*hdm.Cluster{{
		Name: "RX", Offset: 0x40,
		Registers: []*hdm.Register{{
			Name: "BUF", Offset: 0, Size: 32,
			Access: hdm.AccessReadOnly, HasReset: true,
		}},
	}}
	out, err := svd.Emit(dev)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "<cluster>")
	assert.Contains(t, s, "<name>RX</name>")
	assert.Contains(t, s, "<addressOffset>0x00000040</addressOffset>")
	assert.Contains(t, s, "<access>read-only</access>")
}

func TestEmitDeterministic(t *testing.T) {
	t.Parallel()
	a, err := svd.Emit(mappedDevice())
	require.NoError(t, err)
	b, err := svd.Emit(mappedDevice())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEmitEscaping(t *testing.T) {
	t.Parallel()
	dev := mappedDevice()
	dev.Peripherals[0].Registers[0].Description = "TX & RX <mode>"
	out, err := svd.Emit(dev)
	require.NoError(t, err)
	assert.Contains(t, string(out), "TX &amp; RX &lt;mode&gt;")
}

func TestEmitDefensiveChecks(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name   string
		mutate func(*hdm.Device)
		want   string
	}{
		{
			"missing reset value",
			func(d *hdm.Device) { d.Peripherals[0].Registers[0].HasReset = false },
			"no reset value",
		},
		{
			"untranslated access mode",
			func(d *hdm.Device) { d.Peripherals[0].Registers[0].Access = hdm.AccessReadWriteClearOnRead },
			"untranslated access mode",
		},
		{
			"unresolved option list",
			func(d *hdm.Device) { d.Peripherals[0].Registers[0].Fields[0].EnumRef = "OSC_SEL" },
			"unresolved option list",
		},
		{
			"overlapping fields",
			func(d *hdm.Device) {
				r := d.Peripherals[0].Registers[0]
				r.Fields = append(r.Fields, &hdm.Field{Name: "X", Offset: 15, Width: 2})
			},
			"overlap",
		},
		{
			"dangling derivation",
			func(d *hdm.Device) { d.Peripherals[1].DerivedFrom = "UART9" },
			"dangling derivedFrom",
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dev := mappedDevice()
			tc.mutate(dev)
			_, err := svd.Emit(dev)
			var uerr *svd.UnrepresentableError
			require.ErrorAs(t, err, &uerr)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
