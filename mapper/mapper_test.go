// Copyright 2025 The PIC32 Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pic32go/edc2svd/hdm"
	"github.com/pic32go/edc2svd/mapper"
)

func reg(name string, offset uint64, fields ...*hdm.Field) *hdm.Register {
	return &hdm.Register{
		Name: name, Offset: offset, Size: 32,
		Access: hdm.AccessReadWrite, Fields: fields,
	}
}

func TestIdent(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{
		"PORT":      "PORT",
		"AD1PCFG":   "AD1PCFG",
		"_reserved": "_reserved",
		"my-reg":    "my_reg",
		"1WIRE":     "_1WIRE",
		"a.b c":     "a_b_c",
		"":          "_",
	} {
		assert.Equal(t, want, mapper.Ident(in), "Ident(%q)", in)
	}
}

func TestSanitizeSuffixes(t *testing.T) {
	t.Parallel()
	dev := &hdm.Device{
		Name: "P32", Width: 32, Size: 32, Access: hdm.AccessReadWrite,
		Peripherals: []*hdm.Peripheral{{
			Name: "GPIO-A", Base: 0x1000,
			Registers: []*hdm.Register{
				reg("P.R", 0),
				reg("P R", 4),
				reg("P_R", 8),
			},
		}},
	}
	require.NoError(t, mapper.Map(dev, nil, mapper.DefaultOptions()))

	p := dev.Peripherals[0]
	assert.Equal(t, "GPIO_A", p.Name)
	names := []string{p.Registers[0].Name, p.Registers[1].Name, p.Registers[2].Name}
	assert.Equal(t, []string{"P_R", "P_R_1", "P_R_2"}, names,
		"first-seen order decides the suffixes")
}

func TestSanitizeCaseCollision(t *testing.T) {
	t.Parallel()
	dev := &hdm.Device{
		Name: "P32", Width: 32, Size: 32, Access: hdm.AccessReadWrite,
		Peripherals: []*hdm.Peripheral{{
			Name: "U", Base: 0x1000,
			Registers: []*hdm.Register{
				reg("STA", 0),
				reg("sta", 4),
				reg("Sta", 8),
			},
		}},
	}
	require.NoError(t, mapper.Map(dev, nil, mapper.DefaultOptions()))

	p := dev.Peripherals[0]
	names := []string{p.Registers[0].Name, p.Registers[1].Name, p.Registers[2].Name}
	assert.Equal(t, []string{"STA", "sta_1", "Sta_2"}, names,
		"names differing only in letter case are suffixed")
}

func TestSanitizeCollision(t *testing.T) {
	t.Parallel()
	dev := &hdm.Device{
		Name: "P32", Width: 32, Size: 32, Access: hdm.AccessReadWrite,
		Peripherals: []*hdm.Peripheral{{
			Name: "U", Base: 0x1000,
			Registers: []*hdm.Register{
				reg("MODE", 0),
				reg("MODE", 4), // same name, different offset
			},
		}},
	}
	err := mapper.Map(dev, nil, mapper.DefaultOptions())
	var cerr *mapper.NameCollisionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "MODE", cerr.Name)
}

func TestSanitizeDropsExactDuplicates(t *testing.T) {
	t.Parallel()
	dev := &hdm.Device{
		Name: "P32", Width: 32, Size: 32, Access: hdm.AccessReadWrite,
		Peripherals: []*hdm.Peripheral{{
			Name: "U", Base: 0x1000,
			Registers: []*hdm.Register{
				reg("MODE", 0),
				reg("MODE", 0),
			},
		}},
	}
	require.NoError(t, mapper.Map(dev, nil, mapper.DefaultOptions()))
	assert.Len(t, dev.Peripherals[0].Registers, 1)
}

func TestDerive(t *testing.T) {
	t.Parallel()
	layout := func() []*hdm.Register {
		return []*hdm.Register{
			reg("MODE", 0, &hdm.Field{Name: "ON", Offset: 15, Width: 1}),
			reg("STA", 4),
		}
	}
	dev := &hdm.Device{
		Name: "P32", Width: 32, Size: 32, Access: hdm.AccessReadWrite,
		Peripherals: []*hdm.Peripheral{
			{Name: "UART1", Base: 0x1000, Registers: layout()},
			{Name: "UART2", Base: 0x2000, Registers: layout()},
			{Name: "SPI1", Base: 0x3000, Registers: []*hdm.Register{reg("BUF", 0)}},
		},
	}
	require.NoError(t, mapper.Map(dev, nil, mapper.DefaultOptions()))

	u1, u2, s1 := dev.Peripherals[0], dev.Peripherals[1], dev.Peripherals[2]
	assert.Empty(t, u1.DerivedFrom)
	assert.Len(t, u1.Registers, 2, "base keeps the full layout")
	assert.Equal(t, "UART1", u2.DerivedFrom)
	assert.Empty(t, u2.Registers, "derived peripheral drops its copy")
	assert.Empty(t, s1.DerivedFrom, "different layout stays independent")
}

func TestDeriveResetStrictness(t *testing.T) {
	t.Parallel()
	mk := func(reset uint64) *hdm.Device {
		r1 := reg("MODE", 0)
		r1.Reset, r1.HasReset = 0, true
		r2 := reg("MODE", 0)
		r2.Reset, r2.HasReset = reset, true
		return &hdm.Device{
			Name: "P32", Width: 32, Size: 32, Access: hdm.AccessReadWrite,
			Peripherals: []*hdm.Peripheral{
				{Name: "T1", Base: 0x1000, Registers: []*hdm.Register{r1}},
				{Name: "T2", Base: 0x2000, Registers: []*hdm.Register{r2}},
			},
		}
	}

	t.Run("strict", func(t *testing.T) {
		t.Parallel()
		dev := mk(0xff)
		require.NoError(t, mapper.Map(dev, nil, mapper.Options{CompareResets: true}))
		assert.Empty(t, dev.Peripherals[1].DerivedFrom)
	})

	t.Run("lenient", func(t *testing.T) {
		t.Parallel()
		dev := mk(0xff)
		require.NoError(t, mapper.Map(dev, nil, mapper.Options{CompareResets: false}))
		assert.Equal(t, "T1", dev.Peripherals[1].DerivedFrom)
	})
}

func TestAccessTranslation(t *testing.T) {
	t.Parallel()
	r1 := reg("INTSTA", 0, &hdm.Field{Name: "IF", Offset: 0, Width: 1,
		Access: hdm.AccessReadWriteClearOnRead})
	r1.Access = hdm.AccessReadWriteClearOnRead
	r1.Description = "interrupt status"
	r2 := reg("FIFO", 4)
	r2.Access = hdm.AccessWriteOnlyVolatile
	dev := &hdm.Device{
		Name: "P32", Width: 32, Size: 32, Access: hdm.AccessReadWrite,
		Peripherals: []*hdm.Peripheral{
			{Name: "INT", Base: 0x1000, Registers: []*hdm.Register{r1, r2}},
		},
	}
	require.NoError(t, mapper.Map(dev, nil, mapper.DefaultOptions()))

	assert.Equal(t, hdm.AccessReadWrite, r1.Access)
	assert.Equal(t, "interrupt status (cleared on read)", r1.Description)
	assert.Equal(t, hdm.AccessReadWrite, r1.Fields[0].Access)
	assert.Equal(t, "cleared on read", r1.Fields[0].Description,
		"a field without description gets the bare note")
	assert.Equal(t, hdm.AccessWriteOnly, r2.Access)
	assert.Contains(t, r2.Description, "write has side effects")
}

func TestEnumExtraction(t *testing.T) {
	t.Parallel()
	f := &hdm.Field{Name: "SEL", Offset: 0, Width: 2, EnumRef: "OSC_SEL"}
	dev := &hdm.Device{
		Name: "P32", Width: 32, Size: 32, Access: hdm.AccessReadWrite,
		Peripherals: []*hdm.Peripheral{
			{Name: "OSC", Base: 0x1000, Registers: []*hdm.Register{reg("CON", 0, f)}},
		},
	}
	symtab := hdm.SymbolTable{
		"OSC_SEL": {
			{Name: "FRC", Value: 0, Description: "fast RC"},
			{Name: "POSC", Value: 1},
		},
	}
	require.NoError(t, mapper.Map(dev, symtab, mapper.DefaultOptions()))

	assert.Empty(t, f.EnumRef, "reference is consumed")
	require.Len(t, f.Enums, 2)
	assert.Equal(t, "FRC", f.Enums[0].Name)
	assert.Equal(t, uint64(1), f.Enums[1].Value)

	// The table may be shared between fields; the inlined values must
	// not alias it.
	f.Enums[0].Name = "changed"
	assert.Equal(t, "FRC", symtab["OSC_SEL"][0].Name)
}

func TestResetPropagation(t *testing.T) {
	t.Parallel()
	r := reg("BUF", 0)
	dev := &hdm.Device{
		Name: "P32", Width: 32, Size: 32, Access: hdm.AccessReadWrite,
		Peripherals: []*hdm.Peripheral{
			{Name: "SPI1", Base: 0x1000, Registers: []*hdm.Register{r}},
		},
	}
	require.NoError(t, mapper.Map(dev, nil, mapper.DefaultOptions()))
	assert.True(t, r.HasReset)
	assert.Equal(t, uint64(0), r.Reset)
}
