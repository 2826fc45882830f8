package mmio_test

import "omibyte.io/mmio"

// Register and field types as cmd/mmio-gen would emit them.

const testBase = 0x40000000

// CTRL mixes every field kind and has alias support.
type CTRL struct{}

func (CTRL) Descriptor() mmio.Descriptor {
	return mmio.Descriptor{Base: testBase, Offset: 0x04, Reset: 0, Aliases: true}
}

type CTRL_RW struct {
	mmio.Of[CTRL]
	mmio.ReadWrite
}

func (CTRL_RW) Span() mmio.Span { return mmio.Span{Offset: 0, Width: 4} }

type CTRL_RO struct {
	mmio.Of[CTRL]
	mmio.ReadOnly
}

func (CTRL_RO) Span() mmio.Span { return mmio.Span{Offset: 4, Width: 4} }

type CTRL_WO struct {
	mmio.Of[CTRL]
	mmio.WriteOnly
}

func (CTRL_WO) Span() mmio.Span { return mmio.Span{Offset: 12, Width: 1} }

type CTRL_ANY struct {
	mmio.Of[CTRL]
	mmio.ReadWrite
}

func (CTRL_ANY) Span() mmio.Span { return mmio.Span{Offset: 13, Width: 3} }

type CTRL_SC struct {
	mmio.Of[CTRL]
	mmio.SelfClearing
}

func (CTRL_SC) Span() mmio.Span { return mmio.Span{Offset: 20, Width: 4} }

type CTRL_WC struct {
	mmio.Of[CTRL]
	mmio.WriteClear
}

func (CTRL_WC) Span() mmio.Span { return mmio.Span{Offset: 28, Width: 4} }

const (
	CTRL_RW_BIT0 = mmio.Bit[CTRL, CTRL_RW](0)
	CTRL_RW_BIT1 = mmio.Bit[CTRL, CTRL_RW](1)
	CTRL_RW_BIT2 = mmio.Bit[CTRL, CTRL_RW](2)
	CTRL_RW_BIT3 = mmio.Bit[CTRL, CTRL_RW](3)

	CTRL_ANY_BIT0 = mmio.Bit[CTRL, CTRL_ANY](0)
	CTRL_ANY_BIT2 = mmio.Bit[CTRL, CTRL_ANY](2)

	CTRL_SC_BIT0 = mmio.Bit[CTRL, CTRL_SC](0)
	CTRL_WC_BIT1 = mmio.Bit[CTRL, CTRL_WC](1)
	CTRL_WO_BIT0 = mmio.Bit[CTRL, CTRL_WO](0)
)

// PLAIN has no alias support and a non-zero reset value.
type PLAIN struct{}

func (PLAIN) Descriptor() mmio.Descriptor {
	return mmio.Descriptor{Base: testBase, Offset: 0x08, Reset: 0x0001_00F0}
}

type PLAIN_LO struct {
	mmio.Of[PLAIN]
	mmio.ReadWrite
}

func (PLAIN_LO) Span() mmio.Span { return mmio.Span{Offset: 0, Width: 8, Reset: 0xF0} }

type PLAIN_HI struct {
	mmio.Of[PLAIN]
	mmio.ReadWrite
}

func (PLAIN_HI) Span() mmio.Span { return mmio.Span{Offset: 8, Width: 8} }

type PLAIN_WC struct {
	mmio.Of[PLAIN]
	mmio.WriteClear
}

func (PLAIN_WC) Span() mmio.Span { return mmio.Span{Offset: 16, Width: 1, Reset: 1} }

// STATUS is read-only.
type STATUS struct{}

func (STATUS) Descriptor() mmio.Descriptor {
	return mmio.Descriptor{Base: testBase, Offset: 0x0C, Aliases: true}
}

type STATUS_STATE struct {
	mmio.Of[STATUS]
	mmio.ReadOnly
}

func (STATUS_STATE) Span() mmio.Span { return mmio.Span{Offset: 0, Width: 4} }

type STATUS_COUNT struct {
	mmio.Of[STATUS]
	mmio.ReadOnly
}

func (STATUS_COUNT) Span() mmio.Span { return mmio.Span{Offset: 4, Width: 8} }

const (
	STATUS_STATE_IDLE = mmio.Value[STATUS, STATUS_STATE](0)
	STATUS_STATE_BUSY = mmio.Value[STATUS, STATUS_STATE](3)
)

// TRIG is write-only.
type TRIG struct{}

func (TRIG) Descriptor() mmio.Descriptor {
	return mmio.Descriptor{Base: testBase, Offset: 0x10, Reset: 0x0000_0300, Aliases: true}
}

type TRIG_GO struct {
	mmio.Of[TRIG]
	mmio.WriteOnly
}

func (TRIG_GO) Span() mmio.Span { return mmio.Span{Offset: 0, Width: 1} }

type TRIG_CH struct {
	mmio.Of[TRIG]
	mmio.WriteOnly
}

func (TRIG_CH) Span() mmio.Span { return mmio.Span{Offset: 4, Width: 3} }

type TRIG_DIV struct {
	mmio.Of[TRIG]
	mmio.WriteOnly
}

func (TRIG_DIV) Span() mmio.Span { return mmio.Span{Offset: 8, Width: 4, Reset: 3} }

func ctrlAddr() uintptr   { return CTRL{}.Descriptor().Address() }
func plainAddr() uintptr  { return PLAIN{}.Descriptor().Address() }
func statusAddr() uintptr { return STATUS{}.Descriptor().Address() }
func trigAddr() uintptr   { return TRIG{}.Descriptor().Address() }
