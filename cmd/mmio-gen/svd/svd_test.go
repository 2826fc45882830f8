package svd

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/mmio"
	"omibyte.io/mmio/cmd/mmio-gen/schema"
)

const device = `<?xml version="1.0" encoding="utf-8"?>
<device schemaVersion="1.1">
  <name>RP2040</name>
  <version>0.1</version>
  <cpu><name>CM0PLUS</name><revision>r0p1</revision><endian>little</endian></cpu>
  <width>32</width>
  <size>32</size>
  <access>read-write</access>
  <resetValue>0x00000000</resetValue>
  <peripherals>
    <peripheral>
      <name>TIMER</name>
      <description>Controls
        time</description>
      <baseAddress>0x40054000</baseAddress>
      <registers>
        <register>
          <name>CTRL</name>
          <addressOffset>0x04</addressOffset>
          <resetValue>0x00000031</resetValue>
          <fields>
            <field><name>EN</name><bitOffset>0</bitOffset><bitWidth>1</bitWidth></field>
            <field>
              <name>MODE</name>
              <bitRange>[6:4]</bitRange>
              <enumeratedValues>
                <enumeratedValue><name>ONESHOT</name><value>0</value></enumeratedValue>
                <enumeratedValue><name>PERIODIC</name><value>#011</value></enumeratedValue>
                <enumeratedValue><name>9BIT</name><value>0x9</value></enumeratedValue>
                <enumeratedValue><name>OTHER</name><isDefault>true</isDefault></enumeratedValue>
              </enumeratedValues>
            </field>
            <field><name>BUSY</name><lsb>8</lsb><msb>8</msb><access>read-only</access></field>
            <field>
              <name>IRQ</name><bitOffset>16</bitOffset><bitWidth>2</bitWidth>
              <modifiedWriteValues>oneToClear</modifiedWriteValues>
            </field>
            <field>
              <name>START</name><bitOffset>20</bitOffset>
              <description>Self-clearing start bit.</description>
            </field>
          </fields>
        </register>
        <register>
          <name>STATUS</name>
          <addressOffset>0x08</addressOffset>
          <access>read-only</access>
        </register>
        <register derivedFrom="STATUS">
          <name>STATUS_RAW</name>
          <addressOffset>0x0c</addressOffset>
        </register>
        <register>
          <name>ALARM%s</name>
          <addressOffset>0x10</addressOffset>
          <dim>4</dim>
          <dimIncrement>4</dimIncrement>
          <access>write-only</access>
        </register>
        <cluster>
          <name>CH[%s]</name>
          <dim>2</dim>
          <dimIncrement>0x20</dimIncrement>
          <addressOffset>0x40</addressOffset>
          <register>
            <name>CFG</name>
            <addressOffset>0x4</addressOffset>
          </register>
        </cluster>
      </registers>
    </peripheral>
    <peripheral derivedFrom="TIMER">
      <name>TIMER1</name>
      <baseAddress>0x40058000</baseAddress>
    </peripheral>
  </peripherals>
</device>`

func convert(t *testing.T) *schema.Device {
	t.Helper()
	d, err := Decode(strings.NewReader(device))
	require.NoError(t, err)
	out, err := Convert(d, Options{Aliases: true})
	require.NoError(t, err)
	return out
}

func register(t *testing.T, p *schema.Peripheral, name string) schema.Register {
	t.Helper()
	for _, r := range p.Registers {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no register %s in %s", name, p.Name)
	return schema.Register{}
}

func TestDecode(t *testing.T) {
	d, err := Decode(strings.NewReader(device))
	require.NoError(t, err)

	assert.Equal(t, "RP2040", d.Name)
	assert.Equal(t, "CM0PLUS", d.CPU.Name)
	assert.Equal(t, Integer(32), d.RegisterSize)
	require.Len(t, d.Peripherals.Elements, 2)

	i, ok := d.Peripherals.Find("TIMER1")
	require.True(t, ok)
	assert.Equal(t, "TIMER", d.Peripherals.Elements[i].DerivedFrom)
	assert.Equal(t, Integer(0x40058000), d.Peripherals.Elements[i].BaseAddress)
}

func TestConvertDevice(t *testing.T) {
	out := convert(t)

	assert.Equal(t, "rp2040", out.Package)
	assert.True(t, out.Aliases)
	require.Len(t, out.Peripherals, 2)

	timer, ok := out.Peripheral("TIMER")
	require.True(t, ok)
	assert.Equal(t, uint64(0x40054000), timer.Base)
	assert.Equal(t, "Controls time", timer.Description)

	names := make([]string, len(timer.Registers))
	for i, r := range timer.Registers {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		"CTRL", "STATUS", "STATUS_RAW",
		"ALARM0", "ALARM1", "ALARM2", "ALARM3",
		"CH0_CFG", "CH1_CFG",
	}, names)

	timer1, ok := out.Peripheral("TIMER1")
	require.True(t, ok)
	assert.Equal(t, timer.Registers, timer1.Registers)
}

func TestConvertFields(t *testing.T) {
	out := convert(t)
	timer, _ := out.Peripheral("TIMER")
	ctrl := register(t, timer, "CTRL")

	assert.Equal(t, uint64(0x04), ctrl.Offset)
	assert.Equal(t, uint32(0x31), ctrl.Reset)
	assert.Equal(t, schema.AccessReadWrite, ctrl.Access)

	tests := []struct {
		name   string
		offset uint8
		width  uint8
		kind   mmio.FieldKind
		reset  uint32
	}{
		{"EN", 0, 1, mmio.KindReadWrite, 1},
		{"MODE", 4, 3, mmio.KindReadWrite, 3},
		{"BUSY", 8, 1, mmio.KindReadOnly, 0},
		{"IRQ", 16, 2, mmio.KindWriteClear, 0},
		{"START", 20, 1, mmio.KindSelfClearing, 0},
	}
	require.Len(t, ctrl.Fields, len(tests))
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ctrl.Fields[i]
			assert.Equal(t, tt.name, f.Name)
			assert.Equal(t, tt.offset, f.Offset)
			assert.Equal(t, tt.width, f.Width)
			assert.Equal(t, tt.kind.String(), f.Access)
			assert.Equal(t, tt.reset, f.Reset)
		})
	}

	// The default is dropped and the value too wide for three bits skipped.
	assert.Equal(t, []schema.EnumValue{
		{Name: "ONESHOT", Value: 0},
		{Name: "PERIODIC", Value: 3},
	}, ctrl.Fields[1].Values)
}

func TestConvertRegisterShapes(t *testing.T) {
	out := convert(t)
	timer, _ := out.Peripheral("TIMER")

	status := register(t, timer, "STATUS")
	assert.Equal(t, schema.AccessReadOnly, status.Access)
	require.Len(t, status.Fields, 1)
	assert.Equal(t, "VALUE", status.Fields[0].Name)
	assert.Equal(t, uint8(32), status.Fields[0].Width)

	raw := register(t, timer, "STATUS_RAW")
	assert.Equal(t, uint64(0x0c), raw.Offset)
	assert.Equal(t, schema.AccessReadOnly, raw.Access)

	alarm := register(t, timer, "ALARM2")
	assert.Equal(t, uint64(0x18), alarm.Offset)
	assert.Equal(t, schema.AccessWriteOnly, alarm.Access)

	cfg := register(t, timer, "CH1_CFG")
	assert.Equal(t, uint64(0x64), cfg.Offset)
}

func TestConvertUnsupported(t *testing.T) {
	d := &DeviceElement{
		Name:         "X",
		RegisterSize: 16,
		Peripherals: PeripheralsElement{Elements: []PeripheralElement{{
			Name:        "P",
			BaseAddress: 0x40000000,
			Registers: RegistersElement{RegisterElements: []RegisterElement{
				{Name: "HALF", AddressOffset: 0},
			}},
		}}},
	}
	_, err := Convert(d, Options{})
	assert.ErrorIs(t, err, ErrUnsupported)

	d.RegisterSize = 32
	d.Peripherals.Elements[0].Registers.RegisterElements[0].Fields.Elements = []FieldElement{
		{Name: "F", Access: "sometimes", BitRange: "[3:0]"},
	}
	_, err = Convert(d, Options{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestIntegerFormats(t *testing.T) {
	tests := []struct {
		in   string
		want Integer
	}{
		{"42", 42},
		{"0x2A", 42},
		{"0X2a", 42},
		{"#101010", 42},
		{" 7 ", 7},
	}
	for _, tt := range tests {
		var got struct {
			V Integer `xml:"v"`
		}
		require.NoError(t, xml.Unmarshal([]byte("<x><v>"+tt.in+"</v></x>"), &got), tt.in)
		assert.Equal(t, tt.want, got.V, tt.in)
	}

	var bad Integer
	assert.Error(t, bad.parse("#1x0"))
}

func TestDimIndices(t *testing.T) {
	tests := []struct {
		index string
		n     int
		want  []string
	}{
		{"", 3, []string{"0", "1", "2"}},
		{"2-4", 3, []string{"2", "3", "4"}},
		{"A-C", 3, []string{"A", "B", "C"}},
		{"rx, tx", 2, []string{"rx", "tx"}},
	}
	for _, tt := range tests {
		got, err := dimIndices(tt.index, tt.n)
		require.NoError(t, err, tt.index)
		assert.Equal(t, tt.want, got, tt.index)
	}

	_, err := dimIndices("0-1", 3)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "CTRL", Identifier("CTRL"))
	assert.Equal(t, "_9BIT", Identifier("9BIT"))
	assert.Equal(t, "A_B_C", Identifier("A-B.C"))
	assert.Equal(t, "", Identifier(""))
}
