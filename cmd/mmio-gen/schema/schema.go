// Package schema is the register description consumed by mmio-gen.
package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"omibyte.io/mmio"
)

// Register access classes.
const (
	AccessReadOnly  = "read-only"
	AccessWriteOnly = "write-only"
	AccessReadWrite = "read-write"
)

// Device is a register description file.
type Device struct {
	Package            string       `yaml:"package,omitempty"`
	Aliases            bool         `yaml:"aliases"`                      // default for peripherals
	AssumeReservedZero *bool        `yaml:"assumeReservedZero,omitempty"` // reserved bits read as zero, default true
	Peripherals        []Peripheral `yaml:"peripherals"`
}

// ReservedZero reports whether reserved register bits may be assumed to read
// as zero. It holds unless the file opts out.
func (d *Device) ReservedZero() bool {
	return d.AssumeReservedZero == nil || *d.AssumeReservedZero
}

type Peripheral struct {
	Name        string     `yaml:"name"`
	Base        uint64     `yaml:"base"`
	Description string     `yaml:"description,omitempty"`
	DerivedFrom string     `yaml:"derivedFrom,omitempty"`
	Aliases     *bool      `yaml:"aliases,omitempty"` // overrides Device.Aliases
	Registers   []Register `yaml:"registers,omitempty"`
}

// HasAliases reports whether the registers of p have atomic alias windows
// given the device default.
func (p Peripheral) HasAliases(def bool) bool {
	if p.Aliases != nil {
		return *p.Aliases
	}
	return def
}

type Register struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Offset      uint64  `yaml:"offset"`
	Reset       uint32  `yaml:"reset,omitempty"`
	Access      string  `yaml:"access,omitempty"` // read-only, write-only or read-write
	Fields      []Field `yaml:"fields,omitempty"`
}

// RegisterAccess returns the access class of r, read-write when unset.
func (r Register) RegisterAccess() string {
	if r.Access == "" {
		return AccessReadWrite
	}
	return r.Access
}

type Field struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Offset      uint8       `yaml:"offset"`
	Width       uint8       `yaml:"width"`
	Access      string      `yaml:"access,omitempty"` // a field kind, see mmio.FieldKind
	Reset       uint32      `yaml:"reset,omitempty"`
	Values      []EnumValue `yaml:"values,omitempty"`
}

// Span returns the bit placement of f.
func (f Field) Span() mmio.Span {
	return mmio.Span{Offset: f.Offset, Width: f.Width, Reset: f.Reset}
}

type EnumValue struct {
	Name        string `yaml:"name"`
	Value       uint32 `yaml:"value"`
	Description string `yaml:"description,omitempty"`
}

// Kind returns the field kind of f inside a register of the given access.
// Without an explicit access the field follows its register.
func (f Field) Kind(registerAccess string) (mmio.FieldKind, error) {
	access := f.Access
	if access == "" {
		access = registerAccess
	}
	if access == "" {
		access = AccessReadWrite
	}
	return mmio.ParseFieldKind(access)
}

// Load reads and validates the description at path.
func Load(path string) (*Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	d, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a description, resolves derived peripherals and validates
// the result.
func Parse(r io.Reader) (*Device, error) {
	var d Device
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	if err := d.Resolve(); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Encode writes d as YAML.
func (d *Device) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// Peripheral returns the peripheral called name.
func (d *Device) Peripheral(name string) (*Peripheral, bool) {
	for i := range d.Peripherals {
		if d.Peripherals[i].Name == name {
			return &d.Peripherals[i], true
		}
	}
	return nil, false
}
