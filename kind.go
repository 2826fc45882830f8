// Package mmio provides typed access to memory-mapped 32-bit hardware
// registers.
//
// A register is described by a zero-size type implementing Register and its
// fields by zero-size types embedding Of[R] and one of the kind markers
// (ReadOnly, WriteOnly, ReadWrite, SelfClearing, WriteClear). The Go type
// checker then rejects fields of other registers and operations outside a
// field's capabilities. Such types are normally produced by cmd/mmio-gen.
//
// None of the operations lock. Operations that go through an atomic alias
// address are safe against concurrent writers of the same register; the
// read-modify-write fallbacks are not, and callers sharing a register with an
// interrupt handler must mask interrupts around them.
package mmio

import "fmt"

// FieldKind is the access class of a register field.
type FieldKind uint8

const (
	KindReadOnly FieldKind = iota
	KindWriteOnly
	KindReadWrite
	KindSelfClearing
	KindWriteClear
)

var kindNames = [...]string{
	KindReadOnly:     "read-only",
	KindWriteOnly:    "write-only",
	KindReadWrite:    "read-write",
	KindSelfClearing: "self-clearing",
	KindWriteClear:   "write-clear",
}

func (k FieldKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("FieldKind(%d)", uint8(k))
}

// ParseFieldKind returns the kind named by s, as printed by String.
func ParseFieldKind(s string) (FieldKind, error) {
	for k, name := range kindNames {
		if name == s {
			return FieldKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown field kind %q", s)
}

// Readable reports whether the field value can be read back.
func (k FieldKind) Readable() bool {
	return k != KindWriteOnly
}

// Settable reports whether the field can be written.
func (k FieldKind) Settable() bool {
	return k != KindReadOnly
}

// Clearable reports whether the whole field can be cleared. WriteClear fields
// are cleared by writing their clear value instead of zero.
func (k FieldKind) Clearable() bool {
	return k == KindReadWrite || k == KindWriteClear
}

// BitClearable reports whether individual bits can be cleared.
func (k FieldKind) BitClearable() bool {
	return k == KindReadWrite
}

// BitTogglable reports whether individual bits can be toggled.
func (k FieldKind) BitTogglable() bool {
	return k == KindReadWrite
}

// ClearValue is the value that clears a field of this kind.
func (k FieldKind) ClearValue() uint32 {
	if k == KindWriteClear {
		return 1
	}
	return 0
}

// Kind markers. A field type embeds exactly one of them; the unexported
// methods are the capabilities checked by the constraints in field.go.
type (
	ReadOnly     struct{}
	WriteOnly    struct{}
	ReadWrite    struct{}
	SelfClearing struct{}
	WriteClear   struct{}
)

func (ReadOnly) Kind() FieldKind { return KindReadOnly }
func (ReadOnly) readable()       {}

func (WriteOnly) Kind() FieldKind { return KindWriteOnly }
func (WriteOnly) settable()       {}

func (ReadWrite) Kind() FieldKind { return KindReadWrite }
func (ReadWrite) readable()       {}
func (ReadWrite) settable()       {}
func (ReadWrite) clearable()      {}
func (ReadWrite) bitClearable()   {}
func (ReadWrite) bitTogglable()   {}

func (SelfClearing) Kind() FieldKind { return KindSelfClearing }
func (SelfClearing) readable()       {}
func (SelfClearing) settable()       {}

func (WriteClear) Kind() FieldKind { return KindWriteClear }
func (WriteClear) readable()       {}
func (WriteClear) settable()       {}
func (WriteClear) clearable()      {}
