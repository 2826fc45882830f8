package mmio

import (
	"errors"
	"fmt"
)

// ErrValueOverflow is returned by NewValue for values wider than the field.
var ErrValueOverflow = errors.New("value does not fit field")

// Bit is a bit position relative to the first bit of field F of register R.
//
// Generated code declares BIT0..BITn constants per field. A position past the
// field width is not rejected; it selects no bit at all.
type Bit[R Register, F Field[R]] uint8

// Mask returns the register bitmask selecting b.
func (b Bit[R, F]) Mask() uint32 {
	var f F
	return f.Span().Bits(uint8(b))
}

// Value is the full value of field F of register R, unshifted.
//
// Conversions from untyped constants and runtime integers are not checked
// against the field width; the excess bits are dropped when the value is
// written, so they never reach neighbouring fields. Use NewValue for a checked
// conversion.
type Value[R Register, F Field[R]] uint32

// NewValue converts v after checking that it fits the field.
func NewValue[R Register, F Field[R]](v uint32) (Value[R, F], error) {
	var f F
	if s := f.Span(); !s.Fits(v) {
		return 0, fmt.Errorf("%#x in %d-bit field: %w", v, s.Width, ErrValueOverflow)
	}
	return Value[R, F](v), nil
}

// ValueFrom extracts the value of field F from a raw register value.
func ValueFrom[R Register, F Field[R]](register uint32) Value[R, F] {
	var f F
	return Value[R, F](f.Span().Extract(register))
}

// Raw returns the unshifted value.
func (v Value[R, F]) Raw() uint32 {
	return uint32(v)
}

// Shifted returns the value in its register position.
func (v Value[R, F]) Shifted() uint32 {
	var f F
	return f.Span().Insert(uint32(v))
}
