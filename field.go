package mmio

// RegisterWidth is the width of every register in bits.
const RegisterWidth = 32

// Span is the position of a field inside its register.
type Span struct {
	// Offset is the index of the least significant bit of the field.
	Offset uint8
	// Width is the number of bits in the field.
	Width uint8
	// Reset is the (unshifted) field value after reset.
	Reset uint32
	// Sole marks the only field of a register. Extract then skips masking,
	// which is valid as long as the reserved bits of the register read as zero.
	Sole bool
}

// Mask has Width bits set starting at Offset.
func (s Span) Mask() uint32 {
	return (^uint32(0) >> (RegisterWidth - s.Width)) << s.Offset
}

// Insert converts a field value into its register representation.
func (s Span) Insert(v uint32) uint32 {
	return (v << s.Offset) & s.Mask()
}

// Extract returns the field value held in the register value r.
func (s Span) Extract(r uint32) uint32 {
	if s.Sole {
		return r >> s.Offset
	}
	return (r & s.Mask()) >> s.Offset
}

// Bits returns the register mask of the given field-relative bit positions.
// Positions past the field width are dropped.
func (s Span) Bits(positions ...uint8) uint32 {
	var m uint32
	for _, p := range positions {
		m |= 1 << p
	}
	return (m << s.Offset) & s.Mask()
}

// Fits reports whether v can be stored in the field without truncation.
func (s Span) Fits(v uint32) bool {
	return v <= s.Mask()>>s.Offset
}

// Valid reports whether the span lies inside a register.
func (s Span) Valid() bool {
	return s.Width > 0 && int(s.Offset)+int(s.Width) <= RegisterWidth
}

// Of binds a field type to its register. Field types embed it next to a kind
// marker:
//
//	type CTRL_EN struct {
//		mmio.Of[CTRL]
//		mmio.ReadWrite
//	}
//
//	func (CTRL_EN) Span() mmio.Span { return mmio.Span{Offset: 0, Width: 1} }
type Of[R Register] struct{}

func (Of[R]) owner() R {
	var r R
	return r
}

// Field is satisfied by the field types of register R.
type Field[R Register] interface {
	comparable
	Span() Span
	Kind() FieldKind
	owner() R
}

// Readable is satisfied by fields of R whose value can be read.
type Readable[R Register] interface {
	Field[R]
	readable()
}

// Settable is satisfied by fields of R that can be written.
type Settable[R Register] interface {
	Field[R]
	settable()
}

// Clearable is satisfied by fields of R that can be cleared as a whole.
type Clearable[R Register] interface {
	Field[R]
	clearable()
}

// BitClearable is satisfied by fields of R whose bits can be cleared
// individually.
type BitClearable[R Register] interface {
	Field[R]
	bitClearable()
}

// BitTogglable is satisfied by fields of R whose bits can be toggled.
type BitTogglable[R Register] interface {
	Field[R]
	bitTogglable()
}

// SpanOf returns the span of field F.
func SpanOf[R Register, F Field[R]]() Span {
	var f F
	return f.Span()
}

// MaskOf returns the register bitmask of field F.
func MaskOf[R Register, F Field[R]]() uint32 {
	var f F
	return f.Span().Mask()
}

// ResetValue returns the value of field F after reset.
func ResetValue[R Register, F Field[R]]() Value[R, F] {
	var f F
	return Value[R, F](f.Span().Reset)
}

// ClearValue returns the value that clears field F: 1 for write-clear fields
// and 0 for the others.
func ClearValue[R Register, F Clearable[R]]() Value[R, F] {
	var f F
	return Value[R, F](f.Kind().ClearValue())
}
