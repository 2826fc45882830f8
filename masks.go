package mmio

// The token types below can only be built by the generic constructors in this
// file, which check the capability of the field the bits or values belong to.
// Tokens of different fields of the same register combine with Or.

// BitSet is a set of readable bits of register R.
type BitSet[R Register] struct {
	mask uint32
}

// Probe selects readable bits of one field for IsAnyBitSet and AreAllBitsSet.
func Probe[R Register, F Readable[R]](bits ...Bit[R, F]) BitSet[R] {
	return BitSet[R]{mask: bitMask(bits)}
}

func (s BitSet[R]) Or(o BitSet[R]) BitSet[R] {
	return BitSet[R]{mask: s.mask | o.mask}
}

// Mask returns the selected register bits.
func (s BitSet[R]) Mask() uint32 {
	return s.mask
}

// SetMask is a set of bits of register R to be set.
type SetMask[R Register] struct {
	mask uint32
}

// Set selects bits of a settable field for SetBits.
func Set[R Register, F Settable[R]](bits ...Bit[R, F]) SetMask[R] {
	return SetMask[R]{mask: bitMask(bits)}
}

func (s SetMask[R]) Or(o SetMask[R]) SetMask[R] {
	return SetMask[R]{mask: s.mask | o.mask}
}

func (s SetMask[R]) Mask() uint32 {
	return s.mask
}

// ClearMask is a set of bits of register R to be cleared.
type ClearMask[R Register] struct {
	mask uint32
}

// Clear selects bits of a bit-clearable field for ClearBits.
func Clear[R Register, F BitClearable[R]](bits ...Bit[R, F]) ClearMask[R] {
	return ClearMask[R]{mask: bitMask(bits)}
}

func (s ClearMask[R]) Or(o ClearMask[R]) ClearMask[R] {
	return ClearMask[R]{mask: s.mask | o.mask}
}

func (s ClearMask[R]) Mask() uint32 {
	return s.mask
}

// ToggleMask is a set of bits of register R to be inverted.
type ToggleMask[R Register] struct {
	mask uint32
}

// Toggle selects bits of a bit-togglable field for ToggleBits.
func Toggle[R Register, F BitTogglable[R]](bits ...Bit[R, F]) ToggleMask[R] {
	return ToggleMask[R]{mask: bitMask(bits)}
}

func (s ToggleMask[R]) Or(o ToggleMask[R]) ToggleMask[R] {
	return ToggleMask[R]{mask: s.mask | o.mask}
}

func (s ToggleMask[R]) Mask() uint32 {
	return s.mask
}

// Assignment is a field value of register R ready to be written.
type Assignment[R Register] struct {
	mask uint32
	bits uint32
}

// Assign prepares v for SetFields and SetFieldsOverwrite.
func Assign[R Register, F Settable[R]](v Value[R, F]) Assignment[R] {
	var f F
	s := f.Span()
	return Assignment[R]{mask: s.Mask(), bits: s.Insert(uint32(v))}
}

// Mask returns the bits covered by the assigned field.
func (a Assignment[R]) Mask() uint32 {
	return a.mask
}

// Bits returns the assigned value in its register position.
func (a Assignment[R]) Bits() uint32 {
	return a.bits
}

func bitMask[R Register, F Field[R]](bits []Bit[R, F]) uint32 {
	var f F
	s := f.Span()
	var m uint32
	for _, b := range bits {
		m |= s.Bits(uint8(b))
	}
	return m
}

func combine[R Register](as []Assignment[R]) (mask, bits uint32) {
	for _, a := range as {
		mask |= a.mask
		bits |= a.bits
	}
	return mask, bits
}

// clearing is the combined clear operation of one or more fields.
type clearing struct {
	mask       uint32
	set        uint32
	writeClear bool
}

func clearingOf[R Register, F Clearable[R]]() clearing {
	var f F
	s := f.Span()
	k := f.Kind()
	return clearing{
		mask:       s.Mask(),
		set:        s.Insert(k.ClearValue()),
		writeClear: k == KindWriteClear,
	}
}

func (c clearing) or(o clearing) clearing {
	return clearing{
		mask:       c.mask | o.mask,
		set:        c.set | o.set,
		writeClear: c.writeClear || o.writeClear,
	}
}
