package mmio

// The Unsafe* types perform the same compositions as the typed register
// surface but take raw register bit positions, spans and values. Nothing
// stops a position or value from touching another field or a reserved bit;
// they exist for what the type system cannot express, such as a bit chosen at
// runtime.

// UnsafeReadOps are the unchecked reads of register R.
type UnsafeReadOps[R Register] struct {
	b base[R]
}

// IsAnyBitSet reports whether one of the register bit positions is set.
func (u UnsafeReadOps[R]) IsAnyBitSet(positions ...uint8) bool {
	return u.b.anySet(positionMask(positions))
}

// AreAllBitsSet reports whether all of the register bit positions are set.
func (u UnsafeReadOps[R]) AreAllBitsSet(positions ...uint8) bool {
	return u.b.allSet(positionMask(positions))
}

// Field extracts the value at s from the current register value.
func (u UnsafeReadOps[R]) Field(s Span) uint32 {
	return s.Extract(u.b.load())
}

// UnsafeWriteOps are the unchecked writes of write-only register R.
type UnsafeWriteOps[R Register] struct {
	b base[R]
}

// Write stores v to the register.
func (u UnsafeWriteOps[R]) Write(v uint32) {
	u.b.store(v)
}

// SetBits stores a value with only the given register bit positions set.
func (u UnsafeWriteOps[R]) SetBits(positions ...uint8) {
	u.b.store(positionMask(positions))
}

// UnsafeOps are the unchecked operations of read-write register R.
type UnsafeOps[R Register] struct {
	b base[R]
}

// Reads returns the unchecked reads of the same register.
func (u UnsafeOps[R]) Reads() UnsafeReadOps[R] {
	return UnsafeReadOps[R]{b: u.b}
}

// Write stores v to the register.
func (u UnsafeOps[R]) Write(v uint32) {
	u.b.store(v)
}

// SetBits sets the register bit positions, through the set alias when
// available.
func (u UnsafeOps[R]) SetBits(positions ...uint8) {
	u.b.setBits(positionMask(positions))
}

// ClearBits clears the register bit positions, through the clear alias when
// available.
func (u UnsafeOps[R]) ClearBits(positions ...uint8) {
	u.b.clearBits(positionMask(positions))
}

// ToggleBits inverts the register bit positions, through the XOR alias when
// available.
func (u UnsafeOps[R]) ToggleBits(positions ...uint8) {
	u.b.toggleBits(positionMask(positions))
}

// SetField writes v at s with a read-modify-write.
func (u UnsafeOps[R]) SetField(s Span, v uint32) {
	u.b.modify(s.Mask(), s.Insert(v))
}

// ClearField clears the field at s as a field of kind k would be cleared.
func (u UnsafeOps[R]) ClearField(s Span, k FieldKind) {
	u.b.clearFields(clearing{
		mask:       s.Mask(),
		set:        s.Insert(k.ClearValue()),
		writeClear: k == KindWriteClear,
	})
}

func positionMask(positions []uint8) uint32 {
	var m uint32
	for _, p := range positions {
		m |= 1 << p
	}
	return m
}
