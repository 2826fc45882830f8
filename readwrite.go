package mmio

// ReadWriteRegister is the access handle of a read-write register R. It has
// the whole read surface of ReadOnlyRegister.
type ReadWriteRegister[R Register] struct {
	b base[R]
}

// OpenReadWrite returns the handle of R on bus.
func OpenReadWrite[R Register](bus Bus) ReadWriteRegister[R] {
	return ReadWriteRegister[R]{b: base[R]{bus: bus}}
}

func (r ReadWriteRegister[R]) Address() uintptr {
	return r.b.desc().Address()
}

// Get reads the raw register value.
func (r ReadWriteRegister[R]) Get() uint32 {
	return r.b.load()
}

// IsAnyBitSet reports whether at least one of bits is set. It is false for
// an empty set.
func (r ReadWriteRegister[R]) IsAnyBitSet(bits BitSet[R]) bool {
	return r.b.anySet(bits.mask)
}

// AreAllBitsSet reports whether every one of bits is set. It is true for an
// empty set.
func (r ReadWriteRegister[R]) AreAllBitsSet(bits BitSet[R]) bool {
	return r.b.allSet(bits.mask)
}

// IsAnyBitSetInRegister reports whether the register is non-zero.
func (r ReadWriteRegister[R]) IsAnyBitSetInRegister() bool {
	return r.b.anySet(^uint32(0))
}

// AreAllBitsSetInRegister reports whether every register bit is set.
func (r ReadWriteRegister[R]) AreAllBitsSetInRegister() bool {
	return r.b.allSet(^uint32(0))
}

func (ReadWriteRegister[R]) reads() {}

// SetFields writes the given field values with one read-modify-write. Fields
// not named keep their current value.
func (r ReadWriteRegister[R]) SetFields(values ...Assignment[R]) {
	r.b.modify(combine(values))
}

// SetFieldsOverwrite writes the given field values with a single store and
// no read. Fields not named are written with their reset value, discarding
// their current state.
func (r ReadWriteRegister[R]) SetFieldsOverwrite(values ...Assignment[R]) {
	r.b.overwrite(combine(values))
}

// Reset writes the reset value of the register.
func (r ReadWriteRegister[R]) Reset() {
	r.b.reset()
}

// SetBits sets bits, through the set alias when the register has one.
func (r ReadWriteRegister[R]) SetBits(bits SetMask[R]) {
	r.b.setBits(bits.mask)
}

// ClearBits clears bits, through the clear alias when the register has one.
func (r ReadWriteRegister[R]) ClearBits(bits ClearMask[R]) {
	r.b.clearBits(bits.mask)
}

// ToggleBits inverts bits, through the XOR alias when the register has one.
func (r ReadWriteRegister[R]) ToggleBits(bits ToggleMask[R]) {
	r.b.toggleBits(bits.mask)
}

// Unsafe returns the unchecked operations on the register.
func (r ReadWriteRegister[R]) Unsafe() UnsafeOps[R] {
	return UnsafeOps[R]{b: r.b}
}

// ClearFields1 clears field F1. See ClearFields2.
func ClearFields1[F1 Clearable[R], R Register](r ReadWriteRegister[R]) {
	r.b.clearFields(clearingOf[R, F1]())
}

// ClearFields2 clears the given fields. Without write-clear fields and with
// alias support this is a single store to the clear alias; otherwise the
// fields are masked out and write-clear fields get their clear value in one
// read-modify-write.
func ClearFields2[F1, F2 Clearable[R], R Register](r ReadWriteRegister[R]) {
	r.b.clearFields(clearingOf[R, F1]().
		or(clearingOf[R, F2]()))
}

func ClearFields3[F1, F2, F3 Clearable[R], R Register](r ReadWriteRegister[R]) {
	r.b.clearFields(clearingOf[R, F1]().
		or(clearingOf[R, F2]()).
		or(clearingOf[R, F3]()))
}

func ClearFields4[F1, F2, F3, F4 Clearable[R], R Register](r ReadWriteRegister[R]) {
	r.b.clearFields(clearingOf[R, F1]().
		or(clearingOf[R, F2]()).
		or(clearingOf[R, F3]()).
		or(clearingOf[R, F4]()))
}
