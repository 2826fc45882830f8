package mmio

// ReadOnlyRegister is the access handle of a read-only register R.
type ReadOnlyRegister[R Register] struct {
	b base[R]
}

// OpenReadOnly returns the handle of R on bus.
func OpenReadOnly[R Register](bus Bus) ReadOnlyRegister[R] {
	return ReadOnlyRegister[R]{b: base[R]{bus: bus}}
}

// Address returns the address of the register.
func (r ReadOnlyRegister[R]) Address() uintptr {
	return r.b.desc().Address()
}

// Get reads the raw register value.
func (r ReadOnlyRegister[R]) Get() uint32 {
	return r.b.load()
}

// IsAnyBitSet reports whether at least one of bits is set. It is false for
// an empty set.
func (r ReadOnlyRegister[R]) IsAnyBitSet(bits BitSet[R]) bool {
	return r.b.anySet(bits.mask)
}

// AreAllBitsSet reports whether every one of bits is set. It is true for an
// empty set.
func (r ReadOnlyRegister[R]) AreAllBitsSet(bits BitSet[R]) bool {
	return r.b.allSet(bits.mask)
}

// IsAnyBitSetInRegister reports whether the register is non-zero.
func (r ReadOnlyRegister[R]) IsAnyBitSetInRegister() bool {
	return r.b.anySet(^uint32(0))
}

// AreAllBitsSetInRegister reports whether every register bit is set.
func (r ReadOnlyRegister[R]) AreAllBitsSetInRegister() bool {
	return r.b.allSet(^uint32(0))
}

func (ReadOnlyRegister[R]) reads() {}

// Unsafe returns the unchecked operations on the register.
func (r ReadOnlyRegister[R]) Unsafe() UnsafeReadOps[R] {
	return UnsafeReadOps[R]{b: r.b}
}

// Reader is satisfied by the handles that can read R: ReadOnlyRegister[R]
// and ReadWriteRegister[R]. The struct term lets R be inferred from the
// handle; the reads method keeps out other handles of the same shape.
type Reader[R Register] interface {
	~struct{ b base[R] }
	reads()
}
