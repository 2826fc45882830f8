package mmio

// WriteOnlyRegister is the access handle of a write-only register R.
//
// Writes are composed from the given bits or values alone: the register
// cannot be read back, so there is no merge with the current state and no
// clear or toggle operation.
type WriteOnlyRegister[R Register] struct {
	// Not named b: a struct{ b base[R] } shape would match the type term of
	// Reader. The missing reads method is what rejects it.
	w base[R]
}

// OpenWriteOnly returns the handle of R on bus.
func OpenWriteOnly[R Register](bus Bus) WriteOnlyRegister[R] {
	return WriteOnlyRegister[R]{w: base[R]{bus: bus}}
}

func (r WriteOnlyRegister[R]) Address() uintptr {
	return r.w.desc().Address()
}

// SetBits writes bits to the register in a single store. All other bits are
// written as zero.
func (r WriteOnlyRegister[R]) SetBits(bits SetMask[R]) {
	r.w.store(bits.mask)
}

// SetFieldsOverwrite writes the given field values in a single store. The
// fields not named are written with their reset value.
func (r WriteOnlyRegister[R]) SetFieldsOverwrite(values ...Assignment[R]) {
	r.w.overwrite(combine(values))
}

// Reset writes the reset value of the register.
func (r WriteOnlyRegister[R]) Reset() {
	r.w.reset()
}

func (r WriteOnlyRegister[R]) Unsafe() UnsafeWriteOps[R] {
	return UnsafeWriteOps[R]{b: r.w}
}
