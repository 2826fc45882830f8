package mmio

// Offsets of the atomic alias windows above a register address. A write to
// the alias applies XOR, OR (set) or AND-NOT (clear) of the written value in
// hardware. This is the RP2040 layout.
const (
	AliasXor   uintptr = 0x1000
	AliasSet   uintptr = 0x2000
	AliasClear uintptr = 0x3000
)

// Register is satisfied by register types, usually zero-size structs:
//
//	type CTRL struct{}
//
//	func (CTRL) Descriptor() mmio.Descriptor {
//		return mmio.Descriptor{Base: 0x40000000, Offset: 0x04, Aliases: true}
//	}
type Register interface {
	Descriptor() Descriptor
}

// Descriptor holds the compile-time parameters of a register.
type Descriptor struct {
	Base    uintptr
	Offset  uintptr
	Reset   uint32
	Aliases bool
}

func (d Descriptor) Address() uintptr {
	return d.Base + d.Offset
}

func (d Descriptor) XorAddress() uintptr {
	return d.Address() + AliasXor
}

func (d Descriptor) SetAddress() uintptr {
	return d.Address() + AliasSet
}

func (d Descriptor) ClearAddress() uintptr {
	return d.Address() + AliasClear
}

// base is the access capability shared by all register handles.
type base[R Register] struct {
	bus Bus
}

func (b base[R]) desc() Descriptor {
	var r R
	return r.Descriptor()
}

func (b base[R]) load() uint32 {
	return b.bus.Load(b.desc().Address())
}

func (b base[R]) store(v uint32) {
	b.bus.Store(b.desc().Address(), v)
}

func (b base[R]) storeXor(v uint32) {
	b.bus.Store(b.desc().XorAddress(), v)
}

func (b base[R]) storeSet(v uint32) {
	b.bus.Store(b.desc().SetAddress(), v)
}

func (b base[R]) storeClear(v uint32) {
	b.bus.Store(b.desc().ClearAddress(), v)
}

func (b base[R]) modify(mask, bits uint32) {
	b.store(b.load()&^mask | bits)
}

func (b base[R]) reset() {
	b.store(b.desc().Reset)
}

func (b base[R]) overwrite(mask, bits uint32) {
	b.store(b.desc().Reset&^mask | bits)
}

func (b base[R]) setBits(m uint32) {
	if b.desc().Aliases {
		b.storeSet(m)
		return
	}
	b.store(b.load() | m)
}

func (b base[R]) clearBits(m uint32) {
	if b.desc().Aliases {
		b.storeClear(m)
		return
	}
	b.store(b.load() &^ m)
}

func (b base[R]) toggleBits(m uint32) {
	if b.desc().Aliases {
		b.storeXor(m)
		return
	}
	b.store(b.load() ^ m)
}

// clearFields clears the fields in c. The clear alias cannot be used when a
// write-clear field is involved because those are cleared by writing ones.
func (b base[R]) clearFields(c clearing) {
	if b.desc().Aliases && !c.writeClear {
		b.storeClear(c.mask)
		return
	}
	b.store(b.load()&^c.mask | c.set)
}

func (b base[R]) anySet(m uint32) bool {
	return b.load()&m != 0
}

func (b base[R]) allSet(m uint32) bool {
	return b.load()&m == m
}
