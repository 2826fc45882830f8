package mmio

// MaxFields is the capacity of a FieldMap.
const MaxFields = 4

type slot struct {
	key   any
	value uint32
}

// FieldMap holds the values of up to MaxFields fields of register R taken
// from one register read, in the order they were requested. Keys are field
// types.
type FieldMap[R Register] struct {
	n     int
	slots [MaxFields]slot
}

func newFieldMap[R Register](slots ...slot) FieldMap[R] {
	var m FieldMap[R]
	for _, s := range slots {
		for i := 0; i < m.n; i++ {
			if m.slots[i].key == s.key {
				panic("mmio: duplicate field in FieldMap")
			}
		}
		m.slots[m.n] = s
		m.n++
	}
	return m
}

func slotOf[R Register, F Readable[R]](register uint32) slot {
	var f F
	return slot{key: f, value: f.Span().Extract(register)}
}

// Len returns the number of fields in the map.
func (m FieldMap[R]) Len() int {
	return m.n
}

// At returns the value of the i-th requested field.
func (m FieldMap[R]) At(i int) uint32 {
	if i < 0 || i >= m.n {
		panic("mmio: FieldMap index out of range")
	}
	return m.slots[i].value
}

// Lookup returns the value of field F. The field type is given explicitly and
// the register is inferred from m:
//
//	v, ok := mmio.Lookup[CTRL_MODE](m)
func Lookup[F Readable[R], R Register](m FieldMap[R]) (Value[R, F], bool) {
	var f F
	for i := 0; i < m.n; i++ {
		if m.slots[i].key == any(f) {
			return Value[R, F](m.slots[i].value), true
		}
	}
	return 0, false
}

// GetField reads the register once and returns the value of field F.
func GetField[F Readable[R], H Reader[R], R Register](h H) Value[R, F] {
	return ValueFrom[R, F](ReadOnlyRegister[R](h).Get())
}

// GetFields1 reads the register once and returns the value of F1.
func GetFields1[F1 Readable[R], H Reader[R], R Register](h H) FieldMap[R] {
	v := ReadOnlyRegister[R](h).Get()
	return newFieldMap[R](slotOf[R, F1](v))
}

// GetFields2 reads the register once and extracts F1 and F2 from that single
// value, so both come from the same instant even if the hardware updates the
// register concurrently.
func GetFields2[F1, F2 Readable[R], H Reader[R], R Register](h H) FieldMap[R] {
	v := ReadOnlyRegister[R](h).Get()
	return newFieldMap[R](slotOf[R, F1](v), slotOf[R, F2](v))
}

func GetFields3[F1, F2, F3 Readable[R], H Reader[R], R Register](h H) FieldMap[R] {
	v := ReadOnlyRegister[R](h).Get()
	return newFieldMap[R](slotOf[R, F1](v), slotOf[R, F2](v), slotOf[R, F3](v))
}

func GetFields4[F1, F2, F3, F4 Readable[R], H Reader[R], R Register](h H) FieldMap[R] {
	v := ReadOnlyRegister[R](h).Get()
	return newFieldMap[R](slotOf[R, F1](v), slotOf[R, F2](v), slotOf[R, F3](v), slotOf[R, F4](v))
}
