package mmio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/mmio"
	"omibyte.io/mmio/mmiotest"
)

// counting makes every load of addr observe a new value in which CTRL_RW and
// CTRL_ANY both hold the load count.
func counting(mem *mmiotest.Memory, addr uintptr) {
	var n uint32
	mem.OnLoad(addr, func(uint32) uint32 {
		n = (n + 1) & 0x7
		return n | n<<13
	})
}

func TestGetFieldsSingleSnapshot(t *testing.T) {
	mem := mmiotest.NewMemory()
	ctrl := mmio.OpenReadWrite[CTRL](mem)
	counting(mem, ctrlAddr())

	m := mmio.GetFields2[CTRL_RW, CTRL_ANY](ctrl)
	require.Len(t, mem.Loads(), 1)

	rwVal, ok := mmio.Lookup[CTRL_RW](m)
	require.True(t, ok)
	anyVal, ok := mmio.Lookup[CTRL_ANY](m)
	require.True(t, ok)
	assert.Equal(t, uint32(1), rwVal.Raw())
	assert.Equal(t, rwVal.Raw(), anyVal.Raw())

	// Separate reads observe the register changing in between.
	first := mmio.GetField[CTRL_RW](ctrl)
	second := mmio.GetField[CTRL_ANY](ctrl)
	assert.NotEqual(t, first.Raw(), second.Raw())
}

func TestFieldMapOrder(t *testing.T) {
	mem := mmiotest.NewMemory()
	mem.Poke(ctrlAddr(), 0xA0C0_A05C)
	ctrl := mmio.OpenReadWrite[CTRL](mem)

	m := mmio.GetFields4[CTRL_WC, CTRL_RO, CTRL_RW, CTRL_SC](ctrl)

	require.Equal(t, 4, m.Len())
	assert.Equal(t, []uint32{0xA, 0x5, 0xC, 0xC}, []uint32{m.At(0), m.At(1), m.At(2), m.At(3)})

	sc, ok := mmio.Lookup[CTRL_SC](m)
	require.True(t, ok)
	assert.Equal(t, mmio.Value[CTRL, CTRL_SC](0xC), sc)

	_, ok = mmio.Lookup[CTRL_ANY](m)
	assert.False(t, ok)

	assert.Panics(t, func() { m.At(4) })
}

func TestGetFieldsArities(t *testing.T) {
	mem := mmiotest.NewMemory()
	mem.Poke(statusAddr(), 0x0000_0423)
	status := mmio.OpenReadOnly[STATUS](mem)

	one := mmio.GetFields1[STATUS_STATE](status)
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, uint32(0x3), one.At(0))

	two := mmio.GetFields2[STATUS_COUNT, STATUS_STATE](status)
	state, ok := mmio.Lookup[STATUS_STATE](two)
	require.True(t, ok)
	assert.Equal(t, STATUS_STATE_BUSY, state)
	assert.Equal(t, uint32(0x42), two.At(0))

	mem.Poke(ctrlAddr(), 0x0000_A0B7)
	ctrl := mmio.OpenReadWrite[CTRL](mem)
	three := mmio.GetFields3[CTRL_RW, CTRL_RO, CTRL_ANY](ctrl)
	assert.Equal(t, []uint32{0x7, 0xB, 0x5}, []uint32{three.At(0), three.At(1), three.At(2)})
}

func TestFieldMapDuplicateKeysPanic(t *testing.T) {
	mem := mmiotest.NewMemory()
	ctrl := mmio.OpenReadWrite[CTRL](mem)

	assert.Panics(t, func() {
		mmio.GetFields2[CTRL_RW, CTRL_RW](ctrl)
	})
}
