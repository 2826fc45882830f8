// Package mmiotest provides a simulated register bus for testing code built
// on package mmio.
package mmiotest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/marcinbor85/gohex"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/mmio"
)

// aliasBits selects the alias window of an address, RP2040 style.
const aliasBits = mmio.AliasClear

var ErrUnaligned = errors.New("unaligned register image")

// Op is the kind of a recorded bus access.
type Op uint8

const (
	OpLoad Op = iota
	OpStore
)

func (o Op) String() string {
	if o == OpLoad {
		return "load"
	}
	return "store"
}

// Access is one recorded bus access. Addr is the address as issued, alias
// window included.
type Access struct {
	Op    Op
	Addr  uintptr
	Value uint32
}

func (a Access) String() string {
	return fmt.Sprintf("%s %#08x %#08x", a.Op, a.Addr, a.Value)
}

// LoadHook is called before a load of a word and returns its new content. It
// simulates hardware updating a register between accesses.
type LoadHook func(current uint32) uint32

// Memory is a sparse word-addressed memory implementing mmio.Bus. Unwritten
// words read as zero. With aliases enabled (the default), stores to the
// +0x1000, +0x2000 and +0x3000 windows apply XOR, OR and AND-NOT to the word
// at the plain address, so plain register addresses must have bits 12 and 13
// clear.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	words   map[uintptr]uint32
	hooks   map[uintptr]LoadHook
	trace   []Access
	aliases bool
}

// Option configures a Memory.
type Option func(*Memory)

// WithoutAliases makes alias windows plain memory.
func WithoutAliases() Option {
	return func(m *Memory) {
		m.aliases = false
	}
}

func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		words:   map[uintptr]uint32{},
		hooks:   map[uintptr]LoadHook{},
		aliases: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Load(addr uintptr) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	plain := m.plain(addr)
	if hook, ok := m.hooks[plain]; ok {
		m.words[plain] = hook(m.words[plain])
	}
	v := m.words[plain]
	m.trace = append(m.trace, Access{Op: OpLoad, Addr: addr, Value: v})
	return v
}

func (m *Memory) Store(addr uintptr, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.trace = append(m.trace, Access{Op: OpStore, Addr: addr, Value: value})
	if !m.aliases {
		m.words[addr] = value
		return
	}

	plain := addr &^ aliasBits
	switch addr & aliasBits {
	case mmio.AliasXor:
		m.words[plain] ^= value
	case mmio.AliasSet:
		m.words[plain] |= value
	case mmio.AliasClear:
		m.words[plain] &^= value
	default:
		m.words[plain] = value
	}
}

func (m *Memory) plain(addr uintptr) uintptr {
	if m.aliases {
		return addr &^ aliasBits
	}
	return addr
}

// Peek returns the word at addr without recording an access or running hooks.
func (m *Memory) Peek(addr uintptr) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.words[addr]
}

// Poke sets the word at addr without recording an access.
func (m *Memory) Poke(addr uintptr, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[addr] = value
}

// OnLoad installs hook for the word at addr, replacing any previous one. A nil
// hook removes it.
func (m *Memory) OnLoad(addr uintptr, hook LoadHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hook == nil {
		delete(m.hooks, addr)
		return
	}
	m.hooks[addr] = hook
}

// Trace returns the accesses recorded so far.
func (m *Memory) Trace() []Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.trace)
}

// Stores returns the recorded stores.
func (m *Memory) Stores() []Access {
	return m.filter(OpStore)
}

// Loads returns the recorded loads.
func (m *Memory) Loads() []Access {
	return m.filter(OpLoad)
}

func (m *Memory) filter(op Op) []Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Access
	for _, a := range m.trace {
		if a.Op == op {
			out = append(out, a)
		}
	}
	return out
}

// ResetTrace forgets the recorded accesses.
func (m *Memory) ResetTrace() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trace = nil
}

// LoadHex fills memory from an Intel HEX image. Words are little endian and
// every data segment must cover whole, aligned words.
func (m *Memory) LoadHex(r io.Reader) error {
	img := gohex.NewMemory()
	if err := img.ParseIntelHex(r); err != nil {
		return fmt.Errorf("parsing hex image: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, seg := range img.GetDataSegments() {
		if seg.Address%4 != 0 || len(seg.Data)%4 != 0 {
			return fmt.Errorf("segment at %#08x, %d bytes: %w", seg.Address, len(seg.Data), ErrUnaligned)
		}
		for i := 0; i < len(seg.Data); i += 4 {
			addr := uintptr(seg.Address) + uintptr(i)
			m.words[addr] = binary.LittleEndian.Uint32(seg.Data[i:])
		}
	}
	return nil
}

// DumpHex writes every word written so far as an Intel HEX image. Runs of
// consecutive words form one segment.
func (m *Memory) DumpHex(w io.Writer) error {
	m.mu.Lock()
	addrs := maps.Keys(m.words)
	slices.Sort(addrs)
	var segments [][]uintptr
	for i, addr := range addrs {
		if i == 0 || addr != addrs[i-1]+4 {
			segments = append(segments, nil)
		}
		segments[len(segments)-1] = append(segments[len(segments)-1], addr)
	}

	img := gohex.NewMemory()
	for _, seg := range segments {
		data := make([]byte, 4*len(seg))
		for i, addr := range seg {
			binary.LittleEndian.PutUint32(data[4*i:], m.words[addr])
		}
		if err := img.AddBinary(uint32(seg[0]), data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("adding segment at %#08x: %w", seg[0], err)
		}
	}
	m.mu.Unlock()

	return img.DumpIntelHex(w, 16)
}
