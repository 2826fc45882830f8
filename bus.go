package mmio

import (
	"sync/atomic"
	"unsafe"
)

// Bus performs the raw 32-bit accesses of register handles. Every Load and
// Store must reach the device in program order; implementations must not
// cache or merge them.
type Bus interface {
	Load(addr uintptr) uint32
	Store(addr uintptr, value uint32)
}

// Direct accesses physical addresses of the running program. It only makes
// sense on bare metal, where the register addresses are mapped 1:1.
type Direct struct{}

func (Direct) Load(addr uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func (Direct) Store(addr uintptr, value uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(addr)), value)
}
