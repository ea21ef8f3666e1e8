package mmio

import "unsafe"

// load16 and store16 are never inlined so the compiler cannot cache, merge or
// drop accesses to device memory.

//go:noinline
//go:nosplit
func load16(addr uintptr) uint16 {
	return *(*uint16)(unsafe.Pointer(addr))
}

//go:noinline
//go:nosplit
func store16(addr uintptr, v uint16) {
	*(*uint16)(unsafe.Pointer(addr)) = v
}
