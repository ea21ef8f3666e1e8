// Package mmio provides access to memory-mapped device memory. A Region is
// validated once when it is created and from then on only exposes
// bounds-checked accessors that are never elided or merged by the compiler.
package mmio

import "tdos/kernel"

var (
	errZeroAddress = &kernel.Error{Module: "mmio", Message: "region base address is zero"}
	errMisaligned  = &kernel.Error{Module: "mmio", Message: "region base address is not 16-bit aligned"}
	errBadSize     = &kernel.Error{Module: "mmio", Message: "region size must be a non-zero multiple of 2"}
	errWrapAround  = &kernel.Error{Module: "mmio", Message: "region wraps around the address space"}
)

// Region describes a contiguous block of device memory made up of 16-bit
// words. The zero value is an empty region whose accessors are no-ops.
type Region struct {
	base uintptr
	size uintptr
}

// NewRegion validates the base/size contract of a device memory block and
// returns a Region for it. The memory must already be mapped at base.
func NewRegion(base, size uintptr) (Region, *kernel.Error) {
	switch {
	case base == 0:
		return Region{}, errZeroAddress
	case base&1 != 0:
		return Region{}, errMisaligned
	case size == 0 || size&1 != 0:
		return Region{}, errBadSize
	case base+size < base:
		return Region{}, errWrapAround
	}

	return Region{base: base, size: size}, nil
}

// Base returns the address of the first byte in the region.
func (r Region) Base() uintptr {
	return r.base
}

// Size returns the region size in bytes.
func (r Region) Size() uintptr {
	return r.size
}

// Words returns the number of 16-bit words in the region.
func (r Region) Words() int {
	return int(r.size >> 1)
}

// Read16 performs a volatile load of the 16-bit word at the specified word
// index. Out of range reads return 0.
func (r Region) Read16(index int) uint16 {
	if index < 0 || index >= r.Words() {
		return 0
	}

	return load16(r.base + uintptr(index)<<1)
}

// Write16 performs a volatile store of v to the 16-bit word at the specified
// word index. Out of range writes are ignored.
func (r Region) Write16(index int, v uint16) {
	if index < 0 || index >= r.Words() {
		return
	}

	store16(r.base+uintptr(index)<<1, v)
}
