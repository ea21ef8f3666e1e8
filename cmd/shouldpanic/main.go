package main

import (
	"tdos/kernel/kmain"
	"tdos/kernel/ktest"
)

// expected is a global so that the failing comparison below is not folded
// away by the compiler.
var expected = 1

// main is the entry point of a test image that passes only if its single
// case faults.
func main() {
	kmain.ShouldFailMain("should_panic::should_fail", shouldFail)
}

func shouldFail() {
	ktest.Assert(0 == expected, "expected 0 to equal %d", expected)
}
