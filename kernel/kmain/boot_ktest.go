//go:build ktest

package kmain

import (
	"tdos/kernel/hal"
	"tdos/kernel/ktest"
)

func init() {
	ktest.Register(testBasicBootPrintln)
}

// testBasicBootPrintln checks that the console is usable right after boot.
func testBasicBootPrintln() {
	hal.ConsolePrintf("test_println output\n")
}
