// Package kmain contains the Go entry points invoked by the rt0 code. The
// normal and test kernel images call different entry points; the choice is
// made by the command that is linked into the image.
package kmain

import (
	"tdos/kernel"
	"tdos/kernel/cpu"
	"tdos/kernel/hal"
	"tdos/kernel/kfmt"
	"tdos/kernel/ktest"
	"tdos/kernel/qemu"
)

var (
	// the following functions are mocked by tests
	initPlatformFn   = initPlatform
	detectHardwareFn = hal.DetectHardware
	serialWriterFn   = hal.SerialWriter
	consolePrintfFn  = hal.ConsolePrintf
	runCasesFn       = runCases
	runShouldFailFn  = runShouldFail
	exitFn           = qemu.Exit
	cpuHaltFn        = cpu.Halt

	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
)

// initPlatform prepares the CPU for running the drivers. The descriptor
// tables are loaded by the rt0 code; the kernel runs with interrupts masked
// as all I/O is polled.
func initPlatform() {
	cpu.DisableInterrupts()
}

// boot performs the initialization steps shared by all kernel images.
func boot() {
	initPlatformFn()
	detectHardwareFn()
}

// Kmain is the entry point of the normal kernel image. It is invoked by the
// rt0 assembly code after setting up the GDT and a minimal g0 struct that
// allows Go code to use the 4K stack allocated by the assembly code.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the CPU.
//
//go:noinline
func Kmain() {
	boot()

	consolePrintfFn("Hello World!\n")
	cpuHaltFn()

	// Use kfmt.Panic instead of panic to prevent the compiler from
	// treating kfmt.Panic as dead-code and eliminating it.
	kfmt.Panic(errKmainReturned)
}

// newHarness returns a harness reporting over the serial port. Its fault
// handler is installed before boot so that a fault during hardware detection
// still produces a result for the host.
func newHarness() *ktest.Harness {
	h := ktest.New(serialWriterFn(), exitFn)
	h.InstallFaultHandler()
	return h
}

// KtestMain is the entry point of the test kernel image. It runs every
// registered test case and reports the results over the serial port.
//
//go:noinline
func KtestMain() {
	h := newHarness()
	boot()
	runCasesFn(h, ktest.Cases())
	kfmt.Panic(errKmainReturned)
}

// ShouldFailMain is the entry point of test images that check that a fault
// is reported. The run passes only if fn faults.
//
//go:noinline
func ShouldFailMain(name string, fn func()) {
	h := newHarness()
	boot()
	runShouldFailFn(h, ktest.Case{Name: name, Fn: fn})
	kfmt.Panic(errKmainReturned)
}

func runCases(h *ktest.Harness, cases []ktest.Case) {
	h.Run(cases)
}

func runShouldFail(h *ktest.Harness, c ktest.Case) {
	h.RunShouldFail(c)
}
