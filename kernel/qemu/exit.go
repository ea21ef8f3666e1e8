// Package qemu signals the virtual machine that hosts the kernel through the
// isa-debug-exit device. The emulator must be started with
// "-device isa-debug-exit,iobase=0xf4,iosize=0x04".
package qemu

import "tdos/kernel/cpu"

// ExitPort is the I/O port the isa-debug-exit device listens on.
const ExitPort = uint16(0xf4)

// ExitCode is the value written to the isa-debug-exit device. The emulator
// terminates with status (code << 1) | 1.
type ExitCode uint32

const (
	// Success reports that all tests passed. The host observes status 33.
	Success ExitCode = 0x10

	// Failed reports that a test failed. The host observes status 35.
	Failed ExitCode = 0x11
)

// HostStatus returns the process exit status observed by the host when the
// emulator is stopped with this code.
func (c ExitCode) HostStatus() int {
	return int(c<<1 | 1)
}

var (
	// the following functions are mocked by tests
	portWriteDwordFn = cpu.PortWriteDword
	cpuHaltFn        = cpu.Halt
)

// Signal writes code to the isa-debug-exit port. On a machine without the
// device the write is ignored and Signal returns.
func Signal(code ExitCode) {
	portWriteDwordFn(ExitPort, uint32(code))
}

// Exit signals code and idles the CPU forever. Exit never returns.
func Exit(code ExitCode) {
	Signal(code)
	for {
		cpuHaltFn()
	}
}
