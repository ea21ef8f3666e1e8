// Package cpu exposes the handful of privileged x86 instructions that the
// drivers need. All functions are implemented in assembly and must only be
// invoked from ring 0; tests replace them via package-level function
// variables in the calling packages.
package cpu

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// Halt disables interrupts and stops instruction execution. Halt never
// returns; if the CPU is woken up by an NMI it goes straight back to sleep.
func Halt()

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortWriteDword writes a uint32 value to the requested port.
func PortWriteDword(port uint16, val uint32)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8
