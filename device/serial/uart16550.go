// Package serial implements a polled, transmit-only driver for 16550
// compatible UARTs. The serial port is captured by the host running the
// virtual machine, which makes it the channel for test results and panic
// diagnostics.
package serial

import (
	"io"
	"tdos/device"
	"tdos/kernel"
	"tdos/kernel/cpu"
	"tdos/kernel/kfmt"
)

// COM1 is the I/O port base of the first serial interface.
const COM1 = uint16(0x3f8)

// Register offsets relative to the port base.
const (
	regData         = 0 // THR (write) / divisor latch low when DLAB is set
	regIntEnable    = 1 // IER / divisor latch high when DLAB is set
	regFIFOControl  = 2
	regLineControl  = 3
	regModemControl = 4
	regLineStatus   = 5
)

const (
	lineControlDLAB = 0x80
	lineControl8N1  = 0x03

	// enable FIFOs, clear them and use a 14-byte threshold
	fifoControlEnable = 0xc7

	// DTR, RTS and OUT2
	modemControlReady = 0x0b

	intEnableRxAvailable = 0x01

	lineStatusTxEmpty = 0x20

	// divisor for 38400 baud (115200 / 3)
	baudDivisor = 3
)

var (
	portWriteByteFn = cpu.PortWriteByte
	portReadByteFn  = cpu.PortReadByte
)

// Port is a 16550 UART used as a byte sink. Writes block until the
// transmitter holding register accepts each byte; transmission errors are not
// reported.
type Port struct {
	base uint16
}

// NewPort returns an uninitialized Port for the UART at the base I/O port.
func NewPort(base uint16) *Port {
	return &Port{base: base}
}

// Init programs the UART with the default line configuration: 38400 baud,
// 8 data bits, no parity, one stop bit with FIFOs enabled.
func (p *Port) Init() {
	portWriteByteFn(p.base+regIntEnable, 0x00)
	portWriteByteFn(p.base+regLineControl, lineControlDLAB)
	portWriteByteFn(p.base+regData, baudDivisor&0xff)
	portWriteByteFn(p.base+regIntEnable, baudDivisor>>8)
	portWriteByteFn(p.base+regLineControl, lineControl8N1)
	portWriteByteFn(p.base+regFIFOControl, fifoControlEnable)
	portWriteByteFn(p.base+regModemControl, modemControlReady)
	portWriteByteFn(p.base+regIntEnable, intEnableRxAvailable)
}

// WriteByte transmits b. Backspace and delete are sent as a destructive
// backspace sequence. WriteByte implements io.ByteWriter and always returns
// nil.
func (p *Port) WriteByte(b byte) error {
	switch b {
	case 0x08, 0x7f:
		p.send(0x08)
		p.send(' ')
		p.send(0x08)
	default:
		p.send(b)
	}

	return nil
}

// Write implements io.Writer. It blocks until all of data is handed to the
// UART and always reports success.
func (p *Port) Write(data []byte) (int, error) {
	for _, b := range data {
		p.WriteByte(b)
	}

	return len(data), nil
}

// Printf writes formatted output using the kfmt verbs.
func (p *Port) Printf(format string, args ...interface{}) {
	kfmt.Fprintf(p, format, args...)
}

// send busy-waits for the transmitter holding register to become empty and
// then writes b to it.
func (p *Port) send(b byte) {
	for portReadByteFn(p.base+regLineStatus)&lineStatusTxEmpty == 0 {
	}

	portWriteByteFn(p.base+regData, b)
}

// DriverName returns the name of this driver.
func (p *Port) DriverName() string {
	return "uart16550"
}

// DriverVersion returns the version of this driver.
func (p *Port) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes the UART.
func (p *Port) DriverInit(w io.Writer) *kernel.Error {
	p.Init()
	kfmt.Fprintf(w, "port 0x%x\n", p.base)
	return nil
}

func probeForCOM1() device.Driver {
	return NewPort(COM1)
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderEarly,
		Probe: probeForCOM1,
	})
}
