package serial

import (
	"io"
	"tdos/device"
)

// Device is implemented by drivers for serial ports. Writes block until the
// data has been handed to the hardware and never fail.
type Device interface {
	device.Driver
	io.Writer
	io.ByteWriter
}
