// Package hal detects the available hardware and exposes the console writer
// and the serial port as process-wide, lock-guarded singletons.
package hal

import (
	"bytes"
	"io"
	"sort"
	"tdos/device"
	"tdos/device/serial"
	"tdos/device/tty"
	"tdos/device/video/console"
	"tdos/kernel"
	"tdos/kernel/kfmt"
	"tdos/kernel/sync"
)

// managedDevices contains the devices discovered by the HAL.
type managedDevices struct {
	activeConsole console.Device
	activeSerial  serial.Device

	// faultTTY writes to the active console without taking the console
	// writer lock.
	faultTTY *tty.Writer

	// activeDrivers tracks all initialized device drivers.
	activeDrivers []device.Driver
}

var (
	devices managedDevices
	strBuf  bytes.Buffer

	errNoConsole = &kernel.Error{Module: "hal", Message: "no console device detected"}
	errNoSerial  = &kernel.Error{Module: "hal", Message: "no serial port detected"}

	// consoleWriter and serialPort are constructed on first use from the
	// devices found by DetectHardware. Both must be used for the first time
	// before any interrupt handler that writes to them is installed.
	consoleWriter = sync.Lazy[*tty.Writer]{New: newConsoleWriter}
	serialPort    = sync.Lazy[serial.Device]{New: newSerialPort}

	consoleOut = lazyWriter[*tty.Writer]{cell: &consoleWriter}
	serialOut  = lazyWriter[serial.Device]{cell: &serialPort}

	consoleFaultOut consoleFaultWriter
)

func newConsoleWriter() (*tty.Writer, *kernel.Error) {
	if devices.activeConsole == nil {
		return nil, errNoConsole
	}

	w := tty.NewWriter(devices.activeConsole)
	w.Clear()
	return w, nil
}

func newSerialPort() (serial.Device, *kernel.Error) {
	if devices.activeSerial == nil {
		return nil, errNoSerial
	}

	return devices.activeSerial, nil
}

// lazyWriter is an io.Writer that forwards writes to the value of a Lazy
// cell while holding its lock. A failure to construct the value is fatal.
type lazyWriter[T io.Writer] struct {
	cell *sync.Lazy[T]
}

func (lw lazyWriter[T]) Write(p []byte) (n int, err error) {
	if kErr := lw.cell.Do(func(w T) { n, err = w.Write(p) }); kErr != nil {
		kfmt.Panic(kErr)
	}

	return n, err
}

// consoleFaultWriter is the kfmt fault sink. A fault may be raised while the
// console writer lock is held (e.g. inside WithConsoleWriter); in that case
// the output is written through a separate writer attached to the active
// console instead of waiting for a lock that will never be released.
type consoleFaultWriter struct{}

func (consoleFaultWriter) Write(p []byte) (int, error) {
	ok, _ := consoleWriter.TryDo(func(w *tty.Writer) { w.Write(p) })
	if !ok && devices.faultTTY != nil {
		devices.faultTTY.Write(p)
	}

	return len(p), nil
}

// ConsoleWriter returns an io.Writer for the active console. Every write is
// serialized by the console writer lock.
func ConsoleWriter() io.Writer {
	return consoleOut
}

// SerialWriter returns an io.Writer for the active serial port. Every write
// is serialized by the serial port lock.
func SerialWriter() io.Writer {
	return serialOut
}

// ConsolePrintf writes formatted output to the active console.
func ConsolePrintf(format string, args ...interface{}) {
	kfmt.Fprintf(consoleOut, format, args...)
}

// SerialPrintf writes formatted output to the active serial port.
func SerialPrintf(format string, args ...interface{}) {
	kfmt.Fprintf(serialOut, format, args...)
}

// WithConsoleWriter invokes fn with exclusive access to the console writer.
func WithConsoleWriter(fn func(*tty.Writer)) *kernel.Error {
	return consoleWriter.Do(fn)
}

// DetectHardware probes for hardware devices and initializes the appropriate
// drivers.
func DetectHardware() {
	// Get driver list and sort by detection priority
	drivers := device.DriverList()
	sort.Stable(drivers)

	probe(drivers)
}

// activeSink forwards writes to the active kfmt output sink which may change
// while drivers are being probed.
type activeSink struct{}

func (activeSink) Write(p []byte) (int, error) {
	kfmt.Printf("%s", p)
	return len(p), nil
}

// probe executes the probe function for each driver and invokes
// onDriverInit for each successfully initialized driver.
func probe(driverInfoList device.DriverInfoList) {
	var w = kfmt.PrefixWriter{Sink: activeSink{}}

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = strBuf.Bytes()

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(&w, "initialized\n")
		onDriverInit(drv)
		devices.activeDrivers = append(devices.activeDrivers, drv)
	}
}

// onDriverInit is invoked by probe() whenever a piece of hardware is detected
// and successfully initialized. The first console becomes the kfmt output
// and fault sink; any output buffered before that point is flushed to it.
func onDriverInit(drv device.Driver) {
	switch drvImpl := drv.(type) {
	case console.Device:
		if devices.activeConsole != nil {
			return
		}

		devices.activeConsole = drvImpl
		devices.faultTTY = tty.NewWriter(drvImpl)
		kfmt.SetOutputSink(consoleOut)
		kfmt.SetFaultSink(consoleFaultOut)
	case serial.Device:
		if devices.activeSerial == nil {
			devices.activeSerial = drvImpl
		}
	}
}
