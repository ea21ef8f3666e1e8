package console

import "tdos/device"

// probeForVgaTextConsole returns a driver for the standard 80x25 VGA text
// console. Text mode is always active when the bootloader hands over control.
func probeForVgaTextConsole() device.Driver {
	return NewVgaTextConsole(Width, Height, FramebufferPhysAddr)
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderEarly,
		Probe: probeForVgaTextConsole,
	})
}
