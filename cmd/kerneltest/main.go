package main

import "tdos/kernel/kmain"

// main is the entry point of the test kernel image. The image must be built
// with the ktest build tag so the test cases of the kernel packages get
// registered; without it the harness runs no cases.
//
// The image reports its results over COM1 and stops the virtual machine
// through the isa-debug-exit device.
func main() {
	kmain.KtestMain()
}
