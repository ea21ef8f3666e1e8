package main

import "tdos/kernel/kmain"

// main is the Go symbol invoked by the rt0 initialization code of the normal
// kernel image. It works as a trampoline for calling the actual kernel entry
// point and is intentionally defined to prevent the Go compiler from
// optimizing away the kernel code as it is not aware of the rt0 code.
//
// main is not expected to return. If it does, the rt0 code will halt the CPU.
func main() {
	kmain.Kmain()
}
