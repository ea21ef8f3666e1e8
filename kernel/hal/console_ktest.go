//go:build ktest

package hal

import (
	"tdos/device/tty"
	"tdos/kernel/kfmt"
	"tdos/kernel/ktest"
)

func init() {
	ktest.Register(testPrintlnSimple)
	ktest.Register(testPrintlnMany)
	ktest.Register(testPrintlnOutput)
}

func testPrintlnSimple() {
	ConsolePrintf("test_println_simple output\n")
}

// testPrintlnMany writes enough lines to scroll the console many times over.
func testPrintlnMany() {
	for i := 0; i < 200; i++ {
		ConsolePrintf("test_println_many output\n")
	}
}

// testPrintlnOutput checks that a printed line ends up on the row above the
// bottom row once the trailing line feed scrolls it up.
func testPrintlnOutput() {
	const s = "Some test string that fits on a single line"

	err := WithConsoleWriter(func(w *tty.Writer) {
		w.WriteString(s + "\n")

		_, height := devices.activeConsole.Dimensions()
		for col := 0; col < len(s); col++ {
			got := devices.activeConsole.Read(height-2, col).Char()
			ktest.Assert(got == s[col], "expected char %d at row %d, col %d; got %d", s[col], height-2, col, got)
		}
	})

	if err != nil {
		kfmt.Panic(err)
	}
}
