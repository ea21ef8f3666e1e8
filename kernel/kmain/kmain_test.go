package kmain

import (
	"bytes"
	"io"
	"strings"
	"tdos/kernel"
	"tdos/kernel/cpu"
	"tdos/kernel/hal"
	"tdos/kernel/kfmt"
	"tdos/kernel/ktest"
	"tdos/kernel/qemu"
	"testing"
)

type faultSentinel struct {
	err *kernel.Error
}

// exitSignal is raised by the mocked exitFn in place of halting the CPU.
type exitSignal struct {
	code qemu.ExitCode
}

// mockBoot replaces the hardware dependent hooks and records the order in
// which they are invoked.
func mockBoot(t *testing.T, events *[]string, serial io.Writer) func() {
	initPlatformFn = func() { *events = append(*events, "platform") }
	detectHardwareFn = func() { *events = append(*events, "detect") }
	serialWriterFn = func() io.Writer { return serial }
	exitFn = func(code qemu.ExitCode) { panic(exitSignal{code}) }
	cpuHaltFn = func() { *events = append(*events, "halt") }
	kfmt.SetFaultHandler(func(err *kernel.Error) {
		panic(faultSentinel{err})
	})

	return func() {
		initPlatformFn = initPlatform
		detectHardwareFn = hal.DetectHardware
		serialWriterFn = hal.SerialWriter
		consolePrintfFn = hal.ConsolePrintf
		runCasesFn = runCases
		runShouldFailFn = runShouldFail
		exitFn = qemu.Exit
		cpuHaltFn = cpu.Halt
		kfmt.SetFaultHandler(nil)
		kfmt.SetOutputSink(nil)
	}
}

// expectReturnFault invokes fn and checks that it reports errKmainReturned.
func expectReturnFault(t *testing.T, fn func()) {
	defer func() {
		sentinel, ok := recover().(faultSentinel)
		if !ok || sentinel.err != errKmainReturned {
			t.Fatalf("expected fault with errKmainReturned; got %v", sentinel.err)
		}
	}()

	fn()
}

// expectExit invokes fn and returns the exit code it signaled.
func expectExit(t *testing.T, fn func()) qemu.ExitCode {
	var code qemu.ExitCode
	func() {
		defer func() {
			sig, ok := recover().(exitSignal)
			if !ok {
				t.Fatal("expected an exit code to be signaled")
			}
			code = sig.code
		}()

		fn()
	}()

	return code
}

func TestKmain(t *testing.T) {
	var (
		events []string
		buf    bytes.Buffer
	)
	defer mockBoot(t, &events, nil)()
	consolePrintfFn = func(format string, args ...interface{}) {
		kfmt.Fprintf(&buf, format, args...)
	}

	expectReturnFault(t, Kmain)

	if got, exp := strings.Join(events, ","), "platform,detect,halt"; got != exp {
		t.Errorf("expected boot sequence %q; got %q", exp, got)
	}

	if got, exp := buf.String(), "Hello World!\n"; got != exp {
		t.Errorf("expected console output %q; got %q", exp, got)
	}
}

func TestKmainWithoutConsole(t *testing.T) {
	var (
		events []string
		buf    bytes.Buffer
	)
	defer mockBoot(t, &events, nil)()

	// Nothing is detected so the greeting cannot reach a console and must
	// not end up in the ring buffer either.
	kfmt.SetOutputSink(&buf)

	defer func() {
		sentinel, ok := recover().(faultSentinel)
		if !ok || sentinel.err == nil || sentinel.err.Module != "hal" {
			t.Fatalf("expected a hal fault for the missing console; got %v", sentinel.err)
		}

		if strings.Contains(buf.String(), "Hello World!") {
			t.Error("expected the greeting not to be written to the kfmt output sink")
		}
	}()

	Kmain()
}

func TestKtestMain(t *testing.T) {
	var (
		events  []string
		serial  bytes.Buffer
		gotH    *ktest.Harness
		gotN    int
		initial ktest.State
	)
	defer mockBoot(t, &events, &serial)()

	runCasesFn = func(h *ktest.Harness, cases []ktest.Case) {
		events = append(events, "run")
		gotH, gotN = h, len(cases)
		initial = h.State()
	}

	// Returning from the run is reported through the harness.
	if code := expectExit(t, KtestMain); code != qemu.Failed {
		t.Errorf("expected exit code 0x%x; got 0x%x", qemu.Failed, code)
	}

	if got, exp := strings.Join(events, ","), "platform,detect,run"; got != exp {
		t.Errorf("expected boot sequence %q; got %q", exp, got)
	}

	if gotH == nil || initial != ktest.NotStarted {
		t.Fatal("expected a fresh harness to be passed to the runner")
	}

	if gotN != len(ktest.Cases()) {
		t.Errorf("expected all %d registered cases to run; got %d", len(ktest.Cases()), gotN)
	}

	if got, exp := serial.String(), "[failed]\n\nError: [kmain] Kmain returned\n"; got != exp {
		t.Errorf("expected serial output %q; got %q", exp, got)
	}
}

func TestKtestMainFaultDuringBoot(t *testing.T) {
	var (
		events []string
		serial bytes.Buffer
		ran    bool
	)
	defer mockBoot(t, &events, &serial)()

	errBoom := &kernel.Error{Module: "test", Message: "boom"}
	detectHardwareFn = func() { kfmt.Panic(errBoom) }
	runCasesFn = func(*ktest.Harness, []ktest.Case) { ran = true }

	if code := expectExit(t, KtestMain); code != qemu.Failed {
		t.Errorf("expected exit code 0x%x; got 0x%x", qemu.Failed, code)
	}

	if ran {
		t.Error("expected no cases to run after a fault during boot")
	}

	if got, exp := serial.String(), "[failed]\n\nError: [test] boom\n"; got != exp {
		t.Errorf("expected serial output %q; got %q", exp, got)
	}
}

func TestShouldFailMain(t *testing.T) {
	var (
		events  []string
		serial  bytes.Buffer
		gotH    *ktest.Harness
		gotCase ktest.Case
	)
	defer mockBoot(t, &events, &serial)()

	runShouldFailFn = func(h *ktest.Harness, c ktest.Case) {
		events = append(events, "run")
		gotH, gotCase = h, c
	}

	if code := expectExit(t, func() { ShouldFailMain("should_fail", func() {}) }); code != qemu.Failed {
		t.Errorf("expected exit code 0x%x; got 0x%x", qemu.Failed, code)
	}

	if got, exp := strings.Join(events, ","), "platform,detect,run"; got != exp {
		t.Errorf("expected boot sequence %q; got %q", exp, got)
	}

	if gotH == nil || gotCase.Name != "should_fail" || gotCase.Fn == nil {
		t.Errorf("unexpected should-fail case: %+v", gotCase)
	}
}

func TestShouldFailMainFaultDuringBoot(t *testing.T) {
	var (
		events []string
		serial bytes.Buffer
	)
	defer mockBoot(t, &events, &serial)()

	detectHardwareFn = func() { kfmt.Panic(&kernel.Error{Module: "test", Message: "boom"}) }

	// A boot fault must not be mistaken for the expected fault of the case.
	if code := expectExit(t, func() { ShouldFailMain("should_fail", func() {}) }); code != qemu.Failed {
		t.Errorf("expected exit code 0x%x; got 0x%x", qemu.Failed, code)
	}

	if got, exp := serial.String(), "[failed]\n\nError: [test] boom\n"; got != exp {
		t.Errorf("expected serial output %q; got %q", exp, got)
	}
}
