package ktest

import (
	"io"
	"tdos/kernel"
	"tdos/kernel/kfmt"
	"tdos/kernel/qemu"
	"unsafe"
)

// State describes the progress of a test run.
type State uint8

const (
	// NotStarted is the state of a harness before Run is invoked.
	NotStarted State = iota

	// Running indicates that test cases are being executed.
	Running

	// AllPassed is the terminal state reached when every case returned.
	AllPassed

	// OneFailed is the terminal state reached when a case faulted.
	OneFailed
)

var (
	errTooManyCases = &kernel.Error{Module: "ktest", Message: "too many test cases registered"}
	errUnknownFault = &kernel.Error{Module: "ktest", Message: "unknown fault"}

	// errAssert is raised by failed assertions. Its message points to
	// assertBuf so that formatting a failure does not allocate.
	errAssert = &kernel.Error{Module: "ktest"}
	assertBuf fixedBuffer
)

// Harness executes test cases sequentially. There is no isolation between
// cases: the first fault ends the run and the harness never resumes.
type Harness struct {
	out   io.Writer
	exit  func(qemu.ExitCode)
	state State

	// faulting is set while a fault is being reported. A fault raised by
	// out itself skips reporting and exits directly.
	faulting bool
}

// New returns a harness that reports results to out and signals the final
// result through exit, which is expected not to return.
func New(out io.Writer, exit func(qemu.ExitCode)) *Harness {
	return &Harness{out: out, exit: exit}
}

// InstallFaultHandler registers the harness as the kernel fault handler so
// that faults raised before Run (e.g. during hardware detection) are
// reported as failures.
func (h *Harness) InstallFaultHandler() {
	kfmt.SetFaultHandler(h.onFault)
}

// State returns the current state of the harness.
func (h *Harness) State() State {
	return h.state
}

// Run installs the harness as the kernel fault handler and executes cases in
// order. If all of them return, Run signals qemu.Success. A fault inside a
// case is reported and followed by qemu.Failed. Run never returns.
func (h *Harness) Run(cases []Case) {
	h.InstallFaultHandler()
	h.state = Running

	kfmt.Fprintf(h.out, "Running %d tests\n", len(cases))
	for _, c := range cases {
		kfmt.Fprintf(h.out, "%s...\t", c.Name)
		c.Fn()
		kfmt.Fprintf(h.out, "[ok]\n")
	}

	h.state = AllPassed
	h.exit(qemu.Success)
}

// RunShouldFail executes a case that is expected to fault. A fault is
// reported as "[ok]" followed by qemu.Success; a case that returns normally
// is reported as a failure. RunShouldFail never returns.
func (h *Harness) RunShouldFail(c Case) {
	kfmt.SetFaultHandler(h.onExpectedFault)
	h.state = Running

	kfmt.Fprintf(h.out, "%s...\t", c.Name)
	c.Fn()

	h.state = OneFailed
	kfmt.Fprintf(h.out, "[test did not panic]\n")
	h.exit(qemu.Failed)
}

func (h *Harness) onFault(err *kernel.Error) {
	if h.faulting {
		h.exit(qemu.Failed)
		return
	}
	h.faulting = true

	if err == nil {
		err = errUnknownFault
	}

	h.state = OneFailed
	kfmt.Fprintf(h.out, "[failed]\n\nError: [%s] %s\n", err.Module, err.Message)
	h.exit(qemu.Failed)
}

func (h *Harness) onExpectedFault(_ *kernel.Error) {
	if h.faulting {
		h.state = OneFailed
		h.exit(qemu.Failed)
		return
	}
	h.faulting = true

	h.state = AllPassed
	kfmt.Fprintf(h.out, "[ok]\n")
	h.exit(qemu.Success)
}

// Assert raises a fault with a formatted description if cond is false.
func Assert(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}

	Fail(format, args...)
}

// Fail unconditionally raises a fault with a formatted description. Fail
// never returns.
func Fail(format string, args ...interface{}) {
	assertBuf.Reset()
	kfmt.Fprintf(&assertBuf, format, args...)
	errAssert.Message = assertBuf.String()
	kfmt.Panic(errAssert)
}

// fixedBuffer is an io.Writer backed by a static array. Writes past its
// capacity are silently truncated.
type fixedBuffer struct {
	buf [256]byte
	len int
}

func (b *fixedBuffer) Write(p []byte) (int, error) {
	b.len += copy(b.buf[b.len:], p)
	return len(p), nil
}

func (b *fixedBuffer) Reset() {
	b.len = 0
}

// String returns the buffer contents without copying them. The returned
// string is only valid until the next write.
func (b *fixedBuffer) String() string {
	if b.len == 0 {
		return ""
	}

	return unsafe.String(&b.buf[0], b.len)
}
