package kfmt

import (
	"io"
	"tdos/kernel"
	"tdos/kernel/cpu"
)

// FaultHandler receives the description of an unrecoverable fault. Handlers
// are not expected to return.
type FaultHandler func(err *kernel.Error)

var (
	// cpuHaltFn is mocked by tests and is automatically inlined by the compiler.
	cpuHaltFn = cpu.Halt

	// faultHandler is the single fault reporting entry point. When nil,
	// Panic prints a banner to the active output sink.
	faultHandler FaultHandler

	// faultSink receives the panic banner. When nil, the banner is
	// written to the output sink.
	faultSink io.Writer

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// SetFaultSink sets the writer used by the default fault handler. The sink
// must not block on locks that the faulting code may hold.
func SetFaultSink(w io.Writer) {
	faultSink = w
}

// SetFaultHandler installs h as the fault reporting entry point invoked by
// Panic and returns the previously installed handler. Passing nil restores
// the default handler which reports the fault to the active output sink.
func SetFaultHandler(h FaultHandler) FaultHandler {
	prev := faultHandler
	faultHandler = h
	return prev
}

// Panic routes the supplied error (if not nil) to the installed fault handler
// and halts the CPU. Calls to Panic never return. Panic also works as a
// redirection target for calls to panic() (resolved via runtime.gopanic)
//
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		panicString(t)
		return
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	if faultHandler != nil {
		faultHandler(err)
	} else {
		printPanicBanner(err)
	}

	cpuHaltFn()
}

// printPanicBanner reports err to the fault sink or, if none is set, to the
// active output sink.
func printPanicBanner(err *kernel.Error) {
	w := faultSink
	if w == nil {
		w = outputSink
	}

	Fprintf(w, "\n-----------------------------------\n")
	if err != nil {
		Fprintf(w, "[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Fprintf(w, "*** kernel panic: system halted ***")
	Fprintf(w, "\n-----------------------------------\n")
}

// panicString serves as a redirect target for runtime.throw
//
//go:redirect-from runtime.throw
func panicString(msg string) {
	errRuntimePanic.Message = msg
	Panic(errRuntimePanic)
}
