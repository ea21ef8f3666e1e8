// Package ktest runs test cases inside the kernel and reports their outcome
// to the host through the serial port and the isa-debug-exit device.
//
// Test cases are registered by init blocks in files guarded by the ktest
// build tag, so they are only linked into test images.
package ktest

import (
	"reflect"
	"runtime"
)

// maxCases bounds the number of cases that can be registered. The registry
// is statically allocated as no heap is available when init blocks run.
const maxCases = 64

// Case is a single test case. Fn reports failures by faulting (see Assert);
// returning normally means the case passed.
type Case struct {
	Name string
	Fn   func()
}

var (
	registry  [maxCases]Case
	caseCount int
)

// Register adds fn to the list of test cases. The case is named after the
// fully qualified name of fn.
func Register(fn func()) {
	RegisterNamed(funcName(fn), fn)
}

// RegisterNamed adds fn to the list of test cases under the supplied name.
// Registering more than maxCases cases is a fatal error.
func RegisterNamed(name string, fn func()) {
	if caseCount == maxCases {
		panic(errTooManyCases)
	}

	registry[caseCount] = Case{Name: name, Fn: fn}
	caseCount++
}

// Cases returns the registered test cases in registration order.
func Cases() []Case {
	return registry[:caseCount]
}

func funcName(fn func()) string {
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		return f.Name()
	}

	return "unknown"
}
