package protocol

import (
	"fmt"
	"tdos/kernel/qemu"
)

// Exit statuses of the virtual machine when the kernel signals its outcome
// through the isa-debug-exit device.
var (
	StatusSuccess = qemu.Success.HostStatus()
	StatusFailed  = qemu.Failed.HostStatus()
)

// Outcome classifies how a test run ended.
type Outcome uint8

const (
	// Passed indicates that the kernel reported success.
	Passed Outcome = iota

	// Failed indicates that the kernel reported a failed case.
	Failed

	// EmulatorError indicates that the virtual machine exited without the
	// kernel signaling an outcome.
	EmulatorError
)

// String implements fmt.Stringer for Outcome.
func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "emulator error"
	}
}

// ClassifyExit maps the exit status of the virtual machine to an Outcome.
func ClassifyExit(status int) Outcome {
	switch status {
	case StatusSuccess:
		return Passed
	case StatusFailed:
		return Failed
	default:
		return EmulatorError
	}
}

// Report accumulates the events of a single test run.
type Report struct {
	Announced int
	Passed    []string
	Failures  []Event
}

// Add records ev in the report.
func (r *Report) Add(ev Event) {
	switch ev.Kind {
	case RunStarted:
		r.Announced = ev.Count
	case CasePassed:
		r.Passed = append(r.Passed, ev.Case)
	case CaseFailed, DidNotPanic:
		r.Failures = append(r.Failures, ev)
	}
}

// Check validates the report against the exit status of the virtual
// machine. It returns an error if the kernel signaled an outcome that
// contradicts the reported events.
func (r *Report) Check(status int) error {
	switch outcome := ClassifyExit(status); {
	case outcome == EmulatorError:
		return fmt.Errorf("virtual machine exited with status %d before the kernel reported an outcome", status)
	case outcome == Passed && len(r.Failures) != 0:
		return fmt.Errorf("kernel signaled success but %d case(s) failed", len(r.Failures))
	case outcome == Passed && r.Announced > len(r.Passed):
		return fmt.Errorf("kernel signaled success after %d of %d cases", len(r.Passed), r.Announced)
	case outcome == Failed && len(r.Failures) == 0:
		return fmt.Errorf("kernel signaled failure without reporting a failed case")
	}

	return nil
}
