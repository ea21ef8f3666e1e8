// Package protocol parses the line-oriented test report that kernel test
// images write to the serial port and interprets the exit status of the
// virtual machine that ran them.
package protocol

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// EventKind identifies the type of a parsed report event.
type EventKind uint8

const (
	// Output is a line that is not part of the test report.
	Output EventKind = iota

	// RunStarted reports the number of cases that will be executed.
	RunStarted

	// CasePassed reports a case that returned normally.
	CasePassed

	// CaseFailed reports a case that faulted.
	CaseFailed

	// DidNotPanic reports a case that was expected to fault but returned.
	DidNotPanic
)

// String implements fmt.Stringer for EventKind.
func (k EventKind) String() string {
	switch k {
	case RunStarted:
		return "run started"
	case CasePassed:
		return "case passed"
	case CaseFailed:
		return "case failed"
	case DidNotPanic:
		return "did not panic"
	default:
		return "output"
	}
}

// Event is a single entry of a test report.
type Event struct {
	Kind EventKind

	// Case is the name of the test case for case events.
	Case string

	// Count is the number of announced cases for RunStarted events.
	Count int

	// Text holds the fault description for CaseFailed events and the raw
	// line for Output events.
	Text string
}

const (
	runPrefix    = "Running "
	runSuffix    = " tests"
	caseSep      = "...\t"
	errorPrefix  = "Error: "
	resultOK     = "[ok]"
	resultFailed = "[failed]"
	resultNoPnc  = "[test did not panic]"
)

// Parse reads a test report from r and invokes fn for every event. A failed
// case is reported once its fault description has been read; if the stream
// ends before that, the event is emitted with an empty description.
func Parse(r io.Reader, fn func(Event)) error {
	var (
		scanner    = bufio.NewScanner(r)
		failedCase string
		pending    bool
	)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if pending {
			switch {
			case line == "":
				continue
			case strings.HasPrefix(line, errorPrefix):
				fn(Event{Kind: CaseFailed, Case: failedCase, Text: strings.TrimPrefix(line, errorPrefix)})
				pending = false
				continue
			default:
				fn(Event{Kind: CaseFailed, Case: failedCase})
				pending = false
			}
		}

		if count, ok := parseRunLine(line); ok {
			fn(Event{Kind: RunStarted, Count: count})
			continue
		}

		sepIndex := strings.Index(line, caseSep)
		if sepIndex < 0 {
			fn(Event{Kind: Output, Text: line})
			continue
		}

		name, result := line[:sepIndex], line[sepIndex+len(caseSep):]
		switch result {
		case resultOK:
			fn(Event{Kind: CasePassed, Case: name})
		case resultFailed:
			failedCase, pending = name, true
		case resultNoPnc:
			fn(Event{Kind: DidNotPanic, Case: name})
		default:
			fn(Event{Kind: Output, Text: line})
		}
	}

	if pending {
		fn(Event{Kind: CaseFailed, Case: failedCase})
	}

	return scanner.Err()
}

func parseRunLine(line string) (int, bool) {
	if !strings.HasPrefix(line, runPrefix) || !strings.HasSuffix(line, runSuffix) {
		return 0, false
	}

	count, err := strconv.Atoi(line[len(runPrefix) : len(line)-len(runSuffix)])
	if err != nil || count < 0 {
		return 0, false
	}

	return count, true
}
