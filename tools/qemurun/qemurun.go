package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/howeyc/fsnotify"
	"golang.org/x/term"

	"tdos/tools/qemurun/protocol"
)

var (
	qemuBin  = flag.String("qemu", "qemu-system-x86_64", "the qemu binary used to boot the kernel image")
	timeout  = flag.Duration("timeout", time.Minute, "maximum time a test run may take")
	watch    = flag.Bool("watch", false, "re-run the kernel image whenever it changes")
	colorOpt = flag.String("color", "auto", "colorize results: auto, always or never")
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[qemurun] error: %s\n", err.Error())
	os.Exit(1)
}

// qemuArgs returns the command line for booting imgFile headless with the
// serial port attached to stdio and the isa-debug-exit device enabled.
func qemuArgs(imgFile string) []string {
	bootArgs := []string{"-kernel", imgFile}
	if strings.EqualFold(filepath.Ext(imgFile), ".iso") {
		bootArgs = []string{"-cdrom", imgFile}
	}

	return append(bootArgs,
		"-device", "isa-debug-exit,iobase=0xf4,iosize=0x04",
		"-serial", "stdio",
		"-display", "none",
		"-no-reboot",
	)
}

// printer writes report events to an output stream.
type printer struct {
	out   io.Writer
	color bool
}

func (p *printer) colorize(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

func (p *printer) print(ev protocol.Event) {
	switch ev.Kind {
	case protocol.RunStarted:
		fmt.Fprintf(p.out, "running %d test(s)\n", ev.Count)
	case protocol.CasePassed:
		fmt.Fprintf(p.out, "%s %s\n", p.colorize(ansiGreen, "PASS"), ev.Case)
	case protocol.CaseFailed:
		fmt.Fprintf(p.out, "%s %s: %s\n", p.colorize(ansiRed, "FAIL"), ev.Case, ev.Text)
	case protocol.DidNotPanic:
		fmt.Fprintf(p.out, "%s %s: test did not panic\n", p.colorize(ansiRed, "FAIL"), ev.Case)
	default:
		fmt.Fprintln(p.out, ev.Text)
	}
}

// runImage boots imgFile once and returns an error unless the kernel
// reported that all of its cases passed.
func runImage(ctx context.Context, p *printer, imgFile string) error {
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, *qemuBin, qemuArgs(imgFile)...)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	if err = cmd.Start(); err != nil {
		return err
	}

	var report protocol.Report
	parseErr := protocol.Parse(stdout, func(ev protocol.Event) {
		report.Add(ev)
		p.print(ev)
	})

	waitErr := cmd.Wait()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s: timed out after %s", imgFile, *timeout)
	}

	if parseErr != nil {
		return parseErr
	}

	status := 0
	var exitErr *exec.ExitError
	switch {
	case errors.As(waitErr, &exitErr):
		status = exitErr.ExitCode()
	case waitErr != nil:
		return waitErr
	}

	if err = report.Check(status); err != nil {
		return err
	}

	if protocol.ClassifyExit(status) == protocol.Failed {
		return fmt.Errorf("%d test(s) failed", len(report.Failures))
	}

	fmt.Fprintf(p.out, "%s %d test(s)\n", p.colorize(ansiGreen, "ok"), len(report.Passed))
	return nil
}

// watchImage re-runs imgFile whenever it is rewritten. Writes are debounced
// so that a run starts only after the build has finished.
func watchImage(ctx context.Context, p *printer, imgFile string) error {
	imgFile = filepath.Clean(imgFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err = watcher.Watch(filepath.Dir(imgFile)); err != nil {
		return err
	}

	run := time.After(time.Millisecond)
	for {
		select {
		case <-run:
			if err := runImage(ctx, p, imgFile); err != nil {
				fmt.Fprintf(os.Stderr, "[qemurun] %s\n", err.Error())
			}
			fmt.Fprintf(p.out, "waiting for changes to %s\n", imgFile)
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == imgFile && !ev.IsAttrib() && !ev.IsDelete() {
				run = time.After(200 * time.Millisecond)
			}
		case err := <-watcher.Error:
			fmt.Fprintf(os.Stderr, "[qemurun] watcher: %s\n", err.Error())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// useColor resolves the -color flag for the supplied output file.
func useColor(opt string, out *os.File) (bool, error) {
	switch opt {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return term.IsTerminal(int(out.Fd())), nil
	default:
		return false, fmt.Errorf("unsupported -color value %q", opt)
	}
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		exit(errors.New("usage: qemurun [flags] kernel-image"))
	}

	color, err := useColor(*colorOpt, os.Stdout)
	if err != nil {
		exit(err)
	}

	p := &printer{out: os.Stdout, color: color}
	imgFile := flag.Arg(0)

	if *watch {
		exit(watchImage(context.Background(), p, imgFile))
	}

	if err = runImage(context.Background(), p, imgFile); err != nil {
		exit(err)
	}
}
