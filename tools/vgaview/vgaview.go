package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tdos/device/video/console"
)

var (
	width   = flag.Int("width", console.Width, "number of text columns in the dump")
	height  = flag.Int("height", console.Height, "number of text rows in the dump")
	pngFile = flag.String("png", "", "render the dump to a PNG file instead of displaying it")
	scale   = flag.Int("scale", 2, "pixel scale factor for PNG output")
	plain   = flag.Bool("text", false, "print the dump as plain text")
)

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[vgaview] error: %s\n", err.Error())
	os.Exit(1)
}

// main displays a VGA text mode framebuffer dump. A dump can be captured from
// the qemu monitor with "pmemsave 0xb8000 4000 vga.bin".
func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		exit(errors.New("usage: vgaview [flags] dump-file"))
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		exit(err)
	}

	s, err := decodeScreen(data, *width, *height)
	if err != nil {
		exit(err)
	}

	switch {
	case *pngFile != "":
		err = savePNG(s, *scale, *pngFile)
	case *plain:
		fmt.Println(strings.Join(s.text(), "\n"))
	default:
		err = showScreen(s, filepath.Base(flag.Arg(0)))
	}

	if err != nil {
		exit(err)
	}
}
