package main

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/kittenlang/kitten/image"
)

// handleInspectCommand processes the `kittenc inspect` subcommand.
func handleInspectCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: kittenc inspect <image>")
		os.Exit(2)
	}
	path := args[0]
	log := commonlog.GetLogger("kittenc.inspect")

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	log.Infof("read %s (%d bytes)", path, len(data))

	img, err := image.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Print(image.Disassemble(img))
}
