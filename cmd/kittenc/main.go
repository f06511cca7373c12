// Kitten back-end CLI: inspect compiled images and manage the image cache.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kittenc [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  inspect <image>        Disassemble a compiled .kimg image\n")
		fmt.Fprintf(os.Stderr, "  cache list             List cached images\n")
		fmt.Fprintf(os.Stderr, "  cache add <image>      Add an image file to the cache\n")
		fmt.Fprintf(os.Stderr, "  cache delete <id>      Remove a cached image\n")
		fmt.Fprintf(os.Stderr, "  cache prune            Keep only the newest image per project\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  kittenc inspect demo.kimg\n")
		fmt.Fprintf(os.Stderr, "  kittenc -v cache list\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "inspect":
		handleInspectCommand(args[1:])
	case "cache":
		handleCacheCommand(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
}
