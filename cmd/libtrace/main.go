// Command libtrace generates relocation-masked byte signatures for every
// function symbol in a Microsoft-compatible static library archive.
//
// Usage:
//
//	libtrace <input.lib> <output-dir>
//
// It writes <output-dir>/Signatures.json mapping each function's symbol
// name to its signature pattern, and exits 0 on success or 1 on a fatal
// error (bad arguments, unreadable input, or an unrecognized container).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maxgio92/libtrace"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <input.lib> <output-dir>\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	inputPath := flag.Arg(0)
	outputDir := flag.Arg(1)

	log := libtrace.NewLogger()

	outputPath, processed, err := libtrace.Run(inputPath, outputDir, log)
	if err != nil {
		log.Log("fatal: %v", err)
		os.Exit(1)
	}

	log.Log("done: signed %d function(s) into %s", processed, outputPath)
}
