package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.creack.net/shork/asm"
	"go.creack.net/shork/cli"
	"go.creack.net/shork/disasm"
)

// errDiagnostics tells main the diagnostics were already printed.
var errDiagnostics = errors.New("compilation failed")

func run(input, output string, prettyPrint bool) error {
	src, err := cli.ReadSource(input)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	res := asm.Compile(input, src)
	for _, elem := range res.Errors() {
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", input, elem.Line, elem.ColumnStart, elem.Message)
	}
	if res.ErrorsOccurred() {
		return errDiagnostics
	}

	if prettyPrint {
		return disasm.Listing(os.Stdout, res.Instructions)
	}
	if output == "" {
		return nil
	}

	buf := bytes.NewBuffer(nil)
	if err := disasm.Listing(buf, res.Instructions); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func main() {
	log.SetFlags(0)
	output := flag.String("o", "", "write the normalized source to this file")
	prettyPrint := flag.Bool("pretty", false, "print the normalized source")
	flag.Parse()
	input := flag.Arg(0)
	if input == "" {
		fmt.Fprintf(os.Stderr, "usage: %s <.red path|builtin:name> [options]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(input, *output, *prettyPrint); err != nil {
		if errors.Is(err, errDiagnostics) {
			os.Exit(1)
		}
		log.Fatalf("fail: %s.", err)
	}
}
