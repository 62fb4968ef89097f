package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.creack.net/shork/asm"
	"go.creack.net/shork/cli"
	"go.creack.net/shork/disasm"
)

func disam(input string) error {
	src, err := cli.ReadSource(input)
	if err != nil {
		return err
	}
	res := asm.Compile(input, src)
	if err := res.Err(); err != nil {
		return fmt.Errorf("failed to compile: %w", err)
	}

	known, err := disasm.Known(res.Instructions)
	if err != nil {
		return fmt.Errorf("failed to search known warriors: %w", err)
	}
	if known != "" {
		log.Printf("Found match in known sources: %s.", cli.BuiltinPrefix+known)
	}
	return disasm.Listing(os.Stdout, res.Instructions)
}

func main() {
	log.SetFlags(0)
	flag.Parse()
	f := flag.Arg(0)
	if f == "" {
		fmt.Fprintf(os.Stderr, "usage: %s <.red path|builtin:name>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err := disam(f); err != nil {
		log.Fatalf("fail: %s.", err)
	}
}
