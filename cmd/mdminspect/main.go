package main

import (
	"flag"
	"fmt"
	"os"

	"soldak-mdm/internal/dump"
	"soldak-mdm/internal/mdm"
)

func main() {
	raw := flag.Bool("raw", false, "Dump every record of the global tables")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mdminspect [-raw] <file.mdm>...")
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		fmt.Printf("=== %s ===\n", path)
		if err := inspect(path, *raw); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
		}
		fmt.Println()
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string, raw bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}

	if raw {
		l, err := mdm.Inspect(f, fi.Size())
		if err != nil {
			return err
		}
		dump.Listing(os.Stdout, l)
		fmt.Println()
	}

	a := &mdm.Assembler{Logf: func(string, ...interface{}) {}}
	m, err := a.Assemble(f, fi.Size())
	if err != nil {
		return err
	}
	dump.Summary(os.Stdout, m)
	return nil
}
