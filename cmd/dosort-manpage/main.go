// Command dosort-manpage writes the dosort man pages. With a directory
// argument every subcommand gets its own page there; otherwise the page of
// the root command goes to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dosort/cmd/dosort"
	"github.com/arthur-debert/dosort/internal/version"
)

func main() {
	rootCmd := dosort.NewRootCmd()
	header := &doc.GenManHeader{
		Title:   "DOSORT",
		Section: "1",
		Source:  "dosort " + version.Version,
		Manual:  "dosort manual",
	}

	var err error
	if len(os.Args) > 1 {
		dir := os.Args[1]
		if err = os.MkdirAll(dir, 0755); err == nil {
			err = doc.GenManTree(rootCmd, header, dir)
		}
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
		os.Exit(1)
	}
}
