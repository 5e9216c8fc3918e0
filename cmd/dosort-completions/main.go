// Command dosort-completions writes shell completion scripts for dosort,
// either one shell to stdout or every shell into a directory:
//
//	dosort-completions zsh > _dosort
//	dosort-completions -o completions/
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dosort/cmd/dosort"
)

// generators maps a shell to its script writer and the file name used for
// it in an output directory
var generators = map[string]struct {
	file string
	gen  func(*cobra.Command, io.Writer) error
}{
	"bash": {"dosort.bash", func(c *cobra.Command, w io.Writer) error { return c.GenBashCompletionV2(w, true) }},
	"zsh":  {"_dosort", func(c *cobra.Command, w io.Writer) error { return c.GenZshCompletion(w) }},
	"fish": {"dosort.fish", func(c *cobra.Command, w io.Writer) error { return c.GenFishCompletion(w, true) }},
	"powershell": {"dosort.ps1", func(c *cobra.Command, w io.Writer) error {
		return c.GenPowerShellCompletionWithDesc(w)
	}},
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	rootCmd := dosort.NewRootCmd()
	if os.Args[1] == "-o" {
		if len(os.Args) < 3 {
			usage()
		}
		if err := writeAll(rootCmd, os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating completions: %v\n", err)
			os.Exit(1)
		}
		return
	}

	shell := os.Args[1]
	g, ok := generators[shell]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\n", shell)
		usage()
	}
	if err := g.gen(rootCmd, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating %s completion: %v\n", shell, err)
		os.Exit(1)
	}
}

func writeAll(rootCmd *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for shell, g := range generators {
		f, err := os.Create(filepath.Join(dir, g.file))
		if err != nil {
			return err
		}
		err = g.gen(rootCmd, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("%s: %w", shell, err)
		}
	}
	return nil
}

func usage() {
	shells := make([]string, 0, len(generators))
	for shell := range generators {
		shells = append(shells, shell)
	}
	sort.Strings(shells)
	fmt.Fprintf(os.Stderr, "Usage: %s <shell> | -o <dir>\nSupported shells: %v\n", os.Args[0], shells)
	os.Exit(1)
}
