package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, `Usage: sasspipe <command> [flags]

Commands:
  build    compile a directory of stylesheets into an output directory
  compile  compile a single stylesheet to stdout or a file

Run 'sasspipe <command> -h' for command flags.
`)
}

func main() {
	log.SetReportTimestamp(false)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		cmdBuild(os.Args[2:])
	case "compile":
		cmdCompile(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

// pathList collects repeated -I flags.
type pathList []string

func (p *pathList) String() string { return fmt.Sprint(*p) }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}
