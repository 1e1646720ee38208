package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/btouchard/sasspipe/internal/libsass"
	"github.com/btouchard/sasspipe/internal/pipeline"
	"github.com/btouchard/sasspipe/internal/sass"
)

func cmdCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	outFile := fs.String("o", "", "output file path (default: stdout)")
	style := fs.String("style", "", "output style (nested, expanded, compact, compressed)")
	syncMode := fs.Bool("sync", false, "use the blocking compiler entry point")
	var includes pathList
	fs.Var(&includes, "I", "additional import search path (repeatable)")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: sasspipe compile [flags] <input.scss>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	mode := sass.ModeAsync
	if *syncMode {
		mode = sass.ModeSync
	}
	opts := sass.Options{
		Mode:         mode,
		IncludePaths: includes,
		OutputStyle:  *style,
	}

	css, err := compileFile(context.Background(), fs.Arg(0), opts)
	if err != nil {
		log.Fatal("compile failed", "err", err)
	}

	if *outFile == "" {
		_, _ = os.Stdout.Write(css)
		return
	}
	if dir := filepath.Dir(*outFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal("creating output directory", "err", err)
		}
	}
	if err := os.WriteFile(*outFile, css, 0644); err != nil {
		log.Fatal("writing output", "err", err)
	}
}

// compileFile runs a single file through one engine run and returns the
// compiled CSS.
func compileFile(ctx context.Context, path string, opts sass.Options) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving input path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	asset := &pipeline.Asset{Path: abs, Contents: data, Kind: pipeline.Buffered}
	engine := sass.New(opts, libsass.Factory{})

	compiled, err := runEngine(ctx, engine, []*pipeline.Asset{asset})
	if err != nil {
		return nil, err
	}
	if len(compiled) == 0 {
		return nil, fmt.Errorf("%s produced no output (partial file?)", path)
	}
	return compiled[0].Contents, nil
}
