package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/btouchard/sasspipe/internal/cache"
	"github.com/btouchard/sasspipe/internal/libsass"
	"github.com/btouchard/sasspipe/internal/pipeline"
	"github.com/btouchard/sasspipe/internal/sass"
	"github.com/btouchard/sasspipe/internal/sourcemaps"
)

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	outDir := fs.String("o", "dist", "output directory")
	style := fs.String("style", "", "output style (nested, expanded, compact, compressed)")
	syncMode := fs.Bool("sync", false, "use the blocking compiler entry point")
	maps := fs.Bool("sourcemap", false, "emit sourcemap sidecars")
	cacheFile := fs.String("cache", "", "compile cache database path (cache disabled when empty)")
	verbose := fs.Bool("v", false, "verbose output")
	var includes pathList
	fs.Var(&includes, "I", "additional import search path (repeatable)")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: sasspipe build [flags] <srcdir>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	mode := sass.ModeAsync
	if *syncMode {
		mode = sass.ModeSync
	}

	cfg := buildConfig{
		root:   fs.Arg(0),
		outDir: *outDir,
		cache:  *cacheFile,
		opts: sass.Options{
			Mode:         mode,
			IncludePaths: includes,
			OutputStyle:  *style,
		},
		sourceMaps: *maps,
	}

	start := time.Now()
	n, err := runBuild(context.Background(), cfg)
	if err != nil {
		log.Fatal("build failed", "err", err)
	}
	log.Info("build complete", "files", n, "out", *outDir, "elapsed", time.Since(start).Round(time.Millisecond))
}

type buildConfig struct {
	root       string
	outDir     string
	cache      string
	opts       sass.Options
	sourceMaps bool
}

// buildItem pairs an asset with the identity it had before the engine
// rewrote it, so cache entries key on the original input.
type buildItem struct {
	asset    *pipeline.Asset
	origPath string
	hash     string
	cached   *cache.Entry
}

// runBuild compiles every stylesheet under cfg.root into cfg.outDir and
// returns how many files were written. When a cache is configured,
// unchanged inputs are served from it without touching the compiler.
func runBuild(ctx context.Context, cfg buildConfig) (int, error) {
	src := &pipeline.DirSource{Root: cfg.root, SourceMaps: cfg.sourceMaps}
	assets, err := src.Assets()
	if err != nil {
		return 0, err
	}

	var store *cache.Store
	if cfg.cache != "" {
		store, err = cache.Open(cfg.cache)
		if err != nil {
			return 0, err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn("closing cache", "err", err)
			}
		}()
	}

	items := make([]*buildItem, 0, len(assets))
	var toCompile []*pipeline.Asset
	for _, a := range assets {
		if sass.IsPartial(a) {
			continue
		}
		item := &buildItem{asset: a, origPath: a.Path}
		if store != nil {
			item.hash = cache.Hash(a.Contents)
			entry, err := store.Lookup(a.Path, item.hash)
			if err != nil {
				return 0, err
			}
			item.cached = entry
		}
		if item.cached == nil {
			toCompile = append(toCompile, a)
		} else {
			log.Debug("cache hit", "file", a.Path)
		}
		items = append(items, item)
	}

	engine := sass.New(cfg.opts, libsass.Factory{})
	compiled, err := runEngine(ctx, engine, toCompile)
	if err != nil {
		return 0, err
	}

	sink := &pipeline.FileSink{Root: cfg.root, OutDir: cfg.outDir}
	written := 0
	next := 0
	for _, item := range items {
		a := item.asset
		if item.cached != nil {
			a.Contents = item.cached.CSS
			a.RenameExt(sass.OutputExt)
			if len(item.cached.SourceMap) > 0 {
				m, err := sourcemaps.Parse(item.cached.SourceMap)
				if err != nil {
					return written, err
				}
				a.SourceMap = m
			}
		} else {
			// Engine output order mirrors input order, so the next
			// compiled asset belongs to this item.
			a = compiled[next]
			next++
			if store != nil {
				entry := &cache.Entry{Path: item.origPath, Hash: item.hash, CSS: a.Contents}
				if a.SourceMap != nil {
					entry.SourceMap, err = json.Marshal(a.SourceMap)
					if err != nil {
						return written, err
					}
				}
				if err := store.Put(entry); err != nil {
					return written, err
				}
			}
		}
		if err := sink.Write(a); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// runEngine feeds the assets through one transform run and collects the
// outputs in order. The cancel releases the feeder goroutine when the
// transform aborts without draining its input.
func runEngine(ctx context.Context, tr pipeline.Transform, assets []*pipeline.Asset) ([]*pipeline.Asset, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := make(chan *pipeline.Asset)
	out := make(chan *pipeline.Asset, len(assets))
	errc := make(chan error, 1)

	go func() {
		errc <- tr.Run(ctx, in, out)
	}()
	go func() {
		defer close(in)
		for _, a := range assets {
			select {
			case in <- a:
			case <-ctx.Done():
				return
			}
		}
	}()

	var compiled []*pipeline.Asset
	for a := range out {
		compiled = append(compiled, a)
	}
	if err := <-errc; err != nil {
		return nil, err
	}
	return compiled, nil
}
