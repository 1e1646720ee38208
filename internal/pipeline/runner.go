package pipeline

import "context"

// Transform consumes assets from in and emits processed assets on out.
//
// Contract: a Transform processes assets strictly in arrival order, closes
// out before returning, and its first returned error terminates the run.
type Transform interface {
	Run(ctx context.Context, in <-chan *Asset, out chan<- *Asset) error
}

// Source produces the ordered set of assets for one run.
type Source interface {
	Assets() ([]*Asset, error)
}

// Sink persists one processed asset.
type Sink interface {
	Write(a *Asset) error
}

// Run drives one pipeline run: source -> transform -> sink. Output order
// mirrors source order. The transform error, if any, wins over sink
// errors.
func Run(ctx context.Context, t Transform, src Source, sink Sink) error {
	assets, err := src.Assets()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := make(chan *Asset)
	out := make(chan *Asset)
	errc := make(chan error, 1)

	go func() {
		errc <- t.Run(ctx, in, out)
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

	var sinkErr error
	for a := range out {
		if sinkErr == nil {
			sinkErr = sink.Write(a)
		}
	}

	if err := <-errc; err != nil {
		return err
	}
	return sinkErr
}
