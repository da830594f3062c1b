package experiment

import (
	"context"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// RunBatch runs independent experiments on up to workers goroutines
// (GOMAXPROCS when workers <= 0). Slot i of the results and errors belongs
// to cfgs[i]; one failed run does not stop the others. Each run gets its
// own driver, so configs must not share Metrics.
func RunBatch(ctx context.Context, cfgs []Config, reg *Registry, logger *log.Logger, workers int) ([]*Result, []error) {
	if reg == nil {
		reg = NewRegistry()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range cfgs {
		g.Go(func() error {
			results[i], errs[i] = New(cfgs[i], reg, logger).Run(ctx)
			return nil
		})
	}
	g.Wait()

	return results, errs
}
