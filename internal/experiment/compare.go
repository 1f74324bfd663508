package experiment

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
)

type Comparison struct {
	Variant dynamo.Variant
	Result  *Result
	// Err is set when the run diverged or failed; other variants still run.
	Err error
}

// Compare runs cfg once per variant, each on its own scene, in parallel.
// Only cancellation of ctx aborts the whole comparison.
func Compare(ctx context.Context, cfg *config.Config, variants []dynamo.Variant, reg *Registry) ([]Comparison, error) {
	out := make([]Comparison, len(variants))
	g, gctx := errgroup.WithContext(ctx)

	for i, v := range variants {
		g.Go(func() error {
			c := cfg.Clone()
			c.Integrator = v.String()

			exp := New(c)
			if err := exp.Setup(reg.DefaultMetrics()); err != nil {
				return err
			}
			res, err := exp.Run(gctx)
			if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				return err
			}
			out[i] = Comparison{Variant: v, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
