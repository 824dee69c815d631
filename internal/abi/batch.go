package abi

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EncodeBatch encodes every value list in batch against the same params,
// concurrently. Results keep the order of batch. The first failure cancels
// the remaining work and is returned annotated with its batch index.
func (e *Encoder) EncodeBatch(ctx context.Context, params []Param, batch [][]Value) ([]string, error) {
	out := make([]string, len(batch))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, values := range batch {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := e.EncodeArguments(params, values)
			if err != nil {
				return fmt.Errorf("batch item %d: %w", i, err)
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
