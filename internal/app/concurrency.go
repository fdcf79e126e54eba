package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Parallel3 runs three loads concurrently. The first error cancels the
// others and zeroes every result.
//
// Example:
//
//	grants, investors, tools, err := Parallel3(ctx,
//	    catalog.GrantStats, catalog.InvestorStats, catalog.ToolStats)
func Parallel3[T1, T2, T3 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
	fn3 func(context.Context) (T3, error),
) (r1 T1, r2 T2, r3 T3, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		r1, err = fn1(gctx)
		return err
	})
	g.Go(func() (err error) {
		r2, err = fn2(gctx)
		return err
	})
	g.Go(func() (err error) {
		r3, err = fn3(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		var (
			z1 T1
			z2 T2
			z3 T3
		)

		return z1, z2, z3, fmt.Errorf("parallel load failed: %w", err)
	}

	return r1, r2, r3, nil
}

// ParallelLimit runs fns with at most limit in flight and returns results
// in the order of fns. The first error cancels the rest.
func ParallelLimit[T any](ctx context.Context, limit int, fns ...func(context.Context) (T, error)) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]T, len(fns))
	for i, fn := range fns {
		g.Go(func() error {
			v, err := fn(gctx)
			if err != nil {
				return err
			}
			results[i] = v

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parallel load failed: %w", err)
	}

	return results, nil
}

// PartialResult is the outcome of one function run by ParallelPartial.
type PartialResult[T any] struct {
	Value T
	Err   error
}

// ParallelPartial runs every fn to completion and reports each outcome in
// the order of fns. A failure does not cancel the others.
func ParallelPartial[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []PartialResult[T] {
	results := make([]PartialResult[T], len(fns))

	var wg sync.WaitGroup
	for i, fn := range fns {
		wg.Go(func() {
			v, err := fn(ctx)
			results[i] = PartialResult[T]{Value: v, Err: err}
		})
	}
	wg.Wait()

	return results
}
