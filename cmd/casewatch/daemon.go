package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/casewatch"
	"github.com/fwojciec/casewatch/cron"
	"golang.org/x/sync/errgroup"
)

// Run executes the daemon command. It blocks until the context is canceled.
func (c *DaemonCmd) Run(deps *Dependencies) error {
	job := func(ctx context.Context, trigger string) error {
		_, err := deps.Runner.Run(ctx, trigger)
		return err
	}

	scheduler, err := cron.New(job,
		cron.WithTimes(deps.Times...),
		cron.WithLogger(deps.Logger),
	)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", casewatch.ErrorMessage(err))
		return err
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		return scheduler.Run(ctx)
	})
	if c.Now {
		g.Go(func() error {
			err := scheduler.Trigger(ctx, "startup")
			if err != nil && ctx.Err() == nil {
				deps.Logger.Error("startup batch failed", "err", err)
			}
			return nil
		})
	}

	return g.Wait()
}
