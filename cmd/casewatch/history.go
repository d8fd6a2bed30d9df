package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/casewatch"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if deps.Ledger == nil {
		err := casewatch.Errorf(casewatch.EUNAVAILABLE, "ledger disabled")
		fmt.Fprintf(deps.Stderr, "error: %s\n", casewatch.ErrorMessage(err))
		return err
	}

	if c.Case != "" {
		return c.runCase(deps)
	}

	runs, err := deps.Ledger.FindRuns(deps.Ctx, casewatch.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", casewatch.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded yet. Use 'casewatch run' to fetch cases.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %-8s  %-7s  ok=%d failed=%d not_found=%d  %s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Trigger, r.Status,
			r.Succeeded, r.Failed, r.NotFound, r.ID)
		if r.Error != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", r.Error)
		}
	}
	return nil
}

func (c *HistoryCmd) runCase(deps *Dependencies) error {
	outcomes, err := deps.Ledger.FindCaseOutcomes(deps.Ctx, casewatch.CaseOutcomeFilter{
		CaseID: &c.Case,
		Limit:  c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", casewatch.ErrorMessage(err))
		return err
	}

	if len(outcomes) == 0 {
		fmt.Fprintf(deps.Stdout, "No outcomes recorded for %s.\n", c.Case)
		return nil
	}

	for _, o := range outcomes {
		fmt.Fprintf(deps.Stdout, "%s  %-9s  %-16s  %s\n",
			o.FetchedAt.Local().Format(time.DateTime), o.Status, o.ContentHash, o.RunID)
		if o.Error != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", o.Error)
		}
		if o.SectionErrors != "" {
			fmt.Fprintf(deps.Stdout, "    sections: %s\n", o.SectionErrors)
		}
	}
	return nil
}
