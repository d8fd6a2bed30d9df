package main

import (
	"fmt"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	report, err := deps.Runner.Run(deps.Ctx, "manual", c.Cases...)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	for _, r := range report.Cases {
		if r.Err != nil {
			fmt.Fprintf(deps.Stderr, "%s: %v\n", r.ID, r.Err)
		}
	}
	fmt.Fprintf(deps.Stderr, "Saved %d of %d cases\n", report.Succeeded(), len(report.Cases))

	return nil
}
