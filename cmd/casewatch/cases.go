package main

import "fmt"

// Run executes the cases command.
func (c *CasesCmd) Run(deps *Dependencies) error {
	if len(deps.Cases) == 0 {
		fmt.Fprintln(deps.Stdout, "No cases configured. Add them under 'cases:' in the settings file.")
		return nil
	}

	for _, cs := range deps.Cases {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", cs.ID, cs.URL)
	}
	return nil
}
