package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/casewatch"
	"github.com/fwojciec/casewatch/batch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Cases  casewatch.CaseTable
	Times  []string
	Ledger casewatch.RunLedger
	Runner *batch.Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string         `short:"c" type:"existingfile" help:"Settings file (YAML) with output, db, settle, rate, times and cases"`
	Output   string         `short:"o" help:"Directory for case documents (default: current directory)"`
	DB       string         `env:"CASEWATCH_DB" help:"Run ledger database path (default: ~/.casewatch/casewatch.db)"`
	NoLedger bool           `help:"Do not record runs in the ledger"`
	Settle   *time.Duration `help:"Wait after page load for client-side rendering (default: 3s)"`
	Rate     *float64       `help:"Maximum page loads per second, 0 disables pacing (default: 1)"`
	Browser  string         `help:"Chrome/Chromium executable (default: auto-detect)"`
	Verbose  bool           `short:"v" help:"Enable debug logging"`

	Run     RunCmd     `cmd:"" help:"Fetch cases now and exit"`
	Daemon  DaemonCmd  `cmd:"" help:"Fetch all cases at the scheduled times until interrupted"`
	Cases   CasesCmd   `cmd:"" help:"List tracked cases"`
	History HistoryCmd `cmd:"" help:"Show recent runs from the ledger"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Cases []string `arg:"" optional:"" name:"case" help:"Case numbers to fetch (default: all tracked cases)"`
}

// DaemonCmd is the "daemon" subcommand.
type DaemonCmd struct {
	Times []string `name:"time" short:"t" help:"Time of day to run (HH:MM, repeatable; default: 10:30 and 17:30)"`
	Now   bool     `help:"Also run a batch immediately on start"`
}

// CasesCmd is the "cases" subcommand.
type CasesCmd struct{}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int    `short:"n" default:"10" help:"Number of entries to show"`
	Case  string `help:"Show outcomes of one case instead of runs"`
}
