package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/casewatch"
	"github.com/fwojciec/casewatch/batch"
	"github.com/fwojciec/casewatch/cron"
	"github.com/fwojciec/casewatch/fs"
	"github.com/fwojciec/casewatch/rod"
	cwslog "github.com/fwojciec/casewatch/slog"
	"github.com/fwojciec/casewatch/sqlite"
	"github.com/fwojciec/casewatch/yaml"
	"golang.org/x/time/rate"
)

//go:embed cases.yaml
var defaultCases []byte

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither the flag, the environment nor the
	// settings file names one.
	DBPath string

	// Provider overrides the browser-backed provider. Set before calling Run().
	Provider casewatch.Provider

	// SQLite database backing the run ledger.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("casewatch"),
		kong.Description("Track court case status and save twice-daily JSON snapshots"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'casewatch --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	settings, err := m.loadSettings(cli)
	if err != nil {
		return err
	}
	deps.Cases = settings.Cases
	deps.Times = settings.Times

	if !cli.NoLedger {
		if err := m.openLedger(settings.DBPath); err != nil {
			fmt.Fprintf(stderr, "Hint: Set CASEWATCH_DB or pass --no-ledger\n")
			return fmt.Errorf("failed to open database at %q: %w", settings.DBPath, err)
		}
		defer m.Close()
		deps.Ledger = sqlite.NewRunLedger(m.DB)
	}

	switch strings.Fields(kongCtx.Command())[0] {
	case "run", "daemon":
		provider := m.Provider
		if provider == nil {
			opts := []rod.ProviderOption{rod.WithSettleDelay(settings.Settle)}
			if cli.Browser != "" {
				opts = append(opts, rod.WithBrowserPath(cli.Browser))
			}
			provider = rod.NewProvider(opts...)
		}

		runner := &batch.Runner{
			Cases:    settings.Cases,
			Provider: cwslog.NewLoggingProvider(provider, deps.Logger),
			Store:    cwslog.NewLoggingStore(fs.NewWriter(settings.Output), deps.Logger),
			Ledger:   deps.Ledger,
			Logger:   deps.Logger,
			Stdout:   stdout,
		}
		if settings.Rate > 0 {
			runner.Limiter = rate.NewLimiter(rate.Limit(settings.Rate), 1)
		}
		deps.Runner = runner
	}

	return kongCtx.Run(deps)
}

// Settings are the effective options after merging flags, the settings file
// and defaults, in that order of precedence.
type Settings struct {
	Cases  casewatch.CaseTable
	Output string
	DBPath string
	Settle time.Duration
	Rate   float64
	Times  []string
}

// Defaults for options not set by flags or the settings file.
const (
	DefaultOutput = "."
	DefaultRate   = 1.0
)

func (m *Main) loadSettings(cli *CLI) (*Settings, error) {
	embedded, err := yaml.Parse(defaultCases)
	if err != nil {
		return nil, fmt.Errorf("embedded case table: %w", err)
	}

	s := &Settings{
		Cases:  embedded.Cases,
		Output: DefaultOutput,
		DBPath: m.DBPath,
		Settle: rod.DefaultSettleDelay,
		Rate:   DefaultRate,
		Times:  cron.DefaultTimes,
	}

	if cli.Config != "" {
		cfg, err := yaml.LoadFile(cli.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %q: %w", cli.Config, err)
		}
		if len(cfg.Cases) > 0 {
			s.Cases = cfg.Cases
		}
		if cfg.Output != "" {
			s.Output = cfg.Output
		}
		if cfg.DB != nil && *cfg.DB != "" {
			s.DBPath = *cfg.DB
		}
		if cfg.Settle != nil {
			s.Settle = *cfg.Settle
		}
		if cfg.Rate != nil {
			s.Rate = *cfg.Rate
		}
		if len(cfg.Times) > 0 {
			s.Times = cfg.Times
		}
	}

	if cli.Output != "" {
		s.Output = cli.Output
	}
	if cli.DB != "" {
		s.DBPath = cli.DB
	}
	if cli.Settle != nil {
		s.Settle = *cli.Settle
	}
	if cli.Rate != nil {
		s.Rate = *cli.Rate
	}
	if s.Settle < 0 {
		return nil, casewatch.Errorf(casewatch.EINVALID, "settle delay must not be negative")
	}
	if s.Rate < 0 {
		return nil, casewatch.Errorf(casewatch.EINVALID, "rate must not be negative")
	}
	if len(cli.Daemon.Times) > 0 {
		s.Times = cli.Daemon.Times
	}

	return s, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "casewatch.db"
	}
	return filepath.Join(home, ".casewatch", "casewatch.db")
}

// openLedger opens the ledger database, creating its directory first.
func (m *Main) openLedger(path string) error {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
	}
	m.DB = sqlite.NewDB(path)
	return m.DB.Open()
}
