// Package cli wires the taskmgr command tree: the interactive TUI plus
// one-shot commands that print to stdout.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskmgr/internal/api"
	"taskmgr/internal/app"
	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/ui"
)

// runtime is what PersistentPreRunE builds for the subcommands.
type runtime struct {
	configPath string
	apiURL     string
	debug      bool

	cfg     config.Config
	client  *api.Client
	ctrl    *app.Controller
	logger  *slog.Logger
	logFile io.Closer
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	rt := &runtime{}
	root := newRootCmd(rt)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if rt.logFile != nil {
		rt.logFile.Close()
	}
	if err == nil {
		return exitcode.Success
	}
	return report(errOut, err)
}

func newRootCmd(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskmgr",
		Short: "Manage tasks on a task service",
		Long: `taskmgr talks to a task service over HTTP.

Run without a command to open the interactive task list.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: rt.setup,
		RunE:              rt.runTUI,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or "+filepath.Join(config.DefaultConfigDir(), config.DefaultConfigFileName)+")")
	root.PersistentFlags().StringVar(&rt.apiURL, "api-url", "", "task service base URL (overrides config and $"+config.EnvAPIURL+")")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "write debug logs to the log file")

	root.AddCommand(
		newTUICmd(rt),
		newListCmd(rt),
		newAddCmd(rt),
		newEditCmd(rt),
		newStatusCmd(rt),
		newRmCmd(rt),
	)
	return root
}

func newTUICmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive task list",
		Args:  cobra.NoArgs,
		RunE:  rt.runTUI,
	}
}

func (rt *runtime) runTUI(cmd *cobra.Command, _ []string) error {
	if err := ui.Run(cmd.Context(), rt.ctrl, rt.cfg); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// setup loads the config, opens the log and builds the client and
// controller.
func (rt *runtime) setup(cmd *cobra.Command, _ []string) error {
	if skipsSetup(cmd) {
		return nil
	}
	path := rt.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return configErr(fmt.Errorf("failed to load config: %w", err))
	}
	if v := strings.TrimSpace(rt.apiURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return configErr(err)
	}
	rt.cfg = cfg

	if err := rt.openLog(); err != nil {
		return configErr(fmt.Errorf("failed to open log: %w", err))
	}

	rt.client = api.NewClient(cfg.APIURL, api.WithTimeout(timeout), api.WithLogger(rt.logger))
	rt.ctrl = app.New(rt.client, rt.logger)
	rt.logger.Debug("starting", "command", cmd.Name(), "api_url", rt.client.BaseURL(), "config", path)
	return nil
}

// skipsSetup reports whether cmd is cobra's help or completion machinery,
// which must not touch the config file or the log.
func skipsSetup(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "completion"
}

// openLog sends logs to log_path, or to debug.log next to the config when
// only --debug is set. Without either, logs are discarded: the TUI owns the
// terminal.
func (rt *runtime) openLog() error {
	path := rt.cfg.LogPath
	if path == "" && rt.debug {
		path = filepath.Join(config.DefaultConfigDir(), "debug.log")
	}
	if path == "" {
		rt.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := tea.LogToFile(path, config.AppName)
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if rt.debug {
		level = slog.LevelDebug
	}
	rt.logFile = f
	rt.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

// exitError carries an exit code. A silent one has already been reported.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func userErr(err error) error    { return &exitError{code: exitcode.UserError, err: err} }
func configErr(err error) error  { return &exitError{code: exitcode.ConfigError, err: err} }
func backendErr(err error) error { return &exitError{code: exitcode.BackendError, err: err} }

// report prints err and maps it to an exit code. Errors cobra raises itself
// (unknown flags, wrong arg counts) count as user errors.
func report(w io.Writer, err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent {
			fmt.Fprintf(w, "error: %v\n", ee)
		}
		return ee.code
	}
	fmt.Fprintf(w, "error: %v\n", err)
	if errors.Is(err, api.ErrRequestFailed) {
		return exitcode.BackendError
	}
	return exitcode.UserError
}
