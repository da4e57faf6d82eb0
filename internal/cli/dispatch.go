// Package cli parses the command line and runs commands against the task file.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"tasker/internal/commands"
	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/logging"
	"tasker/internal/manager"
	"tasker/internal/service"
	"tasker/internal/timing"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list every task
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	baseDir   string
	file      string
	quiet     bool
	debug     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configDir, "config", "", "")
	fs.StringVar(&c.baseDir, "dir", "", "")
	fs.StringVar(&c.file, "file", "", "")
	fs.BoolVar(&c.quiet, "quiet", false, "")
	fs.BoolVar(&c.debug, "debug", false, "")
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
	}

	// A leading dash left over means the flag parser stopped at "--"
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.ApplyFlags(common.baseDir, common.file)
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug

	logger := newLogger(cfg, errOut)
	logger.Debug("config loaded", "dir", cfg.Dir, "base_dir", cfg.BaseDir, "file", cfg.File)

	mgr, err := manager.New(cfg.BaseDir, manager.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.DataError
	}

	_, storeless := cmd.(commands.Storeless)
	if !storeless {
		if err := cfg.EnsureBaseDir(); err != nil {
			fmt.Fprintf(errOut, "error: failed to create base directory: %v\n", err)
			return exitcode.DataError
		}
		err := timing.Measure(logger, "load", func() error {
			return mgr.LoadIfExists(cfg.File, cfg.Encoding)
		})
		if err != nil {
			return commands.ReportStoreError(errOut, err)
		}
	}

	var svc service.Service
	if cmd.NeedsAuth() {
		svc, err = d.service(ctx, cfg)
		if err != nil {
			// Auth and token problems are reported as auth errors
			if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "auth") ||
				strings.Contains(err.Error(), "logged in") {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	stop := timing.Track(logger, cmd.Name())
	code := cmd.Run(ctx, cfg, mgr, svc, positionalArgs, out, errOut)
	stop()

	if code != exitcode.Success || !cmd.Mutates() {
		return code
	}

	err = timing.Measure(logger, "save", func() error {
		return mgr.Save(cfg.File, cfg.Encoding)
	})
	if err != nil {
		return commands.ReportStoreError(errOut, err)
	}
	return exitcode.Success
}

// service builds the backend. Without a factory only the pre-flight checks
// on the credential files run.
func (d *Dispatcher) service(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if d.factory != nil {
		return d.factory(ctx, cfg)
	}
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("%s not found in %s (auth required)", config.OAuthClientFile, cfg.Dir)
	}
	if !cfg.HasToken() {
		return nil, fmt.Errorf("not logged in (run: tasker login)")
	}
	return nil, fmt.Errorf("no backend configured")
}

func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	return logging.New(w, logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
	})
}

func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	// Missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		flagPart := strings.TrimSpace(parts[len(parts)-1])
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
		return exitcode.UserError
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	// Bad flag values, including malformed --due dates
	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
