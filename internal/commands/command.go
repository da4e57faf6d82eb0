// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"tasker/internal/config"
	"tasker/internal/manager"
	"tasker/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command talks to Google Tasks.
	NeedsAuth() bool

	// Mutates returns true if the store file must be saved after a
	// successful run.
	Mutates() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths).
	// mgr holds the tasks loaded from the store file.
	// svc is nil if NeedsAuth() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int
}

// readOnly is embedded by commands that never change the task list.
type readOnly struct{}

func (readOnly) Mutates() bool { return false }

// mutating is embedded by commands whose changes are saved.
type mutating struct{}

func (mutating) Mutates() bool { return true }

// Storeless is implemented by commands that never read the task file.
// The dispatcher hands them an empty manager.
type Storeless interface {
	Storeless()
}

// noStore is embedded by commands that do not need the task file.
type noStore struct{ readOnly }

func (noStore) Storeless() {}
