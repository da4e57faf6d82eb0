package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/manager"
	"tasker/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&ToggleCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{ mutating }

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "tasker done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return false }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	t, code := resolveTask(mgr, args, errOut)
	if t == nil {
		return code
	}

	mgr.MarkDone(t)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// ToggleCmd flips a task between done and not done.
type ToggleCmd struct{ mutating }

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return nil }
func (c *ToggleCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *ToggleCmd) Usage() string     { return "tasker toggle <ref>" }
func (c *ToggleCmd) NeedsAuth() bool   { return false }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	t, code := resolveTask(mgr, args, errOut)
	if t == nil {
		return code
	}

	mgr.Toggle(t)

	if !cfg.Quiet {
		if t.Done {
			fmt.Fprintln(out, "done")
		} else {
			fmt.Fprintln(out, "not done")
		}
	}
	return exitcode.Success
}
