package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/manager"
	"tasker/internal/output"
	"tasker/internal/remote"
	"tasker/internal/service"
)

func init() {
	Register(&PushCmd{})
	Register(&PullCmd{})
}

// PushCmd copies local tasks to a Google Tasks list.
type PushCmd struct {
	readOnly
	listName string
}

func (c *PushCmd) Name() string      { return "push" }
func (c *PushCmd) Aliases() []string { return nil }
func (c *PushCmd) Synopsis() string  { return "Copy tasks to Google Tasks" }
func (c *PushCmd) Usage() string     { return "tasker push [--list <list-name>]" }
func (c *PushCmd) NeedsAuth() bool   { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *PushCmd) Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	list, code := resolveRemoteList(ctx, cfg, svc, c.listName, errOut)
	if code != exitcode.Success {
		return code
	}

	res, err := remote.Push(ctx, svc, list.ID, mgr.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "pushed %d, skipped %d (%s)\n", res.Transferred, res.Skipped, output.ListName(list))
	}
	return exitcode.Success
}

// PullCmd appends tasks from a Google Tasks list.
type PullCmd struct {
	mutating
	listName string
}

func (c *PullCmd) Name() string      { return "pull" }
func (c *PullCmd) Aliases() []string { return nil }
func (c *PullCmd) Synopsis() string  { return "Append tasks from Google Tasks" }
func (c *PullCmd) Usage() string     { return "tasker pull [--list <list-name>]" }
func (c *PullCmd) NeedsAuth() bool   { return true }

func (c *PullCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *PullCmd) Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	list, code := resolveRemoteList(ctx, cfg, svc, c.listName, errOut)
	if code != exitcode.Success {
		return code
	}

	pulled, res, err := remote.Pull(ctx, svc, list.ID, mgr.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	for _, t := range pulled {
		mgr.Add(t)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "pulled %d, skipped %d (%s)\n", res.Transferred, res.Skipped, output.ListName(list))
	}
	return exitcode.Success
}

// resolveRemoteList picks the --list flag, then the configured list, then
// the user's default list.
func resolveRemoteList(ctx context.Context, cfg *config.Config, svc service.Service, listName string, errOut io.Writer) (service.TaskList, int) {
	if listName == "" {
		listName = cfg.GoogleList
	}

	if listName == "" {
		list, err := svc.DefaultList(ctx)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return service.TaskList{}, exitcode.BackendError
		}
		return list, exitcode.Success
	}

	list, err := svc.ResolveList(ctx, listName)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			fmt.Fprintf(errOut, "error: list not found: %s\n", listName)
			return service.TaskList{}, exitcode.UserError
		}
		if strings.Contains(err.Error(), "ambiguous") {
			fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", listName)
			return service.TaskList{}, exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return service.TaskList{}, exitcode.BackendError
	}
	return list, exitcode.Success
}
