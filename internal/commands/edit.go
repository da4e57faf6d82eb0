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
	"tasker/internal/task"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	mutating
	title       string
	description string
	due         dateFlag
	set         attrsFlag
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's fields" }
func (c *EditCmd) Usage() string {
	return "tasker edit [--title <t>] [--desc <text>] [--due DD-MM-YYYY] [--set key=value]... <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.due = dateFlag{}
	c.set.reset()
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.set, "set", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	edit := task.Edit{
		Title:       c.title,
		Description: c.description,
		Due:         c.due.t,
		Extras:      c.set.Attrs(),
	}
	if edit.Title == "" && edit.Description == "" && edit.Due.IsZero() && edit.Extras == nil {
		fmt.Fprintln(errOut, "error: nothing to edit")
		return exitcode.UserError
	}
	if err := validText("title", edit.Title); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := validText("description", edit.Description); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	t, code := resolveTask(mgr, args, errOut)
	if t == nil {
		return code
	}

	mgr.Edit(t, edit)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
