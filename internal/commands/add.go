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
	"tasker/internal/service"
	"tasker/internal/task"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	mutating
	description string
	priority    string
	recurrence  string
	due         dateFlag
	set         attrsFlag
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tasker add [--priority <p> | --recurrence <r>] [--desc <text>] [--due DD-MM-YYYY] [--set key=value]... <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return false }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.due = dateFlag{}
	c.set.reset()
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.recurrence, "recurrence", "", "")
	fs.StringVar(&c.recurrence, "r", "", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.set, "set", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	if c.priority != "" && c.recurrence != "" {
		fmt.Fprintln(errOut, "error: cannot use both --priority and --recurrence")
		return exitcode.UserError
	}

	for _, f := range []struct{ name, value string }{
		{"title", title},
		{"description", c.description},
		{"priority", c.priority},
		{"recurrence", c.recurrence},
	} {
		if err := validText(f.name, f.value); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	kind := task.KindPlain
	field := ""
	switch {
	case c.priority != "":
		kind, field = task.KindPrioritized, c.priority
	case c.recurrence != "":
		kind, field = task.KindRecurring, c.recurrence
	}

	opts := []task.Option{
		task.WithDescription(c.description),
		task.WithDue(c.due.t),
	}
	if field != "" {
		opts = append(opts, task.WithField(field))
	}
	opts = append(opts, task.WithExtras(c.set.Attrs()))

	mgr.AddNew(kind, title, opts...)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
