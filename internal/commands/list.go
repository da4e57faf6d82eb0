package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/manager"
	"tasker/internal/output"
	"tasker/internal/service"
	"tasker/internal/task"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasker` (no args) and `tasker list`.
type ListCmd struct {
	readOnly
	sorted bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "tasker list [--sorted]" }
func (c *ListCmd) NeedsAuth() bool   { return false }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.sorted, "sorted", false, "")
	fs.BoolVar(&c.sorted, "s", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if !c.sorted {
		output.FormatTasks(out, mgr.Tasks())
		return exitcode.Success
	}

	// Sorted view keeps each task's stored number so refs stay valid.
	nums := make(map[*task.Task]int, mgr.Len())
	for i, t := range mgr.Tasks() {
		nums[t] = i + 1
	}
	sorted := mgr.SortedByDueDate()
	if len(sorted) == 0 {
		fmt.Fprintln(out, output.EmptyList)
		return exitcode.Success
	}
	for _, t := range sorted {
		output.FormatTask(out, nums[t], t)
	}
	return exitcode.Success
}
