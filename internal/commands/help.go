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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{ noStore }

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasker help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tasker                                   List all tasks
  tasker list [common flags] [--sorted]    List tasks, optionally by due date
  tasker add [common flags] [--priority <p> | --recurrence <r>] [--desc <text>]
             [--due DD-MM-YYYY] [--set key=value]... <title...>
  tasker edit [common flags] [--title <t>] [--desc <text>] [--due DD-MM-YYYY]
              [--set key=value]... <ref>
  tasker done [common flags] <ref>
  tasker toggle [common flags] <ref>
  tasker rm [common flags] <ref>
  tasker export [common flags] [--encoding <name>] <file>
  tasker import [common flags] [--encoding <name>] <file>
  tasker push [common flags] [--list <list-name>]
  tasker pull [common flags] [--list <list-name>]
  tasker login [common flags]
  tasker logout [common flags]
  tasker help
  tasker version

A <ref> is a task number from 'tasker list' or an exact task title.
Prefix the title with 'title:' when it is all digits, e.g. title:2025.
Files are relative to the base directory and may not leave it.

Common flags:
  --config <dir>   Override config directory
  --dir <dir>      Override base directory for task files
  --file <name>    Override task file name
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
