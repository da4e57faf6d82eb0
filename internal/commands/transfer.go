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
)

func init() {
	Register(&ExportCmd{})
	Register(&ImportCmd{})
}

// ExportCmd writes every task to another file under the base directory.
type ExportCmd struct {
	readOnly
	encoding string
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return []string{"save"} }
func (c *ExportCmd) Synopsis() string  { return "Save tasks to a file" }
func (c *ExportCmd) Usage() string     { return "tasker export [--encoding <name>] <file>" }
func (c *ExportCmd) NeedsAuth() bool   { return false }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.encoding, "encoding", "", "")
	fs.StringVar(&c.encoding, "e", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	name, ok := fileArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	if err := mgr.Save(name, encodingOr(c.encoding, cfg.Encoding)); err != nil {
		return ReportStoreError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "saved %d tasks to %s\n", mgr.Len(), name)
	}
	return exitcode.Success
}

// ImportCmd appends the tasks of another file to the task list.
type ImportCmd struct {
	mutating
	encoding string
}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return []string{"load"} }
func (c *ImportCmd) Synopsis() string  { return "Append tasks from a file" }
func (c *ImportCmd) Usage() string     { return "tasker import [--encoding <name>] <file>" }
func (c *ImportCmd) NeedsAuth() bool   { return false }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.encoding, "encoding", "", "")
	fs.StringVar(&c.encoding, "e", "", "")
}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	name, ok := fileArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	before := mgr.Len()
	if err := mgr.Load(name, encodingOr(c.encoding, cfg.Encoding)); err != nil {
		return ReportStoreError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "loaded %d tasks from %s\n", mgr.Len()-before, name)
	}
	return exitcode.Success
}

func fileArg(args []string, errOut io.Writer) (string, bool) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: file name required")
		return "", false
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return "", false
	}
	return args[0], true
}

func encodingOr(flagValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	return fallback
}
