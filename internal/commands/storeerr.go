package commands

import (
	"errors"
	"fmt"
	"io"

	"tasker/internal/codec"
	"tasker/internal/exitcode"
	"tasker/internal/manager"
	"tasker/internal/task"
)

// StoreExitCode maps a store load or save error to an exit code.
func StoreExitCode(err error) int {
	if errors.Is(err, manager.ErrUnknownEncoding) {
		return exitcode.UserError
	}
	return exitcode.DataError
}

// ReportStoreError prints a store error with a hint about its cause and
// returns the matching exit code.
func ReportStoreError(errOut io.Writer, err error) int {
	var (
		pte *manager.PathTraversalError
		mre *codec.MalformedRecordError
		dpe *task.DateParseError
	)
	switch {
	case errors.As(err, &pte):
		fmt.Fprintf(errOut, "error: refusing path outside %s: %s\n", pte.Base, pte.Path)
	case errors.As(err, &mre), errors.As(err, &dpe):
		fmt.Fprintf(errOut, "error: corrupt task file: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return StoreExitCode(err)
}
