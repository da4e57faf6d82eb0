package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"tasker/internal/exitcode"
	"tasker/internal/manager"
	"tasker/internal/task"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num   int    // 1-based position in list order, 0 for a title reference
	Title string // exact title, empty for a number reference
}

// TitlePrefix marks a reference as a title even when it is all digits.
const TitlePrefix = "title:"

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// A single all-digit argument is a task number. Anything else is a title
// made of the args joined by single spaces. A leading "title:" forces a
// title reference, so all-digit titles stay reachable.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	if rest, ok := strings.CutPrefix(strings.Join(args, " "), TitlePrefix); ok {
		if strings.TrimSpace(rest) == "" {
			return TaskRef{}, ErrTaskRefRequired
		}
		return TaskRef{Title: rest}, nil
	}

	if len(args) == 1 && isAllDigits(args[0]) {
		num, err := strconv.Atoi(args[0])
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", args[0])
		}
		if num < 1 {
			return TaskRef{}, fmt.Errorf("task number out of range: %d", num)
		}
		return TaskRef{Num: num}, nil
	}

	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	return TaskRef{Title: title}, nil
}

// Resolve finds the referenced task. Title references match the first task
// with that exact title.
func (r TaskRef) Resolve(mgr *manager.Manager) (*task.Task, error) {
	if r.Title != "" {
		t, ok := mgr.Find(r.Title)
		if !ok {
			return nil, fmt.Errorf("task not found: %s", r.Title)
		}
		return t, nil
	}
	t, ok := mgr.At(r.Num)
	if !ok {
		return nil, fmt.Errorf("task number out of range: %d", r.Num)
	}
	return t, nil
}

// resolveTask parses and resolves args, printing any error.
// The returned code is meaningful only when the task is nil.
func resolveTask(mgr *manager.Manager, args []string, errOut io.Writer) (*task.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError
	}
	t, err := ref.Resolve(mgr)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError
	}
	return t, exitcode.Success
}

// isAllDigits returns true if s consists only of digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
