// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasker/internal/service"
	"tasker/internal/task"
)

const (
	// ListSeparator is the separator line around section headers.
	ListSeparator = "------------"

	// EmptyList is printed when there is nothing to show.
	EmptyList = "no tasks"
)

// FormatTask formats a numbered task line.
// Format: "{N:>4}  {TASK}\n" (4-wide right-aligned number, two spaces, rendered task)
func FormatTask(w io.Writer, num int, t *task.Task) {
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeLine(t.String()))
}

// FormatTasks writes one numbered line per task, numbering from 1, or
// EmptyList when there are none.
func FormatTasks(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyList)
		return
	}
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
}

// FormatHeader formats a section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, ListSeparator)
}

// ListName returns the display name of a remote list.
func ListName(list service.TaskList) string {
	title := list.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	if list.IsDefault {
		title += " [default]"
	}
	return title
}

// normalizeLine keeps a rendered task on one line.
func normalizeLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
