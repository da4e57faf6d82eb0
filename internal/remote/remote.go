// Package remote maps local tasks to remote service tasks and implements
// push and pull.
package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tasker/internal/service"
	"tasker/internal/task"
)

// ToRemote converts a local task to its remote form. The notes hold the
// description followed by one key=value line per attribute.
func ToRemote(t *task.Task) service.Task {
	r := service.Task{
		Title:  t.Title,
		Notes:  notes(t),
		Status: service.StatusNeedsAction,
	}
	if t.HasDue() {
		r.Due = t.Due.UTC().Format(time.RFC3339)
	}
	if t.Done {
		r.Status = service.StatusCompleted
	}
	return r
}

func notes(t *task.Task) string {
	var lines []string
	t.Extras.Range(func(k string, v task.Value) bool {
		lines = append(lines, k+"="+v.String())
		return true
	})
	if fk := t.Kind().FieldKey(); fk != "" {
		lines = append(lines, fk+"="+t.Field())
	}
	if len(lines) == 0 {
		return t.Description
	}
	attrs := strings.Join(lines, "\n")
	if t.Description == "" {
		return attrs
	}
	return t.Description + "\n\n" + attrs
}

// FromRemote converts a remote task to a Plain local task. Title and notes
// are flattened to a single line without ';' so the task can be stored.
func FromRemote(r service.Task) (*task.Task, error) {
	opts := []task.Option{task.WithDescription(flatten(r.Notes))}
	if r.Due != "" {
		due, err := time.Parse(time.RFC3339, r.Due)
		if err != nil {
			return nil, &task.DateParseError{Value: r.Due, Layout: time.RFC3339, Err: err}
		}
		opts = append(opts, task.WithDue(due))
	}
	t := task.New(task.KindPlain, flatten(r.Title), opts...)
	t.Done = r.Status == service.StatusCompleted
	return t, nil
}

// flatten joins the non-blank lines of s with single spaces and replaces
// ';' with ','.
func flatten(s string) string {
	s = strings.ReplaceAll(s, ";", ",")
	var parts []string
	for _, line := range strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// Result counts the tasks a sync transferred and skipped.
type Result struct {
	Transferred int
	Skipped     int
}

// Push creates a remote task for every local task whose title is not
// already in the list.
func Push(ctx context.Context, svc service.Service, listID string, tasks []*task.Task) (Result, error) {
	var res Result
	existing, err := svc.ListTasks(ctx, listID)
	if err != nil {
		return res, err
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.Title] = true
	}

	for _, t := range tasks {
		if seen[t.Title] {
			res.Skipped++
			continue
		}
		if err := svc.CreateTask(ctx, listID, ToRemote(t)); err != nil {
			return res, fmt.Errorf("push %q: %w", t.Title, err)
		}
		seen[t.Title] = true
		res.Transferred++
	}
	return res, nil
}

// Pull returns the remote tasks whose title is not among local, converted
// to local tasks. Nothing is returned on error.
func Pull(ctx context.Context, svc service.Service, listID string, local []*task.Task) ([]*task.Task, Result, error) {
	var res Result
	remote, err := svc.ListTasks(ctx, listID)
	if err != nil {
		return nil, res, err
	}
	seen := make(map[string]bool, len(local))
	for _, t := range local {
		seen[t.Title] = true
	}

	var pulled []*task.Task
	for _, r := range remote {
		title := flatten(r.Title)
		if seen[title] {
			res.Skipped++
			continue
		}
		t, err := FromRemote(r)
		if err != nil {
			return nil, Result{}, fmt.Errorf("pull %q: %w", r.Title, err)
		}
		seen[title] = true
		pulled = append(pulled, t)
		res.Transferred++
	}
	return pulled, res, nil
}
