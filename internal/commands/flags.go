package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tasker/internal/task"
)

// attrsFlag collects repeated --set key=value flags in order.
type attrsFlag struct {
	attrs *task.Attrs
}

func (f *attrsFlag) String() string {
	if f == nil || f.attrs == nil {
		return ""
	}
	return f.attrs.String()
}

func (f *attrsFlag) Set(s string) error {
	key, raw, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if err := validText("attribute "+strconv.Quote(key), key+raw); err != nil {
		return err
	}
	if f.attrs == nil {
		f.attrs = task.NewAttrs()
	}
	f.attrs.Set(key, task.ParseValue(raw))
	return nil
}

// Attrs returns the collected attributes, or nil if none were given.
func (f *attrsFlag) Attrs() *task.Attrs {
	return f.attrs
}

func (f *attrsFlag) reset() {
	f.attrs = nil
}

// dateFlag parses a DD-MM-YYYY due date.
type dateFlag struct {
	t time.Time
}

func (f *dateFlag) String() string {
	if f == nil || f.t.IsZero() {
		return ""
	}
	return f.t.Format(task.DisplayLayout)
}

func (f *dateFlag) Set(s string) error {
	d, err := task.ParseDisplayDate(s)
	if err != nil {
		return err
	}
	f.t = d
	return nil
}

// validText rejects text that would break a store line.
func validText(name, s string) error {
	if strings.ContainsAny(s, ";\r\n") {
		return fmt.Errorf("%s must not contain ';' or line breaks", name)
	}
	return nil
}
