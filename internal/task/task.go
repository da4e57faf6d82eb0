package task

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the variant tag of a task.
type Kind string

const (
	KindPlain       Kind = "Plain"
	KindPrioritized Kind = "Prioritized"
	KindRecurring   Kind = "Recurring"
)

// Kind field defaults.
const (
	DefaultPriority   = "Medium"
	DefaultRecurrence = "daily"
)

// Core field names. They are reserved and never stored as extras.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyDueDate     = "dueDate"
	KeyDone        = "done"
	KeyPriority    = "priority"
	KeyRecurrence  = "recurrence"
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{KindPlain, KindPrioritized, KindRecurring}

// ParseKind returns the kind named by s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// FieldKey returns the attribute name of the kind's own field, or "" for Plain.
func (k Kind) FieldKey() string {
	switch k {
	case KindPrioritized:
		return KeyPriority
	case KindRecurring:
		return KeyRecurrence
	}
	return ""
}

// FieldLabel returns the display label of the kind's own field.
func (k Kind) FieldLabel() string {
	switch k {
	case KindPrioritized:
		return "Priority"
	case KindRecurring:
		return "Recurrence"
	}
	return ""
}

// DefaultField returns the kind field's default value.
func (k Kind) DefaultField() string {
	switch k {
	case KindPrioritized:
		return DefaultPriority
	case KindRecurring:
		return DefaultRecurrence
	}
	return ""
}

// Task is a single to-do entry.
type Task struct {
	Title       string
	Description string
	Due         time.Time // zero means no due date
	Done        bool
	Extras      Attrs

	kind  Kind
	field string
}

// Option configures a task under construction.
type Option func(*Task)

// WithDescription sets the description.
func WithDescription(desc string) Option {
	return func(t *Task) { t.Description = desc }
}

// WithDue sets an already-parsed due date. The time of day is dropped.
func WithDue(d time.Time) Option {
	return func(t *Task) { t.Due = Truncate(d) }
}

// WithDueString parses a YYYY-MM-DD due date. Text that does not parse
// leaves the task without a due date.
func WithDueString(s string) Option {
	return func(t *Task) {
		d, err := ParseDate(s)
		if err != nil {
			t.Due = time.Time{}
			return
		}
		t.Due = d
	}
}

// WithField sets the kind field (priority or recurrence). Ignored for Plain.
func WithField(v string) Option {
	return func(t *Task) {
		if t.kind != KindPlain {
			t.field = v
		}
	}
}

// WithExtra attaches one extra attribute.
func WithExtra(key string, v Value) Option {
	return func(t *Task) { t.setAttr(key, v) }
}

// WithExtras attaches every attribute of attrs in order.
func WithExtras(attrs *Attrs) Option {
	return func(t *Task) {
		if attrs == nil {
			return
		}
		attrs.Range(func(k string, v Value) bool {
			t.setAttr(k, v)
			return true
		})
	}
}

// New creates a task of the given kind. An unknown kind is treated as Plain.
// Done always starts false.
func New(kind Kind, title string, opts ...Option) *Task {
	if _, ok := ParseKind(string(kind)); !ok {
		kind = KindPlain
	}
	t := &Task{
		Title: title,
		kind:  kind,
		field: kind.DefaultField(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.Done = false
	return t
}

// setAttr routes an attribute: the kind field key updates the kind field,
// core keys are dropped, anything else becomes an extra.
func (t *Task) setAttr(key string, v Value) {
	if fk := t.kind.FieldKey(); fk != "" && key == fk {
		t.field = v.String()
		return
	}
	if IsReserved(key) {
		return
	}
	t.Extras.Set(key, v)
}

// IsReserved reports whether key names a core field.
func IsReserved(key string) bool {
	switch key {
	case KeyTitle, KeyDescription, KeyDueDate, KeyDone:
		return true
	}
	return false
}

// Kind returns the task's variant tag.
func (t *Task) Kind() Kind { return t.kind }

// Field returns the kind field value (priority or recurrence), or "" for Plain.
func (t *Task) Field() string { return t.field }

// SetField sets the kind field. It has no effect on Plain tasks.
func (t *Task) SetField(v string) {
	if t.kind != KindPlain {
		t.field = v
	}
}

// HasDue reports whether the task has a due date.
func (t *Task) HasDue() bool { return !t.Due.IsZero() }

// ToggleDone flips the completion flag.
func (t *Task) ToggleDone() {
	t.Done = !t.Done
}

// Edit describes a partial update. Empty strings, the zero time and a nil
// Extras mean "no change".
type Edit struct {
	Title       string
	Description string
	Due         time.Time
	Extras      *Attrs
}

// Apply applies e to t.
func (t *Task) Apply(e Edit) {
	if e.Title != "" {
		t.Title = e.Title
	}
	if e.Description != "" {
		t.Description = e.Description
	}
	if !e.Due.IsZero() {
		t.Due = Truncate(e.Due)
	}
	if e.Extras != nil {
		e.Extras.Range(func(k string, v Value) bool {
			t.setAttr(k, v)
			return true
		})
	}
}

// String renders the task as a single display line.
func (t *Task) String() string {
	parts := []string{
		"Title: " + t.Title,
		"Description: " + t.Description,
		"Due: " + FormatDate(t.Due),
	}
	if label := t.kind.FieldLabel(); label != "" {
		parts = append(parts, fmt.Sprintf("%s: %s", label, t.field))
	}
	status := "Not done"
	if t.Done {
		status = "Done"
	}
	parts = append(parts, "Done: "+status)
	if t.Extras.Len() > 0 {
		parts = append(parts, "Extra: "+t.Extras.String())
	}
	return strings.Join(parts, " | ")
}
