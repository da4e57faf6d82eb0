// Package codec converts tasks to and from the line-oriented store format:
//
//	Kind;Title;Description;DueDate;[key=value;]*done=<True|False>
//
// Fields are not escaped. Values containing ';' or '=' do not survive a
// round trip.
package codec

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"tasker/internal/task"
)

const (
	fieldSep = ";"
	pairSep  = "="

	// fixedFields is the number of positional fields before the pairs.
	fixedFields = 4

	// maxLineSize bounds a single store line.
	maxLineSize = 16 * 1024 * 1024
)

// MalformedRecordError reports a store line that cannot be decoded.
type MalformedRecordError struct {
	Line   int // 1-based, 0 when unknown
	Text   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record on line %d: %s", e.Line, e.Reason)
	}
	return "malformed record: " + e.Reason
}

// Record is one decoded store line.
type Record struct {
	Kind        task.Kind
	Title       string
	Description string
	Due         time.Time
	Attrs       *task.Attrs // every key=value pair except done
	Done        bool
}

// Task builds the task described by r. The done flag is applied after
// construction.
func (r Record) Task() *task.Task {
	t := task.New(r.Kind, r.Title,
		task.WithDescription(r.Description),
		task.WithDue(r.Due),
		task.WithExtras(r.Attrs),
	)
	t.Done = r.Done
	return t
}

// EncodeLine renders t as a store line without the trailing newline.
func EncodeLine(t *task.Task) string {
	parts := []string{
		string(t.Kind()),
		t.Title,
		t.Description,
		task.FormatDate(t.Due),
	}
	t.Extras.Range(func(k string, v task.Value) bool {
		parts = append(parts, k+pairSep+v.String())
		return true
	})
	if key := t.Kind().FieldKey(); key != "" {
		parts = append(parts, key+pairSep+t.Field())
	}
	parts = append(parts, task.KeyDone+pairSep+task.Bool(t.Done).String())
	return strings.Join(parts, fieldSep)
}

// DecodeLine parses one store line.
func DecodeLine(line string) (Record, error) {
	fields := strings.Split(line, fieldSep)
	if len(fields) < fixedFields {
		return Record{}, &MalformedRecordError{
			Text:   line,
			Reason: fmt.Sprintf("expected at least %d fields, got %d", fixedFields, len(fields)),
		}
	}

	kind, ok := task.ParseKind(fields[0])
	if !ok {
		return Record{}, &MalformedRecordError{Text: line, Reason: fmt.Sprintf("unknown kind %q", fields[0])}
	}

	rec := Record{
		Kind:        kind,
		Title:       fields[1],
		Description: fields[2],
		Attrs:       task.NewAttrs(),
	}

	if fields[3] != task.NoDate {
		due, err := task.ParseDate(fields[3])
		if err != nil {
			return Record{}, err
		}
		rec.Due = due
	}

	for _, pair := range fields[fixedFields:] {
		key, raw, found := strings.Cut(pair, pairSep)
		if !found {
			return Record{}, &MalformedRecordError{Text: line, Reason: fmt.Sprintf("attribute %q has no '='", pair)}
		}
		v := task.ParseValue(raw)
		if key == task.KeyDone {
			done, ok := v.AsBool()
			if !ok {
				return Record{}, &MalformedRecordError{Text: line, Reason: fmt.Sprintf("done value %q is not True or False", raw)}
			}
			rec.Done = done
			continue
		}
		rec.Attrs.Set(key, v)
	}

	return rec, nil
}

// Encoder writes tasks as store lines.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder returns an Encoder writing to w. Call Flush when done.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode writes one line for t.
func (e *Encoder) Encode(t *task.Task) error {
	if _, err := e.w.WriteString(EncodeLine(t)); err != nil {
		return err
	}
	return e.w.WriteByte('\n')
}

// Flush writes any buffered data.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

// Decoder reads store lines.
type Decoder struct {
	s    *bufio.Scanner
	line int
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Decoder{s: s}
}

// Decode returns the next record, or io.EOF when the input is exhausted.
// Blank lines are skipped. Errors carry the 1-based line number.
func (d *Decoder) Decode() (Record, error) {
	for d.s.Scan() {
		d.line++
		text := strings.TrimRight(d.s.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := DecodeLine(text)
		if err != nil {
			return Record{}, d.annotate(err)
		}
		return rec, nil
	}
	if err := d.s.Err(); err != nil {
		return Record{}, fmt.Errorf("read line %d: %w", d.line+1, err)
	}
	return Record{}, io.EOF
}

func (d *Decoder) annotate(err error) error {
	if mre, ok := err.(*MalformedRecordError); ok {
		mre.Line = d.line
		return mre
	}
	return fmt.Errorf("line %d: %w", d.line, err)
}

// DecodeAll reads every record from r. It stops at the first error and
// returns no tasks in that case.
func DecodeAll(r io.Reader) ([]*task.Task, error) {
	dec := NewDecoder(r)
	var tasks []*task.Task
	for {
		rec, err := dec.Decode()
		if err == io.EOF {
			return tasks, nil
		}
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, rec.Task())
	}
}
