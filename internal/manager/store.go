package manager

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"tasker/internal/codec"
)

// DefaultEncoding is used when Save or Load get an empty encoding name.
const DefaultEncoding = "utf-8"

// ErrUnknownEncoding is returned for encoding names that cannot be resolved.
var ErrUnknownEncoding = errors.New("unknown encoding")

// PathTraversalError reports a file name that resolves outside the base directory.
type PathTraversalError struct {
	Base string
	Path string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("path %s is outside base directory %s", e.Path, e.Base)
}

// Resolve returns the absolute path of name inside the base directory, or a
// *PathTraversalError if it would escape it.
func (m *Manager) Resolve(name string) (string, error) {
	full := name
	if !filepath.IsAbs(full) {
		full = filepath.Join(m.baseDir, name)
	}
	full = filepath.Clean(full)

	rel, err := filepath.Rel(m.baseDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &PathTraversalError{Base: m.baseDir, Path: full}
	}
	return full, nil
}

// lookupEncoding resolves an encoding name such as "utf-8", "latin1" or
// "windows-1250".
func lookupEncoding(name string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownEncoding, name)
	}
	if enc == unicode.UTF8 {
		return encoding.Nop, nil
	}
	return enc, nil
}

// Save writes every task to name, replacing the file, using the given text
// encoding (empty means UTF-8). The file is only replaced once every task
// has been encoded.
func (m *Manager) Save(name, enc string) error {
	path, err := m.Resolve(name)
	if err != nil {
		return err
	}
	e, err := lookupEncoding(enc)
	if err != nil {
		return err
	}

	tasks := m.Tasks()

	var buf bytes.Buffer
	w := e.NewEncoder().Writer(&buf)
	codecEnc := codec.NewEncoder(w)
	for _, t := range tasks {
		if err := codecEnc.Encode(t); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := codecEnc.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if c, ok := w.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	if err := replaceFile(path, buf.Bytes()); err != nil {
		return err
	}

	m.logger.Debug("saved tasks", "path", path, "tasks", len(tasks), "encoding", encodingName(enc))
	return nil
}

// replaceFile writes data to a temporary file next to path and renames it
// over path.
func replaceFile(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Load reads tasks from name and appends them after the existing ones.
// On any error nothing is appended.
func (m *Manager) Load(name, enc string) error {
	path, err := m.Resolve(name)
	if err != nil {
		return err
	}
	e, err := lookupEncoding(enc)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	loaded, err := codec.DecodeAll(e.NewDecoder().Reader(f))
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	m.mu.Lock()
	m.tasks = append(m.tasks, loaded...)
	m.mu.Unlock()

	m.logger.Debug("loaded tasks", "path", path, "tasks", len(loaded), "encoding", encodingName(enc))
	return nil
}

// LoadIfExists is like Load but treats a missing file as empty.
func (m *Manager) LoadIfExists(name, enc string) error {
	err := m.Load(name, enc)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func encodingName(enc string) string {
	if strings.TrimSpace(enc) == "" {
		return DefaultEncoding
	}
	return enc
}
