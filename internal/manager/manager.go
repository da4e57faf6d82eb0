// Package manager owns an ordered collection of tasks and persists it to
// files confined to a base directory.
package manager

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"tasker/internal/logging"
	"tasker/internal/task"
)

// Manager holds tasks in insertion order. It is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	tasks   []*task.Task
	baseDir string
	logger  *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates an empty Manager whose file operations are confined to baseDir.
// A relative baseDir is resolved against the working directory.
func New(baseDir string, opts ...Option) (*Manager, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		baseDir: filepath.Clean(abs),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// BaseDir returns the directory file operations are confined to.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Add appends t.
func (m *Manager) Add(t *task.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, t)
}

// AddNew creates a task and appends it.
func (m *Manager) AddNew(kind task.Kind, title string, opts ...task.Option) *task.Task {
	t := task.New(kind, title, opts...)
	m.Add(t)
	return t
}

// Remove removes t. It does nothing if t is not a member.
func (m *Manager) Remove(t *task.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(t); i >= 0 {
		m.tasks = slices.Delete(m.tasks, i, i+1)
	}
}

// RemoveTitle removes the first task with the given title.
func (m *Manager) RemoveTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOfTitle(title); i >= 0 {
		m.tasks = slices.Delete(m.tasks, i, i+1)
	}
}

// MarkDone marks t as done. It does nothing if t is not a member.
func (m *Manager) MarkDone(t *task.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(t); i >= 0 {
		m.tasks[i].Done = true
	}
}

// MarkDoneTitle marks the first task with the given title as done.
func (m *Manager) MarkDoneTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOfTitle(title); i >= 0 {
		m.tasks[i].Done = true
	}
}

// Toggle flips the done flag of t. It does nothing if t is not a member.
func (m *Manager) Toggle(t *task.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(t); i >= 0 {
		m.tasks[i].ToggleDone()
	}
}

// ToggleTitle flips the done flag of the first task with the given title.
func (m *Manager) ToggleTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOfTitle(title); i >= 0 {
		m.tasks[i].ToggleDone()
	}
}

// Edit applies e to t if t is a member. Empty fields leave the task unchanged.
func (m *Manager) Edit(t *task.Task, e task.Edit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(t) < 0 {
		return
	}
	t.Apply(e)
}

// Find returns the first task with the given title.
func (m *Manager) Find(title string) (*task.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOfTitle(title); i >= 0 {
		return m.tasks[i], true
	}
	return nil, false
}

// At returns the task at 1-based position n in insertion order.
func (m *Manager) At(n int) (*task.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n < 1 || n > len(m.tasks) {
		return nil, false
	}
	return m.tasks[n-1], true
}

// Contains reports whether t is a member.
func (m *Manager) Contains(t *task.Task) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOf(t) >= 0
}

// Len returns the number of tasks.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}

// Tasks returns the tasks in insertion order. The slice is a copy.
func (m *Manager) Tasks() []*task.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.tasks)
}

// SortedByDueDate returns the tasks ordered by due date, earliest first.
// Tasks without a due date come last. Ties keep insertion order.
func (m *Manager) SortedByDueDate() []*task.Task {
	sorted := m.Tasks()
	slices.SortStableFunc(sorted, func(a, b *task.Task) int {
		switch {
		case !a.HasDue() && !b.HasDue():
			return 0
		case !a.HasDue():
			return 1
		case !b.HasDue():
			return -1
		}
		return a.Due.Compare(b.Due)
	})
	return sorted
}

// String renders every task on its own line, in insertion order.
func (m *Manager) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lines := make([]string, len(m.tasks))
	for i, t := range m.tasks {
		lines[i] = t.String()
	}
	return strings.Join(lines, "\n")
}

func (m *Manager) indexOf(t *task.Task) int {
	if t == nil {
		return -1
	}
	return slices.Index(m.tasks, t)
}

func (m *Manager) indexOfTitle(title string) int {
	return slices.IndexFunc(m.tasks, func(t *task.Task) bool { return t.Title == title })
}
