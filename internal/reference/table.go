package reference

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/CubeCoding7/ECDApp/internal/normalize"
)

// Table is an in-memory name to description mapping backed by an append-only
// log file. Lookups may run concurrently; inserts are serialized so the log
// append and the map update form one unit.
type Table struct {
	path string

	mu      sync.RWMutex
	entries map[string]string
	// the log does not end in a newline, so the next append must start one
	needsNewline bool
}

// New returns an empty table that appends to the log at path
func New(path string) *Table {
	return &Table{
		path:    path,
		entries: make(map[string]string),
	}
}

// Load replays the log at path into a new table. Blank and malformed lines are
// skipped; a repeated name keeps the description from its last line. A missing
// or unreadable file is an *IOError.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	t := New(path)
	content := string(data)
	for _, line := range strings.Split(content, "\n") {
		if entry, ok := ParseLine(line); ok {
			t.entries[entry.Name] = entry.Description
		}
	}
	t.needsNewline = content != "" && !strings.HasSuffix(content, "\n")
	return t, nil
}

// OpenTable loads the log at path. When createMissing is set an absent log is
// created empty instead of failing.
func OpenTable(path string, createMissing bool) (*Table, error) {
	t, err := Load(path)
	if err == nil || !createMissing || !errors.Is(err, fs.ErrNotExist) {
		return t, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, &IOError{Op: "create", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return nil, &IOError{Op: "create", Path: path, Err: err}
	}
	return New(path), nil
}

// Path returns the backing log path
func (t *Table) Path() string {
	return t.path
}

// Lookup returns the description stored for name, normalizing the probe first
func (t *Table) Lookup(name string) (string, bool) {
	key := normalize.Name(name)

	t.mu.RLock()
	defer t.mu.RUnlock()
	description, ok := t.entries[key]
	return description, ok
}

// Insert normalizes name, appends `name: description` to the log and then
// stores the pair in memory, overwriting any previous description. If the
// append fails the in-memory table is left unchanged.
func (t *Table) Insert(name, description string) (Item, error) {
	entry, err := newItem(name, description)
	if err != nil {
		return Item{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	line := FormatLine(entry)
	if t.needsNewline {
		line = "\n" + line
	}
	if err := appendLine(t.path, line); err != nil {
		return Item{}, err
	}
	t.needsNewline = false
	t.entries[entry.Name] = entry.Description
	return entry, nil
}

// Entries returns a snapshot of the table sorted by name
func (t *Table) Entries() []Item {
	t.mu.RLock()
	entries := make([]Item, 0, len(t.entries))
	for name, description := range t.entries {
		entries = append(entries, Item{Name: name, Description: description})
	}
	t.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Len returns the number of distinct names in the table
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return &IOError{Op: "append", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "append", Path: path, Err: err}
	}
	return nil
}
