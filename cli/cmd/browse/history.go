package browse

import (
	"context"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/varscan/scan"
)

// HistoryFile is the base name of the query history file in the cache
// directory.
const HistoryFile = "history.utf8"

// History keeps past filter queries, oldest first, persisted one per line.
type History struct {
	path    string
	entries []string
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file. A missing file is an
// empty history.
func (h *History) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	s, err := scan.NewScanner(file)
	if err != nil {
		return err
	}

	h.entries = nil

	for line := range s.Lines() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		entry := strings.TrimSpace(line.String())
		if entry == "" {
			continue
		}

		h.entries = append(h.entries, entry)
	}

	return s.Err()
}

// Add appends entry to the history. An entry equal to the most recent one is
// ignored; an older duplicate is moved to the end.
func (h *History) Add(entry string) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		h.entries = append(h.entries, entry)

		return h.rewriteFile()
	}

	h.entries = append(h.entries, entry)

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(entry + "\n")

	return err
}

// Entry returns the i'th entry, where 0 is the oldest.
func (h *History) Entry(i int) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", false
	}

	return h.entries[i], true
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all history entries.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() error {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, entry := range h.entries {
		_, err := file.WriteString(entry + "\n")
		if err != nil {
			return err
		}
	}

	return nil
}
