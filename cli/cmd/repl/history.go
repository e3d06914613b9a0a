package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const historyFileMode = 0o600

// History records evaluated inputs across sessions. Entries are stored one
// per line with embedded newlines escaped, newest last. A History with an
// empty path keeps entries in memory only.
type History struct {
	mu      sync.Mutex
	path    string
	entries []string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads the history file into memory. A missing file is not an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return ErrHistoryFile.
			With(slog.String("path", h.path)).
			Wrap(err)
	}
	defer file.Close()

	h.entries = h.entries[:0]

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		h.entries = append(h.entries, unescapeEntry(line))
	}

	if err := scanner.Err(); err != nil {
		return ErrHistoryFile.
			With(slog.String("path", h.path)).
			Wrap(err)
	}

	return nil
}

// Write appends entry to the history, dropping an immediate duplicate.
// It reports whether the entry was recorded.
func (h *History) Write(entry string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry = strings.TrimRight(entry, "\n")
	if strings.TrimSpace(entry) == "" {
		return false, nil
	}

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return false, nil
	}

	h.entries = append(h.entries, entry)

	if h.path == "" {
		return true, nil
	}

	file, err := os.OpenFile(h.path,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, historyFileMode)
	if err != nil {
		return true, ErrHistoryFile.
			With(slog.String("path", h.path)).
			Wrap(err)
	}
	defer file.Close()

	if _, err := file.WriteString(escapeEntry(entry) + "\n"); err != nil {
		return true, ErrHistoryFile.
			With(slog.String("path", h.path)).
			Wrap(err)
	}

	return true, nil
}

// GetLine returns the entry at index, oldest first.
func (h *History) GetLine(index int) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if index < 0 || index >= len(h.entries) {
		return "", ErrOutOfBounds.
			With(slog.Int("index", index), slog.Int("len", len(h.entries)))
	}

	return h.entries[index], nil
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.entries)
}

// Entries returns a copy of all recorded entries, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.entries))
	copy(out, h.entries)

	return out
}

func escapeEntry(entry string) string {
	entry = strings.ReplaceAll(entry, `\`, `\\`)

	return strings.ReplaceAll(entry, "\n", `\n`)
}

func unescapeEntry(line string) string {
	var buf strings.Builder

	for i := 0; i < len(line); i++ {
		if line[i] != '\\' || i+1 == len(line) {
			buf.WriteByte(line[i])

			continue
		}

		i++

		switch line[i] {
		case 'n':
			buf.WriteByte('\n')
		default:
			buf.WriteByte(line[i])
		}
	}

	return buf.String()
}
