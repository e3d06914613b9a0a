package repl

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"

	"github.com/hushlang/hush/lang"
)

const maxSuggestions = 8

// completer fuzzy-matches the word under the cursor against the names
// visible in an execution scope.
type completer struct {
	names   []string
	matches []string
	word    string
	index   int
}

func newCompleter(scope *lang.ExecutionContext) *completer {
	return &completer{names: scope.Names(), index: -1}
}

// refresh replaces the candidate set with the scope's current names.
func (c *completer) refresh(scope *lang.ExecutionContext) {
	c.names = scope.Names()
	c.reset()
}

// reset discards any in-progress completion cycle.
func (c *completer) reset() {
	c.matches = nil
	c.word = ""
	c.index = -1
}

// cycle returns the next candidate for the word ending at cursor, starting
// a new match set when the word changed since the last call.
func (c *completer) cycle(value string, cursor int, delta int) (string, bool) {
	word, _ := wordAt(value, cursor)
	if word == "" {
		return "", false
	}

	if c.matches == nil || c.word != word && !c.completedTo(word) {
		c.word = word
		c.matches = c.match(word)
		c.index = -1
	}

	if len(c.matches) == 0 {
		return "", false
	}

	c.index = (c.index + delta + len(c.matches)) % len(c.matches)

	return c.matches[c.index], true
}

// completedTo reports whether word is the candidate most recently applied,
// so cycling continues instead of re-matching against the inserted text.
func (c *completer) completedTo(word string) bool {
	return c.index >= 0 && c.index < len(c.matches) && c.matches[c.index] == word
}

func (c *completer) match(word string) []string {
	ranked := fuzzy.Find(word, c.names)

	matches := make([]string, 0, min(len(ranked), maxSuggestions))
	for _, m := range ranked {
		if len(matches) == maxSuggestions {
			break
		}

		matches = append(matches, m.Str)
	}

	return matches
}

// apply replaces the word under the cursor with candidate and returns the
// new input value and cursor position.
func (c *completer) apply(value string, cursor int, candidate string) (string, int) {
	word, start := wordAt(value, cursor)
	end := start + len(word)

	next := value[:start] + candidate + value[end:]

	return next, start + len(candidate)
}

// render draws the suggestion row shown beneath the input line.
func (c *completer) render(width int) string {
	if len(c.matches) == 0 {
		return ""
	}

	var buf strings.Builder

	for i, m := range c.matches {
		cell := " " + m + " "
		if buf.Len()+len(cell) > width && i > 0 {
			break
		}

		if i == c.index {
			buf.WriteString(selectedStyle.Render(cell))
		} else {
			buf.WriteString(suggestionStyle.Render(cell))
		}
	}

	return buf.String()
}

// wordAt returns the identifier ending at cursor and its start offset.
func wordAt(value string, cursor int) (string, int) {
	if cursor > len(value) {
		cursor = len(value)
	}

	start := cursor
	for start > 0 && isWordRune(rune(value[start-1])) {
		start--
	}

	return value[start:cursor], start
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
