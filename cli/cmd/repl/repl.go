package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hushlang/hush/lang"
	"github.com/hushlang/hush/log"
)

const (
	evalPrompt = "➜ "
	contPrompt = "… "
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	contStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func helpMessage() string {
	return `
Commands:

  :help     Print this cruft
  :names    List visible identifiers
  :stats    Show operation cache statistics
  :clear    Clear screen
  :quit     Exit

Usage:
  Type an expression or statement to evaluate it
  A trailing "{" continues input on the next line
  Press Tab / Shift-Tab to cycle through completions
  Use Up/Down arrows for history navigation
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// Run starts the interactive session. An empty historyPath disables history
// persistence.
func Run(
	ctx context.Context,
	ip *lang.Interp,
	historyPath string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.String("error", err.Error()),
		)
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", historyPath),
		slog.Int("entries", history.Len()),
	)

	m := newModel(ctx, ip, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	ip         *lang.Interp
	logger     log.Logger
	history    *History
	historyIdx int
	completer  *completer
	pending    []string // accumulated lines of a multi-line input
	transcript []string
	width      int
	quitting   bool
}

func newModel(
	ctx context.Context,
	ip *lang.Interp,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		ip:         ip,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		completer:  newCompleter(ip.Root()),
		width:      defaultWidth,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 1

		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.pending = nil
		m.input.SetValue("")
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.completer.reset()

		return m, nil

	case tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEnter:
		return m.accept()

	case tea.KeyTab:
		m.cycleCompletion(1)

		return m, nil

	case tea.KeyShiftTab:
		m.cycleCompletion(-1)

		return m, nil

	case tea.KeyUp:
		m.navigateHistory(-1)

		return m, nil

	case tea.KeyDown:
		m.navigateHistory(1)

		return m, nil
	}

	m.completer.reset()

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// accept handles Enter: buffer a continuation line, run a command, or
// evaluate the completed input.
func (m model) accept() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.completer.reset()

	if len(m.pending) == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
		return m.runCommand(strings.TrimSpace(line))
	}

	m.pending = append(m.pending, line)
	source := strings.Join(m.pending, "\n")

	if lang.Incomplete(source) {
		m.transcript = append(m.transcript, echoLine(line, len(m.pending) > 1))
		m.input.SetValue("")
		m.input.Prompt = contStyle.Render(contPrompt)

		return m, nil
	}

	m.pending = nil
	m.input.SetValue("")
	m.input.Prompt = promptStyle.Render(evalPrompt)

	if strings.TrimSpace(source) == "" {
		return m, nil
	}

	m.transcript = append(m.transcript, echoLine(line, strings.Contains(source, "\n")))

	_, _ = m.history.Write(source)
	m.historyIdx = m.history.Len()

	result := m.ip.Execute(m.ctxFunc(), source)
	if !result.Success {
		m.transcript = append(m.transcript,
			errorStyle.Render(result.Error))
	} else if out := lang.FormatResult(result); out != "" {
		m.transcript = append(m.transcript, resultStyle.Render(out))
	}

	// New bindings may exist now.
	m.completer.refresh(m.ip.Root())

	return m, nil
}

func echoLine(line string, continuation bool) string {
	if continuation {
		return contStyle.Render(contPrompt) + inputStyle.Render(line)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(line)
}

// runCommand handles the ":" control commands.
func (m model) runCommand(command string) (tea.Model, tea.Cmd) {
	m.transcript = append(m.transcript, echoLine(command, false))
	m.input.SetValue("")

	switch command {
	case ":help":
		m.transcript = append(m.transcript, hintStyle.Render(helpMessage()))

	case ":names":
		names := m.ip.Root().Names()
		m.transcript = append(m.transcript,
			hintStyle.Render(strings.Join(names, "  ")))

	case ":stats":
		stats := m.ip.CacheStats()
		m.transcript = append(m.transcript, hintStyle.Render(fmt.Sprintf(
			"cache: %d/%d entries, %d hits, %d misses, %.1f%% hit rate",
			stats.Size, stats.MaxSize, stats.Hits, stats.Misses,
			stats.HitRate*100,
		)))

	case ":clear":
		m.transcript = nil

	case ":quit", ":exit":
		m.quitting = true

		return m, tea.Quit

	default:
		m.transcript = append(m.transcript,
			errorStyle.Render("unknown command "+command+" (try :help)"))
	}

	return m, nil
}

// cycleCompletion advances the fuzzy completion selection and applies the
// candidate to the current word.
func (m *model) cycleCompletion(delta int) {
	value := m.input.Value()
	cursor := m.input.Position()

	candidate, ok := m.completer.cycle(value, cursor, delta)
	if !ok {
		return
	}

	next, pos := m.completer.apply(value, cursor, candidate)
	m.input.SetValue(next)
	m.input.SetCursor(pos)
}

// navigateHistory moves through history entries; moving past the newest
// entry restores an empty prompt.
func (m *model) navigateHistory(delta int) {
	if m.history.Len() == 0 {
		return
	}

	m.historyIdx += delta

	if m.historyIdx < 0 {
		m.historyIdx = 0
	}

	if m.historyIdx >= m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")

		return
	}

	entry, err := m.history.GetLine(m.historyIdx)
	if err != nil {
		return
	}

	// Multi-line entries collapse to one line for editing.
	m.input.SetValue(strings.ReplaceAll(entry, "\n", " "))
	m.input.CursorEnd()
}

// View implements tea.Model.
func (m model) View() string {
	var buf strings.Builder

	for _, line := range m.transcript {
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	if m.quitting {
		return buf.String()
	}

	buf.WriteString(m.input.View())

	if hints := m.completer.render(m.width); hints != "" {
		buf.WriteString("\n")
		buf.WriteString(hints)
	}

	return buf.String()
}
