package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/varscan/log"
	"github.com/ardnew/varscan/scan"
)

const (
	prompt        = "› "
	defaultWidth  = 80
	defaultHeight = 24
	// chrome is the number of view lines not used by the result list.
	chrome = 3
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	nameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true).
			Underline(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// rescanMsg is sent when the editor exits and the sources were rescanned.
type rescanMsg struct {
	vars *scan.Map
	err  error
}

// Option configures a browse session.
type Option func(*model)

// WithHistory records accepted queries in h and recalls them with
// Ctrl+P and Ctrl+N.
func WithHistory(h *History) Option {
	return func(m *model) {
		m.history = h
		m.historyIdx = h.Len()
	}
}

// WithEditor enables Ctrl+E, which opens path in $EDITOR and calls reload
// when the editor exits.
func WithEditor(path string, reload Reloader) Option {
	return func(m *model) {
		m.path = path
		m.reload = reload
	}
}

// WithLogger sets the logger for trace events.
func WithLogger(logger log.Logger) Option {
	return func(m *model) { m.logger = logger }
}

// model is the Bubble Tea model for the variable browser.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	vars       *scan.Map
	names      []string
	matches    fuzzy.Matches
	selected   int
	history    *History
	historyIdx int
	path       string
	reload     Reloader
	logger     log.Logger
	status     string
	width      int
	height     int
	quitting   bool
}

// Run starts an interactive browser over vars. The query is fuzzy matched
// against variable names; Enter prints the selected binding.
func Run(
	ctx context.Context,
	vars *scan.Map,
	opts []Option,
	progOpts ...tea.ProgramOption,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m := newModel(ctx, vars, opts...)

	m.logger.TraceContext(
		ctx,
		"browse start",
		slog.Int("count", vars.Len()),
		slog.String("path", m.path),
	)

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)...)
	_, err = p.Run()

	return err
}

func newModel(ctx context.Context, vars *scan.Map, opts ...Option) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Placeholder = "filter names"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = defaultWidth

	m := model{
		ctxFunc: func() context.Context { return ctx },
		input:   ti,
		logger:  log.Default(),
		width:   defaultWidth,
		height:  defaultHeight,
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.setVars(vars)

	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil

	case rescanMsg:
		if msg.vars != nil {
			m.setVars(msg.vars)
		}

		if msg.err != nil {
			m.status = errorStyle.Render("rescan: " + msg.err.Error())

			return m, nil
		}

		m.status = resultStyle.Render(fmt.Sprintf("rescanned %d variables", m.vars.Len()))

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	rows := max(m.height-chrome, 1)
	first := 0

	if m.selected >= rows {
		first = m.selected - rows + 1
	}

	for i := first; i < len(m.matches) && i < first+rows; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	hint := fmt.Sprintf("%d/%d", len(m.matches), len(m.names))
	if m.status != "" {
		hint += "  " + m.status
	}

	b.WriteString(hintStyle.Render(hint))
	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"browse keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEsc:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.refresh()

		return m, nil

	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}

		return m, nil

	case tea.KeyDown:
		if m.selected < len(m.matches)-1 {
			m.selected++
		}

		return m, nil

	case tea.KeyCtrlP:
		return m.recall(-1), nil

	case tea.KeyCtrlN:
		return m.recall(+1), nil

	case tea.KeyCtrlE:
		return m.edit()

	case tea.KeyEnter:
		return m.accept()
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.refresh()

	if m.history != nil {
		m.historyIdx = m.history.Len()
	}

	return m, cmd
}

// accept prints the selected binding and records the query.
func (m model) accept() (model, tea.Cmd) {
	b, ok := m.current()
	if !ok {
		return m, nil
	}

	if m.history != nil {
		err := m.history.Add(m.input.Value())
		if err != nil {
			m.logger.WarnContext(m.ctxFunc(), "history write failed",
				slog.String("error", err.Error()))
		}

		m.historyIdx = m.history.Len()
	}

	return m, tea.Println(b.Name + " = " + b.Value)
}

// recall replaces the query with an older (dir < 0) or newer history entry.
func (m model) recall(dir int) model {
	if m.history == nil || m.history.Len() == 0 {
		return m
	}

	m.historyIdx = min(max(m.historyIdx+dir, 0), m.history.Len())

	entry, _ := m.history.Entry(m.historyIdx)
	m.input.SetValue(entry)
	m.input.CursorEnd()
	m.refresh()

	return m
}

func (m model) edit() (model, tea.Cmd) {
	if m.reload == nil || m.path == "" {
		m.status = errorStyle.Render(ErrNoEditor.Error())

		return m, nil
	}

	cmd := &editCommand{
		path:    m.path,
		reload:  m.reload,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return m, tea.Exec(cmd, func(err error) tea.Msg {
		return rescanMsg{vars: cmd.vars, err: err}
	})
}

// current returns the selected binding.
func (m model) current() (scan.Binding, bool) {
	if m.selected < 0 || m.selected >= len(m.matches) {
		return scan.Binding{}, false
	}

	return m.vars.Lookup(m.matches[m.selected].Str)
}

func (m *model) setVars(vars *scan.Map) {
	if vars == nil {
		vars = scan.NewMap()
	}

	m.vars = vars
	m.names = vars.Names()
	m.refresh()
}

// refresh recomputes matches for the current query, keeping the selection
// in range. An empty query matches every name in order.
func (m *model) refresh() {
	query := strings.TrimSpace(m.input.Value())

	if query == "" {
		m.matches = make(fuzzy.Matches, len(m.names))
		for i, name := range m.names {
			m.matches[i] = fuzzy.Match{Str: name, Index: i}
		}
	} else {
		m.matches = fuzzy.Find(query, m.names)
	}

	m.selected = min(max(m.selected, 0), max(len(m.matches)-1, 0))
}

// renderRow renders match i as "name = value" with the matched characters
// of the name highlighted.
func (m model) renderRow(i int) string {
	match := m.matches[i]
	value, _ := m.vars.Get(match.Str)

	if i == m.selected {
		return selectedStyle.Render(match.Str) + " = " + valueStyle.Render(value)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for j, r := range match.Str {
		ch := string(r)
		if matchSet[j] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(nameStyle.Render(ch))
		}
	}

	return b.String() + " = " + valueStyle.Render(value)
}
