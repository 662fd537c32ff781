package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/goapcore/engine"
	"github.com/nathoo/goapcore/engine/save"
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

// DefaultTickInterval is the wall-clock time between ticks when Options
// leaves it unset.
const DefaultTickInterval = 100 * time.Millisecond

// Options configures the live view.
type Options struct {
	SaveDir      string
	TickInterval time.Duration
}

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the live simulation view.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs

	viewport viewport.Model
	input    textinput.Model
	history  *History
	keys     keyMap

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	paused   bool
	quitting bool
	lastCmd  string
	saveDir  string
	interval time.Duration
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// tickMsg asks the model to advance the simulation by one tick.
type tickMsg struct{}

type keyMap struct {
	Quit   key.Binding
	Pause  key.Binding
	Submit key.Binding
	Prev   key.Binding
	Next   key.Binding
	Scroll key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
		Pause:  key.NewBinding(key.WithKeys("ctrl+p")),
		Submit: key.NewBinding(key.WithKeys("enter")),
		Prev:   key.NewBinding(key.WithKeys("up")),
		Next:   key.NewBinding(key.WithKeys("down")),
		Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown")),
	}
}

// New creates a live view wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.SaveDir == "" {
		opts.SaveDir = "."
	}
	return Model{
		engine:   eng,
		defs:     defs,
		input:    ti,
		history:  NewHistory(100),
		keys:     defaultKeyMap(),
		saveDir:  opts.SaveDir,
		interval: opts.TickInterval,
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, eng *engine.Engine, defs *state.Defs, opts Options) error {
	m := New(eng, defs, opts)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init returns the intro output and schedules the first tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput(), m.scheduleTick())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		sc := m.defs.Scenario
		header := sc.Title
		if sc.Version != "" {
			header += " v" + sc.Version
		}
		if sc.Author != "" {
			header += " by " + sc.Author
		}
		lines = append(lines, header, "")

		if sc.Intro != "" {
			lines = append(lines, sc.Intro, "")
		}

		result := m.engine.Command("look")
		lines = append(lines, result.Output...)

		return gameOutputMsg{lines: lines}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Update handles messages (key presses, window resize, ticks, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tickMsg:
		return m.handleTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Pause):
			line := m.togglePause()
			m = m.appendOutput(gameOutputMsg{lines: []string{line}, isSystem: true})
			return m, nil

		case key.Matches(msg, m.keys.Submit):
			return m.handleEnter()

		case key.Matches(msg, m.keys.Prev):
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, m.keys.Next):
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case key.Matches(msg, m.keys.Scroll):
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleTick advances the simulation one tick unless paused or over, and
// always schedules the next one so a resumed or reloaded run keeps going.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.paused || m.gameOver() {
		return m, m.scheduleTick()
	}
	result := m.engine.Step(m.engine.TickSeconds())
	output := result.Output
	if m.trace {
		output = append(output, formatTrace(result)...)
	}
	if len(output) > 0 {
		m = m.appendLines(output, false)
	}
	return m, m.scheduleTick()
}

func (m Model) gameOver() bool {
	return state.GetFlag(m.engine.State, "game_over")
}

func (m *Model) togglePause() string {
	m.paused = !m.paused
	if m.paused {
		return "Paused."
	}
	return "Resumed."
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	result := m.engine.Command(input)
	output := result.Output
	if m.trace {
		output = append(output, formatTrace(result)...)
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})
	return m, nil
}

// appendOutput adds a command's lines to the narrative followed by a
// blank separator.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}
	m = m.appendLines(msg.lines, msg.isSystem)
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// appendLines adds lines without a separator. Ticks use it directly so the
// running narrative stays compact.
func (m Model) appendLines(lines []string, system bool) Model {
	for _, line := range lines {
		rl := rawLine{text: line, isSystem: system}
		if !system {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindIntent:
		return styleIntent.Render(line)
	case kindAction:
		return styledAction(line)
	case kindAlert:
		return styleAlert.Render(line)
	case kindCombat:
		return styleCombat.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Preserves existing newlines within the text.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	paragraphs := strings.Split(text, "\n")
	if len(paragraphs) > 1 {
		for i, p := range paragraphs {
			paragraphs[i] = wordWrap(p, width)
		}
		return strings.Join(paragraphs, "\n")
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full layout: viewport, status bar and input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/pause":
		return []string{m.togglePause()}, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = save.DefaultSlot
	}
	if err := save.WriteSlot(m.engine, m.saveDir, name); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Simulation saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = save.DefaultSlot
	}
	sd, err := save.ReadSlot(m.engine, m.saveDir, name)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	m.history.Seed(sd.CommandLog)
	output := []string{fmt.Sprintf("Simulation loaded from %s (tick %d).", name, sd.Tick)}
	result := m.engine.Command("status")
	return append(output, result.Output...)
}

func (m *Model) cmdHelp() []string {
	lines := []string{
		"System:",
		"  /save [name]  Save the simulation (default: quicksave)",
		"  /load [name]  Load a save (default: quicksave)",
		"  /pause        Pause or resume the clock (also Ctrl+P)",
		"  /quit         Exit",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /trace        Toggle event trace output",
		"",
	}
	lines = append(lines, engine.HelpText()...)
	return append(lines,
		"  again (g)           repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	)
}

func (m *Model) cmdState() []string {
	s := m.engine.State
	output := []string{
		fmt.Sprintf("Tick: %d (%.1fs)", s.Tick, s.Time),
		fmt.Sprintf("Player: %v", s.Player.Stats),
	}
	ids := make([]string, 0, len(s.Agents))
	for id := range s.Agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		output = append(output, fmt.Sprintf("Agent %s: %v", id, s.Agents[id].Stats))
	}
	if len(s.Flags) > 0 {
		output = append(output, fmt.Sprintf("Flags: %v", s.Flags))
	}
	return output
}

func formatTrace(result types.Result) []string {
	var lines []string
	if len(result.Effects) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
