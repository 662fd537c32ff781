// Package cli provides the goapcore command line: the cobra application,
// the plain console loop with its meta-commands, and script playback.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/goapcore/engine"
	"github.com/nathoo/goapcore/engine/save"
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

// CLI runs a simulation from a plain line-oriented terminal.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// NewCLI creates a console wired to the given engine.
func NewCLI(eng *engine.Engine, defs *state.Defs, saveDir string) *CLI {
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run starts the console loop. It shows the intro and the scene, then
// loops: prompt, input, dispatch, output.
func (c *CLI) Run() {
	if c.Defs.Scenario.Intro != "" {
		c.printLine(c.Defs.Scenario.Intro)
		c.printLine("")
	}
	c.printResult(c.Engine.Command("look"))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Command(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the session should end.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	msg, err := SaveTo(c.Engine, c.SaveDir, name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(msg)
}

func (c *CLI) cmdLoad(name string) {
	msg, err := LoadFrom(c.Engine, c.SaveDir, name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.printSystem(msg)
	c.printResult(c.Engine.Command("status"))
}

// SaveTo writes the engine's state to a save slot in dir and returns a
// confirmation line. An empty name means the quicksave slot.
func SaveTo(e *engine.Engine, dir, name string) (string, error) {
	if name == "" {
		name = save.DefaultSlot
	}
	if err := save.WriteSlot(e, dir, name); err != nil {
		return "", err
	}
	return fmt.Sprintf("Simulation saved to %s.", name), nil
}

// LoadFrom restores a save slot from dir onto the engine and returns a
// confirmation line. An empty name means the quicksave slot.
func LoadFrom(e *engine.Engine, dir, name string) (string, error) {
	if name == "" {
		name = save.DefaultSlot
	}
	sd, err := save.ReadSlot(e, dir, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Simulation loaded from %s (tick %d).", name, sd.Tick), nil
}

// HelpLines lists meta-commands followed by the engine's commands.
func HelpLines() []string {
	lines := []string{
		"System:",
		"  /save [name]   Save the simulation (default: quicksave)",
		"  /load [name]   Load a save (default: quicksave)",
		"  /quit          Exit",
		"  /help          Show this help",
		"  /state         Debug: dump current state",
		"  /trace         Toggle event trace output",
		"",
	}
	lines = append(lines, engine.HelpText()...)
	return append(lines, "  again (g)           repeat your last command")
}

func (c *CLI) cmdHelp() {
	for _, line := range HelpLines() {
		c.printLine(line)
	}
}

// StateLines dumps the mutable state for debugging.
func StateLines(e *engine.Engine) []string {
	s := e.State
	lines := []string{
		fmt.Sprintf("Tick: %d (%.1fs)", s.Tick, s.Time),
		fmt.Sprintf("Player: %v", s.Player.Stats),
	}
	ids := make([]string, 0, len(s.Agents))
	for id := range s.Agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("Agent %s: %v", id, s.Agents[id].Stats))
	}
	if len(s.Flags) > 0 {
		lines = append(lines, fmt.Sprintf("Flags: %v", s.Flags))
	}
	lines = append(lines, fmt.Sprintf("RNG: seed %d, position %d", s.RNGSeed, e.RNG.Position()))
	return lines
}

func (c *CLI) cmdState() {
	for _, line := range StateLines(c.Engine) {
		c.printSystem(line)
	}
}

// TraceLines renders the effects and events of a result.
func TraceLines(result types.Result) []string {
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

func (c *CLI) printTrace(result types.Result) {
	for _, line := range TraceLines(result) {
		c.printLine(line)
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
