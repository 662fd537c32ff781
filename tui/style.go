package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleIntent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	styleActionName = lipgloss.NewStyle().
			Bold(true)

	styleAlert = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindIntent
	kindAction
	kindAlert
	kindCombat
	kindDialogue
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Game over"),
		strings.HasPrefix(line, "You have been defeated"),
		strings.HasPrefix(line, "I don't understand"),
		strings.HasPrefix(line, "no "),
		strings.HasPrefix(line, "which "),
		strings.HasSuffix(line, "how many times?"),
		strings.HasSuffix(line, "how many seconds?"):
		return kindError
	case strings.HasSuffix(line, "notices you."),
		strings.HasSuffix(line, "loses sight of you."):
		return kindAlert
	case strings.Contains(line, "attacks you"),
		strings.HasPrefix(line, "  Roll:"),
		strings.Contains(line, "swings at"):
		return kindCombat
	case strings.Contains(line, " now wants to "):
		return kindIntent
	case containsQuotedSpeech(line):
		return kindDialogue
	case isActionLine(line):
		return kindAction
	default:
		return kindNarration
	}
}

// isActionLine matches "Guard: ChasePlayer", the line printed when an
// agent starts an action.
func isActionLine(line string) bool {
	who, what, ok := strings.Cut(line, ": ")
	return ok && who != "" && what != "" && !strings.Contains(what, " ") && !strings.Contains(who, " ")
}

// containsQuotedSpeech checks if a line contains agent speech in quotes.
func containsQuotedSpeech(line string) bool {
	inQuote := false
	quoteLen := 0
	for _, r := range line {
		if r == '"' || r == '\'' {
			if inQuote && quoteLen > 5 {
				return true
			}
			inQuote = !inQuote
			quoteLen = 0
		} else if inQuote {
			quoteLen++
		}
	}
	return false
}

// styledAction renders "Guard: ChasePlayer" with the action name bold.
func styledAction(line string) string {
	who, what, ok := strings.Cut(line, ": ")
	if !ok {
		return styleNarration.Render(line)
	}
	return styleNarration.Render(who+": ") + styleActionName.Render(what)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
