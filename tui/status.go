package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/goapcore/engine"
)

// displayName derives a human-readable label from an identifier.
// "wait_until_false" -> "Wait Until False", "running" -> "Running".
func displayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// agentSummary is one agent's slot in the status bar: its name, phase and
// what it is doing. compact drops the activity.
func agentSummary(rt *engine.AgentRuntime, compact bool) string {
	name := rt.Def.Name
	if name == "" {
		name = rt.Def.ID
	}
	s := fmt.Sprintf("%s [%s]", name, displayName(string(rt.Brain.Phase())))
	if compact {
		return s
	}
	switch {
	case rt.Brain.CurrentAction() != nil:
		s += " " + rt.Brain.CurrentAction().Name()
	case rt.Brain.CurrentGoal() != nil:
		s += " " + rt.Brain.CurrentGoal().Name()
	}
	return s
}

// renderStatusBar produces a full-width inverted status line showing each
// agent's phase and activity, the clock and the pause state.
func (m Model) renderStatusBar() string {
	s := m.engine.State

	right := fmt.Sprintf("T:%d (%.1fs) ", s.Tick, s.Time)
	switch {
	case m.gameOver():
		right = "GAME OVER | " + right
	case m.paused:
		right = "PAUSED | " + right
	}

	agents := m.engine.Agents()
	full := make([]string, len(agents))
	compact := make([]string, len(agents))
	for i, rt := range agents {
		full[i] = agentSummary(rt, false)
		compact[i] = agentSummary(rt, true)
	}

	// Show activities if they fit, otherwise just phases.
	left := " " + strings.Join(full, " | ")
	if lipgloss.Width(left)+lipgloss.Width(right)+2 >= m.width {
		left = " " + strings.Join(compact, " | ")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
