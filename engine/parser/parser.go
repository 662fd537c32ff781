// Package parser converts console input into Command structs.
// Intentionally dumb: no NLP, just aliases and filler-word stripping.
package parser

import (
	"strings"

	"github.com/nathoo/goapcore/types"
)

var verbAliases = map[string]string{
	// Time
	"t":       "tick",
	"step":    "tick",
	"advance": "run",
	"wait":    "run",
	"z":       "run",

	// Player movement
	"go":     "player",
	"walk":   "player",
	"move":   "player",
	"goto":   "player",
	"tp":     "teleport",
	"warp":   "teleport",
	"appear": "teleport",

	// Inspection
	"s":      "status",
	"st":     "status",
	"stats":  "status",
	"l":      "look",
	"where":  "look",
	"map":    "look",
	"b":      "beliefs",
	"belief": "beliefs",
	"g":      "goals",
	"goal":   "goals",
	"p":      "plan",
	"plans":  "plan",
	"why":    "plan",
	"?":      "help",
	"h":      "help",
}

var fillers = map[string]bool{
	"to": true, "at": true, "the": true, "a": true, "an": true,
	"for": true, "of": true, "seconds": true, "secs": true, "s": true,
}

// Parse converts a raw console line into a Command.
func Parse(input string) types.Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Command{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	return types.Command{Verb: words[0], Args: stripFillers(words[1:])}
}

// stripFillers removes filler words ("to", "the", "seconds", ...) from the
// argument list.
func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[w] {
			result = append(result, w)
		}
	}
	return result
}

// Joined returns the command's arguments as one space-separated name.
func Joined(c types.Command) string {
	return strings.Join(c.Args, " ")
}
