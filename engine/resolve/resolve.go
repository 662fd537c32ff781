// Package resolve maps names typed at the console to location and agent ids.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/goapcore/engine/state"
)

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched a name.
type NotFoundError struct {
	Kind string // "location" or "agent"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s called %q", e.Kind, e.Name)
}

// Location resolves a name to a location id.
func Location(defs *state.Defs, name string) (string, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))

	// 1. Exact id match.
	if _, ok := defs.Locations[nameLower]; ok {
		return nameLower, nil
	}

	// 2. Name, alias and partial matches.
	var matches []string
	for id, loc := range defs.Locations {
		labels := append([]string{loc.Name}, loc.Aliases...)
		if matchesName(id, labels, nameLower) {
			matches = append(matches, id)
		}
	}
	return pick("location", name, matches)
}

// Agent resolves a name to an agent id.
func Agent(defs *state.Defs, name string) (string, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))

	var matches []string
	for _, a := range defs.Agents {
		if a.ID == nameLower {
			return a.ID, nil
		}
		if matchesName(a.ID, []string{a.Name}, nameLower) {
			matches = append(matches, a.ID)
		}
	}
	return pick("agent", name, matches)
}

func pick(kind, name string, matches []string) (string, error) {
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Kind: kind, Name: name}
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", &AmbiguityError{Name: name, Candidates: matches}
	}
}

// matchesName checks a query against an id and its display labels
// (case-insensitive). Supports exact match, word-based partial match, and
// underscore normalization of the id.
func matchesName(id string, labels []string, nameLower string) bool {
	for _, label := range labels {
		if label == "" {
			continue
		}
		labelLower := strings.ToLower(label)
		if labelLower == nameLower {
			return true
		}
		// Word-based partial match: "shack" matches "food shack".
		for _, word := range strings.Fields(labelLower) {
			if word == nameLower {
				return true
			}
		}
	}
	idLower := strings.ToLower(id)
	if idLower == nameLower {
		return true
	}
	// Underscore normalization: "door one" matches id "door_one".
	if strings.ReplaceAll(nameLower, " ", "_") == idLower {
		return true
	}
	// Partial id match: "shack" matches "food_shack".
	for _, part := range strings.Split(idLower, "_") {
		if part == nameLower {
			return true
		}
	}
	return false
}
