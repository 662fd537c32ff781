package cli

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nathoo/goapcore/engine"
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

// testDefs returns a one-agent scenario for CLI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Scenario: types.ScenarioDef{
			Title:   "Test Camp",
			Author:  "Test",
			Version: "1.0",
			Intro:   "Welcome to the camp.",
			Seed:    5,
		},
		Player: types.PlayerDef{
			Position: types.Vec{X: 20},
			Stats:    map[string]int{"health": 100},
		},
		Locations: map[string]types.LocationDef{
			"camp": {ID: "camp", Name: "Camp", Position: types.Vec{X: -5}},
		},
		Agents: []types.AgentDef{{
			ID:    "guard",
			Name:  "Guard",
			Stats: map[string]int{"health": 50},
			Beliefs: []types.BeliefDef{
				{Name: "Nothing", Kind: types.BeliefCondition, Conditions: []types.Condition{
					{Type: "not", Inner: &types.Condition{Type: "always"}},
				}},
			},
			Actions: []types.ActionDef{
				{Name: "Relax", Effects: []string{"Nothing"},
					Strategy: types.StrategyDef{Type: "idle", Params: map[string]any{"duration": 5.0}}},
			},
			Goals: []types.GoalDef{{Name: "Chill Out", Priority: 1, Desired: "Nothing"}},
		}},
	}
}

func newTestEngine(t *testing.T, defs *state.Defs) *engine.Engine {
	t.Helper()
	eng, err := engine.New(defs, engine.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return eng
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	defs := testDefs()
	var out bytes.Buffer
	c := &CLI{
		Engine:  newTestEngine(t, defs),
		Defs:    defs,
		In:      strings.NewReader(input),
		Out:     &out,
		SaveDir: t.TempDir(),
	}
	return c, &out
}

func TestCLI_IntroAndLook(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Welcome to the camp.") {
		t.Error("expected intro text in output")
	}
	if !strings.Contains(output, "Camp (-5.0, 0.0), 25.0m away") {
		t.Errorf("expected the camp in the opening look, got:\n%s", output)
	}
	if !strings.Contains(output, "Guard is at") {
		t.Error("expected the guard in the opening look")
	}
}

func TestCLI_TickNarrates(t *testing.T) {
	c, out := newTestCLI(t, "tick 2\nplan\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Guard now wants to Chill Out.") {
		t.Errorf("expected goal narration, got:\n%s", output)
	}
	if !strings.Contains(output, "Guard: goal Chill Out, doing Relax") {
		t.Errorf("expected plan line, got:\n%s", output)
	}
	if c.Engine.State.Tick != 2 {
		t.Errorf("tick = %d, want 2", c.Engine.State.Tick)
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"/save", "/load", "/quit", "tick [n]", "again (g)"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	defs := testDefs()

	// Run a bit and save.
	var out bytes.Buffer
	c := &CLI{
		Engine:  newTestEngine(t, defs),
		Defs:    defs,
		In:      strings.NewReader("teleport 3 4\ntick 7\n/save test\n/quit\n"),
		Out:     &out,
		SaveDir: dir,
	}
	c.Run()

	if !strings.Contains(out.String(), "[Simulation saved to test.]") {
		t.Errorf("expected save confirmation, got:\n%s", out.String())
	}

	// Start fresh and load.
	var out2 bytes.Buffer
	c2 := &CLI{
		Engine:  newTestEngine(t, defs),
		Defs:    defs,
		In:      strings.NewReader("/load test\n/quit\n"),
		Out:     &out2,
		SaveDir: dir,
	}
	c2.Run()

	loadOutput := out2.String()
	if !strings.Contains(loadOutput, "Simulation loaded from test (tick 7)") {
		t.Errorf("expected load confirmation, got:\n%s", loadOutput)
	}
	// The status printed after loading shows the saved player position.
	if !strings.Contains(loadOutput, "You: (3.0, 4.0)") {
		t.Errorf("expected restored player position, got:\n%s", loadOutput)
	}
	if c2.Engine.State.Tick != 7 {
		t.Errorf("tick = %d, want 7", c2.Engine.State.Tick)
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\ntick\n/trace\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace]   goal_selected") {
		t.Errorf("expected traced events, got:\n%s", output)
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"[Tick: 0 (0.0s)]", "[Player: map[health:100]]", "[Agent guard: map[health:50]]", "[RNG: seed 5"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in state output, got:\n%s", want, output)
		}
	}
}

func TestCLI_EmptyInputAndComments(t *testing.T) {
	c, out := newTestCLI(t, "\n# a comment\n\n/quit\n")
	c.Run()

	output := out.String()
	// Empty lines should be skipped (no "What do you want to do?" spam).
	if strings.Contains(output, "What do you want to do?") {
		t.Error("empty lines should be silently skipped by CLI")
	}
	if strings.Contains(output, "a comment") {
		t.Error("comment lines should not be echoed or run")
	}
}

func TestCLI_EchoInput(t *testing.T) {
	c, out := newTestCLI(t, "status\n/quit\n")
	c.EchoInput = true
	c.Run()

	if !strings.Contains(out.String(), "> status\n") {
		t.Errorf("expected echoed input, got:\n%s", out.String())
	}
}

func TestCLI_LoadNonexistent(t *testing.T) {
	c, out := newTestCLI(t, "/load nonexistent\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Load failed") {
		t.Error("expected load failure message")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, _ := newTestCLI(t, "tick 3\nagain\n/quit\n")
	c.Run()

	if c.Engine.State.Tick != 6 {
		t.Errorf("tick = %d, want 6 (tick 3 + again)", c.Engine.State.Tick)
	}
}

func TestCLI_G_RepeatsLastCommand(t *testing.T) {
	c, _ := newTestCLI(t, "tick 2\ng\ng\n/quit\n")
	c.Run()

	if c.Engine.State.Tick != 6 {
		t.Errorf("tick = %d, want 6", c.Engine.State.Tick)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

func TestTraceLines(t *testing.T) {
	r := types.Result{
		Effects: []types.Effect{{Type: "say", Params: map[string]any{"text": "hi"}}},
		Events:  []types.Event{{Type: "stats_tick", Data: map[string]any{"agent": "guard"}}},
	}
	lines := TraceLines(r)
	want := []string{
		"[trace] Effects: 1",
		"[trace]   say map[text:hi]",
		"[trace] Events: 1",
		"[trace]   stats_tick map[agent:guard]",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if got := TraceLines(types.Result{}); len(got) != 0 {
		t.Errorf("expected no trace lines for an empty result, got %v", got)
	}
}
