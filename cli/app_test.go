package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr).WithInput(strings.NewReader(""))
	return app, &stdout, &stderr
}

func TestApp_Version(t *testing.T) {
	app, stdout, _ := newTestApp()
	if err := app.ExecuteWithArgs(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(stdout.String(), "goapcore version dev") {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestApp_ValidateOK(t *testing.T) {
	app, stdout, _ := newTestApp()
	err := app.ExecuteWithArgs(context.Background(), []string{"validate", "../loader/testdata/minimal"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := `Scenario "Minimal Test Scenario" is valid: 1 agent(s), 0 location(s), 0 handler(s).`
	if !strings.Contains(stdout.String(), want) {
		t.Errorf("output = %q, want %q", stdout.String(), want)
	}
}

func TestApp_ValidateReportsErrors(t *testing.T) {
	app, stdout, _ := newTestApp()
	err := app.ExecuteWithArgs(context.Background(), []string{"validate", "../loader/testdata/invalid_refs"})
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if !strings.Contains(err.Error(), "validation failed with") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(stdout.String(), `error: `) || !strings.Contains(stdout.String(), `unknown location "volcano"`) {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestApp_ValidateBadLua(t *testing.T) {
	app, _, _ := newTestApp()
	if err := app.ExecuteWithArgs(context.Background(), []string{"validate", "../loader/testdata/bad_lua"}); err == nil {
		t.Fatal("expected an error for bad Lua")
	}
}

func TestApp_RunHeadless(t *testing.T) {
	app, stdout, _ := newTestApp()
	err := app.ExecuteWithArgs(context.Background(), []string{"run", "--ticks", "5", "../scenarios/guard"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	output := stdout.String()
	if !strings.HasPrefix(output, "Guard Camp v1.0 by goapcore") {
		t.Errorf("expected banner, got:\n%s", output)
	}
	if !strings.Contains(output, "Guard now wants to") {
		t.Errorf("expected a goal to be picked, got:\n%s", output)
	}
	if !strings.Contains(output, "Tick 5 (0.5s)") {
		t.Errorf("expected final status, got:\n%s", output)
	}
}

func TestApp_RunSeedOverrideIsDeterministic(t *testing.T) {
	run := func() string {
		app, stdout, _ := newTestApp()
		args := []string{"run", "--ticks", "60", "--seed", "42", "../scenarios/guard"}
		if err := app.ExecuteWithArgs(context.Background(), args); err != nil {
			t.Fatalf("run: %v", err)
		}
		return stdout.String()
	}
	if a, b := run(), run(); a != b {
		t.Errorf("same seed produced different runs:\n%s\n---\n%s", a, b)
	}
}

func TestApp_RunHeadlessReportsMetrics(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "goapcore.yaml")
	if err := os.WriteFile(cfgPath, []byte("metrics:\n  enabled: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	app, stdout, stderr := newTestApp()
	args := []string{"run", "-c", cfgPath, "--ticks", "5", "../scenarios/guard"}
	if err := app.ExecuteWithArgs(context.Background(), args); err != nil {
		t.Fatalf("run: %v", err)
	}
	report := stderr.String()
	if !strings.Contains(report, "[metrics] goapcore.planner.plans{agent=guard,found=true} = ") {
		t.Errorf("expected planner totals, got:\n%s", report)
	}
	if !strings.Contains(report, "[metrics] goapcore.agent.actions{") {
		t.Errorf("expected action totals, got:\n%s", report)
	}
	if strings.Contains(stdout.String(), "[metrics]") {
		t.Error("metrics belong on stderr")
	}
}

func TestApp_RunWithoutMetricsPrintsNone(t *testing.T) {
	app, _, stderr := newTestApp()
	if err := app.ExecuteWithArgs(context.Background(), []string{"run", "--ticks", "5", "../scenarios/guard"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(stderr.String(), "[metrics]") {
		t.Errorf("unexpected metrics report:\n%s", stderr.String())
	}
}

func TestApp_RunScriptWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "goapcore.yaml")
	cfg := "sim:\n  max_ticks: 5\nsaves:\n  dir: " + filepath.Join(dir, "saves") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "demo.txt")
	if err := os.WriteFile(script, []byte("# warm up\ntick 50\n/save demo\n/quit\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	app, stdout, _ := newTestApp()
	args := []string{"run", "-c", cfgPath, "--script", script, "../scenarios/guard"}
	if err := app.ExecuteWithArgs(context.Background(), args); err != nil {
		t.Fatalf("run: %v", err)
	}
	output := stdout.String()
	if !strings.Contains(output, "> tick 50") {
		t.Errorf("expected echoed script input, got:\n%s", output)
	}
	if !strings.Contains(output, "(Limited to 5 ticks.)") {
		t.Errorf("expected the max_ticks cap, got:\n%s", output)
	}
	if _, err := os.Stat(filepath.Join(dir, "saves", "demo.json")); err != nil {
		t.Errorf("expected a save in the configured dir: %v", err)
	}
}

func TestApp_RunPlainReadsStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr).WithInput(strings.NewReader("status\n/quit\n"))
	if err := app.ExecuteWithArgs(context.Background(), []string{"run", "--plain", "../scenarios/guard"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "Tick 0 (0.0s)") {
		t.Errorf("expected status output, got:\n%s", stdout.String())
	}
}

func TestApp_Plan(t *testing.T) {
	app, stdout, _ := newTestApp()
	err := app.ExecuteWithArgs(context.Background(), []string{"plan", "../loader/testdata/minimal"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	output := stdout.String()
	if !strings.Contains(output, "idler goals:") {
		t.Errorf("expected goals, got:\n%s", output)
	}
	if !strings.Contains(output, "idler is idle; next: Chill Out via Relax") {
		t.Errorf("expected a plan preview, got:\n%s", output)
	}
}

func TestApp_PlanAfterTicks(t *testing.T) {
	app, stdout, _ := newTestApp()
	args := []string{"plan", "--agent", "idler", "--after", "2", "../loader/testdata/minimal"}
	if err := app.ExecuteWithArgs(context.Background(), args); err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(stdout.String(), "idler: goal Chill Out, doing Relax") {
		t.Errorf("output:\n%s", stdout.String())
	}
}

func TestApp_BadConfig(t *testing.T) {
	app, _, _ := newTestApp()
	args := []string{"plan", "-c", filepath.Join(t.TempDir(), "missing.yaml"), "../loader/testdata/minimal"}
	err := app.ExecuteWithArgs(context.Background(), args)
	if err == nil || !strings.Contains(err.Error(), "config:") {
		t.Errorf("expected a config error, got %v", err)
	}
}

func TestApp_MissingScenario(t *testing.T) {
	app, _, _ := newTestApp()
	err := app.ExecuteWithArgs(context.Background(), []string{"run", "--ticks", "1", "testdata/nope"})
	if err == nil || !strings.Contains(err.Error(), "loading scenario") {
		t.Errorf("expected a load error, got %v", err)
	}
}
