package timer

import "testing"

func TestCountdown_ElapsesAndFiresCallbacks(t *testing.T) {
	c := NewCountdown(1)
	started, stopped := 0, 0
	c.OnTimerStart = func() { started++ }
	c.OnTimerStop = func() { stopped++ }

	c.Start()
	if !c.IsRunning() || started != 1 {
		t.Fatalf("after Start: running=%v started=%d", c.IsRunning(), started)
	}

	c.Tick(0.4)
	c.Tick(0.4)
	if stopped != 0 {
		t.Fatalf("stopped early at remaining %v", c.Remaining())
	}

	c.Tick(0.4)
	if c.IsRunning() || stopped != 1 {
		t.Errorf("after elapse: running=%v stopped=%d", c.IsRunning(), stopped)
	}
	if !c.IsFinished() {
		t.Error("expected IsFinished")
	}

	// Ticking a stopped timer does nothing.
	c.Tick(1)
	if stopped != 1 {
		t.Errorf("stop fired again: %d", stopped)
	}
}

func TestCountdown_RestartRewinds(t *testing.T) {
	c := NewCountdown(2)
	started := 0
	c.OnTimerStart = func() { started++ }

	c.Start()
	c.Tick(1.5)
	c.Start() // already running: rewinds, no second start callback
	if c.Remaining() != 2 {
		t.Errorf("Remaining = %v, want 2", c.Remaining())
	}
	if started != 1 {
		t.Errorf("started = %d, want 1", started)
	}
}

func TestCountdown_ZeroDurationStopsOnFirstTick(t *testing.T) {
	c := NewCountdown(0)
	stopped := false
	c.OnTimerStop = func() { stopped = true }
	c.Start()
	c.Tick(0.016)
	if !stopped {
		t.Error("zero-length countdown should stop on first tick")
	}
}

func TestCountdown_Progress(t *testing.T) {
	c := NewCountdown(4)
	c.Start()
	c.Tick(1)
	if p := c.Progress(); p != 0.75 {
		t.Errorf("Progress = %v, want 0.75", p)
	}
}
