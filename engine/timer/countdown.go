// Package timer provides the countdown primitive used by timed strategies
// and the per-agent stats cycle.
package timer

// Countdown counts down from a fixed duration while running. OnTimerStart
// fires when a stopped timer starts; OnTimerStop fires when it stops, either
// because it elapsed during Tick or because Stop was called.
type Countdown struct {
	OnTimerStart func()
	OnTimerStop  func()

	initial   float64
	remaining float64
	running   bool
}

// NewCountdown creates a stopped countdown of the given duration in seconds.
func NewCountdown(duration float64) *Countdown {
	return &Countdown{initial: duration}
}

// Start rewinds the countdown to its full duration and starts it.
func (c *Countdown) Start() {
	c.remaining = c.initial
	if !c.running {
		c.running = true
		if c.OnTimerStart != nil {
			c.OnTimerStart()
		}
	}
}

// Stop halts the countdown without rewinding it.
func (c *Countdown) Stop() {
	if c.running {
		c.running = false
		if c.OnTimerStop != nil {
			c.OnTimerStop()
		}
	}
}

// Tick advances the countdown by dt seconds and stops it once elapsed.
func (c *Countdown) Tick(dt float64) {
	if c.running && c.remaining > 0 {
		c.remaining -= dt
	}
	if c.running && c.remaining <= 0 {
		c.Stop()
	}
}

// Reset changes the duration and rewinds without starting.
func (c *Countdown) Reset(duration float64) {
	c.initial = duration
	c.remaining = duration
}

// SetRemaining sets the time left without changing the duration.
func (c *Countdown) SetRemaining(seconds float64) { c.remaining = seconds }

func (c *Countdown) IsRunning() bool    { return c.running }
func (c *Countdown) IsFinished() bool   { return c.remaining <= 0 }
func (c *Countdown) Remaining() float64 { return c.remaining }
func (c *Countdown) Duration() float64  { return c.initial }

// Progress returns the remaining fraction in [0, 1].
func (c *Countdown) Progress() float64 {
	if c.initial <= 0 {
		return 0
	}
	p := c.remaining / c.initial
	if p < 0 {
		return 0
	}
	return p
}
