// Package strategy implements the behaviors an action runs while it is
// current: idling, wandering, moving to a point, attacking, playing an
// emote, waiting on a belief and turning to face a point.
//
// Strategies see the world only through the narrow interfaces below, so
// any host that can navigate and animate a body can drive them.
package strategy

import (
	"math"

	"github.com/nathoo/goapcore/engine/geom"
	"github.com/nathoo/goapcore/engine/timer"
)

// Clip and trigger names the strategies ask the animator for.
const (
	AttackClip    = "AttackClip"
	AttackTrigger = "Attack"
	DanceClip     = "DanceClip"
	DanceTrigger  = "Dance"
)

const (
	// Arrival thresholds on the navigator's remaining distance.
	wanderArrival = 2.0
	moveArrival   = 1.0

	wanderSamples = 5

	// DefaultRotationSpeed is the Look-at turn rate; degrees per second is
	// this value times 100.
	DefaultRotationSpeed = 5.0
	facingTolerance      = 5.0 // degrees
	minLookDistanceSq    = 0.01
)

// Navigator moves a body along a path.
type Navigator interface {
	Position() geom.Vec3
	SetDestination(p geom.Vec3) bool
	ResetPath()
	RemainingDistance() float64
	PathPending() bool
	HasPath() bool
	// SamplePosition returns the nearest walkable point within maxDistance.
	SamplePosition(p geom.Vec3, maxDistance float64) (geom.Vec3, bool)
	Heading() float64
	SetHeading(yaw float64)
}

// Animator plays clips on a body. ClipLength returns a negative value for
// unknown clips.
type Animator interface {
	Trigger(name string)
	ClipLength(clip string) float64
}

// Rand is the random source Wander samples from.
type Rand interface {
	Float64() float64
}

// Condition is anything that can be evaluated to a boolean, a belief for
// instance.
type Condition interface {
	Evaluate() bool
}

// --- Idle ---

// Idle does nothing for a fixed number of seconds.
type Idle struct {
	timer    *timer.Countdown
	complete bool
}

func NewIdle(duration float64) *Idle {
	s := &Idle{timer: timer.NewCountdown(duration)}
	s.timer.OnTimerStart = func() { s.complete = false }
	s.timer.OnTimerStop = func() { s.complete = true }
	return s
}

func (s *Idle) CanPerform() bool   { return true }
func (s *Idle) Complete() bool     { return s.complete }
func (s *Idle) Start()             { s.timer.Start() }
func (s *Idle) Update(dt float64)  { s.timer.Tick(dt) }
func (s *Idle) Stop()              { s.timer.Stop() }
func (s *Idle) Remaining() float64 { return s.timer.Remaining() }

// --- Wander ---

// Wander picks a random reachable point within radius and walks there.
type Wander struct {
	nav    Navigator
	rng    Rand
	radius float64
}

func NewWander(nav Navigator, rng Rand, radius float64) *Wander {
	return &Wander{nav: nav, rng: rng, radius: radius}
}

func (s *Wander) CanPerform() bool { return !s.Complete() }

func (s *Wander) Complete() bool {
	return s.nav.RemainingDistance() <= wanderArrival && !s.nav.PathPending()
}

// Start samples up to five random offsets on the ground plane and sends the
// navigator to the first that lands on walkable ground. If none do, the
// strategy completes on its first update.
func (s *Wander) Start() {
	for i := 0; i < wanderSamples; i++ {
		offset := insideUnitSphere(s.rng).Scale(s.radius)
		offset.Y = 0
		if hit, ok := s.nav.SamplePosition(s.nav.Position().Add(offset), s.radius); ok {
			s.nav.SetDestination(hit)
			return
		}
	}
}

func (s *Wander) Update(float64) {}
func (s *Wander) Stop()          {}

func insideUnitSphere(rng Rand) geom.Vec3 {
	for {
		v := geom.V(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		if v.SqrLen() <= 1 {
			return v
		}
	}
}

// --- Move ---

// Move walks to a destination computed when the strategy starts. Chasing a
// sensed target is a Move whose destination reads the sensor.
type Move struct {
	nav         Navigator
	destination func() geom.Vec3
	onComplete  func()
}

// NewMove creates a Move. onComplete, if set, runs when the strategy stops.
func NewMove(nav Navigator, destination func() geom.Vec3, onComplete func()) *Move {
	return &Move{nav: nav, destination: destination, onComplete: onComplete}
}

func (s *Move) CanPerform() bool { return !s.Complete() }

func (s *Move) Complete() bool {
	return s.nav.RemainingDistance() <= moveArrival && !s.nav.PathPending()
}

func (s *Move) Start() { s.nav.SetDestination(s.destination()) }
func (s *Move) Update(float64) {}

func (s *Move) Stop() {
	if s.onComplete != nil {
		s.onComplete()
	}
	s.nav.ResetPath()
}

// --- Attack ---

// Attack fires the attack trigger and lasts as long as the attack clip.
type Attack struct {
	anim     Animator
	timer    *timer.Countdown
	complete bool
}

// NewAttack creates an Attack timed by the animator's attack clip. A
// missing clip yields an attack that finishes on its first update.
func NewAttack(anim Animator) *Attack {
	s := &Attack{anim: anim, timer: timer.NewCountdown(clipLength(anim, AttackClip))}
	s.timer.OnTimerStart = func() { s.complete = false }
	s.timer.OnTimerStop = func() { s.complete = true }
	return s
}

func (s *Attack) CanPerform() bool  { return true }
func (s *Attack) Complete() bool    { return s.complete }
func (s *Attack) Update(dt float64) { s.timer.Tick(dt) }
func (s *Attack) Stop()             { s.timer.Stop() }

func (s *Attack) Start() {
	s.timer.Start()
	s.anim.Trigger(AttackTrigger)
}

// --- Emote ---

// Emote plays a clip once and completes when the clip has run its length.
type Emote struct {
	anim     Animator
	trigger  string
	timer    *timer.Countdown
	complete bool
}

func NewEmote(anim Animator, trigger, clip string) *Emote {
	s := &Emote{anim: anim, trigger: trigger, timer: timer.NewCountdown(clipLength(anim, clip))}
	s.timer.OnTimerStart = func() { s.complete = false }
	s.timer.OnTimerStop = func() { s.complete = true }
	return s
}

// NewDance is the stock dance emote.
func NewDance(anim Animator) *Emote { return NewEmote(anim, DanceTrigger, DanceClip) }

func (s *Emote) CanPerform() bool  { return true }
func (s *Emote) Complete() bool    { return s.complete }
func (s *Emote) Update(dt float64) { s.timer.Tick(dt) }
func (s *Emote) Stop()             { s.timer.Stop() }

func (s *Emote) Start() {
	s.timer.Start()
	s.anim.Trigger(s.trigger)
}

func clipLength(anim Animator, clip string) float64 {
	l := anim.ClipLength(clip)
	if l < 0 {
		return 0
	}
	return l
}

// --- WaitUntilFalse ---

// WaitUntilFalse completes once the watched condition stops holding.
type WaitUntilFalse struct {
	cond     Condition
	complete bool
}

func NewWaitUntilFalse(cond Condition) *WaitUntilFalse {
	return &WaitUntilFalse{cond: cond}
}

func (s *WaitUntilFalse) CanPerform() bool { return true }
func (s *WaitUntilFalse) Complete() bool   { return s.complete }
func (s *WaitUntilFalse) Start()           { s.complete = false }
func (s *WaitUntilFalse) Stop()            {}

func (s *WaitUntilFalse) Update(float64) {
	if !s.cond.Evaluate() {
		s.complete = true
	}
}

// --- LookAt ---

// LookAt walks toward a point and turns to face it. The point is re-read
// every update and the path follows it when it moves. It completes when the
// body faces the point within five degrees and is within arrival distance.
type LookAt struct {
	nav        Navigator
	target     func() geom.Vec3
	speed      float64
	onComplete func()
	dest       geom.Vec3
	complete   bool
	notified   bool
}

// NewLookAt creates a LookAt. A non-positive speed uses
// DefaultRotationSpeed. onComplete runs at most once per run, either on
// completion or on Stop, whichever comes first.
func NewLookAt(nav Navigator, target func() geom.Vec3, speed float64, onComplete func()) *LookAt {
	if speed <= 0 {
		speed = DefaultRotationSpeed
	}
	return &LookAt{nav: nav, target: target, speed: speed, onComplete: onComplete}
}

func (s *LookAt) CanPerform() bool { return !s.complete }
func (s *LookAt) Complete() bool   { return s.complete }

func (s *LookAt) Start() {
	s.complete = false
	s.notified = false
	s.dest = s.target()
	s.nav.SetDestination(s.dest)
}

func (s *LookAt) Update(dt float64) {
	if s.nav.PathPending() {
		return
	}
	p := s.target()
	if p.Sub(s.dest).SqrLen() >= minLookDistanceSq {
		s.dest = p
		s.nav.SetDestination(p)
	}
	dir := p.Sub(s.nav.Position()).Flat()
	facing := true
	// Standing on the point: any heading faces it.
	if dir.SqrLen() >= minLookDistanceSq {
		want := geom.Yaw(dir)
		heading := geom.RotateTowards(s.nav.Heading(), want, s.speed*dt*100)
		s.nav.SetHeading(heading)
		facing = math.Abs(geom.DeltaAngle(heading, want)) < facingTolerance
	}
	if facing && s.nav.RemainingDistance() <= moveArrival {
		s.complete = true
		s.notify()
	}
}

func (s *LookAt) Stop() {
	s.notify()
	s.nav.ResetPath()
}

func (s *LookAt) notify() {
	if s.notified || s.onComplete == nil {
		return
	}
	s.notified = true
	s.onComplete()
}
