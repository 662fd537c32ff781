package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/goapcore/engine/geom"
)

func newTestWorld(t *testing.T) (*World, *Body, *Body) {
	t.Helper()
	w := New(Bounds{Min: geom.V(-50, 0, -50), Max: geom.V(50, 0, 50)})
	player, err := w.AddBody(PlayerID, geom.V(40, 0, 40), 4, nil)
	require.NoError(t, err)
	guard, err := w.AddBody("guard", geom.V(0, 0, 0), 2, map[string]float64{"AttackClip": 1.2})
	require.NoError(t, err)
	return w, player, guard
}

func TestBounds(t *testing.T) {
	b := Bounds{Min: geom.V(0, 0, 0), Max: geom.V(10, 0, 10)}
	tests := []struct {
		in   geom.Vec3
		want geom.Vec3
		ok   bool
	}{
		{geom.V(5, 3, 5), geom.V(5, 0, 5), true},
		{geom.V(-2, 0, 5), geom.V(0, 0, 5), false},
		{geom.V(12, 0, 20), geom.V(10, 0, 10), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Clamp(tt.in))
		assert.Equal(t, tt.ok, b.Contains(tt.in))
	}
}

func TestAddBody_Duplicate(t *testing.T) {
	w, _, _ := newTestWorld(t)
	_, err := w.AddBody("guard", geom.V(1, 0, 1), 1, nil)
	assert.ErrorIs(t, err, ErrDuplicateBody)
}

func TestBody_PathPendingForOneStep(t *testing.T) {
	w, _, guard := newTestWorld(t)
	guard.SetDestination(geom.V(10, 0, 0))
	assert.True(t, guard.PathPending())
	assert.True(t, guard.HasPath())

	w.Step(1)
	assert.False(t, guard.PathPending())
	assert.Equal(t, geom.V(0, 0, 0), guard.Position(), "no movement while pending")
	assert.InDelta(t, 10, guard.RemainingDistance(), 1e-9)

	w.Step(1)
	assert.InDelta(t, 2, guard.Position().X, 1e-9)
	assert.InDelta(t, 2, guard.Velocity().Len(), 1e-9)
	assert.InDelta(t, 90, guard.Heading(), 1e-9, "facing +X")
}

func TestBody_RepathWhileMovingKeepsGoing(t *testing.T) {
	w, _, guard := newTestWorld(t)
	guard.SetDestination(geom.V(10, 0, 0))
	w.Step(1)
	w.Step(1)
	require.InDelta(t, 2, guard.Position().X, 1e-9)

	guard.SetDestination(geom.V(10, 0, 10))
	assert.False(t, guard.PathPending())
	assert.Equal(t, geom.V(10, 0, 10), guard.Destination())

	w.Step(1)
	assert.Greater(t, guard.Position().Z, 0.0)
}

func TestBody_ArrivalClearsPath(t *testing.T) {
	w, _, guard := newTestWorld(t)
	guard.SetDestination(geom.V(3, 0, 0))
	for i := 0; i < 5; i++ {
		w.Step(1)
	}
	assert.Equal(t, geom.V(3, 0, 0), guard.Position())
	assert.False(t, guard.HasPath())
	assert.Equal(t, 0.0, guard.RemainingDistance())
	assert.Equal(t, geom.Vec3{}, guard.Velocity())
}

func TestBody_DestinationClamped(t *testing.T) {
	_, _, guard := newTestWorld(t)
	guard.SetDestination(geom.V(500, 0, 0))
	assert.Equal(t, geom.V(50, 0, 0), guard.Destination())

	guard.ResetPath()
	assert.False(t, guard.HasPath())
	assert.Equal(t, 0.0, guard.RemainingDistance())
}

func TestSamplePosition(t *testing.T) {
	w, _, _ := newTestWorld(t)
	p, ok := w.SamplePosition(geom.V(52, 0, 0), 5)
	require.True(t, ok)
	assert.Equal(t, geom.V(50, 0, 0), p)

	_, ok = w.SamplePosition(geom.V(80, 0, 0), 5)
	assert.False(t, ok)
}

func TestSensor_NotifiesOnGainAndLoss(t *testing.T) {
	w, player, guard := newTestWorld(t)
	s := w.AddSensor("chase", guard, 10)
	notified := 0
	s.Subscribe(func() { notified++ })

	assert.Empty(t, w.Step(0.1))
	assert.False(t, s.IsTargetInRange())

	player.Teleport(geom.V(5, 0, 5))
	changes := w.Step(0.1)
	require.Len(t, changes, 1)
	assert.Equal(t, SensorChange{Sensor: "chase", Owner: "guard", InRange: true}, changes[0])
	assert.Equal(t, 1, notified)

	in, pos := s.Snapshot()
	assert.True(t, in)
	assert.Equal(t, geom.V(5, 0, 5), pos)

	// Moving within range is not a change.
	player.Teleport(geom.V(6, 0, 5))
	assert.Empty(t, w.Step(0.1))
	assert.Equal(t, geom.V(6, 0, 5), s.TargetPosition())

	player.Teleport(geom.V(30, 0, 30))
	require.Len(t, w.Step(0.1), 1)
	assert.Equal(t, 2, notified)
	assert.Equal(t, geom.Vec3{}, s.TargetPosition())
}

func TestResample_DoesNotNotify(t *testing.T) {
	w, player, guard := newTestWorld(t)
	s := w.AddSensor("attack", guard, 2)
	s.Subscribe(func() { t.Fatal("unexpected notification") })
	player.Teleport(geom.V(1, 0, 0))
	w.Resample()
	assert.True(t, s.IsTargetInRange())
}

func TestAnimator(t *testing.T) {
	_, _, guard := newTestWorld(t)
	a := guard.Animator()
	assert.Equal(t, 1.2, a.ClipLength("AttackClip"))
	assert.Equal(t, -1.0, a.ClipLength("DanceClip"))

	a.Trigger("Attack")
	a.Trigger("Attack")
	assert.Equal(t, []string{"Attack", "Attack"}, a.DrainTriggers())
	assert.Empty(t, a.DrainTriggers())

	a.SetFloat("Speed", 1.5)
	a.SetBool("IsMoving", true)
	assert.Equal(t, 1.5, a.Float("Speed"))
	assert.True(t, a.Bool("IsMoving"))
}
