package goap

import (
	"github.com/felixgeelhaar/statekit"
)

// Phase is where the agent is in its plan/execute cycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhasePlanning Phase = "planning"
	PhaseStarting Phase = "starting"
	PhaseRunning  Phase = "running"
)

const (
	evPlan     statekit.EventType = "PLAN"
	evPlanned  statekit.EventType = "PLANNED"
	evNoPlan   statekit.EventType = "NO_PLAN"
	evStarted  statekit.EventType = "STARTED"
	evRejected statekit.EventType = "REJECTED"
	evFinished statekit.EventType = "FINISHED"
	evCancel   statekit.EventType = "CANCEL"
)

// phaseContext is carried through the statechart.
type phaseContext struct {
	transitions int
	last        statekit.EventType
}

func recordTransition(ctx **phaseContext, e statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).transitions++
	(*ctx).last = e.Type
}

// newPhaseMachine builds the agent statechart:
//
//	idle -PLAN-> planning -PLANNED-> starting -STARTED-> running -FINISHED-> idle
//	planning -NO_PLAN-> idle, starting -REJECTED-> idle, any busy phase -CANCEL-> idle
func newPhaseMachine() (*statekit.MachineConfig[*phaseContext], error) {
	idle := statekit.StateID(PhaseIdle)
	planning := statekit.StateID(PhasePlanning)
	starting := statekit.StateID(PhaseStarting)
	running := statekit.StateID(PhaseRunning)

	return statekit.NewMachine[*phaseContext]("goap-agent").
		WithInitial(idle).
		WithContext(&phaseContext{}).
		WithAction("record", recordTransition).
		State(idle).
		On(evPlan).Target(planning).Do("record").
		Done().
		State(planning).
		On(evPlanned).Target(starting).Do("record").
		On(evNoPlan).Target(idle).Do("record").
		On(evCancel).Target(idle).Do("record").
		Done().
		State(starting).
		On(evStarted).Target(running).Do("record").
		On(evRejected).Target(idle).Do("record").
		On(evCancel).Target(idle).Do("record").
		Done().
		State(running).
		On(evFinished).Target(idle).Do("record").
		On(evCancel).Target(idle).Do("record").
		Done().
		Build()
}

// lifecycle wraps the interpreter for one agent.
type lifecycle struct {
	interp *statekit.Interpreter[*phaseContext]
	ctx    *phaseContext
}

func newLifecycle() (*lifecycle, error) {
	machine, err := newPhaseMachine()
	if err != nil {
		return nil, err
	}
	ctx := &phaseContext{}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **phaseContext) {
		*c = ctx
	})
	interp.Start()
	return &lifecycle{interp: interp, ctx: ctx}, nil
}

func (l *lifecycle) phase() Phase {
	return Phase(l.interp.State().Value)
}

func (l *lifecycle) is(p Phase) bool {
	return l.interp.Matches(statekit.StateID(p))
}

func (l *lifecycle) send(ev statekit.EventType) {
	if ev == evCancel && l.is(PhaseIdle) {
		return
	}
	l.interp.Send(statekit.Event{Type: ev})
}
