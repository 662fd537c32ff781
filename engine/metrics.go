package engine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/nathoo/goapcore/engine/goap"
)

// meterName is the instrumentation scope for every engine metric.
const meterName = "github.com/nathoo/goapcore/engine"

// planBuckets are histogram boundaries in seconds. Planning runs in
// microseconds for small action sets.
var planBuckets = []float64{
	0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05,
}

// Metrics holds the OpenTelemetry instruments the engine records into.
type Metrics struct {
	// Plans counts planning attempts. Attributes: agent, found.
	Plans metric.Int64Counter

	// PlanDuration tracks planner latency. Attributes: agent.
	PlanDuration metric.Float64Histogram

	// Actions counts action lifecycle events. Attributes: agent, action,
	// outcome (started, completed, rejected, timed_out).
	Actions metric.Int64Counter

	// Abandons counts discarded plans. Attributes: agent, reason.
	Abandons metric.Int64Counter

	// PlayerHits counts successful attacks on the player. Attributes: agent.
	PlayerHits metric.Int64Counter
}

// NewMetrics creates the engine instruments on mp. A nil mp uses the global
// provider, which records nothing until one is installed.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Plans, err = m.Int64Counter("goapcore.planner.plans",
		metric.WithDescription("Planning attempts by agent and outcome."),
	); err != nil {
		return nil, err
	}
	if met.PlanDuration, err = m.Float64Histogram("goapcore.planner.duration",
		metric.WithDescription("Time spent in the planner per attempt."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(planBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Actions, err = m.Int64Counter("goapcore.agent.actions",
		metric.WithDescription("Action lifecycle events by agent, action and outcome."),
	); err != nil {
		return nil, err
	}
	if met.Abandons, err = m.Int64Counter("goapcore.agent.abandons",
		metric.WithDescription("Plans discarded before completion."),
	); err != nil {
		return nil, err
	}
	if met.PlayerHits, err = m.Int64Counter("goapcore.combat.player_hits",
		metric.WithDescription("Attacks that damaged the player."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// RecordPlan records one planning attempt.
func (m *Metrics) RecordPlan(ctx context.Context, r goap.PlanReport) {
	agent := attribute.String("agent", r.AgentID)
	m.Plans.Add(ctx, 1, metric.WithAttributes(agent, attribute.Bool("found", r.Found)))
	m.PlanDuration.Record(ctx, r.Elapsed.Seconds(), metric.WithAttributes(agent))
}

// RecordAgentEvent records the counters an agent loop event maps to.
func (m *Metrics) RecordAgentEvent(ctx context.Context, agentID string, ev goap.Event) {
	agent := attribute.String("agent", agentID)
	switch ev.Kind {
	case goap.EventActionStarted, goap.EventActionCompleted, goap.EventActionRejected, goap.EventActionTimedOut:
		m.Actions.Add(ctx, 1, metric.WithAttributes(agent,
			attribute.String("action", ev.Action),
			attribute.String("outcome", outcome(ev.Kind)),
		))
	case goap.EventPlanAbandoned:
		m.Abandons.Add(ctx, 1, metric.WithAttributes(agent, attribute.String("reason", ev.Reason)))
	}
}

func outcome(k goap.EventKind) string {
	switch k {
	case goap.EventActionStarted:
		return "started"
	case goap.EventActionCompleted:
		return "completed"
	case goap.EventActionRejected:
		return "rejected"
	default:
		return "timed_out"
	}
}
