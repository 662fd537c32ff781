package goap

import "errors"

// Setup errors. Agents refuse to initialize rather than run with malformed
// beliefs, actions or goals.
var (
	ErrDuplicateBelief = errors.New("goap: duplicate belief")
	ErrUnknownBelief   = errors.New("goap: unknown belief")
	ErrDuplicateAction = errors.New("goap: duplicate action")
	ErrNoStrategy      = errors.New("goap: action has no strategy")
	ErrNoEffects       = errors.New("goap: action has no effects")
	ErrNoDesiredEffect = errors.New("goap: goal has no desired effect")
	ErrNoSensors       = errors.New("goap: sensor belief has no sensors")
)
