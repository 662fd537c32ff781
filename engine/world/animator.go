package world

import "sort"

// Animator stands in for a body's animation controller. It knows clip
// lengths, queues fired triggers until the host drains them, and holds
// named float and bool parameters.
type Animator struct {
	clips    map[string]float64
	triggers []string
	floats   map[string]float64
	bools    map[string]bool
}

func NewAnimator(clips map[string]float64) *Animator {
	a := &Animator{
		clips:  map[string]float64{},
		floats: map[string]float64{},
		bools:  map[string]bool{},
	}
	for k, v := range clips {
		a.clips[k] = v
	}
	return a
}

func (a *Animator) Trigger(name string) { a.triggers = append(a.triggers, name) }

// ClipLength returns the clip's length in seconds, or -1 if unknown.
func (a *Animator) ClipLength(clip string) float64 {
	if l, ok := a.clips[clip]; ok {
		return l
	}
	return -1
}

func (a *Animator) SetFloat(name string, v float64) { a.floats[name] = v }
func (a *Animator) SetBool(name string, v bool)     { a.bools[name] = v }
func (a *Animator) Float(name string) float64       { return a.floats[name] }
func (a *Animator) Bool(name string) bool           { return a.bools[name] }

// DrainTriggers returns the triggers fired since the last drain.
func (a *Animator) DrainTriggers() []string {
	out := a.triggers
	a.triggers = nil
	return out
}

// Clips returns the known clip names, sorted.
func (a *Animator) Clips() []string {
	names := make([]string, 0, len(a.clips))
	for k := range a.clips {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
