// Package protocol models enzyme-substrate catalysis (E + S -> ES -> E + P)
// as a reusable five-phase sub-machine. A factor's activation walks
// inactive -> approaching -> es_complex -> cleaving -> releasing -> complete,
// forward only. The package owns no timing: an external scheduler arms a
// one-shot delay per phase and calls Advance (or Complete from releasing)
// when it expires.
package protocol

import "time"

// Phase is one step of the enzyme-substrate activation sequence.
type Phase int

const (
	PhaseInactive Phase = iota
	PhaseApproaching
	PhaseESComplex
	PhaseCleaving
	PhaseReleasing
	PhaseComplete
)

// String returns the snake_case name used in traces and step banners.
func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseApproaching:
		return "approaching"
	case PhaseESComplex:
		return "es_complex"
	case PhaseCleaving:
		return "cleaving"
	case PhaseReleasing:
		return "releasing"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// InProgress reports whether the factor is mid-activation: started but not
// yet complete. A factor in progress rejects a second StartActivation.
func (p Phase) InProgress() bool {
	return p > PhaseInactive && p < PhaseComplete
}

// CanStart reports whether an activation episode may begin from this phase.
// Only an inactive factor can start; everything else is a silent no-op at
// the caller.
func (p Phase) CanStart() bool {
	return p == PhaseInactive
}

// Start returns the phase entered by a successful StartActivation.
// The bool is false (and the phase unchanged) when p cannot start.
func Start(p Phase) (Phase, bool) {
	if !p.CanStart() {
		return p, false
	}
	return PhaseApproaching, true
}

// Advance moves one step along approaching -> es_complex -> cleaving ->
// releasing. Any other phase is returned unchanged with false: the final
// releasing -> complete hop is reserved for Complete so the caller can
// attach docking side effects to it.
func Advance(p Phase) (Phase, bool) {
	switch p {
	case PhaseApproaching:
		return PhaseESComplex, true
	case PhaseESComplex:
		return PhaseCleaving, true
	case PhaseCleaving:
		return PhaseReleasing, true
	default:
		return p, false
	}
}

// Complete finishes the episode. Only valid from releasing.
func Complete(p Phase) (Phase, bool) {
	if p != PhaseReleasing {
		return p, false
	}
	return PhaseComplete, true
}

// Timings holds the per-phase dwell durations. These are policy, not
// protocol: tuning them changes pacing, never correctness.
type Timings struct {
	Approaching time.Duration `json:"approaching" yaml:"approaching"`
	ESComplex   time.Duration `json:"es_complex" yaml:"es_complex"`
	Cleaving    time.Duration `json:"cleaving" yaml:"cleaving"`
	Releasing   time.Duration `json:"releasing" yaml:"releasing"`
}

// DefaultTimings returns the reference pacing for the teaching simulation.
func DefaultTimings() Timings {
	return Timings{
		Approaching: 800 * time.Millisecond,
		ESComplex:   400 * time.Millisecond,
		Cleaving:    500 * time.Millisecond,
		Releasing:   1200 * time.Millisecond,
	}
}

// Dwell returns how long a factor stays in phase p before the scheduler
// should advance it. Phases without a timed exit return 0.
func (t Timings) Dwell(p Phase) time.Duration {
	switch p {
	case PhaseApproaching:
		return t.Approaching
	case PhaseESComplex:
		return t.ESComplex
	case PhaseCleaving:
		return t.Cleaving
	case PhaseReleasing:
		return t.Releasing
	default:
		return 0
	}
}
