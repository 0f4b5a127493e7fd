// Package migration models the cross-compartment diffusion of a reaction
// product as a four-state sequence: inactive -> held_for_migration ->
// migrating -> arrived. The three triggers are one-way and only valid from
// the immediate predecessor state; anything else is a no-op. Timing lives
// with the caller: a scheduler invokes StartGlide some delay after Hold and
// Complete some delay after StartGlide.
package migration

import "time"

// State is the position of a migration token in its episode.
type State int

const (
	StateInactive State = iota
	StateHeldForMigration
	StateMigrating
	StateArrived
)

// String returns the snake_case name used in traces.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateHeldForMigration:
		return "held_for_migration"
	case StateMigrating:
		return "migrating"
	case StateArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// Hold stages an inactive token for migration.
func Hold(s State) (State, bool) {
	if s != StateInactive {
		return s, false
	}
	return StateHeldForMigration, true
}

// StartGlide begins the visible glide of a held token.
func StartGlide(s State) (State, bool) {
	if s != StateHeldForMigration {
		return s, false
	}
	return StateMigrating, true
}

// Complete lands the token in the destination compartment. Arrived is
// terminal for the episode; re-arming requires a full reset. Cross-
// compartment side effects (thrombinArrived and friends) fire at the
// caller when Complete applies.
func Complete(s State) (State, bool) {
	if s != StateMigrating {
		return s, false
	}
	return StateArrived, true
}

// Delays holds the scheduler-side pacing for a migration episode.
type Delays struct {
	// Hold is the dwell between Hold and StartGlide.
	Hold time.Duration `json:"hold" yaml:"hold"`

	// Glide is the dwell between StartGlide and Complete.
	Glide time.Duration `json:"glide" yaml:"glide"`
}

// DefaultDelays returns the reference pacing for token glides.
func DefaultDelays() Delays {
	return Delays{
		Hold:  600 * time.Millisecond,
		Glide: 1500 * time.Millisecond,
	}
}
