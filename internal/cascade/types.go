// Package cascade implements the central state container of the coagulation
// teaching simulation. It composes per-factor activation, enzyme-complex
// assembly, token migration, and the continuous kinetic state into one
// immutable snapshot, and exposes named action functions that perform
// validated transitions.
//
// The store is a pure reducer: no action blocks, no action arms a timer.
// Scheduling lives strictly above it (see internal/scheduler), which keeps
// every transition testable by calling actions in sequence and asserting on
// snapshots.
package cascade

import (
	"github.com/hemosim/hemosim/internal/kinetics"
	"github.com/hemosim/hemosim/internal/migration"
	"github.com/hemosim/hemosim/internal/protocol"
)

// Factor identifies a clotting factor tracked on the tissue-factor cell.
// A closed enum rather than free-form strings so every switch over cascade
// events is exhaustiveness-checked at compile time.
type Factor int

const (
	// FactorTFVIIa is the tissue factor–FVIIa complex, the cascade trigger.
	FactorTFVIIa Factor = iota
	FactorFIX
	FactorFX
	FactorFV
	FactorFII

	factorCount
)

// String returns the conventional short name.
func (f Factor) String() string {
	switch f {
	case FactorTFVIIa:
		return "TF-VIIa"
	case FactorFIX:
		return "FIX"
	case FactorFX:
		return "FX"
	case FactorFV:
		return "FV"
	case FactorFII:
		return "FII"
	default:
		return "unknown"
	}
}

// Factors lists every factor in canonical order.
func Factors() []Factor {
	fs := make([]Factor, 0, factorCount)
	for f := Factor(0); f < factorCount; f++ {
		fs = append(fs, f)
	}
	return fs
}

// Role classifies a factor's part in the reaction it participates in.
type Role int

const (
	RoleZymogen Role = iota
	RoleEnzyme
	RoleCofactor
	RoleSubstrate
)

// Role returns the biochemical role of the factor within the initiation
// compartment.
func (f Factor) Role() Role {
	switch f {
	case FactorTFVIIa:
		return RoleEnzyme
	case FactorFV:
		return RoleCofactor
	case FactorFII:
		return RoleSubstrate
	default:
		return RoleZymogen
	}
}

// FactorState is the per-factor slice of the snapshot. Factors are never
// deleted; they transition in place.
type FactorState struct {
	Docked bool           `json:"docked"`
	Phase  protocol.Phase `json:"activation_phase"`
}

// Token identifies a cross-compartment migration product.
type Token int

const (
	// TokenFIXa is activated FIX diffusing from the TF cell to the platelet.
	TokenFIXa Token = iota
	// TokenFIIa is the trace thrombin reaching the amplification zone.
	TokenFIIa

	tokenCount
)

// String returns the conventional short name.
func (t Token) String() string {
	switch t {
	case TokenFIXa:
		return "FIXa"
	case TokenFIIa:
		return "FIIa"
	default:
		return "unknown"
	}
}

// Tokens lists every migration token in canonical order.
func Tokens() []Token {
	ts := make([]Token, 0, tokenCount)
	for tk := Token(0); tk < tokenCount; tk++ {
		ts = append(ts, tk)
	}
	return ts
}

// Complex is a docked enzyme+cofactor pair. Formation is monotonic within
// a session. Producing is derived: formed, but the downstream product has
// not yet been generated.
type Complex struct {
	Formed    bool `json:"formed"`
	Producing bool `json:"producing"`
}

// ParStage is the protease-activated receptor sequence on the platelet
// membrane. Strictly sequential; cleavage by thrombin ultimately exposes
// the procoagulant phosphatidylserine surface.
type ParStage int

const (
	ParIntact ParStage = iota
	ParThrombinBound
	ParCleaved
	ParActivated
)

// String returns the snake_case name used in traces.
func (p ParStage) String() string {
	switch p {
	case ParIntact:
		return "intact"
	case ParThrombinBound:
		return "thrombin_bound"
	case ParCleaved:
		return "cleaved"
	case ParActivated:
		return "activated"
	default:
		return "unknown"
	}
}

// Phase is the pedagogical chapter of the cascade. It labels panels and
// sequences auto-play; prerequisites, not phases, gate most transitions.
type Phase int

const (
	PhaseInitiation Phase = iota
	PhaseAmplification
	PhasePropagation
	PhaseStabilization
	PhaseComplete
)

// String returns the display name.
func (p Phase) String() string {
	switch p {
	case PhaseInitiation:
		return "initiation"
	case PhaseAmplification:
		return "amplification"
	case PhasePropagation:
		return "propagation"
	case PhaseStabilization:
		return "stabilization"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Mode selects who drives the cascade: the learner or the demonstration
// script.
type Mode int

const (
	ModeManual Mode = iota
	ModeAuto
)

// String returns the display name.
func (m Mode) String() string {
	if m == ModeAuto {
		return "auto"
	}
	return "manual"
}

// Objective is one learning objective shown to the learner, with its
// completion flag derived from the snapshot after every action.
type Objective struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// objectiveCount must match the list built in initialState.
const objectiveCount = 8

// State is the complete immutable snapshot. It is a value type: every
// action produces a fresh copy, so concurrent readers always observe a
// fully-formed state, never a partial update.
type State struct {
	Factors    [factorCount]FactorState `json:"factors"`
	Migrations [tokenCount]migration.State `json:"migrations"`

	// Initiation products.
	ThrombinProduced bool `json:"thrombin_produced"`

	// Amplification zone. ThrombinArrived flips when the FIIa token lands.
	ThrombinArrived bool `json:"thrombin_arrived"`
	FIXaArrived     bool `json:"fixa_arrived"`
	VWFSplit        bool `json:"vwf_split"`
	FVActivated     bool `json:"fv_activated"`
	FVIIIActivated  bool `json:"fviii_activated"`
	FXIActivated    bool `json:"fxi_activated"`
	FVaDocked       bool `json:"fva_docked"`
	FVIIIaDocked    bool `json:"fviiia_docked"`

	// Platelet receptor sequence and surface exposure.
	Par               ParStage `json:"par_stage"`
	PlateletActivated bool     `json:"platelet_activated"`

	// Propagation complexes and the burst.
	Tenase         Complex `json:"tenase"`
	Prothrombinase Complex `json:"prothrombinase"`
	ThrombinBurst  bool    `json:"thrombin_burst"`

	// Stabilization sequence.
	FibrinogenCleaved  bool `json:"fibrinogen_cleaved"`
	FibrinPolymerized  bool `json:"fibrin_polymerized"`
	FXIIIActivated     bool `json:"fxiii_activated"`
	FibrinCrosslinked  bool `json:"fibrin_crosslinked"`

	Kinetics kinetics.State `json:"kinetics"`

	Mode  Mode  `json:"mode"`
	Phase Phase `json:"phase"`

	// ResetKey is the session generation. Schedulers key their timers to it
	// and discard callbacks whose captured key no longer matches.
	ResetKey uint64 `json:"reset_key"`

	Objectives [objectiveCount]Objective `json:"objectives"`
}
