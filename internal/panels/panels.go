// Package panels derives per-panel instructional step lists from the global
// cascade snapshot. Everything here is a pure projection: same snapshot in,
// same projection out, no mutation — the rendering layer recomputes it on
// every state change to drive its "what should the learner do next" banner.
package panels

import "github.com/hemosim/hemosim/internal/cascade"

// Panel identifies one visual sub-panel of the simulation.
type Panel int

const (
	PanelInitiation Panel = iota
	PanelAmplification
	PanelPropagation
	PanelStabilization

	panelCount
)

// String returns the display name.
func (p Panel) String() string {
	switch p {
	case PanelInitiation:
		return "initiation"
	case PanelAmplification:
		return "amplification"
	case PanelPropagation:
		return "propagation"
	case PanelStabilization:
		return "stabilization"
	default:
		return "unknown"
	}
}

// Panels lists every panel in canonical order.
func Panels() []Panel {
	ps := make([]Panel, 0, panelCount)
	for p := Panel(0); p < panelCount; p++ {
		ps = append(ps, p)
	}
	return ps
}

// phase maps the panel to the cascade phase it teaches.
func (p Panel) phase() cascade.Phase {
	switch p {
	case PanelInitiation:
		return cascade.PhaseInitiation
	case PanelAmplification:
		return cascade.PhaseAmplification
	case PanelPropagation:
		return cascade.PhasePropagation
	default:
		return cascade.PhaseStabilization
	}
}

// Step is one instructional step: a stable identifier, the banner label,
// and the predicate that marks it done.
type Step struct {
	ID    string
	Label string
	Done  func(cascade.State) bool
}

// Projection is the derived view of one panel against a snapshot.
type Projection struct {
	CurrentStep      string `json:"current_step"`
	CurrentStepID    string `json:"current_step_id"`
	CurrentStepIndex int    `json:"current_step_index"`
	TotalSteps       int    `json:"total_steps"`
	IsPanelComplete  bool   `json:"is_panel_complete"`
	IsPanelActive    bool   `json:"is_panel_active"`
	PhaseName        string `json:"phase_name"`
}

// Steps returns the static ordered step list for a panel.
func Steps(p Panel) []Step {
	switch p {
	case PanelInitiation:
		return initiationSteps
	case PanelAmplification:
		return amplificationSteps
	case PanelPropagation:
		return propagationSteps
	case PanelStabilization:
		return stabilizationSteps
	default:
		return nil
	}
}

// Project matches the panel's step list against the snapshot. The current
// step is the first undone one; a fully-done list marks the panel complete
// with the index parked at TotalSteps.
func Project(st cascade.State, p Panel) Projection {
	steps := Steps(p)
	proj := Projection{
		TotalSteps:    len(steps),
		IsPanelActive: st.Phase == p.phase(),
		PhaseName:     st.Phase.String(),
	}

	for i, step := range steps {
		if !step.Done(st) {
			proj.CurrentStep = step.Label
			proj.CurrentStepID = step.ID
			proj.CurrentStepIndex = i
			return proj
		}
	}

	proj.CurrentStepIndex = len(steps)
	proj.IsPanelComplete = true
	return proj
}

var initiationSteps = []Step{
	{"dock-tf-viia", "Dock FVIIa onto the exposed tissue factor", func(st cascade.State) bool {
		return st.Factors[cascade.FactorTFVIIa].Docked
	}},
	{"activate-fix", "Activate FIX at the TF-VIIa complex", func(st cascade.State) bool {
		return st.Factors[cascade.FactorFIX].Docked
	}},
	{"activate-fx", "Activate FX at the TF-VIIa complex", func(st cascade.State) bool {
		return st.Factors[cascade.FactorFX].Docked
	}},
	{"dock-fv", "Dock FV beside the fresh FXa", func(st cascade.State) bool {
		return st.Factors[cascade.FactorFV].Docked
	}},
	{"dock-fii", "Feed prothrombin to the spark complex", func(st cascade.State) bool {
		return st.ThrombinProduced
	}},
	{"thrombin-to-platelet", "Let the trace thrombin reach the platelet", func(st cascade.State) bool {
		return st.ThrombinArrived
	}},
}

var amplificationSteps = []Step{
	{"split-vwf", "Split FVIII from its von Willebrand carrier", func(st cascade.State) bool {
		return st.VWFSplit
	}},
	{"activate-fv", "Activate FV with the arrived thrombin", func(st cascade.State) bool {
		return st.FVActivated
	}},
	{"activate-fviii", "Activate the freed FVIII", func(st cascade.State) bool {
		return st.FVIIIActivated
	}},
	{"activate-fxi", "Activate FXI on the platelet surface", func(st cascade.State) bool {
		return st.FXIActivated
	}},
	{"par-sequence", "Cleave the PAR receptor with thrombin", func(st cascade.State) bool {
		return st.Par == cascade.ParActivated
	}},
	{"activate-platelet", "Expose the procoagulant membrane", func(st cascade.State) bool {
		return st.PlateletActivated
	}},
}

var propagationSteps = []Step{
	{"dock-fva", "Anchor FVa on the activated platelet", func(st cascade.State) bool {
		return st.FVaDocked
	}},
	{"dock-fviiia", "Anchor FVIIIa on the activated platelet", func(st cascade.State) bool {
		return st.FVIIIaDocked
	}},
	{"form-tenase", "Assemble tenase from FIXa and FVIIIa", func(st cascade.State) bool {
		return st.Tenase.Formed
	}},
	{"form-prothrombinase", "Assemble prothrombinase from FXa and FVa", func(st cascade.State) bool {
		return st.Prothrombinase.Formed
	}},
	{"thrombin-burst", "Fire the thrombin burst", func(st cascade.State) bool {
		return st.ThrombinBurst
	}},
}

var stabilizationSteps = []Step{
	{"cleave-fibrinogen", "Cleave fibrinogen into fibrin monomers", func(st cascade.State) bool {
		return st.FibrinogenCleaved
	}},
	{"polymerize-fibrin", "Polymerize the fibrin monomers", func(st cascade.State) bool {
		return st.FibrinPolymerized
	}},
	{"activate-fxiii", "Activate FXIII with thrombin", func(st cascade.State) bool {
		return st.FXIIIActivated
	}},
	{"crosslink-fibrin", "Cross-link the fibrin mesh", func(st cascade.State) bool {
		return st.FibrinCrosslinked
	}},
}
