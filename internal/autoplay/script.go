package autoplay

import "github.com/hemosim/hemosim/internal/cascade"

// noop marks a waiting beat: the scheduler is already gliding a token in
// the background, the script just holds until it lands.
func noop() bool { return true }

// Script builds the demonstration sequence against a store. Steps are
// ordered so that each step's prerequisites are satisfied by its
// predecessor's completion condition — the controller invokes each action
// exactly once and must never need a retry.
func Script(s *cascade.Store) []Step {
	return []Step{
		{"dock_tf_viia", s.DockTFVIIa, func(st cascade.State) bool {
			return st.Factors[cascade.FactorTFVIIa].Docked
		}},
		{"dock_fix", s.DockFIX, func(st cascade.State) bool {
			return st.Factors[cascade.FactorFIX].Docked
		}},
		{"dock_fx", s.DockFX, func(st cascade.State) bool {
			return st.Factors[cascade.FactorFX].Docked
		}},
		{"dock_fv", s.DockFV, func(st cascade.State) bool {
			return st.Factors[cascade.FactorFV].Docked
		}},
		{"dock_fii", s.DockFII, func(st cascade.State) bool {
			return st.ThrombinProduced
		}},
		{"await_thrombin_arrival", noop, func(st cascade.State) bool {
			return st.ThrombinArrived
		}},
		{"await_fixa_arrival", noop, func(st cascade.State) bool {
			return st.FIXaArrived
		}},
		{"split_vwf", s.SplitVWF, func(st cascade.State) bool {
			return st.VWFSplit
		}},
		{"activate_fv", s.ActivateFV, func(st cascade.State) bool {
			return st.FVActivated
		}},
		{"activate_fviii", s.ActivateFVIII, func(st cascade.State) bool {
			return st.FVIIIActivated
		}},
		{"activate_fxi", s.ActivateFXI, func(st cascade.State) bool {
			return st.FXIActivated
		}},
		{"par_thrombin_bind", s.ParThrombinBind, func(st cascade.State) bool {
			return st.Par >= cascade.ParThrombinBound
		}},
		{"par_cleave", s.ParCleave, func(st cascade.State) bool {
			return st.Par >= cascade.ParCleaved
		}},
		{"par_activate", s.ParActivate, func(st cascade.State) bool {
			return st.Par >= cascade.ParActivated
		}},
		{"activate_platelet", s.ActivatePlatelet, func(st cascade.State) bool {
			return st.PlateletActivated
		}},
		{"dock_fva", s.DockFVa, func(st cascade.State) bool {
			return st.FVaDocked
		}},
		{"dock_fviiia", s.DockFVIIIa, func(st cascade.State) bool {
			return st.FVIIIaDocked
		}},
		{"form_tenase", s.FormTenase, func(st cascade.State) bool {
			return st.Tenase.Formed
		}},
		{"form_prothrombinase", s.FormProthrombinase, func(st cascade.State) bool {
			return st.Prothrombinase.Formed
		}},
		{"thrombin_burst", s.ThrombinBurst, func(st cascade.State) bool {
			return st.ThrombinBurst
		}},
		{"cleave_fibrinogen", s.CleaveFibrinogen, func(st cascade.State) bool {
			return st.FibrinogenCleaved
		}},
		{"polymerize_fibrin", s.PolymerizeFibrin, func(st cascade.State) bool {
			return st.FibrinPolymerized
		}},
		{"activate_fxiii", s.ActivateFXIII, func(st cascade.State) bool {
			return st.FXIIIActivated
		}},
		{"crosslink_fibrin", s.CrosslinkFibrin, func(st cascade.State) bool {
			return st.FibrinCrosslinked
		}},
	}
}
