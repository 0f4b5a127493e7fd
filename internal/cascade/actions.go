package cascade

import (
	"github.com/hemosim/hemosim/internal/kinetics"
	"github.com/hemosim/hemosim/internal/migration"
	"github.com/hemosim/hemosim/internal/protocol"
)

// dockPrereqMet reports whether the factor's stated prerequisites are
// docked. Both entry points — the legacy direct-dock actions and the
// activation protocol — consult the same table.
func dockPrereqMet(st *State, f Factor) bool {
	switch f {
	case FactorTFVIIa:
		return true
	case FactorFIX, FactorFX:
		return st.Factors[FactorTFVIIa].Docked
	case FactorFV:
		return st.Factors[FactorFX].Docked
	case FactorFII:
		return st.Factors[FactorFX].Docked && st.Factors[FactorFV].Docked
	default:
		return false
	}
}

// markDocked is the single primitive both dock paths funnel into. It sets
// the docked flag, finalizes the activation phase, and fires the
// biologically coupled side effects: TF exposure for TF-VIIa, the FIXa
// migration hold, and trace thrombin production for FII.
func markDocked(st *State, f Factor) bool {
	if st.Factors[f].Docked {
		return false
	}
	st.Factors[f].Docked = true
	st.Factors[f].Phase = protocol.PhaseComplete

	switch f {
	case FactorTFVIIa:
		st.Kinetics.TFExposed = true
	case FactorFIX:
		st.Migrations[TokenFIXa], _ = migration.Hold(st.Migrations[TokenFIXa])
	case FactorFII:
		produceThrombin(st)
	}
	return true
}

// produceThrombin marks the trace thrombin produced and stages the FIIa
// token for its glide to the platelet. Idempotent.
func produceThrombin(st *State) bool {
	if st.ThrombinProduced {
		return false
	}
	st.ThrombinProduced = true
	st.Migrations[TokenFIIa], _ = migration.Hold(st.Migrations[TokenFIIa])
	return true
}

// --- Legacy direct-dock path -------------------------------------------
//
// Used by auto-play and as the fallback when the activation protocol is
// bypassed. Each requires its stated prerequisites, else no-op.

// DockTFVIIa exposes tissue factor and docks the TF-VIIa complex. This is
// the cascade trigger.
func (s *Store) DockTFVIIa() bool {
	return s.apply("dock_tf_viia", func(st *State) bool {
		return markDocked(st, FactorTFVIIa)
	})
}

// DockFIX docks activated FIX; requires TF-VIIa.
func (s *Store) DockFIX() bool { return s.dock("dock_fix", FactorFIX) }

// DockFX docks activated FX; requires TF-VIIa.
func (s *Store) DockFX() bool { return s.dock("dock_fx", FactorFX) }

// DockFV docks FV on the TF cell; requires FXa.
func (s *Store) DockFV() bool { return s.dock("dock_fv", FactorFV) }

// DockFII docks prothrombin onto the spark prothrombinase; requires FXa
// and FVa. Docking FII always produces the trace thrombin.
func (s *Store) DockFII() bool { return s.dock("dock_fii", FactorFII) }

func (s *Store) dock(action string, f Factor) bool {
	return s.apply(action, func(st *State) bool {
		return dockPrereqMet(st, f) && markDocked(st, f)
	})
}

// --- Activation protocol path ------------------------------------------

// StartActivation begins an enzyme-substrate episode for the factor. Fails
// silently if the factor is mid-activation, already docked, or its
// prerequisite complex is not yet formed.
func (s *Store) StartActivation(f Factor) bool {
	return s.apply("start_activation", func(st *State) bool {
		if f < 0 || f >= factorCount || !dockPrereqMet(st, f) {
			return false
		}
		next, ok := protocol.Start(st.Factors[f].Phase)
		if !ok {
			return false
		}
		st.Factors[f].Phase = next
		return true
	})
}

// AdvancePhase moves the factor one protocol phase forward. Called by the
// scheduler after the phase-specific dwell.
func (s *Store) AdvancePhase(f Factor) bool {
	return s.apply("advance_phase", func(st *State) bool {
		if f < 0 || f >= factorCount {
			return false
		}
		next, ok := protocol.Advance(st.Factors[f].Phase)
		if !ok {
			return false
		}
		st.Factors[f].Phase = next
		return true
	})
}

// CompleteActivation finishes the episode from releasing, which docks the
// factor and fires its coupled effects.
func (s *Store) CompleteActivation(f Factor) bool {
	return s.apply("complete_activation", func(st *State) bool {
		if f < 0 || f >= factorCount {
			return false
		}
		next, ok := protocol.Complete(st.Factors[f].Phase)
		if !ok {
			return false
		}
		st.Factors[f].Phase = next
		return markDocked(st, f)
	})
}

// ProduceThrombin marks trace thrombin produced. Idempotent; requires FII
// docked when called directly.
func (s *Store) ProduceThrombin() bool {
	return s.apply("produce_thrombin", func(st *State) bool {
		return st.Factors[FactorFII].Docked && produceThrombin(st)
	})
}

// --- Migration ----------------------------------------------------------

// StartMigrationGlide begins the glide of a held token. Called by the
// scheduler after the hold dwell.
func (s *Store) StartMigrationGlide(t Token) bool {
	return s.apply("start_migration_glide", func(st *State) bool {
		if t < 0 || t >= tokenCount {
			return false
		}
		next, ok := migration.StartGlide(st.Migrations[t])
		if !ok {
			return false
		}
		st.Migrations[t] = next
		return true
	})
}

// CompleteMigration lands the token in the destination compartment and
// fires the cross-compartment effect: an arriving FIIa unlocks the
// amplification zone, an arriving FIXa becomes available to the tenase.
func (s *Store) CompleteMigration(t Token) bool {
	return s.apply("complete_migration", func(st *State) bool {
		if t < 0 || t >= tokenCount {
			return false
		}
		next, ok := migration.Complete(st.Migrations[t])
		if !ok {
			return false
		}
		st.Migrations[t] = next
		switch t {
		case TokenFIIa:
			st.ThrombinArrived = true
		case TokenFIXa:
			st.FIXaArrived = true
		}
		return true
	})
}

// --- Amplification ------------------------------------------------------
//
// Each requires thrombin in the amplification zone.

// SplitVWF releases FVIII from its von Willebrand carrier.
func (s *Store) SplitVWF() bool {
	return s.apply("split_vwf", func(st *State) bool {
		if !st.ThrombinArrived || st.VWFSplit {
			return false
		}
		st.VWFSplit = true
		return true
	})
}

// ActivateFV activates the amplification-zone FV.
func (s *Store) ActivateFV() bool {
	return s.apply("activate_fv", func(st *State) bool {
		if !st.ThrombinArrived || st.FVActivated {
			return false
		}
		st.FVActivated = true
		return true
	})
}

// ActivateFVIII activates FVIII; the vWF split must have freed it first.
func (s *Store) ActivateFVIII() bool {
	return s.apply("activate_fviii", func(st *State) bool {
		if !st.ThrombinArrived || !st.VWFSplit || st.FVIIIActivated {
			return false
		}
		st.FVIIIActivated = true
		return true
	})
}

// ActivateFXI activates FXI, the thrombin feedback loop into the
// intrinsic pathway.
func (s *Store) ActivateFXI() bool {
	return s.apply("activate_fxi", func(st *State) bool {
		if !st.ThrombinArrived || st.FXIActivated {
			return false
		}
		st.FXIActivated = true
		return true
	})
}

// DockFVa anchors activated FV on the exposed platelet membrane.
func (s *Store) DockFVa() bool {
	return s.apply("dock_fva", func(st *State) bool {
		if !st.FVActivated || !st.PlateletActivated || st.FVaDocked {
			return false
		}
		st.FVaDocked = true
		return true
	})
}

// DockFVIIIa anchors activated FVIII on the exposed platelet membrane.
func (s *Store) DockFVIIIa() bool {
	return s.apply("dock_fviiia", func(st *State) bool {
		if !st.FVIIIActivated || !st.PlateletActivated || st.FVIIIaDocked {
			return false
		}
		st.FVIIIaDocked = true
		return true
	})
}

// --- PAR receptor sequence ---------------------------------------------

// ParThrombinBind binds arrived thrombin to the intact PAR receptor.
func (s *Store) ParThrombinBind() bool {
	return s.apply("par_thrombin_bind", func(st *State) bool {
		if !st.ThrombinArrived || st.Par != ParIntact {
			return false
		}
		st.Par = ParThrombinBound
		return true
	})
}

// ParCleave cleaves the bound receptor.
func (s *Store) ParCleave() bool {
	return s.apply("par_cleave", func(st *State) bool {
		if st.Par != ParThrombinBound {
			return false
		}
		st.Par = ParCleaved
		return true
	})
}

// ParActivate activates the cleaved receptor.
func (s *Store) ParActivate() bool {
	return s.apply("par_activate", func(st *State) bool {
		if st.Par != ParCleaved {
			return false
		}
		st.Par = ParActivated
		return true
	})
}

// ActivatePlatelet flips the platelet procoagulant: phosphatidylserine is
// exposed and cofactors may anchor.
func (s *Store) ActivatePlatelet() bool {
	return s.apply("activate_platelet", func(st *State) bool {
		if st.Par != ParActivated || st.PlateletActivated {
			return false
		}
		st.PlateletActivated = true
		return true
	})
}

// --- Propagation --------------------------------------------------------

// FormTenase assembles the tenase complex from arrived FIXa and anchored
// FVIIIa. Monotonic: once formed, further calls are no-ops.
func (s *Store) FormTenase() bool {
	return s.apply("form_tenase", func(st *State) bool {
		if st.Tenase.Formed || !st.FIXaArrived || !st.FVIIIaDocked {
			return false
		}
		st.Tenase.Formed = true
		return true
	})
}

// FormProthrombinase assembles prothrombinase from tenase-made FXa and
// anchored FVa. Monotonic.
func (s *Store) FormProthrombinase() bool {
	return s.apply("form_prothrombinase", func(st *State) bool {
		if st.Prothrombinase.Formed || !st.Tenase.Formed || !st.FVaDocked {
			return false
		}
		st.Prothrombinase.Formed = true
		return true
	})
}

// ThrombinBurst fires the propagation-phase thrombin surge; requires the
// prothrombinase complex.
func (s *Store) ThrombinBurst() bool {
	return s.apply("thrombin_burst", func(st *State) bool {
		if st.ThrombinBurst || !st.Prothrombinase.Formed {
			return false
		}
		st.ThrombinBurst = true
		return true
	})
}

// --- Stabilization ------------------------------------------------------
//
// Strictly ordered; each step requires its predecessor and the preceding
// burst.

// CleaveFibrinogen cleaves fibrinogen into fibrin monomers.
func (s *Store) CleaveFibrinogen() bool {
	return s.apply("cleave_fibrinogen", func(st *State) bool {
		if !st.ThrombinBurst || st.FibrinogenCleaved {
			return false
		}
		st.FibrinogenCleaved = true
		return true
	})
}

// PolymerizeFibrin assembles the monomers into protofibrils.
func (s *Store) PolymerizeFibrin() bool {
	return s.apply("polymerize_fibrin", func(st *State) bool {
		if !st.FibrinogenCleaved || st.FibrinPolymerized {
			return false
		}
		st.FibrinPolymerized = true
		return true
	})
}

// ActivateFXIII activates the transglutaminase that will cross-link the
// polymer.
func (s *Store) ActivateFXIII() bool {
	return s.apply("activate_fxiii", func(st *State) bool {
		if !st.FibrinPolymerized || st.FXIIIActivated {
			return false
		}
		st.FXIIIActivated = true
		return true
	})
}

// CrosslinkFibrin cross-links the polymer into the stable clot, completing
// the cascade.
func (s *Store) CrosslinkFibrin() bool {
	return s.apply("crosslink_fibrin", func(st *State) bool {
		if !st.FXIIIActivated || st.FibrinCrosslinked {
			return false
		}
		st.FibrinCrosslinked = true
		return true
	})
}

// --- Session control ----------------------------------------------------

// SetMode switches between manual and auto. The scheduler observes the
// change and cancels pending auto-play work; the store itself only records
// the mode.
func (s *Store) SetMode(m Mode) bool {
	return s.apply("set_mode", func(st *State) bool {
		if st.Mode == m {
			return false
		}
		st.Mode = m
		return true
	})
}

// RestartLearning resets the entire state to initial defaults and bumps
// the reset generation, invalidating every timer keyed to the old one.
func (s *Store) RestartLearning() bool {
	return s.apply("restart_learning", func(st *State) bool {
		*st = initialState(st.ResetKey + 1)
		return true
	})
}

// StepKinetics advances the continuous initiation quantities by dt
// seconds. Gating flags are derived from the current docked factors. The
// action applies only when the integration moved something, so idle frames
// do not spam subscribers.
func (s *Store) StepKinetics(dt float64) bool {
	return s.apply("step_kinetics", func(st *State) bool {
		g := kinetics.Gates{
			EnzymeDocked:    st.Factors[FactorTFVIIa].Docked,
			SubstrateDocked: st.Factors[FactorFX].Docked,
			CofactorDocked:  st.Factors[FactorFV].Docked,
			ProductDocked:   st.Factors[FactorFII].Docked,
		}
		next := kinetics.Step(st.Kinetics, dt, g, s.rates)
		if next == st.Kinetics {
			return false
		}
		st.Kinetics = next
		return true
	})
}
