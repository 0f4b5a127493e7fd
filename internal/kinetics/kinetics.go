// Package kinetics advances the continuous, concentration-like quantities of
// the initiation phase: TF-VIIa complex level, local FXa/FIXa, the thrombin
// spark, TFPI inhibition, and diffused FIXa. Step is a pure function over a
// value-type State; it owns no clock and no goroutines.
//
// Determinism contract: integration runs in fixed 1ms quanta with a carry for
// the sub-quantum remainder, so the same total elapsed time produces the same
// end state regardless of how callers slice it into frame deltas (within
// floating-point tolerance at quantum boundaries).
package kinetics

import "math"

// quantum is the internal integration step in seconds.
const quantum = 0.001

// State holds the tracked quantities. All levels are normalized to [0, 1].
// The zero value is the start-of-session state with tissue factor covered.
type State struct {
	TFVIIaComplex  float64 `json:"tf_viia_complex"`
	FXaLocal       float64 `json:"fxa_local"`
	FIXaLocal      float64 `json:"fixa_local"`
	ThrombinSpark  float64 `json:"thrombin_spark"`
	TFPIInhibition float64 `json:"tfpi_inhibition"`
	FIXaDiffused   float64 `json:"fixa_diffused"`

	// TFExposed gates all production: nothing moves until the vessel injury
	// exposes tissue factor.
	TFExposed bool `json:"is_tf_exposed"`

	// carry is the sub-quantum remainder of elapsed time, in seconds.
	carry float64
}

// Gates reflects which complexes currently exist on the membrane. The
// booleans mirror the docked flags of the cascade snapshot; the integrator
// treats them as opaque rate switches.
type Gates struct {
	EnzymeDocked    bool // TF-VIIa assembled on the TF cell
	SubstrateDocked bool // FX present for cleavage
	CofactorDocked  bool // FVa anchoring boosts the spark
	ProductDocked   bool // FII present for the thrombin spark
}

// Rates holds the rate constants and thresholds. Per-second units; levels
// saturate at 1. These are policy constants supplied by configuration.
type Rates struct {
	TFVIIaAssembly float64 `json:"tf_viia_assembly" yaml:"tf_viia_assembly"`
	TFVIIaDecay    float64 `json:"tf_viia_decay" yaml:"tf_viia_decay"`
	FXaProduction  float64 `json:"fxa_production" yaml:"fxa_production"`
	FIXaProduction float64 `json:"fixa_production" yaml:"fixa_production"`
	SparkProduction float64 `json:"spark_production" yaml:"spark_production"`
	CofactorBoost  float64 `json:"cofactor_boost" yaml:"cofactor_boost"`
	TFPIOnset      float64 `json:"tfpi_onset" yaml:"tfpi_onset"`
	Decay          float64 `json:"decay" yaml:"decay"`
	Diffusion      float64 `json:"diffusion" yaml:"diffusion"`

	// FXaThreshold is the local FXa level above which TFPI inhibition
	// starts accumulating.
	FXaThreshold float64 `json:"fxa_threshold" yaml:"fxa_threshold"`

	// SparkThreshold and DiffusionThreshold gate IsInitiationComplete.
	SparkThreshold     float64 `json:"spark_threshold" yaml:"spark_threshold"`
	DiffusionThreshold float64 `json:"diffusion_threshold" yaml:"diffusion_threshold"`

	// MaxDelta caps a single Step call, in seconds. Deltas beyond it
	// (a suspended tab waking up) are treated as a suspension, not as
	// elapsed reaction time.
	MaxDelta float64 `json:"max_delta" yaml:"max_delta"`
}

// DefaultRates returns the reference constants. With every gate open the
// initiation predicate trips after roughly ten seconds of simulated time.
func DefaultRates() Rates {
	return Rates{
		TFVIIaAssembly:  0.8,
		TFVIIaDecay:     0.1,
		FXaProduction:   0.5,
		FIXaProduction:  0.3,
		SparkProduction: 0.6,
		CofactorBoost:   1.0,
		TFPIOnset:       0.08,
		Decay:           0.05,
		Diffusion:       0.15,

		FXaThreshold:       0.35,
		SparkThreshold:     0.25,
		DiffusionThreshold: 0.2,

		MaxDelta: 10.0,
	}
}

// Step advances the state by dt seconds under the given gates and returns
// the new state. dt is sanitized: NaN, infinite, and negative deltas count
// as zero, and anything beyond MaxDelta is truncated. The result never
// contains NaN or negative levels.
func Step(s State, dt float64, g Gates, r Rates) State {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		dt = 0
	}
	if r.MaxDelta > 0 && dt > r.MaxDelta {
		dt = r.MaxDelta
	}

	total := s.carry + dt
	steps := int(total / quantum)
	s.carry = total - float64(steps)*quantum

	for i := 0; i < steps; i++ {
		s = stepQuantum(s, g, r)
	}
	return s
}

// stepQuantum applies one fixed Euler step of length quantum.
func stepQuantum(s State, g Gates, r Rates) State {
	const h = quantum

	if !s.TFExposed {
		// Nothing assembles on covered tissue factor; existing levels decay.
		s.TFVIIaComplex = clamp01(s.TFVIIaComplex - r.TFVIIaDecay*s.TFVIIaComplex*h)
		s.FXaLocal = clamp01(s.FXaLocal - r.Decay*s.FXaLocal*h)
		s.FIXaLocal = clamp01(s.FIXaLocal - r.Decay*s.FIXaLocal*h)
		return s
	}

	free := 1.0 - s.TFPIInhibition

	// TF-VIIa complex assembles while FVIIa is docked, throttled by TFPI.
	if g.EnzymeDocked {
		s.TFVIIaComplex += r.TFVIIaAssembly * (1 - s.TFVIIaComplex) * free * h
	} else {
		s.TFVIIaComplex -= r.TFVIIaDecay * s.TFVIIaComplex * h
	}
	s.TFVIIaComplex = clamp01(s.TFVIIaComplex)

	// TF-VIIa cleaves FX and FIX.
	if g.SubstrateDocked {
		s.FXaLocal += r.FXaProduction * s.TFVIIaComplex * free * h
	}
	s.FXaLocal = clamp01(s.FXaLocal - r.Decay*s.FXaLocal*h)

	s.FIXaLocal += r.FIXaProduction * s.TFVIIaComplex * free * h

	// Local FIXa diffuses toward the platelet compartment.
	transfer := r.Diffusion * s.FIXaLocal * h
	s.FIXaLocal = clamp01(s.FIXaLocal - transfer)
	s.FIXaDiffused = clamp01(s.FIXaDiffused + transfer)

	// The thrombin spark needs prothrombin in reach; anchored FVa boosts it.
	if g.ProductDocked {
		rate := r.SparkProduction * s.FXaLocal
		if g.CofactorDocked {
			rate *= 1 + r.CofactorBoost
		}
		s.ThrombinSpark = clamp01(s.ThrombinSpark + rate*(1-s.ThrombinSpark)*h)
	}

	// TFPI inhibition accumulates once local FXa crosses its threshold.
	if s.FXaLocal > r.FXaThreshold {
		s.TFPIInhibition = clamp01(s.TFPIInhibition + r.TFPIOnset*(1-s.TFPIInhibition)*h)
	}

	return s
}

// IsInitiationComplete reports whether the continuous path out of the
// initiation phase has been reached: enough trace thrombin and enough FIXa
// diffused to the platelet surface. It is the fallback to the explicit
// token-migration path.
func IsInitiationComplete(s State, r Rates) bool {
	return s.ThrombinSpark >= r.SparkThreshold && s.FIXaDiffused >= r.DiffusionThreshold
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
