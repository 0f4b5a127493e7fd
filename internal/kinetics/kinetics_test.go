package kinetics

import (
	"math"
	"testing"
)

func exposedState() State {
	return State{TFExposed: true}
}

func allGates() Gates {
	return Gates{EnzymeDocked: true, SubstrateDocked: true, CofactorDocked: true, ProductDocked: true}
}

// fields returns the tracked levels for comparison.
func fields(s State) []float64 {
	return []float64{
		s.TFVIIaComplex, s.FXaLocal, s.FIXaLocal,
		s.ThrombinSpark, s.TFPIInhibition, s.FIXaDiffused,
	}
}

func TestStep_GranularityDeterminism(t *testing.T) {
	r := DefaultRates()
	g := allGates()

	coarse := Step(exposedState(), 1.0, g, r)

	fine := exposedState()
	for i := 0; i < 10; i++ {
		fine = Step(fine, 0.1, g, r)
	}

	cf, ff := fields(coarse), fields(fine)
	for i := range cf {
		// The carry may shift a single 1ms quantum across call boundaries,
		// so allow a one-quantum tolerance rather than exact equality.
		if math.Abs(cf[i]-ff[i]) > 1e-3 {
			t.Errorf("field %d diverged: coarse=%.9f fine=%.9f", i, cf[i], ff[i])
		}
	}
}

func TestStep_VeryFineGranularity(t *testing.T) {
	r := DefaultRates()
	g := allGates()

	coarse := Step(exposedState(), 2.0, g, r)

	fine := exposedState()
	for i := 0; i < 2000; i++ {
		fine = Step(fine, 0.001, g, r)
	}

	cf, ff := fields(coarse), fields(fine)
	for i := range cf {
		if math.Abs(cf[i]-ff[i]) > 1e-3 {
			t.Errorf("field %d diverged: coarse=%.9f fine=%.9f", i, cf[i], ff[i])
		}
	}
}

func TestStep_HostileDeltas(t *testing.T) {
	r := DefaultRates()
	g := allGates()

	for _, dt := range []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1), 1e9} {
		s := Step(exposedState(), dt, g, r)
		for i, v := range fields(s) {
			if math.IsNaN(v) {
				t.Errorf("dt=%v produced NaN in field %d", dt, i)
			}
			if v < 0 {
				t.Errorf("dt=%v produced negative level in field %d: %v", dt, i, v)
			}
			if v > 1 {
				t.Errorf("dt=%v produced level above 1 in field %d: %v", dt, i, v)
			}
		}
	}
}

func TestStep_ZeroDeltaIsIdentity(t *testing.T) {
	r := DefaultRates()
	s := Step(exposedState(), 5.0, allGates(), r)

	again := Step(s, 0, allGates(), r)
	sf, af := fields(s), fields(again)
	for i := range sf {
		if sf[i] != af[i] {
			t.Errorf("field %d changed on dt=0: %v -> %v", i, sf[i], af[i])
		}
	}
}

func TestStep_NothingMovesWithoutTFExposure(t *testing.T) {
	r := DefaultRates()
	s := Step(State{}, 10.0, allGates(), r)

	for i, v := range fields(s) {
		if v != 0 {
			t.Errorf("field %d rose to %v with tissue factor covered", i, v)
		}
	}
}

func TestStep_NothingProducedWithoutEnzyme(t *testing.T) {
	r := DefaultRates()
	s := Step(exposedState(), 10.0, Gates{SubstrateDocked: true, ProductDocked: true}, r)

	if s.FXaLocal != 0 || s.FIXaLocal != 0 || s.ThrombinSpark != 0 {
		t.Errorf("production without the TF-VIIa complex: %+v", s)
	}
}

func TestStep_MonotonicWithinPhase(t *testing.T) {
	r := DefaultRates()
	g := allGates()

	s := exposedState()
	prev := s
	for i := 0; i < 30; i++ {
		s = Step(s, 0.5, g, r)
		if s.TFVIIaComplex < prev.TFVIIaComplex-1e-12 {
			t.Fatalf("TFVIIaComplex regressed at step %d: %v -> %v", i, prev.TFVIIaComplex, s.TFVIIaComplex)
		}
		if s.ThrombinSpark < prev.ThrombinSpark-1e-12 {
			t.Fatalf("ThrombinSpark regressed at step %d: %v -> %v", i, prev.ThrombinSpark, s.ThrombinSpark)
		}
		if s.FIXaDiffused < prev.FIXaDiffused-1e-12 {
			t.Fatalf("FIXaDiffused regressed at step %d: %v -> %v", i, prev.FIXaDiffused, s.FIXaDiffused)
		}
		prev = s
	}
}

func TestStep_TFPIThrottlesProduction(t *testing.T) {
	r := DefaultRates()
	g := allGates()

	// Drive long enough for FXa to cross the TFPI threshold.
	s := Step(exposedState(), r.MaxDelta, g, r)
	s = Step(s, r.MaxDelta, g, r)
	if s.TFPIInhibition == 0 {
		t.Fatal("TFPI inhibition never engaged despite high FXa")
	}

	// An inhibited state must produce more slowly than a clean one at the
	// same complex level.
	inhibited := State{TFExposed: true, TFVIIaComplex: 0.5, TFPIInhibition: 0.9}
	clean := State{TFExposed: true, TFVIIaComplex: 0.5}

	inhibited = Step(inhibited, 1.0, g, r)
	clean = Step(clean, 1.0, g, r)

	if inhibited.FXaLocal >= clean.FXaLocal {
		t.Errorf("TFPI did not slow FXa production: inhibited=%v clean=%v", inhibited.FXaLocal, clean.FXaLocal)
	}
}

func TestIsInitiationComplete(t *testing.T) {
	r := DefaultRates()

	if IsInitiationComplete(State{}, r) {
		t.Error("fresh state reported initiation complete")
	}
	if IsInitiationComplete(State{ThrombinSpark: 1}, r) {
		t.Error("spark alone should not complete initiation")
	}
	if IsInitiationComplete(State{FIXaDiffused: 1}, r) {
		t.Error("diffusion alone should not complete initiation")
	}

	done := State{ThrombinSpark: r.SparkThreshold, FIXaDiffused: r.DiffusionThreshold}
	if !IsInitiationComplete(done, r) {
		t.Error("thresholds crossed but predicate false")
	}
}

func TestStep_ReachesInitiationComplete(t *testing.T) {
	r := DefaultRates()
	g := allGates()

	s := exposedState()
	for i := 0; i < 60; i++ {
		s = Step(s, 1.0, g, r)
		if IsInitiationComplete(s, r) {
			return
		}
	}
	t.Fatalf("initiation never completed after 60s: %+v", s)
}

func TestStep_CofactorBoostsSpark(t *testing.T) {
	r := DefaultRates()

	base := State{TFExposed: true, TFVIIaComplex: 1, FXaLocal: 0.5}

	with := Step(base, 1.0, Gates{EnzymeDocked: true, ProductDocked: true, CofactorDocked: true}, r)
	without := Step(base, 1.0, Gates{EnzymeDocked: true, ProductDocked: true}, r)

	if with.ThrombinSpark <= without.ThrombinSpark {
		t.Errorf("cofactor gate did not boost spark: with=%v without=%v", with.ThrombinSpark, without.ThrombinSpark)
	}
}
