package scenario

import (
	"bytes"
	"encoding/json"
	"testing"
)

// run simulates one scenario with the reference options.
func run(t *testing.T, name string) *Result {
	t.Helper()
	res, err := Simulate(name, Options{})
	if err != nil {
		t.Fatalf("Simulate(%q): %v", name, err)
	}
	return res
}

func TestSimulate_UnknownScenario(t *testing.T) {
	if _, err := Simulate("leeches", Options{}); err == nil {
		t.Fatal("unknown scenario accepted")
	}
}

func TestLookup_HeparinAlias(t *testing.T) {
	p, ok := Lookup("heparin")
	if !ok || p.Name != "heparin_ufh" {
		t.Fatalf("Lookup(heparin) = (%q, %v), want heparin_ufh", p.Name, ok)
	}
}

func TestNames_CoversClinicalSet(t *testing.T) {
	have := make(map[string]bool)
	for _, n := range Names() {
		have[n] = true
	}
	for _, want := range []string{
		"normal", "hemophilia_a", "hemophilia_b", "warfarin",
		"heparin_ufh", "heparin_lmwh", "rivaroxaban", "dabigatran",
		"apixaban", "fviii_concentrate", "fix_concentrate", "pcc",
		"ffp", "dic", "liver_disease", "vwd_type1",
	} {
		if !have[want] {
			t.Errorf("scenario %q missing from Names()", want)
		}
	}
}

func TestSimulate_NormalProducesBurst(t *testing.T) {
	res := run(t, "normal")
	m := res.Metrics()

	if m.PeakIIa <= lagThreshold {
		t.Fatalf("peak IIa = %.2f nM, no thrombin burst", m.PeakIIa)
	}
	if m.LagTime < 0 {
		t.Error("lag phase never ended in the normal scenario")
	}
	if m.TimeToPeak < m.LagTime {
		t.Errorf("time to peak %.1fs before lag time %.1fs", m.TimeToPeak, m.LagTime)
	}
	if m.FinalFibrin <= 0 {
		t.Error("no fibrin formed in the normal scenario")
	}
	if m.PeakXa <= 0 {
		t.Error("no Xa generated in the normal scenario")
	}
}

func TestSimulate_SeriesShape(t *testing.T) {
	res := run(t, "normal")

	if len(res.Time) < 1000 {
		t.Fatalf("only %d samples recorded", len(res.Time))
	}
	for _, sp := range AllSpecies() {
		s := res.Series(sp)
		if len(s) != len(res.Time) {
			t.Fatalf("%v series has %d points, time has %d", sp, len(s), len(res.Time))
		}
		for i, v := range s {
			if v < 0 {
				t.Fatalf("%v went negative at sample %d: %v", sp, i, v)
			}
		}
	}

	// Fibrin only accumulates.
	fibrin := res.Series(SpeciesFibrin)
	for i := 1; i < len(fibrin); i++ {
		if fibrin[i] < fibrin[i-1] {
			t.Fatalf("fibrin decreased at sample %d: %v -> %v", i, fibrin[i-1], fibrin[i])
		}
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	a := run(t, "normal")
	b := run(t, "normal")

	iiaA, iiaB := a.Series(SpeciesIIa), b.Series(SpeciesIIa)
	for i := range iiaA {
		if iiaA[i] != iiaB[i] {
			t.Fatalf("runs diverged at sample %d: %v vs %v", i, iiaA[i], iiaB[i])
		}
	}
}

func TestSimulate_HemophiliaBluntsTheBurst(t *testing.T) {
	normal := run(t, "normal").Metrics()

	for _, name := range []string{"hemophilia_a", "hemophilia_b"} {
		m := run(t, name).Metrics()
		if m.PeakIIa >= normal.PeakIIa {
			t.Errorf("%s peak IIa %.1f >= normal %.1f", name, m.PeakIIa, normal.PeakIIa)
		}
		if m.FinalFibrin >= normal.FinalFibrin {
			t.Errorf("%s final fibrin %.1f >= normal %.1f", name, m.FinalFibrin, normal.FinalFibrin)
		}
	}
}

func TestSimulate_AnticoagulantsSuppressThrombin(t *testing.T) {
	normal := run(t, "normal").Metrics()

	for _, name := range []string{"heparin_ufh", "heparin_lmwh", "rivaroxaban", "warfarin"} {
		m := run(t, name).Metrics()
		if m.PeakIIa >= normal.PeakIIa {
			t.Errorf("%s peak IIa %.1f >= normal %.1f", name, m.PeakIIa, normal.PeakIIa)
		}
	}

	// Dabigatran blunts thrombin's downstream action rather than its
	// generation, so judge it by the clot instead.
	dab := run(t, "dabigatran").Metrics()
	if dab.FinalFibrin >= normal.FinalFibrin {
		t.Errorf("dabigatran final fibrin %.1f >= normal %.1f", dab.FinalFibrin, normal.FinalFibrin)
	}
}

func TestSimulate_ConcentrateRestoresHemophilia(t *testing.T) {
	hemA := run(t, "hemophilia_a").Metrics()
	treated := run(t, "fviii_concentrate").Metrics()

	if treated.PeakIIa <= hemA.PeakIIa {
		t.Errorf("FVIII concentrate peak %.1f <= untreated %.1f", treated.PeakIIa, hemA.PeakIIa)
	}
}

func TestExportJSON(t *testing.T) {
	res, err := Simulate("normal", Options{Duration: 60, SamplePoints: 100})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := res.ExportJSON(&buf, nil, 10); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var doc struct {
		Scenario string               `json:"scenario"`
		Params   Params               `json:"parameters"`
		Time     []float64            `json:"time"`
		Factors  map[string][]float64 `json:"factors"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if doc.Scenario != "normal" {
		t.Errorf("scenario = %q", doc.Scenario)
	}
	if doc.Params.ATFactor != 1 {
		t.Errorf("at_factor = %v, want 1", doc.Params.ATFactor)
	}
	if len(doc.Time) == 0 {
		t.Fatal("no time points exported")
	}
	for _, name := range []string{"IIa", "Xa", "Fibrin"} {
		s, ok := doc.Factors[name]
		if !ok {
			t.Errorf("factor %q missing from export", name)
			continue
		}
		if len(s) != len(doc.Time) {
			t.Errorf("factor %q has %d points, time has %d", name, len(s), len(doc.Time))
		}
	}
}

func TestSpeciesByName(t *testing.T) {
	sp, ok := SpeciesByName("TF_VIIa")
	if !ok || sp != SpeciesTFVIIa {
		t.Fatalf("SpeciesByName(TF_VIIa) = (%v, %v)", sp, ok)
	}
	if _, ok := SpeciesByName("plasmin"); ok {
		t.Error("unknown species resolved")
	}
}
