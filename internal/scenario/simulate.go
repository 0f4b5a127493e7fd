package scenario

import (
	"encoding/json"
	"fmt"
	"io"
)

// Options controls one simulation run. Zero values take the reference
// defaults.
type Options struct {
	// Duration is simulated time in seconds. Default 600.
	Duration float64

	// SamplePoints is how many evenly spaced points the result records.
	// Default 1000.
	SamplePoints int

	// TFConcentration is the tissue factor trigger, in nM. Default 25.
	TFConcentration float64

	// StepSize is the fixed integrator step in seconds. Default 0.01,
	// small enough to keep the stiffest inhibition terms stable under
	// heparin potentiation.
	StepSize float64
}

func (o Options) withDefaults() Options {
	if o.Duration <= 0 {
		o.Duration = 600
	}
	if o.SamplePoints <= 0 {
		o.SamplePoints = 1000
	}
	if o.TFConcentration <= 0 {
		o.TFConcentration = 25
	}
	if o.StepSize <= 0 {
		o.StepSize = 0.01
	}
	return o
}

// Result holds one run's sampled time series.
type Result struct {
	Scenario string
	Params   Params
	Time     []float64

	series [speciesCount][]float64
}

// Series returns the sampled concentration curve for one species, aligned
// with Time.
func (r *Result) Series(sp Species) []float64 {
	if sp < 0 || sp >= speciesCount {
		return nil
	}
	return r.series[sp]
}

// Metrics summarizes a thrombin-generation run.
type Metrics struct {
	// PeakIIa is the maximum thrombin concentration, nM.
	PeakIIa float64 `json:"peak_iia"`

	// LagTime is when thrombin first exceeds 10 nM, seconds. Negative
	// when the threshold is never reached.
	LagTime float64 `json:"lag_time"`

	// TimeToPeak is when thrombin peaks, seconds.
	TimeToPeak float64 `json:"time_to_peak"`

	// PeakXa is the maximum factor Xa concentration, nM.
	PeakXa float64 `json:"peak_xa"`

	// FinalFibrin is the fibrin concentration at the end of the run, nM.
	FinalFibrin float64 `json:"final_fibrin"`
}

// lagThreshold is the thrombin level conventionally marking the end of the
// lag phase, in nM.
const lagThreshold = 10.0

// Metrics computes the run's summary numbers.
func (r *Result) Metrics() Metrics {
	m := Metrics{LagTime: -1}
	iia := r.series[SpeciesIIa]
	xa := r.series[SpeciesXa]
	fibrin := r.series[SpeciesFibrin]

	for i, t := range r.Time {
		if iia[i] > m.PeakIIa {
			m.PeakIIa = iia[i]
			m.TimeToPeak = t
		}
		if m.LagTime < 0 && iia[i] > lagThreshold {
			m.LagTime = t
		}
		if xa[i] > m.PeakXa {
			m.PeakXa = xa[i]
		}
	}
	if len(fibrin) > 0 {
		m.FinalFibrin = fibrin[len(fibrin)-1]
	}
	return m
}

// Simulate runs the named scenario with a fixed-step fourth-order
// Runge-Kutta integrator and returns the sampled trajectory.
func Simulate(name string, opts Options) (*Result, error) {
	preset, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	return SimulatePreset(preset, opts), nil
}

// SimulatePreset runs an explicit preset, for callers that build their own.
func SimulatePreset(preset Preset, opts Options) *Result {
	opts = opts.withDefaults()
	k := DefaultRateConstants()

	y := InitialConcentrations()
	for sp, conc := range preset.Modifications {
		if sp >= 0 && sp < speciesCount {
			y[sp] = conc
		}
	}
	y[SpeciesTF] = opts.TFConcentration

	res := &Result{
		Scenario: preset.Name,
		Params:   preset.Params,
		Time:     make([]float64, 0, opts.SamplePoints+1),
	}
	for i := range res.series {
		res.series[i] = make([]float64, 0, opts.SamplePoints+1)
	}

	sampleEvery := opts.Duration / float64(opts.SamplePoints)
	nextSample := 0.0
	record := func(t float64) {
		res.Time = append(res.Time, t)
		for sp := Species(0); sp < speciesCount; sp++ {
			res.series[sp] = append(res.series[sp], y[sp])
		}
	}

	h := opts.StepSize
	for t := 0.0; t < opts.Duration; t += h {
		if t >= nextSample {
			record(t)
			nextSample += sampleEvery
		}
		y = rk4Step(y, h, k, preset.Params)
	}
	record(opts.Duration)

	return res
}

// rk4Step advances the state vector by one fixed step.
func rk4Step(y Concentrations, h float64, k RateConstants, p Params) Concentrations {
	k1 := derivatives(y, k, p)
	k2 := derivatives(axpy(y, k1, h/2), k, p)
	k3 := derivatives(axpy(y, k2, h/2), k, p)
	k4 := derivatives(axpy(y, k3, h), k, p)

	for i := range y {
		y[i] += h / 6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
		if y[i] < 0 {
			y[i] = 0
		}
	}
	return y
}

// axpy returns y + s*d without touching the inputs.
func axpy(y, d Concentrations, s float64) Concentrations {
	for i := range y {
		y[i] += s * d[i]
	}
	return y
}

// exportDoc is the JSON layout consumed by the rendering layer.
type exportDoc struct {
	Scenario string               `json:"scenario"`
	Params   Params               `json:"parameters"`
	Metrics  Metrics              `json:"metrics"`
	Time     []float64            `json:"time"`
	Factors  map[string][]float64 `json:"factors"`
}

// defaultExportSpecies are the curves the rendering layer plots.
var defaultExportSpecies = []Species{
	SpeciesIIa, SpeciesXa, SpeciesIXa, SpeciesVIIIa,
	SpeciesVa, SpeciesFibrin, SpeciesTFVIIa,
}

// ExportJSON writes the run as indented JSON, thinned to every stride-th
// sample. A nil species list exports the default plotting set; stride < 1
// exports every sample.
func (r *Result) ExportJSON(w io.Writer, species []Species, stride int) error {
	if species == nil {
		species = defaultExportSpecies
	}
	if stride < 1 {
		stride = 1
	}

	doc := exportDoc{
		Scenario: r.Scenario,
		Params:   r.Params,
		Metrics:  r.Metrics(),
		Time:     thin(r.Time, stride),
		Factors:  make(map[string][]float64, len(species)),
	}
	for _, sp := range species {
		if s := r.Series(sp); s != nil {
			doc.Factors[sp.String()] = thin(s, stride)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func thin(xs []float64, stride int) []float64 {
	out := make([]float64, 0, len(xs)/stride+1)
	for i := 0; i < len(xs); i += stride {
		out = append(out, xs[i])
	}
	return out
}
