// Package scenario is the quantitative companion to the teaching cascade:
// a 26-species Michaelis-Menten ODE model of plasma coagulation with rate
// constants from the clinical literature (Hockin 2002, Mann 2003, Butenas
// 1999, Weisel 2005). It produces thrombin-generation curves and summary
// metrics for a set of named clinical scenarios, for comparison against the
// qualitative simulation.
package scenario

// Species indexes the concentration vector.
type Species int

const (
	// Extrinsic pathway.
	SpeciesTF Species = iota
	SpeciesVII
	SpeciesTFVIIa
	// Contact pathway.
	SpeciesXII
	SpeciesXIIa
	SpeciesXI
	SpeciesXIa
	SpeciesIX
	SpeciesIXa
	// Tenase inputs and output.
	SpeciesVIII
	SpeciesVIIIa
	SpeciesX
	SpeciesXa
	// Prothrombinase inputs and output.
	SpeciesV
	SpeciesVa
	SpeciesII
	SpeciesIIa
	// Clot.
	SpeciesFbg
	SpeciesFibrin
	SpeciesXIII
	SpeciesXIIIa
	// Inhibitors.
	SpeciesAT
	SpeciesTFPI
	// Protein C system.
	SpeciesPC
	SpeciesAPC
	SpeciesPS

	speciesCount
)

var speciesNames = [speciesCount]string{
	"TF", "VII", "TF_VIIa",
	"XII", "XIIa", "XI", "XIa", "IX", "IXa",
	"VIII", "VIIIa", "X", "Xa",
	"V", "Va", "II", "IIa",
	"Fbg", "Fibrin", "XIII", "XIIIa",
	"AT", "TFPI", "PC", "APC", "PS",
}

func (sp Species) String() string {
	if sp < 0 || sp >= speciesCount {
		return "unknown"
	}
	return speciesNames[sp]
}

// SpeciesByName resolves a concentration label to its index.
func SpeciesByName(name string) (Species, bool) {
	for sp := Species(0); sp < speciesCount; sp++ {
		if speciesNames[sp] == name {
			return sp, true
		}
	}
	return 0, false
}

// AllSpecies returns every species in vector order.
func AllSpecies() []Species {
	out := make([]Species, 0, speciesCount)
	for sp := Species(0); sp < speciesCount; sp++ {
		out = append(out, sp)
	}
	return out
}

// Concentrations is one point of the state vector, in nM.
type Concentrations [speciesCount]float64

// InitialConcentrations returns physiological plasma levels. Tissue factor
// starts at zero and is added as the trigger.
func InitialConcentrations() Concentrations {
	var c Concentrations
	c[SpeciesVII] = 10.0
	c[SpeciesXII] = 375.0
	c[SpeciesXI] = 30.0
	c[SpeciesIX] = 90.0
	c[SpeciesVIII] = 0.7
	c[SpeciesX] = 170.0
	c[SpeciesV] = 20.0
	c[SpeciesII] = 1400.0
	c[SpeciesFbg] = 9000.0
	c[SpeciesXIII] = 70.0
	c[SpeciesAT] = 3400.0
	c[SpeciesTFPI] = 2.5
	c[SpeciesPC] = 65.0
	c[SpeciesPS] = 300.0
	return c
}

// RateConstants holds the kinetic parameters, in s⁻¹ or nM⁻¹·s⁻¹. Values
// are scaled for numerical stability.
type RateConstants struct {
	// TF-VIIa complex formation.
	TFVIIaOn  float64
	TFVIIaOff float64

	// TF-VIIa activates X and IX (initiation; the IX path is the Josso
	// loop).
	TFVIIaX  float64
	TFVIIaIX float64

	// Contact activation.
	XIIAuto float64
	XIIaXI  float64
	XIaIX   float64

	// Tenase (IXa + VIIIa), 50-100x more efficient than TF-VIIa.
	TenaseX  float64
	KmTenase float64

	// Prothrombinase (Xa + Va).
	PtaseII float64
	KmPtase float64

	// Thrombin substrates. The V and VIII feedbacks are what turn the
	// trace into a burst.
	IIaFbg   float64
	KmIIaFbg float64
	IIaXIII  float64
	IIaV     float64
	IIaVIII  float64
	IIaXI    float64

	// Xa activates V and VIII directly, slower than IIa.
	XaV    float64
	XaVIII float64

	// Basal II → IIa by Xa alone, without Va.
	XaIIBasal float64

	// Stoichiometric inhibitors.
	ATIIa      float64
	ATXa       float64
	ATIXa      float64
	ATXIa      float64
	TFPIXa     float64
	TFPITFVIIa float64

	// Protein C system (thrombomodulin folded into IIaPC).
	IIaPC    float64
	APCVa    float64
	APCVIIIa float64
}

// DefaultRateConstants returns the literature parameter set.
func DefaultRateConstants() RateConstants {
	return RateConstants{
		TFVIIaOn:  1e-2,
		TFVIIaOff: 1e-4,

		TFVIIaX:  5e-4,
		TFVIIaIX: 1e-4,

		XIIAuto: 1e-5,
		XIIaXI:  5e-4,
		XIaIX:   1e-3,

		TenaseX:  1.0,
		KmTenase: 160.0,

		PtaseII: 10.0,
		KmPtase: 210.0,

		IIaFbg:   0.1,
		KmIIaFbg: 7200.0,
		IIaXIII:  0.05,
		IIaV:     0.5,
		IIaVIII:  1.0,
		IIaXI:    0.01,

		XaV:    0.01,
		XaVIII: 0.005,

		XaIIBasal: 1e-4,

		ATIIa:      1e-4,
		ATXa:       5e-5,
		ATIXa:      1e-5,
		ATXIa:      5e-6,
		TFPIXa:     1e-4,
		TFPITFVIIa: 5e-4,

		IIaPC:    1e-4,
		APCVa:    5e-3,
		APCVIIIa: 1e-2,
	}
}

// Params are the drug-action modifiers a scenario applies on top of the
// rate constants.
type Params struct {
	// ATFactor multiplies all antithrombin rates. Unfractionated heparin
	// runs at 100.
	ATFactor float64 `json:"at_factor"`

	// XaInhibition scales effective Xa activity. Direct anti-Xa DOACs
	// run at 0.05-0.1.
	XaInhibition float64 `json:"xa_inhibition"`

	// IIaInhibition scales effective thrombin activity. Dabigatran runs
	// at 0.05.
	IIaInhibition float64 `json:"iia_inhibition"`
}

// DefaultParams returns the no-drug modifiers.
func DefaultParams() Params {
	return Params{ATFactor: 1, XaInhibition: 1, IIaInhibition: 1}
}

// derivatives evaluates dy/dt at one state point. Negative concentrations
// are clamped to zero before any rate is formed, so the integrator can
// overshoot slightly without poisoning the next step.
func derivatives(y Concentrations, k RateConstants, p Params) Concentrations {
	for i := range y {
		if y[i] < 0 {
			y[i] = 0
		}
	}

	tf := y[SpeciesTF]
	vii := y[SpeciesVII]
	tfviia := y[SpeciesTFVIIa]
	xii := y[SpeciesXII]
	xiia := y[SpeciesXIIa]
	xi := y[SpeciesXI]
	xia := y[SpeciesXIa]
	ix := y[SpeciesIX]
	ixa := y[SpeciesIXa]
	viii := y[SpeciesVIII]
	viiia := y[SpeciesVIIIa]
	x := y[SpeciesX]
	xa := y[SpeciesXa]
	v := y[SpeciesV]
	va := y[SpeciesVa]
	ii := y[SpeciesII]
	iia := y[SpeciesIIa]
	fbg := y[SpeciesFbg]
	xiii := y[SpeciesXIII]
	at := y[SpeciesAT]
	tfpi := y[SpeciesTFPI]
	pc := y[SpeciesPC]
	apc := y[SpeciesAPC]

	// Complex formation and initiation.
	rTFVIIaForm := k.TFVIIaOn * tf * vii
	rTFVIIaDiss := k.TFVIIaOff * tfviia
	rTFVIIaX := k.TFVIIaX * tfviia * x
	rTFVIIaIX := k.TFVIIaIX * tfviia * ix

	// Contact activation.
	rXIIAuto := k.XIIAuto * xii
	rXIIaXI := k.XIIaXI * xiia * xi
	rXIaIX := k.XIaIX * xia * ix

	// Tenase, Michaelis-Menten in X with VIIIa as saturating cofactor.
	tenaseActivity := ixa * viiia / (1 + viiia)
	rTenaseX := k.TenaseX * tenaseActivity * x / (k.KmTenase + x)

	// Prothrombinase, Michaelis-Menten in II. Anti-Xa drugs scale the
	// effective enzyme, not the pool.
	xaEff := xa * p.XaInhibition
	ptaseActivity := xaEff * va / (1 + va)
	rPtaseII := k.PtaseII * ptaseActivity * ii / (k.KmPtase + ii)

	// Thrombin substrates, through the effective (drug-scaled) activity.
	iiaEff := iia * p.IIaInhibition
	rIIaFbg := k.IIaFbg * iiaEff * fbg / (k.KmIIaFbg + fbg)
	rIIaXIII := k.IIaXIII * iiaEff * xiii
	rIIaV := k.IIaV * iiaEff * v
	rIIaVIII := k.IIaVIII * iiaEff * viii
	rIIaXI := k.IIaXI * iiaEff * xi

	rXaV := k.XaV * xa * v
	rXaVIII := k.XaVIII * xa * viii
	rXaIIBasal := k.XaIIBasal * xa * ii

	// Inhibition. TFPI quenching of TF-VIIa needs Xa present.
	rATIIa := k.ATIIa * at * iia * p.ATFactor
	rATXa := k.ATXa * at * xa * p.ATFactor
	rATIXa := k.ATIXa * at * ixa * p.ATFactor
	rATXIa := k.ATXIa * at * xia * p.ATFactor
	rTFPIXa := k.TFPIXa * tfpi * xa
	rTFPITFVIIa := k.TFPITFVIIa * tfpi * tfviia * xa

	// Protein C, thrombomodulin implicit.
	rIIaPC := k.IIaPC * iia * pc
	rAPCVa := k.APCVa * apc * va
	rAPCVIIIa := k.APCVIIIa * apc * viiia

	var d Concentrations
	d[SpeciesTF] = -rTFVIIaForm + rTFVIIaDiss
	d[SpeciesVII] = -rTFVIIaForm + rTFVIIaDiss
	d[SpeciesTFVIIa] = rTFVIIaForm - rTFVIIaDiss - rTFPITFVIIa

	d[SpeciesXII] = -rXIIAuto
	d[SpeciesXIIa] = rXIIAuto

	d[SpeciesXI] = -rXIIaXI - rIIaXI
	d[SpeciesXIa] = rXIIaXI + rIIaXI - rATXIa

	d[SpeciesIX] = -rTFVIIaIX - rXIaIX
	d[SpeciesIXa] = rTFVIIaIX + rXIaIX - rATIXa

	d[SpeciesVIII] = -rIIaVIII - rXaVIII
	d[SpeciesVIIIa] = rIIaVIII + rXaVIII - rAPCVIIIa

	d[SpeciesX] = -rTFVIIaX - rTenaseX
	d[SpeciesXa] = rTFVIIaX + rTenaseX - rATXa - rTFPIXa

	d[SpeciesV] = -rIIaV - rXaV
	d[SpeciesVa] = rIIaV + rXaV - rAPCVa

	d[SpeciesII] = -rPtaseII - rXaIIBasal
	d[SpeciesIIa] = rPtaseII + rXaIIBasal - rATIIa

	d[SpeciesFbg] = -rIIaFbg
	d[SpeciesFibrin] = rIIaFbg

	d[SpeciesXIII] = -rIIaXIII
	d[SpeciesXIIIa] = rIIaXIII

	d[SpeciesAT] = -(rATIIa + rATXa + rATIXa + rATXIa)
	d[SpeciesTFPI] = -rTFPIXa - rTFPITFVIIa

	d[SpeciesPC] = -rIIaPC
	d[SpeciesAPC] = rIIaPC

	return d
}
